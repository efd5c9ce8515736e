package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/overload-api/internal/api/shared"
	"github.com/phrazzld/overload-api/internal/platform/logger"
)

// NewTraceMiddleware assigns every request a trace ID and stores a logger
// derived from base and tagged with it in the request context. Apply it
// before any middleware or handler that logs.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			ctx = logger.WithLogger(ctx, base)
			ctx = logger.WithTraceID(ctx, shared.GetTraceID(ctx))

			logger.FromContext(ctx).Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
