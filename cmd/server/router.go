package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/overload-api/internal/api"
	apiMiddleware "github.com/phrazzld/overload-api/internal/api/middleware"
)

// setupRouter builds the chi router with every route of the API.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	progressHandler := api.NewProgressHandler(app.progressService, app.logger)
	sessionHandler := api.NewSessionHandler(app.workoutService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/progress", func(r chi.Router) {
				r.Get("/", progressHandler.List)
				r.Post("/", progressHandler.GetOrCreate)
				r.Get("/{exercise}", progressHandler.Get)
				r.Patch("/{exercise}", progressHandler.Adjust)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", sessionHandler.List)
				r.Post("/", sessionHandler.Start)
				// Static segments must win over /{id}.
				r.Get("/last", sessionHandler.Last)
				r.Post("/create", sessionHandler.CreateProgressAndSession)
				r.Get("/{id}", sessionHandler.Get)
				r.Patch("/{id}", sessionHandler.Update)
				r.Post("/{id}/finish", sessionHandler.Finish)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
