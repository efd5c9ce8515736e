package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/overload-api/internal/config"
	"github.com/phrazzld/overload-api/internal/platform/sqlite"
	"github.com/phrazzld/overload-api/internal/redact"
)

const pingTimeout = 5 * time.Second

// openDatabase connects to the configured backend and verifies the
// connection.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		logger.Info("database connection established",
			slog.String("driver", cfg.Driver),
			slog.String("path", cfg.URL))
		return db, nil

	case config.DriverPostgres:
		db, err := sql.Open("pgx", cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database connection: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database %s: %w", redact.DatabaseURL(cfg.URL), err)
		}
		logger.Info("database connection established",
			slog.String("driver", cfg.Driver),
			slog.String("url", redact.DatabaseURL(cfg.URL)))
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
