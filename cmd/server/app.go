package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/overload-api/internal/config"
	"github.com/phrazzld/overload-api/internal/domain/progression"
	"github.com/phrazzld/overload-api/internal/platform/postgres"
	"github.com/phrazzld/overload-api/internal/platform/sqlite"
	"github.com/phrazzld/overload-api/internal/service"
	"github.com/phrazzld/overload-api/internal/service/auth"
	"github.com/phrazzld/overload-api/internal/store"
)

// application holds the shared dependencies of the server so they can be
// wired once and released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	progressStore store.ProgressStore
	sessionStore  store.WorkoutSessionStore

	jwtService      auth.JWTService
	userService     service.UserService
	progressService service.ProgressService
	workoutService  service.WorkoutService
}

// newApplication wires stores and services for the configured driver on top
// of an already opened database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost)
		app.progressStore = postgres.NewPostgresProgressStore(db, logger)
		app.sessionStore = postgres.NewPostgresWorkoutSessionStore(db, logger)
	case config.DriverSQLite:
		app.userStore = sqlite.NewUserStore(db, cfg.Auth.BcryptCost)
		app.progressStore = sqlite.NewProgressStore(db, logger)
		app.sessionStore = sqlite.NewWorkoutSessionStore(db, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	engine := progression.NewEngineWithParams(progression.Params{
		RejectCompletedReplay: cfg.Progression.RejectCompletedReplay,
	})

	app.userService = service.NewUserService(db, app.userStore, auth.NewBcryptVerifier(), logger)
	app.progressService = service.NewProgressService(db, app.progressStore, app.sessionStore, engine, logger)
	app.workoutService = service.NewWorkoutService(db, app.progressStore, app.sessionStore, engine, logger)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down and releases
// resources.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
