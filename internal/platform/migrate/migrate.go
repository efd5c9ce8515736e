package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/config"
	"github.com/phrazzld/overload-api/internal/platform/postgres"
	"github.com/phrazzld/overload-api/internal/platform/sqlite"
	"github.com/pressly/goose/v3"
)

// Supported commands.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// ErrUnknownCommand is returned by Run for a command it does not support.
var ErrUnknownCommand = errors.New("unknown migration command")

// MigrationStatus describes one migration file and whether it is applied.
type MigrationStatus struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

// Migrator runs the embedded migrations for one database driver.
type Migrator struct {
	provider *goose.Provider
	logger   *slog.Logger
}

// New creates a Migrator for db using the migrations of driver, which must
// be config.DriverPostgres or config.DriverSQLite. With verbose set, goose's
// own progress messages are logged as well.
func New(db *sql.DB, driver string, verbose bool, logger *slog.Logger) (*Migrator, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(
		slog.String("component", "migrations"),
		slog.String("driver", driver),
	)

	dialect, fsys, err := source(driver)
	if err != nil {
		return nil, err
	}

	provider, err := goose.NewProvider(
		dialect,
		db,
		fsys,
		goose.WithLogger(&slogGooseLogger{logger: logger}),
		goose.WithVerbose(verbose),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Migrator{provider: provider, logger: logger}, nil
}

func source(driver string) (goose.Dialect, fs.FS, error) {
	switch driver {
	case config.DriverPostgres:
		fsys, err := fs.Sub(postgres.Migrations, postgres.MigrationsDir)
		return goose.DialectPostgres, fsys, err
	case config.DriverSQLite:
		fsys, err := fs.Sub(sqlite.Migrations, sqlite.MigrationsDir)
		return goose.DialectSQLite3, fsys, err
	default:
		return "", nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)
	m.logResults(results)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	if len(results) == 0 {
		m.logger.Info("no pending migrations")
	}
	return nil
}

// Down rolls back the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) error {
	result, err := m.provider.Down(ctx)
	if result != nil {
		m.logResults([]*goose.MigrationResult{result})
	}
	if err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Status reports every known migration in version order.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	out := make([]MigrationStatus, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, MigrationStatus{
			Version:   st.Source.Version,
			Path:      st.Source.Path,
			Applied:   st.State == goose.StateApplied,
			AppliedAt: st.AppliedAt,
		})
	}
	return out, nil
}

// Version returns the highest applied migration version, or 0 for an empty
// database.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func (m *Migrator) logResults(results []*goose.MigrationResult) {
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		attrs := []any{
			slog.Int64("version", r.Source.Version),
			slog.String("path", r.Source.Path),
			slog.String("direction", r.Direction),
			slog.Int64("duration_ms", r.Duration.Milliseconds()),
		}
		if r.Error != nil {
			m.logger.Error("migration failed",
				append(attrs, slog.String("error", r.Error.Error()))...)
			continue
		}
		m.logger.Info("migration applied", attrs...)
	}
}

// Run executes command against db, logging the whole operation under one
// correlation ID.
func Run(
	ctx context.Context,
	db *sql.DB,
	driver, command string,
	verbose bool,
	logger *slog.Logger,
) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(
		slog.String("correlation_id", uuid.New().String()),
		slog.String("command", command),
	)

	start := time.Now()
	logger.Info("starting migration operation",
		slog.String("operation", "goose "+command),
		slog.Bool("verbose", verbose))

	m, err := New(db, driver, verbose, logger)
	if err != nil {
		return err
	}

	switch command {
	case CommandUp:
		err = m.Up(ctx)
	case CommandDown:
		err = m.Down(ctx)
	case CommandStatus:
		var statuses []MigrationStatus
		statuses, err = m.Status(ctx)
		for _, st := range statuses {
			m.logger.Info("migration status",
				slog.Int64("version", st.Version),
				slog.String("path", st.Path),
				slog.Bool("applied", st.Applied))
		}
	case CommandVersion:
		var version int64
		version, err = m.Version(ctx)
		if err == nil {
			m.logger.Info("current schema version", slog.Int64("version", version))
		}
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}

	logger.Info("migration operation completed",
		slog.String("operation", "goose "+command),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		slog.Bool("success", err == nil))
	return err
}
