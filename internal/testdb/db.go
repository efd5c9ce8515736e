package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/overload-api/internal/config"
	"github.com/phrazzld/overload-api/internal/platform/migrate"
	"github.com/phrazzld/overload-api/internal/platform/sqlite"
	"github.com/phrazzld/overload-api/internal/redact"
)

// TestTimeout bounds setup work done against a test database.
const TestTimeout = 5 * time.Second

// quietLogger discards migration output so test logs stay readable.
var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// OpenSQLite creates a fresh, fully migrated SQLite database for t. It is
// closed when the test finishes.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "overload-test.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite test database: %v", err)
	}
	t.Cleanup(func() { CleanupDB(t, db) })

	applyMigrations(ctx, t, db, config.DriverSQLite)
	return db
}

// GetTestDBWithT connects to the PostgreSQL test database and applies any
// pending migrations. The test is skipped when no database URL is set.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("OVERLOAD_TEST_DB_URL or DATABASE_URL not set - skipping integration test")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		t.Fatalf("failed to open test database %s: %v", redact.DatabaseURL(dbURL), err)
	}
	db.SetMaxOpenConns(5)
	t.Cleanup(func() { CleanupDB(t, db) })

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("failed to ping test database %s: %v", redact.DatabaseURL(dbURL), err)
	}

	applyMigrations(ctx, t, db, config.DriverPostgres)
	return db
}

func applyMigrations(ctx context.Context, t *testing.T, db *sql.DB, driver string) {
	t.Helper()
	m, err := migrate.New(db, driver, false, quietLogger)
	if err != nil {
		t.Fatalf("failed to create migrator: %v", err)
	}
	if err := m.Up(ctx); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
}

// CleanupDB closes db, reporting but not failing on errors.
func CleanupDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		t.Logf("warning: failed to close test database: %v", err)
	}
}

// WithTx runs fn inside a transaction that is always rolled back, so tests
// sharing one database do not see each other's writes.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	// The transaction lives as long as fn, so it is not bound to a timeout.
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("warning: failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
