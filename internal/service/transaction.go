package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/overload-api/internal/domain/progression"
	"github.com/phrazzld/overload-api/internal/store"
)

// runWithConflictRetry runs fn in a transaction and, when it loses a progress
// creation race, once more in a fresh transaction. The retry sees the winning
// row and resolves to it.
func runWithConflictRetry(
	ctx context.Context,
	db *sql.DB,
	log *slog.Logger,
	fn store.TxFn,
) error {
	err := store.RunInTransaction(ctx, db, fn)
	if !errors.Is(err, progression.ErrDuplicateProgress) {
		return err
	}

	log.Info("progress creation lost a concurrent insert, retrying",
		slog.String("error", err.Error()))
	return store.RunInTransaction(ctx, db, fn)
}
