package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain"
)

// ProgressStore persists per-exercise progress records.
type ProgressStore interface {
	// Create inserts a new record. Returns ErrProgressExists when the user
	// already has progress for the exercise.
	Create(ctx context.Context, progress *domain.Progress) error

	// Get returns ErrProgressNotFound when the pair has no record.
	Get(ctx context.Context, userID uuid.UUID, exercise domain.ExerciseKind) (*domain.Progress, error)

	// GetForUpdate behaves like Get and additionally locks the row until the
	// surrounding transaction ends, where the backend supports row locks.
	GetForUpdate(
		ctx context.Context,
		userID uuid.UUID,
		exercise domain.ExerciseKind,
	) (*domain.Progress, error)

	// Update writes tier, reps and timestamps back. Returns
	// ErrProgressNotFound if the record is gone.
	Update(ctx context.Context, progress *domain.Progress) error

	// ListByUser returns all progress of a user ordered by exercise.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error)

	// WithTx returns a ProgressStore bound to tx.
	WithTx(tx *sql.Tx) ProgressStore
}
