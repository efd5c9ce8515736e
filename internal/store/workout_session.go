package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain"
)

// SessionFilter narrows session queries to one user and optionally one exercise.
type SessionFilter struct {
	UserID   uuid.UUID
	Exercise *domain.ExerciseKind
}

// WorkoutSessionStore persists workout sessions.
type WorkoutSessionStore interface {
	Create(ctx context.Context, session *domain.WorkoutSession) error

	// GetByID returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutSession, error)

	// Update writes completion, notes and updated_at. The snapshot columns
	// are never rewritten. Returns ErrSessionNotFound if the session is gone.
	Update(ctx context.Context, session *domain.WorkoutSession) error

	// List returns sessions matching filter, newest first.
	List(ctx context.Context, filter SessionFilter, limit, offset int) ([]*domain.WorkoutSession, error)

	// Count returns how many sessions match filter.
	Count(ctx context.Context, filter SessionFilter) (int, error)

	// Last returns the newest session matching filter, or ErrSessionNotFound.
	Last(ctx context.Context, filter SessionFilter) (*domain.WorkoutSession, error)

	// WithTx returns a WorkoutSessionStore bound to tx.
	WithTx(tx *sql.Tx) WorkoutSessionStore
}
