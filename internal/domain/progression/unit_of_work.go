package progression

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain"
)

// UnitOfWork is the persistence handle one engine operation runs against.
// Implementations are bound to a single transaction; every write becomes
// visible only when the caller commits it.
type UnitOfWork interface {
	// FindProgress returns nil and no error when the pair has no record.
	FindProgress(
		ctx context.Context,
		userID uuid.UUID,
		exercise domain.ExerciseKind,
	) (*domain.Progress, error)

	// InsertProgress returns an error matching ErrDuplicateProgress when the
	// (user, exercise) pair already has a record.
	InsertProgress(ctx context.Context, progress *domain.Progress) error

	SaveProgress(ctx context.Context, progress *domain.Progress) error

	// FindSession returns nil and no error when the session does not exist.
	FindSession(ctx context.Context, id uuid.UUID) (*domain.WorkoutSession, error)

	InsertSession(ctx context.Context, session *domain.WorkoutSession) error

	SaveSession(ctx context.Context, session *domain.WorkoutSession) error
}
