package progression

import (
	"errors"

	"github.com/phrazzld/overload-api/internal/domain/difficulty"
)

var (
	// ErrProgressNotFound is returned when no progress record exists for the
	// requested (user, exercise) pair.
	ErrProgressNotFound = errors.New("progress not found")

	// ErrSessionNotFound is returned when a session identifier does not resolve.
	ErrSessionNotFound = errors.New("workout session not found")

	// ErrSessionNotOwned is returned when a session belongs to another user.
	ErrSessionNotOwned = errors.New("workout session is owned by another user")

	// ErrDuplicateProgress is returned when creating a progress record loses
	// the uniqueness race for its (user, exercise) pair. Re-fetching in a new
	// unit of work returns the winning record.
	ErrDuplicateProgress = errors.New("progress already exists")

	// ErrSessionAlreadyCompleted is returned when replay protection is on and
	// a completed session is recorded as completed again.
	ErrSessionAlreadyCompleted = errors.New("workout session already completed")

	// ErrInvalidRepCount is returned when a rep assignment falls outside the
	// current tier's range.
	ErrInvalidRepCount = difficulty.ErrInvalidRepCount

	// ErrNilUnitOfWork is returned when an operation is called without a unit of work.
	ErrNilUnitOfWork = errors.New("unit of work cannot be nil")
)
