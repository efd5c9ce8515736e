package progression

import "github.com/phrazzld/overload-api/internal/domain"

// CreateOutcome tells how GetOrCreateProgress resolved.
type CreateOutcome int

const (
	// ProgressCreated means a new record was inserted.
	ProgressCreated CreateOutcome = iota + 1
	// ProgressFound means an existing record was returned unchanged.
	ProgressFound
	// ProgressConflict means a concurrent insert won the uniqueness race.
	ProgressConflict
)

func (o CreateOutcome) String() string {
	switch o {
	case ProgressCreated:
		return "created"
	case ProgressFound:
		return "found"
	case ProgressConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// ProgressResult is the result of GetOrCreateProgress. Progress is nil when
// Outcome is ProgressConflict.
type ProgressResult struct {
	Progress *domain.Progress
	Outcome  CreateOutcome
}

// SessionOutcome is the result of recording a session outcome. Progress is
// nil when the session was not completed, since progress is left untouched.
type SessionOutcome struct {
	Session  *domain.WorkoutSession
	Progress *domain.Progress
	Promoted bool
}
