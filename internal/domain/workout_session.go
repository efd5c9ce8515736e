package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain/difficulty"
)

// MaxNotesLength bounds the notes a user may attach to a session.
const MaxNotesLength = 500

// Completion is the tri-state outcome of a workout session.
type Completion string

const (
	CompletionUndecided    Completion = "undecided"
	CompletionCompleted    Completion = "completed"
	CompletionNotCompleted Completion = "not_completed"
)

// Valid reports whether c is a known completion state.
func (c Completion) Valid() bool {
	switch c {
	case CompletionUndecided, CompletionCompleted, CompletionNotCompleted:
		return true
	}
	return false
}

// CompletionFromBool maps a completed flag onto a decided state.
func CompletionFromBool(completed bool) Completion {
	if completed {
		return CompletionCompleted
	}
	return CompletionNotCompleted
}

var (
	ErrEmptySessionID  = errors.New("session ID cannot be empty")
	ErrInvalidSnapshot = errors.New("session snapshot must have a known tier and at least 1 rep")
)

// WorkoutSession is a single logged attempt at an exercise. TierAtStart and
// RepsPerSetAtStart copy the progress record at creation and are never
// rewritten afterwards.
type WorkoutSession struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	Exercise          ExerciseKind    `json:"exercise"`
	TierAtStart       difficulty.Tier `json:"difficulty_at_start"`
	RepsPerSetAtStart int             `json:"reps_per_set_at_start"`
	Completion        Completion      `json:"completion"`
	Notes             string          `json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewWorkoutSession snapshots p into a new session with an undecided outcome.
func NewWorkoutSession(p *Progress, now time.Time) (*WorkoutSession, error) {
	s := &WorkoutSession{
		ID:                uuid.New(),
		UserID:            p.UserID,
		Exercise:          p.Exercise,
		TierAtStart:       p.Tier,
		RepsPerSetAtStart: p.RepsPerSet,
		Completion:        CompletionUndecided,
		CreatedAt:         now.UTC(),
		UpdatedAt:         now.UTC(),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the session fields.
func (s *WorkoutSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}
	if s.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if !s.Exercise.Valid() {
		return ErrInvalidExercise
	}
	if !s.TierAtStart.Valid() || s.RepsPerSetAtStart < 1 {
		return ErrInvalidSnapshot
	}
	if !s.Completion.Valid() {
		return ErrInvalidCompletion
	}
	return nil
}

// IsCompleted reports whether the session was recorded as completed.
func (s *WorkoutSession) IsCompleted() bool {
	return s.Completion == CompletionCompleted
}

// ValidateNotes checks user supplied notes against MaxNotesLength.
func ValidateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return NewValidationError("notes", "too long", ErrNotesTooLong)
	}
	return nil
}
