package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain/difficulty"
)

// Progress errors.
var (
	ErrEmptyProgressID = errors.New("progress ID cannot be empty")
	ErrEmptyUserID     = errors.New("user ID cannot be empty")
)

// Progress is a user's durable training state for one exercise: the current
// difficulty tier and the reps per set they are working at. There is at most
// one Progress per (user, exercise) pair.
//
// RepsPerSet always lies inside the range of Tier. Use SetReps or SetLevel to
// change either; both leave the record untouched on failure.
type Progress struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Exercise      ExerciseKind    `json:"exercise"`
	Tier          difficulty.Tier `json:"difficulty"`
	RepsPerSet    int             `json:"current_reps_per_set"`
	LastSuccessAt *time.Time      `json:"last_success_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewProgress creates a progress record seeded from a rep count. The tier is
// derived by classifying seedReps, and seedReps must lie inside that tier's
// range, so a seed above the top of the advanced range is rejected.
func NewProgress(
	userID uuid.UUID,
	exercise ExerciseKind,
	seedReps int,
	now time.Time,
) (*Progress, error) {
	tier, err := difficulty.Classify(seedReps)
	if err != nil {
		return nil, err
	}

	p := &Progress{
		ID:         uuid.New(),
		UserID:     userID,
		Exercise:   exercise,
		Tier:       tier,
		RepsPerSet: seedReps,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the record's fields and the tier/reps invariant.
func (p *Progress) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProgressID
	}
	if p.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if !p.Exercise.Valid() {
		return ErrInvalidExercise
	}
	return difficulty.Validate(p.Tier, p.RepsPerSet)
}

// SetReps assigns reps within the current tier.
func (p *Progress) SetReps(reps int) error {
	return p.SetLevel(p.Tier, reps)
}

// SetLevel assigns tier and reps together. The pair is checked before
// anything is written.
func (p *Progress) SetLevel(tier difficulty.Tier, reps int) error {
	if err := difficulty.Validate(tier, reps); err != nil {
		return err
	}
	p.Tier = tier
	p.RepsPerSet = reps
	return nil
}

// MarkSuccess stamps the time of the latest successful advance.
func (p *Progress) MarkSuccess(now time.Time) {
	at := now.UTC()
	p.LastSuccessAt = &at
	p.UpdatedAt = at
}
