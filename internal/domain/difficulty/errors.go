package difficulty

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRepCount is returned when a rep count falls outside the range
	// allowed for its tier, or is not positive at all.
	ErrInvalidRepCount = errors.New("invalid rep count")

	// ErrUnknownTier is returned when a tier value is not one of the known tiers.
	ErrUnknownTier = errors.New("unknown difficulty tier")
)

// RepCountError describes a rejected rep count. It matches ErrInvalidRepCount
// with errors.Is.
type RepCountError struct {
	Tier Tier // empty when no tier applies, e.g. classification of reps <= 0
	Reps int
	Low  int
	High int
}

// Error implements the error interface.
func (e *RepCountError) Error() string {
	if e.Tier == "" {
		return fmt.Sprintf("%s: %d is not a positive rep count", ErrInvalidRepCount, e.Reps)
	}
	return fmt.Sprintf(
		"%s: %d is outside the %s range %d-%d",
		ErrInvalidRepCount,
		e.Reps,
		e.Tier,
		e.Low,
		e.High,
	)
}

// Unwrap returns ErrInvalidRepCount.
func (e *RepCountError) Unwrap() error {
	return ErrInvalidRepCount
}
