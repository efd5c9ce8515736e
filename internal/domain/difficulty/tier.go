package difficulty

import "fmt"

// Tier is a difficulty level that bounds a valid rep-per-set range.
type Tier string

const (
	// TierBeginner covers 1 to 5 reps per set.
	TierBeginner Tier = "beginner"
	// TierIntermediate covers 6 to 12 reps per set.
	TierIntermediate Tier = "intermediate"
	// TierAdvanced covers 13 to 30 reps per set.
	TierAdvanced Tier = "advanced"
)

// Tiers lists every tier in ascending order.
var Tiers = []Tier{TierBeginner, TierIntermediate, TierAdvanced}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierBeginner, TierIntermediate, TierAdvanced:
		return true
	}
	return false
}

// Next returns the tier above t and false when t is already the highest tier.
func (t Tier) Next() (Tier, bool) {
	switch t {
	case TierBeginner:
		return TierIntermediate, true
	case TierIntermediate:
		return TierAdvanced, true
	}
	return t, false
}

func (t Tier) String() string {
	return string(t)
}

// ParseTier converts a raw string into a Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return t, nil
}
