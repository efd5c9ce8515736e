package difficulty

// bounds is the inclusive rep range of one tier.
type bounds struct {
	low  int
	high int
}

var table = map[Tier]bounds{
	TierBeginner:     {low: 1, high: 5},
	TierIntermediate: {low: 6, high: 12},
	TierAdvanced:     {low: 13, high: 30},
}

// RangeOf returns the inclusive rep range of tier. Unknown tiers yield (0, 0).
func RangeOf(tier Tier) (low, high int) {
	b := table[tier]
	return b.low, b.high
}

// StartingReps returns the rep count a record holds on entering tier.
func StartingReps(tier Tier) int {
	return table[tier].low
}

// Contains reports whether reps lies inside the range of tier.
func Contains(tier Tier, reps int) bool {
	b, ok := table[tier]
	return ok && reps >= b.low && reps <= b.high
}

// Classify maps a rep count to its tier. Classification saturates at
// TierAdvanced and does not check the upper bound of that range. Counts
// below 1 are rejected.
func Classify(reps int) (Tier, error) {
	switch {
	case reps <= 0:
		return "", &RepCountError{Reps: reps}
	case reps <= table[TierBeginner].high:
		return TierBeginner, nil
	case reps <= table[TierIntermediate].high:
		return TierIntermediate, nil
	default:
		return TierAdvanced, nil
	}
}

// Promote reports the tier reached once a record in tier accumulates reps.
// The boolean is true only when reps has crossed the upper bound of tier and a
// higher tier exists.
func Promote(tier Tier, reps int) (Tier, bool) {
	next, ok := tier.Next()
	if !ok {
		return tier, false
	}
	if reps >= StartingReps(next) {
		return next, true
	}
	return tier, false
}

// Validate returns a *RepCountError when reps is outside the range of tier.
func Validate(tier Tier, reps int) error {
	if !tier.Valid() {
		return ErrUnknownTier
	}
	if !Contains(tier, reps) {
		low, high := RangeOf(tier)
		return &RepCountError{Tier: tier, Reps: reps, Low: low, High: high}
	}
	return nil
}
