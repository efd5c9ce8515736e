package difficulty

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	for reps := 1; reps <= 5; reps++ {
		tier, err := Classify(reps)
		require.NoError(t, err)
		assert.Equal(t, TierBeginner, tier, "reps=%d", reps)
	}
	for reps := 6; reps <= 12; reps++ {
		tier, err := Classify(reps)
		require.NoError(t, err)
		assert.Equal(t, TierIntermediate, tier, "reps=%d", reps)
	}
	for reps := 13; reps <= 30; reps++ {
		tier, err := Classify(reps)
		require.NoError(t, err)
		assert.Equal(t, TierAdvanced, tier, "reps=%d", reps)
	}
}

func TestClassifySaturatesAboveAdvanced(t *testing.T) {
	t.Parallel()

	for _, reps := range []int{31, 99, 1000} {
		tier, err := Classify(reps)
		require.NoError(t, err)
		assert.Equal(t, TierAdvanced, tier)
	}
}

func TestClassifyRejectsNonPositive(t *testing.T) {
	t.Parallel()

	for _, reps := range []int{0, -1, -30} {
		_, err := Classify(reps)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidRepCount))

		var repErr *RepCountError
		require.ErrorAs(t, err, &repErr)
		assert.Equal(t, reps, repErr.Reps)
		assert.Empty(t, repErr.Tier)
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	t.Parallel()

	for reps := 1; reps <= 30; reps++ {
		first, err := Classify(reps)
		require.NoError(t, err)
		second, err := Classify(reps)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.True(t, Contains(first, reps), "classified tier must contain reps=%d", reps)
	}
}

func TestRangesAreDisjointAndCover(t *testing.T) {
	t.Parallel()

	owner := make(map[int]Tier)
	for _, tier := range Tiers {
		low, high := RangeOf(tier)
		require.LessOrEqual(t, low, high)
		for reps := low; reps <= high; reps++ {
			prev, taken := owner[reps]
			assert.False(t, taken, "reps=%d claimed by %s and %s", reps, prev, tier)
			owner[reps] = tier
		}
	}

	for reps := 1; reps <= 30; reps++ {
		_, ok := owner[reps]
		assert.True(t, ok, "reps=%d not covered", reps)
	}
	assert.Len(t, owner, 30)
}

func TestStartingReps(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, StartingReps(TierBeginner))
	assert.Equal(t, 6, StartingReps(TierIntermediate))
	assert.Equal(t, 13, StartingReps(TierAdvanced))

	for _, tier := range Tiers {
		low, _ := RangeOf(tier)
		assert.Equal(t, low, StartingReps(tier))
	}
}

func TestPromote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tier     Tier
		reps     int
		want     Tier
		promoted bool
	}{
		{"beginner below threshold", TierBeginner, 5, TierBeginner, false},
		{"beginner at threshold", TierBeginner, 6, TierIntermediate, true},
		{"beginner past threshold", TierBeginner, 9, TierIntermediate, true},
		{"intermediate below threshold", TierIntermediate, 12, TierIntermediate, false},
		{"intermediate at threshold", TierIntermediate, 13, TierAdvanced, true},
		{"advanced never promotes", TierAdvanced, 13, TierAdvanced, false},
		{"advanced at cap", TierAdvanced, 30, TierAdvanced, false},
		{"advanced past cap", TierAdvanced, 500, TierAdvanced, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, promoted := Promote(tc.tier, tc.reps)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.promoted, promoted)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Validate(TierBeginner, 1))
	assert.NoError(t, Validate(TierBeginner, 5))
	assert.NoError(t, Validate(TierAdvanced, 30))

	err := Validate(TierBeginner, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRepCount)
	var repErr *RepCountError
	require.ErrorAs(t, err, &repErr)
	assert.Equal(t, TierBeginner, repErr.Tier)
	assert.Equal(t, 1, repErr.Low)
	assert.Equal(t, 5, repErr.High)
	assert.Contains(t, err.Error(), "outside the beginner range 1-5")

	assert.ErrorIs(t, Validate(TierAdvanced, 31), ErrInvalidRepCount)
	assert.ErrorIs(t, Validate(Tier("elite"), 10), ErrUnknownTier)
}
