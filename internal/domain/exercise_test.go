package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExerciseKind(t *testing.T) {
	t.Parallel()

	for _, e := range Exercises {
		got, err := ParseExerciseKind(string(e))
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}

	for _, raw := range []string{"", "bench_press", "Pull_Ups"} {
		_, err := ParseExerciseKind(raw)
		assert.ErrorIs(t, err, ErrInvalidExercise, raw)
	}
}
