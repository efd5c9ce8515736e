package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain"
	"github.com/phrazzld/overload-api/internal/domain/difficulty"
	"github.com/phrazzld/overload-api/internal/domain/progression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressServiceGetOrCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, progression.Params{})
	user := f.registerUser(t, "casey")

	created, err := f.progress.GetOrCreate(ctx, user.ID, domain.ExercisePushUps, 7)
	require.NoError(t, err)
	assert.Equal(t, progression.ProgressCreated, created.Outcome)
	assert.Equal(t, difficulty.TierIntermediate, created.Progress.Tier)
	assert.Equal(t, 7, created.Progress.RepsPerSet)

	found, err := f.progress.GetOrCreate(ctx, user.ID, domain.ExercisePushUps, 2)
	require.NoError(t, err)
	assert.Equal(t, progression.ProgressFound, found.Outcome)
	assert.Equal(t, created.Progress.ID, found.Progress.ID)
	assert.Equal(t, 7, found.Progress.RepsPerSet, "seed is ignored for existing records")

	t.Run("rejects seeds outside every tier", func(t *testing.T) {
		for _, seed := range []int{0, -3, 31} {
			_, err := f.progress.GetOrCreate(ctx, user.ID, domain.ExerciseSquat, seed)
			assert.ErrorIs(t, err, difficulty.ErrInvalidRepCount, "seed %d", seed)
		}
		_, err := f.progress.Get(ctx, user.ID, domain.ExerciseSquat)
		assert.ErrorIs(t, err, progression.ErrProgressNotFound)
	})
}

func TestProgressServiceRetriesLostCreationRace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("one conflict resolves on retry", func(t *testing.T) {
		t.Parallel()

		engine := &conflictingEngine{Engine: progression.NewDefaultEngine(), conflicts: 1}
		f := newFixtureWithEngine(t, engine)
		user := f.registerUser(t, "riley")

		result, err := f.progress.GetOrCreate(ctx, user.ID, domain.ExerciseDeadlift, 3)
		require.NoError(t, err)
		assert.Equal(t, progression.ProgressCreated, result.Outcome)
		assert.Equal(t, 2, engine.calls)
		assert.Contains(t, f.logs.String(), "lost a concurrent insert")
	})

	t.Run("second conflict is returned", func(t *testing.T) {
		t.Parallel()

		engine := &conflictingEngine{Engine: progression.NewDefaultEngine(), conflicts: 2}
		f := newFixtureWithEngine(t, engine)
		user := f.registerUser(t, "jordan")

		result, err := f.progress.GetOrCreate(ctx, user.ID, domain.ExerciseDeadlift, 3)
		require.Error(t, err)
		assert.ErrorIs(t, err, progression.ErrDuplicateProgress)
		assert.Equal(t, progression.ProgressConflict, result.Outcome)
		assert.Equal(t, 2, engine.calls)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "get_or_create_progress", svcErr.Operation)
	})
}

func TestProgressServiceGetAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, progression.Params{})
	user := f.registerUser(t, "morgan")
	other := f.registerUser(t, "avery")

	for _, ex := range []domain.ExerciseKind{domain.ExerciseSquat, domain.ExercisePullUps} {
		_, err := f.progress.GetOrCreate(ctx, user.ID, ex, 4)
		require.NoError(t, err)
	}
	_, err := f.progress.GetOrCreate(ctx, other.ID, domain.ExerciseSquat, 9)
	require.NoError(t, err)

	records, err := f.progress.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.ExercisePullUps, records[0].Exercise)
	assert.Equal(t, domain.ExerciseSquat, records[1].Exercise)

	p, err := f.progress.Get(ctx, other.ID, domain.ExerciseSquat)
	require.NoError(t, err)
	assert.Equal(t, 9, p.RepsPerSet)

	_, err = f.progress.Get(ctx, other.ID, domain.ExercisePullUps)
	assert.ErrorIs(t, err, progression.ErrProgressNotFound)

	empty, err := f.progress.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProgressServiceAdjust(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name      string
		seed      int
		tier      *difficulty.Tier
		reps      *int
		wantTier  difficulty.Tier
		wantReps  int
		wantErrIs error
	}{
		{
			name:     "reps within current tier",
			seed:     2,
			reps:     ptr(4),
			wantTier: difficulty.TierBeginner,
			wantReps: 4,
		},
		{
			name:     "tier alone resets to starting reps",
			seed:     2,
			tier:     ptr(difficulty.TierAdvanced),
			wantTier: difficulty.TierAdvanced,
			wantReps: 13,
		},
		{
			name:     "tier and reps together",
			seed:     10,
			tier:     ptr(difficulty.TierBeginner),
			reps:     ptr(3),
			wantTier: difficulty.TierBeginner,
			wantReps: 3,
		},
		{
			name:      "reps outside current tier",
			seed:      2,
			reps:      ptr(8),
			wantTier:  difficulty.TierBeginner,
			wantReps:  2,
			wantErrIs: difficulty.ErrInvalidRepCount,
		},
		{
			name:      "reps outside requested tier",
			seed:      8,
			tier:      ptr(difficulty.TierAdvanced),
			reps:      ptr(31),
			wantTier:  difficulty.TierIntermediate,
			wantReps:  8,
			wantErrIs: difficulty.ErrInvalidRepCount,
		},
		{
			name:      "nothing to adjust",
			seed:      2,
			wantTier:  difficulty.TierBeginner,
			wantReps:  2,
			wantErrIs: domain.ErrValidation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, progression.Params{})
			user := f.registerUser(t, "sam")
			_, err := f.progress.GetOrCreate(ctx, user.ID, domain.ExercisePullUps, tc.seed)
			require.NoError(t, err)

			adjusted, err := f.progress.Adjust(ctx, user.ID, domain.ExercisePullUps, tc.tier, tc.reps)
			if tc.wantErrIs != nil {
				assert.ErrorIs(t, err, tc.wantErrIs)
				assert.Nil(t, adjusted)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.wantTier, adjusted.Tier)
				assert.Equal(t, tc.wantReps, adjusted.RepsPerSet)
			}

			stored, err := f.progress.Get(ctx, user.ID, domain.ExercisePullUps)
			require.NoError(t, err)
			assert.Equal(t, tc.wantTier, stored.Tier)
			assert.Equal(t, tc.wantReps, stored.RepsPerSet)
		})
	}

	t.Run("missing record", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, progression.Params{})
		user := f.registerUser(t, "drew")

		_, err := f.progress.Adjust(ctx, user.ID, domain.ExerciseSquat, nil, ptr(3))
		assert.ErrorIs(t, err, progression.ErrProgressNotFound)
	})
}
