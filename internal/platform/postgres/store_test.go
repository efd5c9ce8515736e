package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain"
	"github.com/phrazzld/overload-api/internal/domain/difficulty"
	"github.com/phrazzld/overload-api/internal/platform/postgres"
	"github.com/phrazzld/overload-api/internal/store"
	"github.com/phrazzld/overload-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var baseTime = time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC)

func mustInsertUser(t *testing.T, tx *sql.Tx) *domain.User {
	t.Helper()
	name := "u" + uuid.NewString()[:8]
	user, err := domain.NewUser(name, name+"@example.com", "correct-horse-battery")
	require.NoError(t, err)
	require.NoError(t,
		postgres.NewPostgresUserStore(tx, bcrypt.MinCost).Create(context.Background(), user))
	return user
}

func TestPostgresUserStore(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		users := postgres.NewPostgresUserStore(tx, bcrypt.MinCost)
		user := mustInsertUser(t, tx)
		assert.Empty(t, user.Password)

		got, err := users.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		require.NoError(t,
			bcrypt.CompareHashAndPassword([]byte(got.HashedPassword), []byte("correct-horse-battery")))

		got, err = users.GetByUsername(ctx, user.Username)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		assert.ErrorIs(t, users.Delete(ctx, uuid.New()), store.ErrUserNotFound)
		require.NoError(t, users.Delete(ctx, user.ID))

		// Last: a unique violation aborts the surrounding transaction.
		other := mustInsertUser(t, tx)
		dup, err := domain.NewUser("fresh"+other.Username, other.Email, "correct-horse-battery")
		require.NoError(t, err)
		assert.ErrorIs(t, users.Create(ctx, dup), store.ErrEmailExists)
	})
}

func TestPostgresProgressStore(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		user := mustInsertUser(t, tx)
		progress := postgres.NewPostgresProgressStore(tx, nil)

		p, err := domain.NewProgress(user.ID, domain.ExercisePushUps, 12, baseTime)
		require.NoError(t, err)
		require.NoError(t, progress.Create(ctx, p))

		locked, err := progress.GetForUpdate(ctx, user.ID, domain.ExercisePushUps)
		require.NoError(t, err)
		assert.Equal(t, difficulty.TierIntermediate, locked.Tier)

		require.NoError(t, locked.SetLevel(difficulty.TierAdvanced, 13))
		locked.MarkSuccess(baseTime.Add(time.Hour))
		require.NoError(t, progress.Update(ctx, locked))

		got, err := progress.Get(ctx, user.ID, domain.ExercisePushUps)
		require.NoError(t, err)
		assert.Equal(t, difficulty.TierAdvanced, got.Tier)
		assert.Equal(t, 13, got.RepsPerSet)
		require.NotNil(t, got.LastSuccessAt)

		list, err := progress.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		_, err = progress.Get(ctx, user.ID, domain.ExerciseSquat)
		assert.ErrorIs(t, err, store.ErrProgressNotFound)

		dup, err := domain.NewProgress(user.ID, domain.ExercisePushUps, 1, baseTime)
		require.NoError(t, err)
		assert.ErrorIs(t, progress.Create(ctx, dup), store.ErrProgressExists)
	})
}

func TestPostgresWorkoutSessionStore(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		user := mustInsertUser(t, tx)
		p, err := domain.NewProgress(user.ID, domain.ExerciseDeadlift, 3, baseTime)
		require.NoError(t, err)
		require.NoError(t, postgres.NewPostgresProgressStore(tx, nil).Create(ctx, p))

		sessions := postgres.NewPostgresWorkoutSessionStore(tx, nil)
		first, err := domain.NewWorkoutSession(p, baseTime)
		require.NoError(t, err)
		second, err := domain.NewWorkoutSession(p, baseTime.Add(time.Minute))
		require.NoError(t, err)
		require.NoError(t, sessions.Create(ctx, first))
		require.NoError(t, sessions.Create(ctx, second))

		first.Completion = domain.CompletionNotCompleted
		first.Notes = "grip gave out"
		require.NoError(t, sessions.Update(ctx, first))

		got, err := sessions.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.CompletionNotCompleted, got.Completion)
		assert.Equal(t, "grip gave out", got.Notes)

		filter := store.SessionFilter{UserID: user.ID}
		n, err := sessions.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		page, err := sessions.List(ctx, filter, 10, 0)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, second.ID, page[0].ID)

		last, err := sessions.Last(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, second.ID, last.ID)

		_, err = sessions.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrSessionNotFound)
	})
}
