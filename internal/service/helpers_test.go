package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain"
	"github.com/phrazzld/overload-api/internal/domain/progression"
	"github.com/phrazzld/overload-api/internal/platform/logger"
	"github.com/phrazzld/overload-api/internal/platform/sqlite"
	"github.com/phrazzld/overload-api/internal/service/auth"
	"github.com/phrazzld/overload-api/internal/testdb"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// tickingClock returns a strictly increasing time on every call.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{now: time.Date(2026, 5, 4, 6, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	db       *sql.DB
	users    UserService
	progress ProgressService
	workouts WorkoutService
	logs     *logger.Buffer
}

func newFixture(t *testing.T, params progression.Params) *fixture {
	t.Helper()
	if params.Now == nil {
		params.Now = newTickingClock().Now
	}
	return newFixtureWithEngine(t, progression.NewEngineWithParams(params))
}

func newFixtureWithEngine(t *testing.T, engine progression.Engine) *fixture {
	t.Helper()

	db := testdb.OpenSQLite(t)
	log, buf := logger.NewCapture()

	userStore := sqlite.NewUserStore(db, bcrypt.MinCost)
	progressStore := sqlite.NewProgressStore(db, log)
	sessionStore := sqlite.NewWorkoutSessionStore(db, log)

	return &fixture{
		db:       db,
		users:    NewUserService(db, userStore, auth.NewBcryptVerifier(), log),
		progress: NewProgressService(db, progressStore, sessionStore, engine, log),
		workouts: NewWorkoutService(db, progressStore, sessionStore, engine, log),
		logs:     buf,
	}
}

func (f *fixture) registerUser(t *testing.T, name string) *domain.User {
	t.Helper()
	user, err := f.users.Register(context.Background(), name, name+"@example.com", "correct-horse-battery")
	require.NoError(t, err)
	return user
}

// conflictingEngine reports a lost creation race for the first n calls of
// GetOrCreateProgress and delegates afterwards.
type conflictingEngine struct {
	progression.Engine

	mu        sync.Mutex
	conflicts int
	calls     int
}

func (e *conflictingEngine) GetOrCreateProgress(
	ctx context.Context,
	uow progression.UnitOfWork,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
	seedReps int,
) (progression.ProgressResult, error) {
	e.mu.Lock()
	e.calls++
	conflict := e.calls <= e.conflicts
	e.mu.Unlock()

	if conflict {
		return progression.ProgressResult{Outcome: progression.ProgressConflict}, progression.ErrDuplicateProgress
	}
	return e.Engine.GetOrCreateProgress(ctx, uow, userID, exercise, seedReps)
}

func ptr[T any](v T) *T {
	return &v
}
