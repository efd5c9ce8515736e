package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain"
	"github.com/phrazzld/overload-api/internal/domain/difficulty"
	"github.com/phrazzld/overload-api/internal/domain/progression"
	"github.com/phrazzld/overload-api/internal/service"
	"github.com/phrazzld/overload-api/internal/service/auth"
	"github.com/stretchr/testify/mock"
)

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	args := m.Called(ctx, username, email, password)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserService) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	args := m.Called(ctx, login, password)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type mockJWTService struct{ mock.Mock }

func (m *mockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*auth.Claims)
	return claims, args.Error(1)
}

func (m *mockJWTService) TokenLifetime() time.Duration {
	return time.Hour
}

type mockProgressService struct{ mock.Mock }

func (m *mockProgressService) GetOrCreate(
	ctx context.Context,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
	seedReps int,
) (progression.ProgressResult, error) {
	args := m.Called(ctx, userID, exercise, seedReps)
	return args.Get(0).(progression.ProgressResult), args.Error(1)
}

func (m *mockProgressService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error) {
	args := m.Called(ctx, userID)
	records, _ := args.Get(0).([]*domain.Progress)
	return records, args.Error(1)
}

func (m *mockProgressService) Get(
	ctx context.Context,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
) (*domain.Progress, error) {
	args := m.Called(ctx, userID, exercise)
	p, _ := args.Get(0).(*domain.Progress)
	return p, args.Error(1)
}

func (m *mockProgressService) Adjust(
	ctx context.Context,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
	tier *difficulty.Tier,
	reps *int,
) (*domain.Progress, error) {
	args := m.Called(ctx, userID, exercise, tier, reps)
	p, _ := args.Get(0).(*domain.Progress)
	return p, args.Error(1)
}

type mockWorkoutService struct{ mock.Mock }

func (m *mockWorkoutService) Start(
	ctx context.Context,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
) (*domain.WorkoutSession, error) {
	args := m.Called(ctx, userID, exercise)
	s, _ := args.Get(0).(*domain.WorkoutSession)
	return s, args.Error(1)
}

func (m *mockWorkoutService) CreateProgressAndSession(
	ctx context.Context,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
	reps int,
) (service.ProgressAndSession, error) {
	args := m.Called(ctx, userID, exercise, reps)
	return args.Get(0).(service.ProgressAndSession), args.Error(1)
}

func (m *mockWorkoutService) Finish(
	ctx context.Context,
	userID uuid.UUID,
	sessionID uuid.UUID,
	completed bool,
	notes *string,
) (progression.SessionOutcome, error) {
	args := m.Called(ctx, userID, sessionID, completed, notes)
	return args.Get(0).(progression.SessionOutcome), args.Error(1)
}

func (m *mockWorkoutService) Update(
	ctx context.Context,
	userID uuid.UUID,
	sessionID uuid.UUID,
	completed *bool,
	notes *string,
) (progression.SessionOutcome, error) {
	args := m.Called(ctx, userID, sessionID, completed, notes)
	return args.Get(0).(progression.SessionOutcome), args.Error(1)
}

func (m *mockWorkoutService) Get(
	ctx context.Context,
	userID uuid.UUID,
	sessionID uuid.UUID,
) (*domain.WorkoutSession, error) {
	args := m.Called(ctx, userID, sessionID)
	s, _ := args.Get(0).(*domain.WorkoutSession)
	return s, args.Error(1)
}

func (m *mockWorkoutService) List(
	ctx context.Context,
	userID uuid.UUID,
	exercise *domain.ExerciseKind,
	page, size int,
) (*service.SessionPage, error) {
	args := m.Called(ctx, userID, exercise, page, size)
	p, _ := args.Get(0).(*service.SessionPage)
	return p, args.Error(1)
}

func (m *mockWorkoutService) Last(
	ctx context.Context,
	userID uuid.UUID,
	exercise *domain.ExerciseKind,
) (*domain.WorkoutSession, error) {
	args := m.Called(ctx, userID, exercise)
	s, _ := args.Get(0).(*domain.WorkoutSession)
	return s, args.Error(1)
}
