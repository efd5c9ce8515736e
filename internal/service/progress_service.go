package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain"
	"github.com/phrazzld/overload-api/internal/domain/difficulty"
	"github.com/phrazzld/overload-api/internal/domain/progression"
	"github.com/phrazzld/overload-api/internal/platform/logger"
	"github.com/phrazzld/overload-api/internal/store"
)

// ErrNothingToAdjust is returned by Adjust when neither tier nor reps is given.
var ErrNothingToAdjust = domain.NewValidationError("difficulty", "tier or reps must be provided", nil)

// ProgressService exposes a user's per-exercise progress records.
type ProgressService interface {
	// GetOrCreate returns the user's record for exercise, creating it from
	// seedReps when absent. The result outcome tells which happened. A lost
	// creation race is retried once; a second loss returns an error matching
	// progression.ErrDuplicateProgress.
	GetOrCreate(
		ctx context.Context,
		userID uuid.UUID,
		exercise domain.ExerciseKind,
		seedReps int,
	) (progression.ProgressResult, error)

	// List returns all of the user's records ordered by exercise.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error)

	// Get returns an error matching progression.ErrProgressNotFound when the
	// user has no record for exercise.
	Get(ctx context.Context, userID uuid.UUID, exercise domain.ExerciseKind) (*domain.Progress, error)

	// Adjust sets the tier and/or reps of an existing record. A tier without
	// reps resets reps to the tier's starting value. Reps without a tier must
	// fit the current tier. Out-of-range values fail with
	// difficulty.ErrInvalidRepCount and nothing is written.
	Adjust(
		ctx context.Context,
		userID uuid.UUID,
		exercise domain.ExerciseKind,
		tier *difficulty.Tier,
		reps *int,
	) (*domain.Progress, error)
}

type progressServiceImpl struct {
	db            *sql.DB
	progressStore store.ProgressStore
	sessionStore  store.WorkoutSessionStore
	engine        progression.Engine
	now           func() time.Time
	logger        *slog.Logger
}

var _ ProgressService = (*progressServiceImpl)(nil)

// NewProgressService creates a ProgressService.
func NewProgressService(
	db *sql.DB,
	progressStore store.ProgressStore,
	sessionStore store.WorkoutSessionStore,
	engine progression.Engine,
	logger *slog.Logger,
) ProgressService {
	if db == nil {
		panic("db cannot be nil")
	}
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if sessionStore == nil {
		panic("sessionStore cannot be nil")
	}
	if engine == nil {
		panic("engine cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &progressServiceImpl{
		db:            db,
		progressStore: progressStore,
		sessionStore:  sessionStore,
		engine:        engine,
		now:           time.Now,
		logger:        logger.With(slog.String("component", "progress_service")),
	}
}

func (s *progressServiceImpl) GetOrCreate(
	ctx context.Context,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
	seedReps int,
) (progression.ProgressResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("exercise", exercise.String()))

	var result progression.ProgressResult
	err := runWithConflictRetry(ctx, s.db, log, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		uow := newUnitOfWork(tx, s.progressStore, s.sessionStore)
		result, err = s.engine.GetOrCreateProgress(ctx, uow, userID, exercise, seedReps)
		return err
	})
	if err != nil {
		logFailure(log, "failed to get or create progress", err)
		return result, NewServiceError("get_or_create_progress", "could not resolve progress", err)
	}

	log.Debug("progress resolved", slog.String("outcome", result.Outcome.String()))
	return result, nil
}

func (s *progressServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	records, err := s.progressStore.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("list_progress", "could not list progress", err)
	}
	return records, nil
}

func (s *progressServiceImpl) Get(
	ctx context.Context,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
) (*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	p, err := s.progressStore.Get(ctx, userID, exercise)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewServiceError("get_progress", "no progress for exercise", progression.ErrProgressNotFound)
		}
		log.Error("failed to get progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("exercise", exercise.String()))
		return nil, NewServiceError("get_progress", "could not load progress", err)
	}
	return p, nil
}

func (s *progressServiceImpl) Adjust(
	ctx context.Context,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
	tier *difficulty.Tier,
	reps *int,
) (*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("exercise", exercise.String()))

	if tier == nil && reps == nil {
		return nil, NewServiceError("adjust_progress", "nothing to adjust", ErrNothingToAdjust)
	}

	var adjusted *domain.Progress
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.progressStore.WithTx(tx)

		p, err := txStore.GetForUpdate(ctx, userID, exercise)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return progression.ErrProgressNotFound
			}
			return err
		}

		switch {
		case tier != nil && reps != nil:
			err = p.SetLevel(*tier, *reps)
		case tier != nil:
			err = p.SetLevel(*tier, difficulty.StartingReps(*tier))
		default:
			err = p.SetReps(*reps)
		}
		if err != nil {
			return err
		}

		p.UpdatedAt = s.now().UTC()
		if err := txStore.Update(ctx, p); err != nil {
			return err
		}
		adjusted = p
		return nil
	})
	if err != nil {
		logFailure(log, "failed to adjust progress", err)
		return nil, NewServiceError("adjust_progress", "could not adjust progress", err)
	}

	log.Info("progress adjusted",
		slog.String("difficulty", adjusted.Tier.String()),
		slog.Int("reps_per_set", adjusted.RepsPerSet))
	return adjusted, nil
}

// logFailure logs expected client-caused failures at debug and everything
// else at error.
func logFailure(log *slog.Logger, msg string, err error) {
	if isExpected(err) {
		log.Debug(msg, slog.String("error", err.Error()))
		return
	}
	log.Error(msg, slog.String("error", err.Error()))
}

func isExpected(err error) bool {
	return errors.Is(err, progression.ErrProgressNotFound) ||
		errors.Is(err, progression.ErrSessionNotFound) ||
		errors.Is(err, progression.ErrSessionNotOwned) ||
		errors.Is(err, progression.ErrDuplicateProgress) ||
		errors.Is(err, progression.ErrSessionAlreadyCompleted) ||
		errors.Is(err, difficulty.ErrInvalidRepCount) ||
		errors.Is(err, difficulty.ErrUnknownTier) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrNotesTooLong) ||
		errors.Is(err, ErrNotOwned)
}
