package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain"
	"github.com/phrazzld/overload-api/internal/domain/progression"
	"github.com/phrazzld/overload-api/internal/platform/logger"
	"github.com/phrazzld/overload-api/internal/store"
)

// Pagination defaults and limits for session listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SessionPage is one page of a user's sessions, newest first.
type SessionPage struct {
	Items   []*domain.WorkoutSession
	Total   int
	Page    int
	Size    int
	Pages   int
	HasNext bool
	HasPrev bool
}

// ProgressAndSession is the result of CreateProgressAndSession.
type ProgressAndSession struct {
	Progress *domain.Progress
	Session  *domain.WorkoutSession
	Outcome  progression.CreateOutcome
}

// WorkoutService drives the lifecycle of workout sessions.
type WorkoutService interface {
	// Start snapshots the user's current progress for exercise into a new
	// undecided session. Fails with progression.ErrProgressNotFound when the
	// user has no record for exercise.
	Start(ctx context.Context, userID uuid.UUID, exercise domain.ExerciseKind) (*domain.WorkoutSession, error)

	// CreateProgressAndSession resolves the progress record, creating it
	// from reps when absent, and starts a session on it in one transaction.
	CreateProgressAndSession(
		ctx context.Context,
		userID uuid.UUID,
		exercise domain.ExerciseKind,
		reps int,
	) (ProgressAndSession, error)

	// Finish records the session outcome. A completed session advances the
	// progress record by one rep and may promote it.
	Finish(
		ctx context.Context,
		userID uuid.UUID,
		sessionID uuid.UUID,
		completed bool,
		notes *string,
	) (progression.SessionOutcome, error)

	// Update is the partial form of Finish. A nil completed counts as false.
	Update(
		ctx context.Context,
		userID uuid.UUID,
		sessionID uuid.UUID,
		completed *bool,
		notes *string,
	) (progression.SessionOutcome, error)

	// Get returns a session owned by userID. Sessions of other users fail
	// with ErrNotOwned.
	Get(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID) (*domain.WorkoutSession, error)

	// List returns a page of the user's sessions, optionally for a single
	// exercise. A page past the end is clamped to the last page.
	List(
		ctx context.Context,
		userID uuid.UUID,
		exercise *domain.ExerciseKind,
		page, size int,
	) (*SessionPage, error)

	// Last returns the user's newest session, optionally for a single
	// exercise, or an error matching progression.ErrSessionNotFound.
	Last(ctx context.Context, userID uuid.UUID, exercise *domain.ExerciseKind) (*domain.WorkoutSession, error)
}

type workoutServiceImpl struct {
	db            *sql.DB
	progressStore store.ProgressStore
	sessionStore  store.WorkoutSessionStore
	engine        progression.Engine
	logger        *slog.Logger
}

var _ WorkoutService = (*workoutServiceImpl)(nil)

// NewWorkoutService creates a WorkoutService.
func NewWorkoutService(
	db *sql.DB,
	progressStore store.ProgressStore,
	sessionStore store.WorkoutSessionStore,
	engine progression.Engine,
	logger *slog.Logger,
) WorkoutService {
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

	return &workoutServiceImpl{
		db:            db,
		progressStore: progressStore,
		sessionStore:  sessionStore,
		engine:        engine,
		logger:        logger.With(slog.String("component", "workout_service")),
	}
}

func (s *workoutServiceImpl) Start(
	ctx context.Context,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
) (*domain.WorkoutSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("exercise", exercise.String()))

	var session *domain.WorkoutSession
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		session, err = s.engine.StartSession(ctx, s.uow(tx), userID, exercise)
		return err
	})
	if err != nil {
		logFailure(log, "failed to start session", err)
		return nil, NewServiceError("start_session", "could not start session", err)
	}

	log.Info("session started", slog.String("session_id", session.ID.String()))
	return session, nil
}

func (s *workoutServiceImpl) CreateProgressAndSession(
	ctx context.Context,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
	reps int,
) (ProgressAndSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("exercise", exercise.String()))

	var result ProgressAndSession
	err := runWithConflictRetry(ctx, s.db, log, func(ctx context.Context, tx *sql.Tx) error {
		uow := s.uow(tx)

		resolved, err := s.engine.GetOrCreateProgress(ctx, uow, userID, exercise, reps)
		if err != nil {
			return err
		}
		session, err := s.engine.StartSession(ctx, uow, userID, exercise)
		if err != nil {
			return err
		}

		result = ProgressAndSession{
			Progress: resolved.Progress,
			Session:  session,
			Outcome:  resolved.Outcome,
		}
		return nil
	})
	if err != nil {
		logFailure(log, "failed to create progress and session", err)
		return ProgressAndSession{}, NewServiceError(
			"create_progress_and_session",
			"could not create progress and session",
			err,
		)
	}

	log.Info("progress and session created",
		slog.String("session_id", result.Session.ID.String()),
		slog.String("outcome", result.Outcome.String()))
	return result, nil
}

func (s *workoutServiceImpl) Finish(
	ctx context.Context,
	userID uuid.UUID,
	sessionID uuid.UUID,
	completed bool,
	notes *string,
) (progression.SessionOutcome, error) {
	return s.record(ctx, "finish_session", userID, sessionID,
		func(ctx context.Context, uow progression.UnitOfWork) (progression.SessionOutcome, error) {
			return s.engine.RecordSessionOutcome(ctx, uow, userID, sessionID, completed, notes)
		})
}

func (s *workoutServiceImpl) Update(
	ctx context.Context,
	userID uuid.UUID,
	sessionID uuid.UUID,
	completed *bool,
	notes *string,
) (progression.SessionOutcome, error) {
	return s.record(ctx, "update_session", userID, sessionID,
		func(ctx context.Context, uow progression.UnitOfWork) (progression.SessionOutcome, error) {
			return s.engine.UpdateSession(ctx, uow, userID, sessionID, completed, notes)
		})
}

func (s *workoutServiceImpl) record(
	ctx context.Context,
	operation string,
	userID uuid.UUID,
	sessionID uuid.UUID,
	fn func(context.Context, progression.UnitOfWork) (progression.SessionOutcome, error),
) (progression.SessionOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("session_id", sessionID.String()))

	var outcome progression.SessionOutcome
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		outcome, err = fn(ctx, s.uow(tx))
		return err
	})
	if err != nil {
		if errors.Is(err, progression.ErrSessionNotOwned) {
			err = errors.Join(ErrNotOwned, err)
		}
		logFailure(log, "failed to record session outcome", err)
		return progression.SessionOutcome{}, NewServiceError(operation, "could not record session outcome", err)
	}

	attrs := []any{slog.String("completion", string(outcome.Session.Completion))}
	if outcome.Progress != nil {
		attrs = append(attrs,
			slog.String("difficulty", outcome.Progress.Tier.String()),
			slog.Int("reps_per_set", outcome.Progress.RepsPerSet),
			slog.Bool("promoted", outcome.Promoted))
	}
	log.Info("session outcome recorded", attrs...)
	return outcome, nil
}

func (s *workoutServiceImpl) Get(
	ctx context.Context,
	userID uuid.UUID,
	sessionID uuid.UUID,
) (*domain.WorkoutSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewServiceError("get_session", "session not found", progression.ErrSessionNotFound)
		}
		log.Error("failed to get session",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, NewServiceError("get_session", "could not load session", err)
	}

	if session.UserID != userID {
		log.Warn("session requested by non-owner",
			slog.String("session_id", sessionID.String()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("get_session", "session belongs to another user", ErrNotOwned)
	}
	return session, nil
}

func (s *workoutServiceImpl) List(
	ctx context.Context,
	userID uuid.UUID,
	exercise *domain.ExerciseKind,
	page, size int,
) (*SessionPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	filter := store.SessionFilter{UserID: userID, Exercise: exercise}

	total, err := s.sessionStore.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("list_sessions", "could not count sessions", err)
	}

	pages := (total + size - 1) / size
	if pages > 0 && page > pages {
		page = pages
	}

	items, err := s.sessionStore.List(ctx, filter, size, (page-1)*size)
	if err != nil {
		log.Error("failed to list sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("list_sessions", "could not list sessions", err)
	}

	return &SessionPage{
		Items:   items,
		Total:   total,
		Page:    page,
		Size:    size,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}, nil
}

func (s *workoutServiceImpl) Last(
	ctx context.Context,
	userID uuid.UUID,
	exercise *domain.ExerciseKind,
) (*domain.WorkoutSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.sessionStore.Last(ctx, store.SessionFilter{UserID: userID, Exercise: exercise})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewServiceError("last_session", "no sessions recorded", progression.ErrSessionNotFound)
		}
		log.Error("failed to get last session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("last_session", "could not load last session", err)
	}
	return session, nil
}

func (s *workoutServiceImpl) uow(tx *sql.Tx) progression.UnitOfWork {
	return newUnitOfWork(tx, s.progressStore, s.sessionStore)
}
