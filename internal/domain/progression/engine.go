package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain"
	"github.com/phrazzld/overload-api/internal/domain/difficulty"
)

// Engine owns the mutation rules for progress records and the lifecycle of
// the workout sessions logged against them.
type Engine interface {
	// GetOrCreateProgress returns the record for (userID, exercise), creating
	// it from seedReps when absent. seedReps is ignored for existing records.
	GetOrCreateProgress(
		ctx context.Context,
		uow UnitOfWork,
		userID uuid.UUID,
		exercise domain.ExerciseKind,
		seedReps int,
	) (ProgressResult, error)

	// StartSession snapshots the current progress into a new undecided session.
	StartSession(
		ctx context.Context,
		uow UnitOfWork,
		userID uuid.UUID,
		exercise domain.ExerciseKind,
	) (*domain.WorkoutSession, error)

	// RecordSessionOutcome marks a session completed or not and, when it was
	// completed, advances the progress record by one rep, promoting it when
	// the tier threshold is reached. A nil notes leaves existing notes as is.
	RecordSessionOutcome(
		ctx context.Context,
		uow UnitOfWork,
		userID uuid.UUID,
		sessionID uuid.UUID,
		completed bool,
		notes *string,
	) (SessionOutcome, error)

	// UpdateSession re-enters RecordSessionOutcome for partial updates. A nil
	// completed is treated as false.
	UpdateSession(
		ctx context.Context,
		uow UnitOfWork,
		userID uuid.UUID,
		sessionID uuid.UUID,
		completed *bool,
		notes *string,
	) (SessionOutcome, error)
}

// Params tunes the engine.
type Params struct {
	// Now supplies the current time. Defaults to time.Now.
	Now func() time.Time

	// RejectCompletedReplay makes recording completed=true on an already
	// completed session fail with ErrSessionAlreadyCompleted instead of
	// advancing progress a second time.
	RejectCompletedReplay bool
}

// defaultEngine is the standard implementation of Engine.
type defaultEngine struct {
	now                   func() time.Time
	rejectCompletedReplay bool
}

var _ Engine = (*defaultEngine)(nil)

// NewDefaultEngine creates an engine using the wall clock that allows
// completion replays.
func NewDefaultEngine() Engine {
	return NewEngineWithParams(Params{})
}

// NewEngineWithParams creates an engine with custom parameters.
func NewEngineWithParams(params Params) Engine {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &defaultEngine{
		now:                   now,
		rejectCompletedReplay: params.RejectCompletedReplay,
	}
}

// PromotionNote is the annotation appended to a session's notes when its
// completion promoted the progress record.
func PromotionNote(from, to difficulty.Tier, reps int) string {
	return fmt.Sprintf("[auto-upgrade] %s -> %s, reps reset to %d", from, to, reps)
}

func (e *defaultEngine) GetOrCreateProgress(
	ctx context.Context,
	uow UnitOfWork,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
	seedReps int,
) (ProgressResult, error) {
	if uow == nil {
		return ProgressResult{}, ErrNilUnitOfWork
	}

	existing, err := uow.FindProgress(ctx, userID, exercise)
	if err != nil {
		return ProgressResult{}, fmt.Errorf("failed to find progress: %w", err)
	}
	if existing != nil {
		return ProgressResult{Progress: existing, Outcome: ProgressFound}, nil
	}

	progress, err := domain.NewProgress(userID, exercise, seedReps, e.now())
	if err != nil {
		return ProgressResult{}, err
	}

	if err := uow.InsertProgress(ctx, progress); err != nil {
		if errors.Is(err, ErrDuplicateProgress) {
			return ProgressResult{Outcome: ProgressConflict}, err
		}
		return ProgressResult{}, fmt.Errorf("failed to insert progress: %w", err)
	}

	return ProgressResult{Progress: progress, Outcome: ProgressCreated}, nil
}

func (e *defaultEngine) StartSession(
	ctx context.Context,
	uow UnitOfWork,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
) (*domain.WorkoutSession, error) {
	if uow == nil {
		return nil, ErrNilUnitOfWork
	}

	progress, err := uow.FindProgress(ctx, userID, exercise)
	if err != nil {
		return nil, fmt.Errorf("failed to find progress: %w", err)
	}
	if progress == nil {
		return nil, ErrProgressNotFound
	}

	session, err := domain.NewWorkoutSession(progress, e.now())
	if err != nil {
		return nil, err
	}

	if err := uow.InsertSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	return session, nil
}

func (e *defaultEngine) RecordSessionOutcome(
	ctx context.Context,
	uow UnitOfWork,
	userID uuid.UUID,
	sessionID uuid.UUID,
	completed bool,
	notes *string,
) (SessionOutcome, error) {
	if uow == nil {
		return SessionOutcome{}, ErrNilUnitOfWork
	}

	session, err := uow.FindSession(ctx, sessionID)
	if err != nil {
		return SessionOutcome{}, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return SessionOutcome{}, ErrSessionNotFound
	}
	if session.UserID != userID {
		return SessionOutcome{}, ErrSessionNotOwned
	}
	if completed && e.rejectCompletedReplay && session.IsCompleted() {
		return SessionOutcome{}, ErrSessionAlreadyCompleted
	}
	if notes != nil {
		if err := domain.ValidateNotes(*notes); err != nil {
			return SessionOutcome{}, err
		}
	}

	now := e.now()
	result := SessionOutcome{Session: session}

	var annotation string
	if completed {
		progress, err := uow.FindProgress(ctx, session.UserID, session.Exercise)
		if err != nil {
			return SessionOutcome{}, fmt.Errorf("failed to find progress: %w", err)
		}
		if progress == nil {
			return SessionOutcome{}, ErrProgressNotFound
		}

		from := progress.Tier
		promoted, err := advance(progress, now)
		if err != nil {
			return SessionOutcome{}, err
		}
		if promoted {
			annotation = PromotionNote(from, progress.Tier, progress.RepsPerSet)
		}

		if err := uow.SaveProgress(ctx, progress); err != nil {
			return SessionOutcome{}, fmt.Errorf("failed to save progress: %w", err)
		}
		result.Progress = progress
		result.Promoted = promoted
	}

	session.Completion = domain.CompletionFromBool(completed)
	if notes != nil {
		session.Notes = *notes
	}
	if annotation != "" {
		session.Notes = appendNote(session.Notes, annotation)
	}
	session.UpdatedAt = now.UTC()

	if err := uow.SaveSession(ctx, session); err != nil {
		return SessionOutcome{}, fmt.Errorf("failed to save session: %w", err)
	}
	return result, nil
}

func (e *defaultEngine) UpdateSession(
	ctx context.Context,
	uow UnitOfWork,
	userID uuid.UUID,
	sessionID uuid.UUID,
	completed *bool,
	notes *string,
) (SessionOutcome, error) {
	done := false
	if completed != nil {
		done = *completed
	}
	return e.RecordSessionOutcome(ctx, uow, userID, sessionID, done, notes)
}

// advance applies one successful session to p: reps grow by exactly one, and
// when that reaches the next tier the tier changes and reps restart at the
// new tier's starting value. p is unchanged when the result would leave the
// tier's range.
func advance(p *domain.Progress, now time.Time) (bool, error) {
	reps := p.RepsPerSet + 1
	tier, promoted := difficulty.Promote(p.Tier, reps)
	if promoted {
		reps = difficulty.StartingReps(tier)
	}
	if err := p.SetLevel(tier, reps); err != nil {
		return false, err
	}
	p.MarkSuccess(now)
	return promoted, nil
}

func appendNote(notes, line string) string {
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
