package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain"
	"github.com/phrazzld/overload-api/internal/domain/progression"
	"github.com/phrazzld/overload-api/internal/store"
)

// storeUnitOfWork adapts transaction-bound stores to progression.UnitOfWork.
type storeUnitOfWork struct {
	progress store.ProgressStore
	sessions store.WorkoutSessionStore
}

var _ progression.UnitOfWork = (*storeUnitOfWork)(nil)

func newUnitOfWork(
	tx *sql.Tx,
	progress store.ProgressStore,
	sessions store.WorkoutSessionStore,
) *storeUnitOfWork {
	return &storeUnitOfWork{
		progress: progress.WithTx(tx),
		sessions: sessions.WithTx(tx),
	}
}

// FindProgress locks the row for the rest of the transaction where the
// backend supports it.
func (u *storeUnitOfWork) FindProgress(
	ctx context.Context,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
) (*domain.Progress, error) {
	p, err := u.progress.GetForUpdate(ctx, userID, exercise)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (u *storeUnitOfWork) InsertProgress(ctx context.Context, progress *domain.Progress) error {
	err := u.progress.Create(ctx, progress)
	if store.IsDuplicateError(err) {
		return fmt.Errorf("%w: %v", progression.ErrDuplicateProgress, err)
	}
	return err
}

func (u *storeUnitOfWork) SaveProgress(ctx context.Context, progress *domain.Progress) error {
	return u.progress.Update(ctx, progress)
}

func (u *storeUnitOfWork) FindSession(ctx context.Context, id uuid.UUID) (*domain.WorkoutSession, error) {
	s, err := u.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (u *storeUnitOfWork) InsertSession(ctx context.Context, session *domain.WorkoutSession) error {
	return u.sessions.Create(ctx, session)
}

func (u *storeUnitOfWork) SaveSession(ctx context.Context, session *domain.WorkoutSession) error {
	return u.sessions.Update(ctx, session)
}
