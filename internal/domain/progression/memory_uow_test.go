package progression

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain"
)

type progressKey struct {
	userID   uuid.UUID
	exercise domain.ExerciseKind
}

// memoryUnitOfWork keeps copies of records so the engine cannot mutate
// stored state without going through Save*.
type memoryUnitOfWork struct {
	progress map[progressKey]domain.Progress
	sessions map[uuid.UUID]domain.WorkoutSession

	// racer, when set, is inserted right before the next InsertProgress to
	// emulate a concurrent creator winning the uniqueness race.
	racer *domain.Progress

	failSaveProgress error
	saves            int
}

func newMemoryUnitOfWork() *memoryUnitOfWork {
	return &memoryUnitOfWork{
		progress: make(map[progressKey]domain.Progress),
		sessions: make(map[uuid.UUID]domain.WorkoutSession),
	}
}

func (m *memoryUnitOfWork) FindProgress(
	_ context.Context,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
) (*domain.Progress, error) {
	p, ok := m.progress[progressKey{userID, exercise}]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memoryUnitOfWork) InsertProgress(_ context.Context, p *domain.Progress) error {
	if m.racer != nil {
		m.progress[progressKey{m.racer.UserID, m.racer.Exercise}] = *m.racer
		m.racer = nil
	}
	key := progressKey{p.UserID, p.Exercise}
	if _, ok := m.progress[key]; ok {
		return fmt.Errorf("insert: %w", ErrDuplicateProgress)
	}
	m.progress[key] = *p
	return nil
}

func (m *memoryUnitOfWork) SaveProgress(_ context.Context, p *domain.Progress) error {
	if m.failSaveProgress != nil {
		return m.failSaveProgress
	}
	key := progressKey{p.UserID, p.Exercise}
	if _, ok := m.progress[key]; !ok {
		return errors.New("save of unknown progress")
	}
	m.progress[key] = *p
	m.saves++
	return nil
}

func (m *memoryUnitOfWork) FindSession(_ context.Context, id uuid.UUID) (*domain.WorkoutSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memoryUnitOfWork) InsertSession(_ context.Context, s *domain.WorkoutSession) error {
	m.sessions[s.ID] = *s
	return nil
}

func (m *memoryUnitOfWork) SaveSession(_ context.Context, s *domain.WorkoutSession) error {
	if _, ok := m.sessions[s.ID]; !ok {
		return errors.New("save of unknown session")
	}
	m.sessions[s.ID] = *s
	m.saves++
	return nil
}

func (m *memoryUnitOfWork) storedProgress(userID uuid.UUID, exercise domain.ExerciseKind) domain.Progress {
	return m.progress[progressKey{userID, exercise}]
}
