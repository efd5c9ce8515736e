package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain"
	"github.com/phrazzld/overload-api/internal/domain/difficulty"
	"github.com/phrazzld/overload-api/internal/platform/logger"
	"github.com/phrazzld/overload-api/internal/store"
)

const sessionColumns = `id, user_id, exercise, difficulty_at_start, reps_per_set_at_start,
	completion, notes, created_at, updated_at`

// WorkoutSessionStore implements store.WorkoutSessionStore on SQLite.
type WorkoutSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewWorkoutSessionStore creates a SQLite session store. If logger is nil,
// a default logger will be used.
func NewWorkoutSessionStore(db store.DBTX, logger *slog.Logger) *WorkoutSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkoutSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "workout_session_store")),
	}
}

var _ store.WorkoutSessionStore = (*WorkoutSessionStore)(nil)

// WithTx implements store.WorkoutSessionStore.WithTx
func (s *WorkoutSessionStore) WithTx(tx *sql.Tx) store.WorkoutSessionStore {
	return &WorkoutSessionStore{db: tx, logger: s.logger}
}

// Create implements store.WorkoutSessionStore.Create
func (s *WorkoutSessionStore) Create(ctx context.Context, session *domain.WorkoutSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO workout_sessions (`+sessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID.String(),
		session.UserID.String(),
		string(session.Exercise),
		string(session.TierAtStart),
		session.RepsPerSetAtStart,
		string(session.Completion),
		session.Notes,
		toMillis(session.CreatedAt),
		toMillis(session.UpdatedAt),
	)
	if err != nil {
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()),
			slog.String("user_id", session.UserID.String()))
		return MapError(err)
	}

	log.Info("session created successfully",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", session.UserID.String()),
		slog.String("exercise", string(session.Exercise)))
	return nil
}

// GetByID implements store.WorkoutSessionStore.GetByID
func (s *WorkoutSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+sessionColumns+` FROM workout_sessions WHERE id = ?`,
		id.String(),
	)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found", slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, MapError(err)
	}
	return session, nil
}

// Update implements store.WorkoutSessionStore.Update
func (s *WorkoutSessionStore) Update(ctx context.Context, session *domain.WorkoutSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during update",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE workout_sessions SET completion = ?, notes = ?, updated_at = ? WHERE id = ?`,
		string(session.Completion),
		session.Notes,
		toMillis(session.UpdatedAt),
		session.ID.String(),
	)
	if err != nil {
		log.Error("failed to update session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrSessionNotFound); err != nil {
		return err
	}

	log.Debug("session updated",
		slog.String("session_id", session.ID.String()),
		slog.String("completion", string(session.Completion)))
	return nil
}

// List implements store.WorkoutSessionStore.List
func (s *WorkoutSessionStore) List(
	ctx context.Context,
	filter store.SessionFilter,
	limit, offset int,
) ([]*domain.WorkoutSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := sessionWhere(filter)
	args = append(args, limit, offset)
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+sessionColumns+` FROM workout_sessions `+where+`
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		log.Error("failed to list sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", filter.UserID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	sessions := make([]*domain.WorkoutSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating session rows",
			slog.String("error", err.Error()),
			slog.String("user_id", filter.UserID.String()))
		return nil, err
	}
	return sessions, nil
}

// Count implements store.WorkoutSessionStore.Count
func (s *WorkoutSessionStore) Count(ctx context.Context, filter store.SessionFilter) (int, error) {
	where, args := sessionWhere(filter)
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workout_sessions `+where, args...).
		Scan(&n)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", filter.UserID.String()))
		return 0, MapError(err)
	}
	return n, nil
}

// Last implements store.WorkoutSessionStore.Last
func (s *WorkoutSessionStore) Last(
	ctx context.Context,
	filter store.SessionFilter,
) (*domain.WorkoutSession, error) {
	sessions, err := s.List(ctx, filter, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, store.ErrSessionNotFound
	}
	return sessions[0], nil
}

func sessionWhere(filter store.SessionFilter) (string, []any) {
	if filter.Exercise != nil {
		return "WHERE user_id = ? AND exercise = ?",
			[]any{filter.UserID.String(), string(*filter.Exercise)}
	}
	return "WHERE user_id = ?", []any{filter.UserID.String()}
}

func scanSession(row rowScanner) (*domain.WorkoutSession, error) {
	var s domain.WorkoutSession
	var exercise, tier, completion string
	var createdAt, updatedAt int64
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&exercise,
		&tier,
		&s.RepsPerSetAtStart,
		&completion,
		&s.Notes,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	s.Exercise = domain.ExerciseKind(exercise)
	s.TierAtStart = difficulty.Tier(tier)
	s.Completion = domain.Completion(completion)
	s.CreatedAt = fromMillis(createdAt)
	s.UpdatedAt = fromMillis(updatedAt)
	return &s, nil
}
