package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain"
	"github.com/phrazzld/overload-api/internal/domain/difficulty"
	"github.com/phrazzld/overload-api/internal/platform/logger"
	"github.com/phrazzld/overload-api/internal/store"
)

const sessionColumns = `id, user_id, exercise, difficulty_at_start, reps_per_set_at_start,
	completion, notes, created_at, updated_at`

// PostgresWorkoutSessionStore implements the store.WorkoutSessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresWorkoutSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWorkoutSessionStore creates a new PostgreSQL implementation of the
// WorkoutSessionStore interface. If logger is nil, a default logger will be used.
func NewPostgresWorkoutSessionStore(
	db store.DBTX,
	logger *slog.Logger,
) *PostgresWorkoutSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresWorkoutSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "workout_session_store")),
	}
}

// Ensure PostgresWorkoutSessionStore implements store.WorkoutSessionStore interface
var _ store.WorkoutSessionStore = (*PostgresWorkoutSessionStore)(nil)

// WithTx implements store.WorkoutSessionStore.WithTx
func (s *PostgresWorkoutSessionStore) WithTx(tx *sql.Tx) store.WorkoutSessionStore {
	return &PostgresWorkoutSessionStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.WorkoutSessionStore.Create
func (s *PostgresWorkoutSessionStore) Create(
	ctx context.Context,
	session *domain.WorkoutSession,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := `
		INSERT INTO workout_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		string(session.Exercise),
		string(session.TierAtStart),
		session.RepsPerSetAtStart,
		string(session.Completion),
		session.Notes,
		session.CreatedAt,
		session.UpdatedAt,
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
func (s *PostgresWorkoutSessionStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.WorkoutSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + sessionColumns + ` FROM workout_sessions WHERE id = $1`
	session, err := scanSession(s.db.QueryRowContext(ctx, query, id))
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
func (s *PostgresWorkoutSessionStore) Update(
	ctx context.Context,
	session *domain.WorkoutSession,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during update",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := `
		UPDATE workout_sessions
		SET completion = $1, notes = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		string(session.Completion),
		session.Notes,
		session.UpdatedAt,
		session.ID,
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
func (s *PostgresWorkoutSessionStore) List(
	ctx context.Context,
	filter store.SessionFilter,
	limit, offset int,
) ([]*domain.WorkoutSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := sessionWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM workout_sessions %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, sessionColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
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
			log.Error("failed to scan session row",
				slog.String("error", err.Error()),
				slog.String("user_id", filter.UserID.String()))
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
func (s *PostgresWorkoutSessionStore) Count(
	ctx context.Context,
	filter store.SessionFilter,
) (int, error) {
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
func (s *PostgresWorkoutSessionStore) Last(
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
		return "WHERE user_id = $1 AND exercise = $2",
			[]any{filter.UserID, string(*filter.Exercise)}
	}
	return "WHERE user_id = $1", []any{filter.UserID}
}

func scanSession(row rowScanner) (*domain.WorkoutSession, error) {
	var s domain.WorkoutSession
	var exercise, tier, completion string
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&exercise,
		&tier,
		&s.RepsPerSetAtStart,
		&completion,
		&s.Notes,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	s.Exercise = domain.ExerciseKind(exercise)
	s.TierAtStart = difficulty.Tier(tier)
	s.Completion = domain.Completion(completion)
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}
