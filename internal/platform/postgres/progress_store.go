package postgres

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

const progressColumns = `id, user_id, exercise, difficulty, current_reps_per_set,
	last_success_at, created_at, updated_at`

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the ProgressStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// WithTx implements store.ProgressStore.WithTx
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ProgressStore.Create
func (s *PostgresProgressStore) Create(ctx context.Context, progress *domain.Progress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("progress validation failed during create",
			slog.String("error", err.Error()),
			slog.String("progress_id", progress.ID.String()))
		return err
	}

	query := `
		INSERT INTO user_progress (` + progressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		progress.ID,
		progress.UserID,
		string(progress.Exercise),
		string(progress.Tier),
		progress.RepsPerSet,
		progress.LastSuccessAt,
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			log.Debug("progress already exists",
				slog.String("user_id", progress.UserID.String()),
				slog.String("exercise", string(progress.Exercise)))
			return store.ErrProgressExists
		}
		log.Error("failed to create progress",
			slog.String("error", err.Error()),
			slog.String("user_id", progress.UserID.String()),
			slog.String("exercise", string(progress.Exercise)))
		return mapped
	}

	log.Info("progress created successfully",
		slog.String("progress_id", progress.ID.String()),
		slog.String("user_id", progress.UserID.String()),
		slog.String("exercise", string(progress.Exercise)),
		slog.String("difficulty", string(progress.Tier)),
		slog.Int("reps_per_set", progress.RepsPerSet))
	return nil
}

// Get implements store.ProgressStore.Get
func (s *PostgresProgressStore) Get(
	ctx context.Context,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
) (*domain.Progress, error) {
	query := `SELECT ` + progressColumns + `
		FROM user_progress
		WHERE user_id = $1 AND exercise = $2`
	return s.getOne(ctx, query, userID, exercise)
}

// GetForUpdate implements store.ProgressStore.GetForUpdate
// The row stays locked until the surrounding transaction ends.
func (s *PostgresProgressStore) GetForUpdate(
	ctx context.Context,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
) (*domain.Progress, error) {
	query := `SELECT ` + progressColumns + `
		FROM user_progress
		WHERE user_id = $1 AND exercise = $2
		FOR UPDATE`
	return s.getOne(ctx, query, userID, exercise)
}

func (s *PostgresProgressStore) getOne(
	ctx context.Context,
	query string,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
) (*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	progress, err := scanProgress(s.db.QueryRowContext(ctx, query, userID, string(exercise)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("progress not found",
				slog.String("user_id", userID.String()),
				slog.String("exercise", string(exercise)))
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to get progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("exercise", string(exercise)))
		return nil, MapError(err)
	}
	return progress, nil
}

// Update implements store.ProgressStore.Update
func (s *PostgresProgressStore) Update(ctx context.Context, progress *domain.Progress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("progress validation failed during update",
			slog.String("error", err.Error()),
			slog.String("progress_id", progress.ID.String()))
		return err
	}

	query := `
		UPDATE user_progress
		SET difficulty = $1, current_reps_per_set = $2, last_success_at = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		string(progress.Tier),
		progress.RepsPerSet,
		progress.LastSuccessAt,
		progress.UpdatedAt,
		progress.ID,
	)
	if err != nil {
		log.Error("failed to update progress",
			slog.String("error", err.Error()),
			slog.String("progress_id", progress.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrProgressNotFound); err != nil {
		return err
	}

	log.Debug("progress updated",
		slog.String("progress_id", progress.ID.String()),
		slog.String("difficulty", string(progress.Tier)),
		slog.Int("reps_per_set", progress.RepsPerSet))
	return nil
}

// ListByUser implements store.ProgressStore.ListByUser
func (s *PostgresProgressStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + progressColumns + `
		FROM user_progress
		WHERE user_id = $1
		ORDER BY exercise ASC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*domain.Progress, 0)
	for rows.Next() {
		progress, err := scanProgress(rows)
		if err != nil {
			log.Error("failed to scan progress row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, err
		}
		records = append(records, progress)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating progress rows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	return records, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (*domain.Progress, error) {
	var p domain.Progress
	var exercise, tier string
	var lastSuccess sql.NullTime
	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&exercise,
		&tier,
		&p.RepsPerSet,
		&lastSuccess,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Exercise = domain.ExerciseKind(exercise)
	p.Tier = difficulty.Tier(tier)
	if lastSuccess.Valid {
		at := lastSuccess.Time.UTC()
		p.LastSuccessAt = &at
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}
