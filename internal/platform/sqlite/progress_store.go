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

const progressColumns = `id, user_id, exercise, difficulty, current_reps_per_set,
	last_success_at, created_at, updated_at`

// ProgressStore implements store.ProgressStore on SQLite.
type ProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProgressStore creates a SQLite progress store. If logger is nil, a
// default logger will be used.
func NewProgressStore(db store.DBTX, logger *slog.Logger) *ProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*ProgressStore)(nil)

// WithTx implements store.ProgressStore.WithTx
func (s *ProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &ProgressStore{db: tx, logger: s.logger}
}

// Create implements store.ProgressStore.Create
func (s *ProgressStore) Create(ctx context.Context, progress *domain.Progress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("progress validation failed during create",
			slog.String("error", err.Error()),
			slog.String("progress_id", progress.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO user_progress (`+progressColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		progress.ID.String(),
		progress.UserID.String(),
		string(progress.Exercise),
		string(progress.Tier),
		progress.RepsPerSet,
		nullableMillis(progress),
		toMillis(progress.CreatedAt),
		toMillis(progress.UpdatedAt),
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
func (s *ProgressStore) Get(
	ctx context.Context,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
) (*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+progressColumns+` FROM user_progress WHERE user_id = ? AND exercise = ?`,
		userID.String(),
		string(exercise),
	)
	progress, err := scanProgress(row)
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

// GetForUpdate implements store.ProgressStore.GetForUpdate
// SQLite has no row locks; the immediate transaction already holds the
// database write lock, so this is a plain read.
func (s *ProgressStore) GetForUpdate(
	ctx context.Context,
	userID uuid.UUID,
	exercise domain.ExerciseKind,
) (*domain.Progress, error) {
	return s.Get(ctx, userID, exercise)
}

// Update implements store.ProgressStore.Update
func (s *ProgressStore) Update(ctx context.Context, progress *domain.Progress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("progress validation failed during update",
			slog.String("error", err.Error()),
			slog.String("progress_id", progress.ID.String()))
		return err
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE user_progress
		 SET difficulty = ?, current_reps_per_set = ?, last_success_at = ?, updated_at = ?
		 WHERE id = ?`,
		string(progress.Tier),
		progress.RepsPerSet,
		nullableMillis(progress),
		toMillis(progress.UpdatedAt),
		progress.ID.String(),
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
func (s *ProgressStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+progressColumns+` FROM user_progress WHERE user_id = ? ORDER BY exercise ASC`,
		userID.String(),
	)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (*domain.Progress, error) {
	var p domain.Progress
	var exercise, tier string
	var lastSuccess sql.NullInt64
	var createdAt, updatedAt int64
	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&exercise,
		&tier,
		&p.RepsPerSet,
		&lastSuccess,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	p.Exercise = domain.ExerciseKind(exercise)
	p.Tier = difficulty.Tier(tier)
	if lastSuccess.Valid {
		at := fromMillis(lastSuccess.Int64)
		p.LastSuccessAt = &at
	}
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return &p, nil
}

func nullableMillis(p *domain.Progress) sql.NullInt64 {
	if p.LastSuccessAt == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*p.LastSuccessAt), Valid: true}
}
