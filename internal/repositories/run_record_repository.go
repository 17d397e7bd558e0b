package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"runrun-service/internal/models"
)

// RunRecordRepository abstracts synced workout persistence.
type RunRecordRepository interface {
	UpsertBatch(ctx context.Context, records []models.RunRecord) (int, error)
	ListForUser(ctx context.Context, userID string) ([]models.RunRecord, error)
}

// RunRecordRepo is a sqlx implementation of RunRecordRepository.
type RunRecordRepo struct {
	db *sqlx.DB
}

// NewRunRecordRepo constructs a RunRecordRepo.
func NewRunRecordRepo(db *sqlx.DB) *RunRecordRepo {
	return &RunRecordRepo{db: db}
}

// UpsertBatch stores a batch of synced records in one transaction. Records the
// client re-syncs overwrite the previous copy by id.
func (r *RunRecordRepo) UpsertBatch(ctx context.Context, records []models.RunRecord) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, record := range records {
		if _, err := tx.ExecContext(ctx, `INSERT INTO run_records (id, user_id, started_at, duration_seconds, distance_meters, calories)
            VALUES ($1, $2, $3, $4, $5, $6)
            ON CONFLICT (id) DO UPDATE SET
                started_at = EXCLUDED.started_at,
                duration_seconds = EXCLUDED.duration_seconds,
                distance_meters = EXCLUDED.distance_meters,
                calories = EXCLUDED.calories`,
			record.ID, record.UserID, record.StartedAt, record.DurationSeconds, record.DistanceMeters, record.Calories); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ListForUser returns the user's records, newest first.
func (r *RunRecordRepo) ListForUser(ctx context.Context, userID string) ([]models.RunRecord, error) {
	var records []models.RunRecord
	err := r.db.SelectContext(ctx, &records, `SELECT id, user_id, started_at, duration_seconds, distance_meters, calories, created_at
        FROM run_records WHERE user_id=$1 ORDER BY started_at DESC`, userID)
	return records, err
}
