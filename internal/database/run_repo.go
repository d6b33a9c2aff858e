package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/models"
)

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) Create(ctx context.Context, run *models.Run) error {
	if run.ID == "" {
		return fmt.Errorf("%w: empty run id", ErrInvalidArgument)
	}
	if run.Fingerprint == "" {
		return fmt.Errorf("%w: empty video fingerprint", ErrInvalidArgument)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	query := r.db.rebind(`
		INSERT INTO runs (id, video_fingerprint, model, created_at)
		VALUES (?, ?, ?, ?)`)

	_, err := r.db.conn.ExecContext(ctx, query,
		run.ID, run.Fingerprint, run.Model, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

func (r *RunRepo) GetByID(ctx context.Context, id string) (*models.Run, error) {
	query := r.db.rebind(`
		SELECT id, video_fingerprint, model, created_at
		FROM runs
		WHERE id = ?`)

	run := &models.Run{}
	err := r.db.conn.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.Fingerprint, &run.Model, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}
