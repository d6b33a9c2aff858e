package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/models"
)

var (
	// ErrInvalidArgument marks malformed identifiers rejected before any
	// side effect.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateFrame is returned when a second result is inserted for
	// the same (run, frame ordinal) pair. The first row is never
	// overwritten: a duplicate means the same frame was processed twice
	// upstream, which the caller needs to know about.
	ErrDuplicateFrame = errors.New("analysis row already exists for frame")
)

// AnalysisRepo stores per-frame detection results. Point lookups and
// range scans both ride the (run_id, frame_ordinal) composite index, so
// retrieval stays fast as runs grow to thousands of frames.
type AnalysisRepo struct {
	db *DB
}

func NewAnalysisRepo(db *DB) *AnalysisRepo {
	return &AnalysisRepo{db: db}
}

func (r *AnalysisRepo) Insert(ctx context.Context, row *models.AnalysisRow) error {
	if row.RunID == "" {
		return fmt.Errorf("%w: empty run id", ErrInvalidArgument)
	}
	if row.FrameOrdinal < 0 {
		return fmt.Errorf("%w: negative frame ordinal %d", ErrInvalidArgument, row.FrameOrdinal)
	}

	row.ID = uuid.New().String()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}

	query := r.db.rebind(`
		INSERT INTO frame_analyses (id, run_id, frame_ordinal, score, label, raw_response, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.conn.ExecContext(ctx, query,
		row.ID,
		row.RunID,
		row.FrameOrdinal,
		row.Score,
		row.Label,
		string(row.RawResponse),
		row.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: run %s ordinal %d", ErrDuplicateFrame, row.RunID, row.FrameOrdinal)
		}
		return fmt.Errorf("failed to insert analysis row: %w", err)
	}
	return nil
}

// GetFrame is a point lookup of one frame's result within a run. Returns
// (nil, nil) when no row exists.
func (r *AnalysisRepo) GetFrame(ctx context.Context, runID string, ordinal int) (*models.AnalysisRow, error) {
	if runID == "" {
		return nil, fmt.Errorf("%w: empty run id", ErrInvalidArgument)
	}
	if ordinal < 0 {
		return nil, fmt.Errorf("%w: negative frame ordinal %d", ErrInvalidArgument, ordinal)
	}

	query := r.db.rebind(`
		SELECT id, run_id, frame_ordinal, score, label, raw_response, created_at
		FROM frame_analyses
		WHERE run_id = ? AND frame_ordinal = ?`)

	row := &models.AnalysisRow{}
	var raw string
	err := r.db.conn.QueryRowContext(ctx, query, runID, ordinal).Scan(
		&row.ID, &row.RunID, &row.FrameOrdinal, &row.Score, &row.Label, &raw, &row.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis row: %w", err)
	}
	row.RawResponse = json.RawMessage(raw)
	return row, nil
}

// ListByRun returns every frame result of a run in increasing ordinal
// order, so result assembly needs no client-side sorting.
func (r *AnalysisRepo) ListByRun(ctx context.Context, runID string) ([]*models.AnalysisRow, error) {
	if runID == "" {
		return nil, fmt.Errorf("%w: empty run id", ErrInvalidArgument)
	}

	query := r.db.rebind(`
		SELECT id, run_id, frame_ordinal, score, label, raw_response, created_at
		FROM frame_analyses
		WHERE run_id = ?
		ORDER BY frame_ordinal`)

	rows, err := r.db.conn.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis rows: %w", err)
	}
	defer rows.Close()

	var results []*models.AnalysisRow
	for rows.Next() {
		row := &models.AnalysisRow{}
		var raw string
		if err := rows.Scan(&row.ID, &row.RunID, &row.FrameOrdinal, &row.Score, &row.Label, &raw, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		row.RawResponse = json.RawMessage(raw)
		results = append(results, row)
	}

	return results, rows.Err()
}

func (r *AnalysisRepo) DeleteByRun(ctx context.Context, runID string) error {
	if runID == "" {
		return fmt.Errorf("%w: empty run id", ErrInvalidArgument)
	}

	query := r.db.rebind(`DELETE FROM frame_analyses WHERE run_id = ?`)
	if _, err := r.db.conn.ExecContext(ctx, query, runID); err != nil {
		return fmt.Errorf("failed to delete analysis rows: %w", err)
	}
	return nil
}
