package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Run is one execution of the detection pipeline over a single video.
type Run struct {
	ID          string
	Fingerprint string
	Model       string
	CreatedAt   time.Time
}

func NewRun(fingerprint, model string) *Run {
	return &Run{
		ID:          uuid.New().String(),
		Fingerprint: fingerprint,
		Model:       model,
		CreatedAt:   time.Now(),
	}
}

// SampledFrame is a single frame lifted out of the original stream.
// Ordinal is the 0-based index of the frame in the unsampled stream,
// not its position in the sampled output, so consumers can map a frame
// back to wall-clock time.
type SampledFrame struct {
	Fingerprint string
	Ordinal     int
	Path        string
	Data        []byte
}

// AnalysisRow is one frame's detection result within a run.
// At most one row exists per (RunID, FrameOrdinal).
type AnalysisRow struct {
	ID           string
	RunID        string
	FrameOrdinal int
	Score        float64
	Label        string
	RawResponse  json.RawMessage
	CreatedAt    time.Time
}
