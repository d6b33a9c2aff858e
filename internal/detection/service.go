package detection

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/cache"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/database"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/inference"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/models"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/sampler"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/video"
)

// Embedder turns a JPEG frame into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, frame []byte) ([]float32, error)
}

// Classifier scores an embedding. Implemented by inference.Client.
type Classifier interface {
	Classify(ctx context.Context, embedding []float32) (*inference.Score, error)
}

// Service runs one detection pass over a video: sample frames, resolve
// each frame's embedding through the cache, classify, persist one
// AnalysisRow per analyzed frame.
type Service struct {
	sampler    *sampler.Sampler
	keys       *cache.KeyBuilder
	cache      cache.VectorCache
	embedder   Embedder
	classifier Classifier
	runs       *database.RunRepo
	analyses   *database.AnalysisRepo
	model      string
}

func NewService(
	s *sampler.Sampler,
	keys *cache.KeyBuilder,
	vc cache.VectorCache,
	embedder Embedder,
	classifier Classifier,
	runs *database.RunRepo,
	analyses *database.AnalysisRepo,
	model string,
) *Service {
	return &Service{
		sampler:    s,
		keys:       keys,
		cache:      vc,
		embedder:   embedder,
		classifier: classifier,
		runs:       runs,
		analyses:   analyses,
		model:      model,
	}
}

// RunReport summarizes one detection run.
type RunReport struct {
	RunID       string
	Fingerprint string
	Analyzed    int
	Skipped     int
	CacheHits   int
}

// DetectFile runs detection over the video at path.
func (s *Service) DetectFile(ctx context.Context, path string) (*RunReport, error) {
	fingerprint, err := video.FingerprintFile(path)
	if err != nil {
		return nil, err
	}

	src, err := sampler.OpenVideo(ctx, path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return s.Detect(ctx, src, fingerprint)
}

// Detect runs detection over an already-open source. A frame whose
// embedding or classification fails is skipped and counted; a failure to
// record a result aborts the run, since losing rows silently would leave
// the run incomplete without anyone knowing.
func (s *Service) Detect(ctx context.Context, src sampler.Source, fingerprint string) (*RunReport, error) {
	run := models.NewRun(fingerprint, s.model)
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}

	report := &RunReport{RunID: run.ID, Fingerprint: fingerprint}

	pass, err := s.sampler.Start(src, fingerprint)
	if err != nil {
		return nil, err
	}

	for {
		frame, err := pass.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return report, err
		}

		if err := s.analyzeFrame(ctx, run.ID, frame, report); err != nil {
			return report, err
		}
	}

	summary := pass.Summary()
	report.Skipped += summary.Skipped

	log.Info().
		Str("run", run.ID).
		Str("fingerprint", fingerprint).
		Int("analyzed", report.Analyzed).
		Int("skipped", report.Skipped).
		Int("cache_hits", report.CacheHits).
		Msg("detection run complete")

	return report, nil
}

func (s *Service) analyzeFrame(ctx context.Context, runID string, frame *models.SampledFrame, report *RunReport) error {
	key, err := s.keys.Key(frame.Fingerprint, frame.Ordinal)
	if err != nil {
		return err
	}

	embedding, hit, err := s.cache.GetVector(ctx, key)
	if err != nil {
		log.Warn().Str("key", key).Err(err).Msg("cache read failed, recomputing")
	}
	if hit {
		report.CacheHits++
	} else {
		embedding, err = s.embedder.Embed(ctx, frame.Data)
		if err != nil {
			report.Skipped++
			log.Warn().
				Str("fingerprint", frame.Fingerprint).
				Int("ordinal", frame.Ordinal).
				Err(err).
				Msg("embedding failed, skipping frame")
			return nil
		}
		// Best effort: a failed write just means the next run recomputes.
		if err := s.cache.SetVector(ctx, key, embedding); err != nil {
			log.Warn().Str("key", key).Err(err).Msg("cache write failed")
		}
	}

	score, err := s.classifier.Classify(ctx, embedding)
	if err != nil {
		report.Skipped++
		log.Warn().
			Str("fingerprint", frame.Fingerprint).
			Int("ordinal", frame.Ordinal).
			Err(err).
			Msg("classification failed, skipping frame")
		return nil
	}

	raw, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("failed to marshal score: %w", err)
	}

	row := &models.AnalysisRow{
		RunID:        runID,
		FrameOrdinal: frame.Ordinal,
		Score:        score.Confidence,
		Label:        score.Label,
		RawResponse:  raw,
	}
	if err := s.analyses.Insert(ctx, row); err != nil {
		return err
	}

	report.Analyzed++
	return nil
}
