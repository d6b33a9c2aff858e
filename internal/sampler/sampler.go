package sampler

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/models"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/storage"
)

// Sampler emits every Nth original frame of a video and persists each one
// before yielding it, so a partially consumed pass still leaves
// correctly-named artifacts behind.
type Sampler struct {
	store  storage.FrameStore
	stride int
	open   func(ctx context.Context, path string) (Source, error)
}

func New(store storage.FrameStore, stride int) (*Sampler, error) {
	if stride <= 0 {
		return nil, fmt.Errorf("stride must be a positive integer, got %d", stride)
	}
	return &Sampler{
		store:  store,
		stride: stride,
		open: func(ctx context.Context, path string) (Source, error) {
			return OpenVideo(ctx, path)
		},
	}, nil
}

// Summary reports one video's pass: frames persisted and frames skipped
// over transient decode/write failures.
type Summary struct {
	Sampled int
	Skipped int
}

// FramePath is the store-relative location of one sampled frame. It
// depends only on (fingerprint, ordinal), which makes re-runs land on the
// same artifacts.
func FramePath(fingerprint string, ordinal int) string {
	return fmt.Sprintf("%s/frame_%06d.jpg", fingerprint, ordinal)
}

// Pass is a lazy, ordered pass over one video's sampled frames. Ordinals
// strictly increase; cancelling is simply ceasing to call Next.
type Pass struct {
	src         Source
	store       storage.FrameStore
	stride      int
	fingerprint string
	sampled     int
	skipped     int
}

// Start begins a pass. Prior artifacts for the same fingerprint are
// cleared first, so re-running sampling overwrites rather than
// accumulates.
func (s *Sampler) Start(src Source, fingerprint string) (*Pass, error) {
	if fingerprint == "" {
		return nil, fmt.Errorf("empty video fingerprint")
	}

	if err := s.store.RemoveDir(fingerprint); err != nil {
		return nil, fmt.Errorf("failed to clear prior frames for %s: %w", fingerprint, err)
	}

	return &Pass{
		src:         src,
		store:       s.store,
		stride:      s.stride,
		fingerprint: fingerprint,
	}, nil
}

// Next returns the next sampled frame, already persisted, or io.EOF when
// the source is exhausted. Single-frame decode or write failures are
// skipped and counted; only source-level failures propagate.
func (p *Pass) Next(ctx context.Context) (*models.SampledFrame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f, err := p.src.Next()
		if err == io.EOF {
			return nil, io.EOF
		}
		if errors.Is(err, ErrFrameDecode) {
			p.skipped++
			log.Warn().
				Str("fingerprint", p.fingerprint).
				Err(err).
				Msg("skipping undecodable frame")
			continue
		}
		if err != nil {
			return nil, err
		}

		if f.Ordinal%p.stride != 0 {
			continue
		}

		if !validJPEG(f.Data) {
			p.skipped++
			log.Warn().
				Str("fingerprint", p.fingerprint).
				Int("ordinal", f.Ordinal).
				Msg("skipping frame with malformed payload")
			continue
		}

		rel := FramePath(p.fingerprint, f.Ordinal)
		if err := p.store.Write(rel, f.Data); err != nil {
			p.skipped++
			log.Warn().
				Str("fingerprint", p.fingerprint).
				Int("ordinal", f.Ordinal).
				Err(err).
				Msg("failed to persist frame, skipping")
			continue
		}

		p.sampled++
		return &models.SampledFrame{
			Fingerprint: p.fingerprint,
			Ordinal:     f.Ordinal,
			Path:        rel,
			Data:        f.Data,
		}, nil
	}
}

func (p *Pass) Summary() Summary {
	return Summary{Sampled: p.sampled, Skipped: p.skipped}
}

// SampleVideo runs a full pass over the video at path, persisting every
// sampled frame, and returns the pass summary.
func (s *Sampler) SampleVideo(ctx context.Context, path, fingerprint string) (Summary, error) {
	src, err := s.open(ctx, path)
	if err != nil {
		return Summary{}, err
	}
	defer src.Close()

	pass, err := s.Start(src, fingerprint)
	if err != nil {
		return Summary{}, err
	}

	for {
		_, err := pass.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return pass.Summary(), err
		}
	}
	return pass.Summary(), nil
}

// validJPEG checks the SOI/EOI framing of a frame payload.
func validJPEG(data []byte) bool {
	return len(data) >= 4 &&
		data[0] == 0xFF && data[1] == 0xD8 &&
		data[len(data)-2] == 0xFF && data[len(data)-1] == 0xD9
}
