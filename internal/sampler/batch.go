package sampler

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/video"
)

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".avi":  {},
	".mkv":  {},
	".webm": {},
}

// Outcome is the per-file result of a batch pass. Err is nil on success.
type Outcome struct {
	Path        string
	Fingerprint string
	Summary     Summary
	Err         error
}

// SampleDir recursively discovers video files under root by extension and
// samples each one independently. One video failing never aborts its
// siblings; the caller gets one Outcome per discovered file, in discovery
// order. Only a failure to walk the tree itself is an error.
func (s *Sampler) SampleDir(ctx context.Context, root string, workers int) ([]Outcome, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	if workers <= 0 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	// Videos are independent: disjoint fingerprints, disjoint output
	// locations, so workers share nothing but the outcome slots.
	outcomes := make([]Outcome, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = s.sampleOne(ctx, paths[i])
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes, nil
}

func (s *Sampler) sampleOne(ctx context.Context, path string) Outcome {
	out := Outcome{Path: path}

	fp, err := video.FingerprintFile(path)
	if err != nil {
		out.Err = err
		return out
	}
	out.Fingerprint = fp

	summary, err := s.SampleVideo(ctx, path, fp)
	out.Summary = summary
	out.Err = err
	if err != nil {
		log.Error().Str("video", path).Err(err).Msg("sampling failed")
	} else {
		log.Info().
			Str("video", path).
			Str("fingerprint", fp).
			Int("sampled", summary.Sampled).
			Int("skipped", summary.Skipped).
			Msg("sampling complete")
	}
	return out
}
