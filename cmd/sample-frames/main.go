package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/config"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/logging"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/sampler"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/storage"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/video"
)

func main() {
	var (
		videoPath = flag.String("video", "", "Path to a single video file")
		dirPath   = flag.String("dir", "", "Directory tree of videos to sample")
		stride    = flag.Int("stride", 0, "Keep every Nth original frame (default: SAMPLE_STRIDE)")
		outDir    = flag.String("out", "", "Frame output directory (default: FRAME_DIR)")
		workers   = flag.Int("workers", 0, "Concurrent videos in batch mode (default: BATCH_WORKERS)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.LogLevel)

	if *stride == 0 {
		*stride = cfg.SampleStride
	}
	if *outDir == "" {
		*outDir = cfg.FrameDir
	}
	if *workers == 0 {
		*workers = cfg.BatchWorkers
	}

	if (*videoPath == "") == (*dirPath == "") {
		fmt.Fprintln(os.Stderr, "Provide exactly one of -video or -dir")
		flag.Usage()
		os.Exit(2)
	}

	store, err := storage.NewLocalStorage(*outDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize frame storage")
	}

	s, err := sampler.New(store, *stride)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create sampler")
	}

	ctx := context.Background()

	if *videoPath != "" {
		fp, err := video.FingerprintFile(*videoPath)
		if err != nil {
			log.Fatal().Str("video", *videoPath).Err(err).Msg("failed to fingerprint video")
		}

		summary, err := s.SampleVideo(ctx, *videoPath, fp)
		if err != nil {
			log.Fatal().Str("video", *videoPath).Err(err).Msg("sampling failed")
		}

		fmt.Printf("ok    %s  fingerprint=%s sampled=%d skipped=%d\n",
			*videoPath, fp, summary.Sampled, summary.Skipped)
		return
	}

	outcomes, err := s.SampleDir(ctx, *dirPath, *workers)
	if err != nil {
		log.Fatal().Str("dir", *dirPath).Err(err).Msg("failed to walk directory")
	}

	failed := 0
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
			fmt.Printf("FAIL  %s  %v\n", out.Path, out.Err)
			continue
		}
		fmt.Printf("ok    %s  fingerprint=%s sampled=%d skipped=%d\n",
			out.Path, out.Fingerprint, out.Summary.Sampled, out.Summary.Skipped)
	}
	fmt.Printf("%d video(s), %d failed\n", len(outcomes), failed)

	if failed > 0 {
		os.Exit(1)
	}
}
