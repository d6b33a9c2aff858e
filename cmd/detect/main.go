package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/cache"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/config"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/database"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/detection"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/inference"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/logging"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/sampler"
	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/storage"
)

func main() {
	var videoPath = flag.String("video", "", "Path to the video to analyze")
	flag.Parse()

	if *videoPath == "" {
		fmt.Fprintln(os.Stderr, "Provide a video with -video")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.LogLevel)

	ctx := context.Background()

	store, err := storage.NewLocalStorage(cfg.FrameDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize frame storage")
	}

	s, err := sampler.New(store, cfg.SampleStride)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create sampler")
	}

	keys, err := cache.NewKeyBuilder(cfg.CacheNamespace)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create cache key builder")
	}

	var vectorCache cache.VectorCache
	switch cfg.CacheBackend {
	case "postgres":
		pg, err := cache.NewPgVectorStore(ctx, cfg.CacheDSN, cfg.EmbeddingDim)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize pgvector cache")
		}
		defer pg.Close()
		vectorCache = pg
	case "dir":
		dirStore, err := cache.NewDirStore(cfg.CacheDir)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize cache directory")
		}
		vectorCache = cache.VectorAdapter{Store: dirStore}
	default:
		log.Fatal().Str("backend", cfg.CacheBackend).Msg("unknown cache backend")
	}

	db, err := database.NewDB(database.Config{
		Type:       cfg.DBType,
		Host:       cfg.DBHost,
		Port:       cfg.DBPort,
		User:       cfg.DBUser,
		Password:   cfg.DBPassword,
		Name:       cfg.DBName,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	client := inference.NewClient(cfg.InferenceURL, cfg.ModelName)

	service := detection.NewService(
		s,
		keys,
		vectorCache,
		client,
		client,
		database.NewRunRepo(db),
		database.NewAnalysisRepo(db),
		cfg.ModelName,
	)

	report, err := service.DetectFile(ctx, *videoPath)
	if err != nil {
		log.Fatal().Str("video", *videoPath).Err(err).Msg("detection failed")
	}

	fmt.Printf("run %s complete: fingerprint=%s analyzed=%d skipped=%d cache_hits=%d\n",
		report.RunID, report.Fingerprint, report.Analyzed, report.Skipped, report.CacheHits)
}
