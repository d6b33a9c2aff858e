package config

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	FrameDir       string `env:"FRAME_DIR"       envDefault:"./frames"`
	SampleStride   int    `env:"SAMPLE_STRIDE"   envDefault:"5"`
	BatchWorkers   int    `env:"BATCH_WORKERS"   envDefault:"3"`

	CacheBackend   string `env:"CACHE_BACKEND"   envDefault:"dir"`
	CacheDir       string `env:"CACHE_DIR"       envDefault:"./embed-cache"`
	CacheNamespace string `env:"CACHE_NAMESPACE" envDefault:"embed"`
	CacheDSN       string `env:"CACHE_DSN"       envDefault:""`
	EmbeddingDim   int    `env:"EMBEDDING_DIM"   envDefault:"512"`

	DBType     string `env:"DB_TYPE"     envDefault:"sqlite"`
	DBHost     string `env:"DB_HOST"     envDefault:"localhost"`
	DBPort     int    `env:"DB_PORT"     envDefault:"5432"`
	DBUser     string `env:"DB_USER"     envDefault:"secureai"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"secureai_dev"`
	DBName     string `env:"DB_NAME"     envDefault:"secureai"`
	SQLitePath string `env:"DB_PATH"     envDefault:"./secureai.db"`

	InferenceURL string `env:"INFERENCE_URL" envDefault:"http://localhost:9000"`
	ModelName    string `env:"MODEL_NAME"    envDefault:"deepfake-effnet-b4"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
