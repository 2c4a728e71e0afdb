package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Store backends.
const (
	StoreLocal = "local"
	StoreS3    = "s3"
	StoreMinIO = "minio"
)

type Config struct {
	DataPath  string `env:"WEAKLABEL_DATA" default:"data"`
	Store     string `env:"WEAKLABEL_STORE" default:"local"`
	OutputDir string `env:"WEAKLABEL_OUTPUT_DIR" default:"output"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	Codec       string `env:"WEAKLABEL_CODEC" default:"go-json"`
	Compression string `env:"WEAKLABEL_COMPRESSION" default:"zstd"`

	Epochs       int     `env:"WEAKLABEL_EPOCHS" default:"500"`
	Seed         int64   `env:"WEAKLABEL_SEED" default:"123"`
	LearningRate float64 `env:"WEAKLABEL_LEARNING_RATE" default:"0.01"`
	Workers      int     `env:"WEAKLABEL_WORKERS" default:"0"`
	MaxFeatures  int     `env:"WEAKLABEL_MAX_FEATURES" default:"3000"`
	C            float64 `env:"WEAKLABEL_C" default:"1000"`

	PredictionCache int `env:"WEAKLABEL_PREDICTION_CACHE" default:"4096"`

	StoreRetries uint64        `env:"WEAKLABEL_STORE_RETRIES" default:"5"`
	StoreBackoff time.Duration `env:"WEAKLABEL_STORE_BACKOFF" default:"1s"`

	S3Bucket string `env:"S3_BUCKET"`
	S3Prefix string `env:"S3_PREFIX" default:"weaklabel"`
	DDBTable string `env:"DDB_TABLE"`

	MinIOEndpoint  string `env:"MINIO_ENDPOINT"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY"`
	MinIOBucket    string `env:"MINIO_BUCKET"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL" default:"false"`
}

// Load reads files (default ".env") if present, then the environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Store {
	case StoreLocal:
		if cfg.OutputDir == "" {
			return errors.New("WEAKLABEL_OUTPUT_DIR is required")
		}
	case StoreS3:
		if cfg.S3Bucket == "" {
			return errors.New("S3_BUCKET is required")
		}
	case StoreMinIO:
		required := []struct{ name, value string }{
			{"MINIO_ENDPOINT", cfg.MinIOEndpoint},
			{"MINIO_ACCESS_KEY", cfg.MinIOAccessKey},
			{"MINIO_SECRET_KEY", cfg.MinIOSecretKey},
			{"MINIO_BUCKET", cfg.MinIOBucket},
		}
		for _, r := range required {
			if r.value == "" {
				return fmt.Errorf("%s is required", r.name)
			}
		}
	default:
		return fmt.Errorf("WEAKLABEL_STORE must be one of local, s3, minio, got %q", cfg.Store)
	}

	if cfg.Epochs <= 0 {
		return errors.New("WEAKLABEL_EPOCHS must be positive")
	}
	if cfg.LearningRate <= 0 {
		return errors.New("WEAKLABEL_LEARNING_RATE must be positive")
	}
	if cfg.C <= 0 {
		return errors.New("WEAKLABEL_C must be positive")
	}
	if cfg.MaxFeatures < 0 {
		return errors.New("WEAKLABEL_MAX_FEATURES must not be negative")
	}

	return nil
}
