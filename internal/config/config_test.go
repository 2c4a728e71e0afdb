package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, StoreLocal, cfg.Store)
	assert.Equal(t, "data", cfg.DataPath)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, 500, cfg.Epochs)
	assert.Equal(t, int64(123), cfg.Seed)
	assert.InDelta(t, 0.01, cfg.LearningRate, 1e-12)
	assert.Equal(t, 3000, cfg.MaxFeatures)
	assert.InDelta(t, 1000.0, cfg.C, 1e-12)
	assert.Equal(t, 4096, cfg.PredictionCache)
	assert.Equal(t, "go-json", cfg.Codec)
	assert.Equal(t, "zstd", cfg.Compression)
	assert.Equal(t, uint64(5), cfg.StoreRetries)
	assert.Equal(t, time.Second, cfg.StoreBackoff)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("WEAKLABEL_STORE", "S3")
	t.Setenv("S3_BUCKET", "tweets")
	t.Setenv("DDB_TABLE", "weaklabel-commits")
	t.Setenv("WEAKLABEL_EPOCHS", "50")
	t.Setenv("WEAKLABEL_STORE_BACKOFF", "250ms")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, StoreS3, cfg.Store)
	assert.Equal(t, "tweets", cfg.S3Bucket)
	assert.Equal(t, "weaklabel", cfg.S3Prefix)
	assert.Equal(t, "weaklabel-commits", cfg.DDBTable)
	assert.Equal(t, 50, cfg.Epochs)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreBackoff)
}

func TestLoad_DotEnvFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(p, []byte("WEAKLABEL_DATA=/srv/dumps\nWEAKLABEL_SEED=7\n"), 0o644))
	// t.Setenv restores the variables after the test; godotenv only sets unset ones.
	t.Setenv("WEAKLABEL_DATA", "")
	t.Setenv("WEAKLABEL_SEED", "")
	os.Unsetenv("WEAKLABEL_DATA")
	os.Unsetenv("WEAKLABEL_SEED")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/srv/dumps", cfg.DataPath)
	assert.Equal(t, int64(7), cfg.Seed)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"unknown store", map[string]string{"WEAKLABEL_STORE": "gcs"}, `WEAKLABEL_STORE must be one of local, s3, minio, got "gcs"`},
		{"s3 without bucket", map[string]string{"WEAKLABEL_STORE": "s3", "S3_BUCKET": ""}, "S3_BUCKET is required"},
		{"minio without endpoint", map[string]string{"WEAKLABEL_STORE": "minio", "MINIO_ENDPOINT": ""}, "MINIO_ENDPOINT is required"},
		{"zero epochs", map[string]string{"WEAKLABEL_STORE": "local", "WEAKLABEL_EPOCHS": "0"}, "WEAKLABEL_EPOCHS must be positive"},
		{"negative C", map[string]string{"WEAKLABEL_STORE": "local", "WEAKLABEL_C": "-1"}, "WEAKLABEL_C must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
