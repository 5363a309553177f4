package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  host: 0.0.0.0
  port: 8084
minio:
  endpoint: 127.0.0.1:9000
  bucket_name: video-content
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Worker.MaxConcurrentJobs)
	assert.Equal(t, 4, cfg.Worker.MaxConcurrentPairs)
	assert.Equal(t, 20, cfg.Worker.QueueCapacity)
	assert.Equal(t, "ffmpeg", cfg.Processing.FFmpeg.BinaryPath)
	assert.Equal(t, "ffprobe", cfg.Processing.FFmpeg.ProbeBinaryPath)
	assert.Equal(t, 23, cfg.Processing.FFmpeg.CRF)
	assert.Equal(t, "medium", cfg.Processing.FFmpeg.Preset)
	assert.Equal(t, 3, cfg.Processing.ThumbnailCount)
	assert.Equal(t, []string{"mp4", "webm"}, cfg.Processing.Formats)
	require.Len(t, cfg.Processing.QualityLadder, 3)
	assert.Equal(t, "high", cfg.Processing.QualityLadder[0].Name)

	assert.Equal(t, 4*time.Hour, cfg.Streaming.SignTTL)
	assert.Equal(t, 2*time.Hour, cfg.Streaming.URLCacheTTL)

	assert.Equal(t, "video.uploaded", cfg.Kafka.Topics.VideoUploaded)
	assert.Equal(t, "video.processed", cfg.Kafka.Topics.VideoProcessed)
}

func TestLoadCacheTTLNeverExceedsSignTTL(t *testing.T) {
	path := writeConfigFile(t, `
streaming:
  sign_ttl: 1h
  url_cache_ttl: 2h
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Streaming.SignTTL)
	assert.Equal(t, 30*time.Minute, cfg.Streaming.URLCacheTTL)
}

func TestLoadMinioKeyAliases(t *testing.T) {
	path := writeConfigFile(t, `
minio:
  endpoint: 127.0.0.1:9000
  access_key: legacy-access
  secret_key: legacy-secret
  bucket_name: video-content
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "legacy-access", cfg.Minio.AccessKeyID)
	assert.Equal(t, "legacy-secret", cfg.Minio.SecretAccessKey)
}

func TestGetDSN(t *testing.T) {
	c := DatabaseConfig{
		Host:     "db.local",
		Port:     3306,
		Username: "svc",
		Password: "secret",
		Database: "video_pipeline",
	}

	dsn := c.GetDSN()
	assert.Contains(t, dsn, "svc:secret@tcp(db.local:3306)/video_pipeline")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
