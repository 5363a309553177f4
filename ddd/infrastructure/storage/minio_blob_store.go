package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"video-pipeline-service/ddd/domain/gateway"
	"video-pipeline-service/internal/resource"
	"video-pipeline-service/pkg/config"
	"video-pipeline-service/pkg/logger"
)

// MinioBlobStore implements gateway.BlobStore on MinIO.
type MinioBlobStore struct {
	minioResource *resource.MinioResource
	cfg           *config.Config
}

// NewMinioBlobStore creates the blob store adapter.
func NewMinioBlobStore(minioResource *resource.MinioResource, cfg *config.Config) gateway.BlobStore {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &MinioBlobStore{minioResource: minioResource, cfg: cfg}
}

// PutObject uploads a local file and returns its size.
func (s *MinioBlobStore) PutObject(ctx context.Context, key, localPath, contentType string) (int64, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	if contentType == "" {
		contentType = contentTypeFromExtension(key)
	}

	info, err := client.FPutObject(ctx, bucketName, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Error("Failed to upload object to MinIO", map[string]interface{}{
			"local_path": localPath,
			"object_key": key,
			"error":      err.Error(),
		})
		return 0, fmt.Errorf("upload object to minio failed: %w", err)
	}

	logger.Info("Object uploaded", map[string]interface{}{
		"object_key": key,
		"size":       info.Size,
	})
	return info.Size, nil
}

// DownloadToFile fetches an object into localPath, creating parent
// directories first.
func (s *MinioBlobStore) DownloadToFile(ctx context.Context, key, localPath string) error {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("create local directory failed: %w", err)
	}

	if err := client.FGetObject(ctx, bucketName, key, localPath, minio.GetObjectOptions{}); err != nil {
		logger.Error("Failed to download object from MinIO", map[string]interface{}{
			"object_key": key,
			"local_path": localPath,
			"error":      err.Error(),
		})
		return fmt.Errorf("download object from minio failed: %w", err)
	}

	logger.Info("Object downloaded", map[string]interface{}{
		"object_key": key,
		"local_path": localPath,
	})
	return nil
}

// DeleteObject removes an object. MinIO treats a missing key as success.
func (s *MinioBlobStore) DeleteObject(ctx context.Context, key string) error {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	if err := client.RemoveObject(ctx, bucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object from minio failed: %w", err)
	}
	return nil
}

// SignGetURL returns a presigned read URL. The object is stat'ed first so
// a never-produced variant fails here instead of at playback time.
func (s *MinioBlobStore) SignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	if _, err := client.StatObject(ctx, bucketName, key, minio.StatObjectOptions{}); err != nil {
		return "", fmt.Errorf("stat object %s: %w", key, err)
	}

	signed, err := client.PresignedGetObject(ctx, bucketName, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign object %s: %w", key, err)
	}
	return signed.String(), nil
}

// PublicURL builds the unauthenticated URL for a public object using the
// configured storage base, falling back to the raw endpoint.
func (s *MinioBlobStore) PublicURL(key string, noCache bool) string {
	key = strings.TrimLeft(key, "/")

	base := strings.TrimSpace(s.cfg.Public.StorageBase)
	if base == "" {
		scheme := "http"
		if s.cfg.Minio.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, s.cfg.Minio.Endpoint, s.minioResource.GetBucketName())
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	u := strings.TrimRight(base, "/") + "/" + key
	if noCache {
		u += fmt.Sprintf("?t=%d", time.Now().Unix())
	}
	return u
}

func contentTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".avi":
		return "video/x-msvideo"
	case ".mov":
		return "video/quicktime"
	case ".mkv":
		return "video/x-matroska"
	default:
		return "application/octet-stream"
	}
}
