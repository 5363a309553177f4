package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"video-pipeline-service/ddd/domain/gateway"
	"video-pipeline-service/ddd/domain/port"
	"video-pipeline-service/ddd/domain/vo"
	"video-pipeline-service/pkg/config"
	"video-pipeline-service/pkg/logger"
)

const (
	thumbnailWidth  = 640
	thumbnailHeight = 360

	// Spacing between sample points when the source duration is unknown.
	unknownDurationStepSeconds = 30
)

// ThumbnailGenerator extracts still frames spread across the video and
// uploads them. Each frame fails independently.
type ThumbnailGenerator interface {
	// GenerateAll extracts and uploads the configured number of
	// thumbnails, returning the ones that succeeded plus one error per
	// failed frame.
	GenerateAll(ctx context.Context, assetID, ownerID, inputPath, scratchDir string, durationSeconds float64) ([]vo.Thumbnail, []error)
}

type thumbnailGeneratorImpl struct {
	blobStore gateway.BlobStore
	toolkit   port.MediaToolkit
	cfg       *config.Config
}

// NewThumbnailGenerator creates the frame extraction service.
func NewThumbnailGenerator(blobStore gateway.BlobStore, toolkit port.MediaToolkit, cfg *config.Config) ThumbnailGenerator {
	return &thumbnailGeneratorImpl{blobStore: blobStore, toolkit: toolkit, cfg: cfg}
}

func (g *thumbnailGeneratorImpl) GenerateAll(ctx context.Context, assetID, ownerID, inputPath, scratchDir string, durationSeconds float64) ([]vo.Thumbnail, []error) {
	count := g.cfg.Processing.ThumbnailCount
	offsets := ThumbnailTimestamps(durationSeconds, count)

	var (
		thumbnails []vo.Thumbnail
		failures   []error
	)
	for i, offset := range offsets {
		localPath := filepath.Join(scratchDir, fmt.Sprintf("%s_thumbnail_%d.jpg", assetID, i))
		if err := g.toolkit.ExtractFrame(ctx, inputPath, localPath, offset, thumbnailWidth, thumbnailHeight); err != nil {
			failures = append(failures, &ThumbnailError{Index: i, Err: err})
			continue
		}

		key := vo.ThumbnailKey(ownerID, assetID, i)
		if _, err := g.blobStore.PutObject(ctx, key, localPath, "image/jpeg"); err != nil {
			failures = append(failures, &ThumbnailError{Index: i, Err: fmt.Errorf("upload thumbnail: %w", err)})
			continue
		}

		if err := os.Remove(localPath); err != nil {
			logger.Warnf("failed to clean local thumbnail path=%s error=%s", localPath, err.Error())
		}

		thumbnails = append(thumbnails, vo.Thumbnail{
			Index:            i,
			TimestampSeconds: offset,
			BlobKey:          key,
		})
	}
	return thumbnails, failures
}

// ThumbnailTimestamps returns count sample offsets in seconds. With a
// known duration the offsets span the middle 80% of the video, skipping
// intros and credits. With an unknown duration it falls back to a fixed
// 30-second grid starting at zero.
func ThumbnailTimestamps(durationSeconds float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	offsets := make([]float64, count)
	if durationSeconds <= 0 {
		for i := range offsets {
			offsets[i] = float64(i * unknownDurationStepSeconds)
		}
		return offsets
	}
	if count == 1 {
		offsets[0] = durationSeconds * 0.5
		return offsets
	}
	start := durationSeconds * 0.1
	span := durationSeconds * 0.8
	for i := range offsets {
		offsets[i] = start + float64(i)*span/float64(count-1)
	}
	return offsets
}
