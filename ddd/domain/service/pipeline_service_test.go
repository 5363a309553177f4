package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-pipeline-service/ddd/domain/entity"
	"video-pipeline-service/ddd/domain/vo"
)

func newTestPipeline(scratch string, blob *fakeBlobStore, toolkit *fakeToolkit, tracker ProgressTracker) PipelineService {
	cfg := newTestConfig(scratch)
	engine := NewTranscodeEngine(blob, toolkit, cfg)
	thumbnails := NewThumbnailGenerator(blob, toolkit, cfg)
	return NewPipelineService(blob, toolkit, engine, thumbnails, tracker, cfg)
}

func TestProcessHappyPath(t *testing.T) {
	scratch := t.TempDir()
	blob := newFakeBlobStore()
	toolkit := newFakeToolkit()
	tracker := NewProgressTracker()
	tracker.Init("asset-1")
	pipeline := newTestPipeline(scratch, blob, toolkit, tracker)

	req := entity.NewProcessingRequest("uploads/owner-1/asset-1/raw.mp4", "owner-1", "asset-1")
	result, err := pipeline.Process(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, result.Variants, 6)
	assert.Len(t, result.Thumbnails, 3)
	assert.InDelta(t, 120.0, result.DurationSeconds, 1e-9)

	job, err := tracker.Get("asset-1")
	require.NoError(t, err)
	assert.Equal(t, vo.StageFinalizing, job.Stage)

	_, statErr := os.Stat(filepath.Join(scratch, "asset-1"))
	assert.True(t, os.IsNotExist(statErr), "scratch dir should be removed")
}

func TestProcessDownloadFailureIsFatal(t *testing.T) {
	scratch := t.TempDir()
	blob := newFakeBlobStore()
	blob.downloadErr = fmt.Errorf("connection refused")
	toolkit := newFakeToolkit()
	tracker := NewProgressTracker()
	tracker.Init("asset-1")
	pipeline := newTestPipeline(scratch, blob, toolkit, tracker)

	req := entity.NewProcessingRequest("uploads/owner-1/asset-1/raw.mp4", "owner-1", "asset-1")
	result, err := pipeline.Process(context.Background(), req)

	require.Error(t, err)
	var dlErr *DownloadError
	require.ErrorAs(t, err, &dlErr)
	assert.Empty(t, result.Variants)
	assert.Empty(t, result.Thumbnails)

	job, getErr := tracker.Get("asset-1")
	require.NoError(t, getErr)
	assert.Equal(t, vo.StageFailed, job.Stage)
	assert.NotNil(t, job.CompletedAt)

	_, statErr := os.Stat(filepath.Join(scratch, "asset-1"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestProcessProbeFailureDegrades(t *testing.T) {
	scratch := t.TempDir()
	blob := newFakeBlobStore()
	toolkit := newFakeToolkit()
	toolkit.probeErr = fmt.Errorf("moov atom not found")
	tracker := NewProgressTracker()
	tracker.Init("asset-1")
	pipeline := newTestPipeline(scratch, blob, toolkit, tracker)

	req := entity.NewProcessingRequest("uploads/owner-1/asset-1/raw.mp4", "owner-1", "asset-1")
	result, err := pipeline.Process(context.Background(), req)

	require.NoError(t, err)
	assert.Zero(t, result.DurationSeconds)
	// Thumbnails fall back to the fixed grid when duration is unknown.
	require.Len(t, result.Thumbnails, 3)
	assert.InDelta(t, 0.0, result.Thumbnails[0].TimestampSeconds, 1e-9)
	assert.InDelta(t, 30.0, result.Thumbnails[1].TimestampSeconds, 1e-9)
}

func TestProcessPartialFailureIsSuccess(t *testing.T) {
	scratch := t.TempDir()
	blob := newFakeBlobStore()
	toolkit := newFakeToolkit()
	toolkit.failFormats[vo.FormatWebM] = true
	toolkit.frameErrIdx[0] = true
	tracker := NewProgressTracker()
	tracker.Init("asset-1")
	pipeline := newTestPipeline(scratch, blob, toolkit, tracker)

	req := entity.NewProcessingRequest("uploads/owner-1/asset-1/raw.mp4", "owner-1", "asset-1")
	result, err := pipeline.Process(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, result.Variants, 3)
	assert.Len(t, result.Thumbnails, 2)
}
