package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-pipeline-service/ddd/domain/vo"
)

func TestThumbnailTimestampsSpanMiddle(t *testing.T) {
	for _, count := range []int{2, 3, 5, 10} {
		offsets := ThumbnailTimestamps(100, count)
		require.Len(t, offsets, count)

		assert.InDelta(t, 10.0, offsets[0], 1e-9)
		assert.InDelta(t, 90.0, offsets[count-1], 1e-9)
		for i := 1; i < count; i++ {
			assert.Greater(t, offsets[i], offsets[i-1])
		}
	}
}

func TestThumbnailTimestampsUnknownDuration(t *testing.T) {
	assert.Equal(t, []float64{0, 30, 60}, ThumbnailTimestamps(0, 3))
	assert.Equal(t, []float64{0, 30, 60, 90, 120}, ThumbnailTimestamps(0, 5))
}

func TestThumbnailTimestampsSingle(t *testing.T) {
	offsets := ThumbnailTimestamps(80, 1)
	require.Len(t, offsets, 1)
	assert.InDelta(t, 40.0, offsets[0], 1e-9)
}

func TestThumbnailTimestampsZeroCount(t *testing.T) {
	assert.Nil(t, ThumbnailTimestamps(100, 0))
	assert.Nil(t, ThumbnailTimestamps(100, -1))
}

func TestGenerateAllUploadsEveryFrame(t *testing.T) {
	scratch := t.TempDir()
	blob := newFakeBlobStore()
	toolkit := newFakeToolkit()
	gen := NewThumbnailGenerator(blob, toolkit, newTestConfig(scratch))

	thumbs, failures := gen.GenerateAll(context.Background(), "asset-1", "owner-1", "in.mp4", scratch, 100)

	require.Empty(t, failures)
	require.Len(t, thumbs, 3)
	for i, th := range thumbs {
		assert.Equal(t, i, th.Index)
		assert.Equal(t, vo.ThumbnailKey("owner-1", "asset-1", i), th.BlobKey)
		assert.True(t, blob.has(th.BlobKey))
	}
	assert.InDelta(t, 10.0, thumbs[0].TimestampSeconds, 1e-9)
	assert.InDelta(t, 90.0, thumbs[2].TimestampSeconds, 1e-9)
}

func TestGenerateAllIsolatesFrameFailures(t *testing.T) {
	scratch := t.TempDir()
	blob := newFakeBlobStore()
	toolkit := newFakeToolkit()
	toolkit.frameErrIdx[1] = true
	gen := NewThumbnailGenerator(blob, toolkit, newTestConfig(scratch))

	thumbs, failures := gen.GenerateAll(context.Background(), "asset-1", "owner-1", "in.mp4", scratch, 100)

	require.Len(t, failures, 1)
	var thumbErr *ThumbnailError
	require.ErrorAs(t, failures[0], &thumbErr)
	assert.Equal(t, 1, thumbErr.Index)

	require.Len(t, thumbs, 2)
	assert.Equal(t, 0, thumbs[0].Index)
	assert.Equal(t, 2, thumbs[1].Index)
}
