package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-pipeline-service/ddd/domain/vo"
)

func TestTranscodeAllProducesFullMatrix(t *testing.T) {
	scratch := t.TempDir()
	blob := newFakeBlobStore()
	toolkit := newFakeToolkit()
	engine := NewTranscodeEngine(blob, toolkit, newTestConfig(scratch))

	variants, failures := engine.TranscodeAll(context.Background(), "asset-1", "owner-1", "in.mp4", scratch, nil)

	require.Empty(t, failures)
	require.Len(t, variants, 6)

	seen := make(map[string]bool)
	for _, v := range variants {
		seen[string(v.Quality)+"/"+string(v.Format)] = true
		assert.Equal(t, vo.VariantKey("owner-1", "asset-1", v.Quality, v.Format), v.BlobKey)
		assert.Equal(t, int64(1024), v.SizeBytes)
		assert.True(t, blob.has(v.BlobKey))
	}
	for _, q := range []string{"high", "medium", "low"} {
		for _, f := range []string{"mp4", "webm"} {
			assert.True(t, seen[q+"/"+f], "missing pair %s/%s", q, f)
		}
	}
}

func TestTranscodeAllIsolatesPairFailures(t *testing.T) {
	scratch := t.TempDir()
	blob := newFakeBlobStore()
	toolkit := newFakeToolkit()
	toolkit.failFormats[vo.FormatWebM] = true
	engine := NewTranscodeEngine(blob, toolkit, newTestConfig(scratch))

	variants, failures := engine.TranscodeAll(context.Background(), "asset-1", "owner-1", "in.mp4", scratch, nil)

	require.Len(t, variants, 3)
	for _, v := range variants {
		assert.Equal(t, vo.FormatMP4, v.Format)
	}

	require.Len(t, failures, 3)
	for _, err := range failures {
		var pairErr *TranscodeError
		require.ErrorAs(t, err, &pairErr)
		assert.Equal(t, vo.FormatWebM, pairErr.Format)
	}
}

func TestTranscodeAllIsolatesUploadFailures(t *testing.T) {
	scratch := t.TempDir()
	blob := newFakeBlobStore()
	blob.failPut[vo.VariantKey("owner-1", "asset-1", vo.QualityHigh, vo.FormatMP4)] = true
	toolkit := newFakeToolkit()
	engine := NewTranscodeEngine(blob, toolkit, newTestConfig(scratch))

	variants, failures := engine.TranscodeAll(context.Background(), "asset-1", "owner-1", "in.mp4", scratch, nil)

	assert.Len(t, variants, 5)
	require.Len(t, failures, 1)
	var pairErr *TranscodeError
	require.ErrorAs(t, failures[0], &pairErr)
	assert.Equal(t, vo.QualityHigh, pairErr.Quality)
	assert.Equal(t, vo.FormatMP4, pairErr.Format)
}

func TestTranscodeAllReportsAggregateProgress(t *testing.T) {
	scratch := t.TempDir()
	blob := newFakeBlobStore()
	toolkit := newFakeToolkit()
	engine := NewTranscodeEngine(blob, toolkit, newTestConfig(scratch))

	var last int
	_, failures := engine.TranscodeAll(context.Background(), "asset-1", "owner-1", "in.mp4", scratch, func(percent int) {
		assert.GreaterOrEqual(t, percent, 0)
		assert.LessOrEqual(t, percent, 100)
		last = percent
	})

	require.Empty(t, failures)
	assert.Equal(t, 100, last)
}
