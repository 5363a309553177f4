package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-pipeline-service/ddd/domain/vo"
)

func TestApplyClampsProgress(t *testing.T) {
	job := NewProcessingJob("asset-1")

	job.Apply(vo.StageTranscoding, 150, "")
	assert.Equal(t, 100, job.ProgressPercent)

	job.Apply(vo.StageTranscoding, -5, "")
	assert.Equal(t, 0, job.ProgressPercent)
}

func TestApplyKeepsMessageWhenEmpty(t *testing.T) {
	job := NewProcessingJob("asset-1")

	job.Apply(vo.StageAnalyzing, 5, "probing metadata")
	job.Apply(vo.StageTranscoding, 10, "")

	assert.Equal(t, "probing metadata", job.Message)
}

func TestCompletedAtSetExactlyOnce(t *testing.T) {
	job := NewProcessingJob("asset-1")

	job.Apply(vo.StageCompleted, 100, "")
	require.NotNil(t, job.CompletedAt)
	first := *job.CompletedAt

	job.Apply(vo.StageFailed, 100, "")
	assert.Equal(t, first, *job.CompletedAt)
}

func TestMarkFailedRecordsError(t *testing.T) {
	job := NewProcessingJob("asset-1")
	job.MarkFailed("download failed")

	assert.Equal(t, vo.StageFailed, job.Stage)
	assert.Equal(t, "download failed", job.Error)
	assert.NotNil(t, job.CompletedAt)
	assert.False(t, job.IsActive())
}

func TestSnapshotIsIndependent(t *testing.T) {
	job := NewProcessingJob("asset-1")
	job.Apply(vo.StageCompleted, 100, "")

	snap := job.Snapshot()
	require.NotNil(t, snap.CompletedAt)
	assert.NotSame(t, job.CompletedAt, snap.CompletedAt)

	job.MarkFailed("mutated afterwards")
	assert.Equal(t, vo.StageCompleted, snap.Stage)
	assert.Empty(t, snap.Error)
}
