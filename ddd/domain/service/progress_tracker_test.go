package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-pipeline-service/ddd/domain/vo"
	"video-pipeline-service/pkg/errno"
)

func TestProgressTrackerInit(t *testing.T) {
	tracker := NewProgressTracker()

	job := tracker.Init("asset-1")
	assert.Equal(t, "asset-1", job.JobID)
	assert.Equal(t, vo.StageUploading, job.Stage)
	assert.Equal(t, 0, job.ProgressPercent)
	assert.Nil(t, job.CompletedAt)
}

func TestProgressTrackerClampsProgress(t *testing.T) {
	tracker := NewProgressTracker()
	tracker.Init("asset-1")

	job := tracker.Update("asset-1", vo.StageTranscoding, 150, "")
	assert.Equal(t, 100, job.ProgressPercent)

	job = tracker.Update("asset-1", vo.StageTranscoding, -5, "")
	assert.Equal(t, 0, job.ProgressPercent)
}

func TestProgressTrackerUpdateUnknownInitsFirst(t *testing.T) {
	tracker := NewProgressTracker()

	job := tracker.Update("never-seen", vo.StageAnalyzing, 10, "probing")
	assert.Equal(t, "never-seen", job.JobID)
	assert.Equal(t, vo.StageAnalyzing, job.Stage)
	assert.Equal(t, 10, job.ProgressPercent)
	assert.Equal(t, "probing", job.Message)
}

func TestProgressTrackerCompletedAtSetOnce(t *testing.T) {
	tracker := NewProgressTracker()
	tracker.Init("asset-1")

	first := tracker.Fail("asset-1", "download failed")
	require.NotNil(t, first.CompletedAt)

	second := tracker.Fail("asset-1", "again")
	require.NotNil(t, second.CompletedAt)
	assert.Equal(t, *first.CompletedAt, *second.CompletedAt)
	assert.Equal(t, "again", second.Error)
}

func TestProgressTrackerGetUnknown(t *testing.T) {
	tracker := NewProgressTracker()

	_, err := tracker.Get("missing")
	require.Error(t, err)

	biz, ok := err.(*errno.BizError)
	require.True(t, ok)
	assert.Equal(t, errno.ErrJobNotFound.Code, biz.Code())
}

func TestProgressTrackerRemove(t *testing.T) {
	tracker := NewProgressTracker()
	tracker.Init("asset-1")
	tracker.Remove("asset-1")

	_, err := tracker.Get("asset-1")
	assert.Error(t, err)
}

func TestProgressTrackerListActive(t *testing.T) {
	tracker := NewProgressTracker()
	tracker.Init("running")
	tracker.Init("done")
	tracker.Update("done", vo.StageCompleted, 100, "")
	tracker.Init("broken")
	tracker.Fail("broken", "boom")

	active := tracker.ListActive()
	require.Len(t, active, 1)
	assert.Equal(t, "running", active[0].JobID)
}

func TestProgressTrackerReInitResets(t *testing.T) {
	tracker := NewProgressTracker()
	tracker.Init("asset-1")
	tracker.Fail("asset-1", "first run died")

	job := tracker.Init("asset-1")
	assert.Equal(t, vo.StageUploading, job.Stage)
	assert.Empty(t, job.Error)
	assert.Nil(t, job.CompletedAt)
}
