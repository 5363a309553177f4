package service

import (
	"sync"

	"video-pipeline-service/ddd/domain/entity"
	"video-pipeline-service/ddd/domain/vo"
	"video-pipeline-service/pkg/errno"
)

// ProgressTracker holds the live state of processing jobs in memory. The
// job id equals the asset id. State is advisory: a restart loses it, and
// nothing downstream depends on it for correctness.
type ProgressTracker interface {
	// Init registers a job at the uploading stage with zero progress.
	// Re-initializing an asset resets its job, which covers reprocessing.
	Init(assetID string) entity.ProcessingJob

	// Update moves the job to stage with the given progress and optional
	// message. An unknown asset is initialized first, then updated.
	Update(assetID string, stage vo.Stage, progress int, message string) entity.ProcessingJob

	// Fail marks the job failed with the given reason.
	Fail(assetID string, reason string) entity.ProcessingJob

	// Get returns a snapshot of the job, or ErrJobNotFound when the asset
	// was never tracked (or the tracker restarted since).
	Get(assetID string) (entity.ProcessingJob, error)

	// Remove drops a job from the tracker.
	Remove(assetID string)

	// ListActive returns snapshots of all non-terminal jobs.
	ListActive() []entity.ProcessingJob
}

type progressTrackerImpl struct {
	mu   sync.RWMutex
	jobs map[string]*entity.ProcessingJob
}

// NewProgressTracker creates an empty in-memory tracker.
func NewProgressTracker() ProgressTracker {
	return &progressTrackerImpl{jobs: make(map[string]*entity.ProcessingJob)}
}

func (t *progressTrackerImpl) Init(assetID string) entity.ProcessingJob {
	job := entity.NewProcessingJob(assetID)
	t.mu.Lock()
	t.jobs[assetID] = job
	t.mu.Unlock()
	return job.Snapshot()
}

func (t *progressTrackerImpl) Update(assetID string, stage vo.Stage, progress int, message string) entity.ProcessingJob {
	t.mu.Lock()
	defer t.mu.Unlock()
	job := t.upsert(assetID)
	job.Apply(stage, progress, message)
	return job.Snapshot()
}

func (t *progressTrackerImpl) Fail(assetID string, reason string) entity.ProcessingJob {
	t.mu.Lock()
	defer t.mu.Unlock()
	job := t.upsert(assetID)
	job.MarkFailed(reason)
	return job.Snapshot()
}

// upsert returns the tracked job, creating it first when unknown.
// Callers hold the write lock.
func (t *progressTrackerImpl) upsert(assetID string) *entity.ProcessingJob {
	job, ok := t.jobs[assetID]
	if !ok {
		job = entity.NewProcessingJob(assetID)
		t.jobs[assetID] = job
	}
	return job
}

func (t *progressTrackerImpl) Get(assetID string) (entity.ProcessingJob, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	job, ok := t.jobs[assetID]
	if !ok {
		return entity.ProcessingJob{}, errno.NewBizError(errno.ErrJobNotFound, nil)
	}
	return job.Snapshot(), nil
}

func (t *progressTrackerImpl) Remove(assetID string) {
	t.mu.Lock()
	delete(t.jobs, assetID)
	t.mu.Unlock()
}

func (t *progressTrackerImpl) ListActive() []entity.ProcessingJob {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]entity.ProcessingJob, 0, len(t.jobs))
	for _, job := range t.jobs {
		if job.IsActive() {
			out = append(out, job.Snapshot())
		}
	}
	return out
}
