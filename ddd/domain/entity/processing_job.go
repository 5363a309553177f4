package entity

import (
	"time"

	"video-pipeline-service/ddd/domain/vo"
)

// ProcessingJob records the observable state of one pipeline run. One job
// per asset; the job id equals the asset id. Held in process memory only,
// so a restart loses in-flight progress — acceptable because the asset is
// marked playable regardless of tracker state.
type ProcessingJob struct {
	JobID           string
	Stage           vo.Stage
	ProgressPercent int
	Message         string
	Error           string
	StartedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}

// NewProcessingJob creates a job in the uploading stage.
func NewProcessingJob(jobID string) *ProcessingJob {
	now := time.Now()
	return &ProcessingJob{
		JobID:     jobID,
		Stage:     vo.StageUploading,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Apply merges a stage update. Progress is clamped into [0,100].
// CompletedAt is set exactly once, on first entry to a terminal stage;
// message and error text are last-write-wins.
func (j *ProcessingJob) Apply(stage vo.Stage, progress int, message string) {
	now := time.Now()
	j.Stage = stage
	j.ProgressPercent = clampProgress(progress)
	if message != "" {
		j.Message = message
	}
	j.UpdatedAt = now
	if stage.IsTerminal() && j.CompletedAt == nil {
		j.CompletedAt = &now
	}
}

// MarkFailed moves the job to the failed stage recording the error text.
func (j *ProcessingJob) MarkFailed(errMsg string) {
	j.Error = errMsg
	j.Apply(vo.StageFailed, j.ProgressPercent, "")
}

// IsActive reports whether the job has not reached a terminal stage.
func (j *ProcessingJob) IsActive() bool {
	return !j.Stage.IsTerminal()
}

// Snapshot returns a copy safe to hand outside the tracker's lock.
func (j *ProcessingJob) Snapshot() ProcessingJob {
	cp := *j
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		cp.CompletedAt = &t
	}
	return cp
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
