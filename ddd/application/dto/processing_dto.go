package dto

import (
	"time"

	"video-pipeline-service/ddd/domain/entity"
)

// ProcessingJobDTO is the progress view returned to API callers.
type ProcessingJobDTO struct {
	JobID           string     `json:"job_id"`
	Stage           string     `json:"stage"`
	ProgressPercent int        `json:"progress_percent"`
	Message         string     `json:"message,omitempty"`
	Error           string     `json:"error,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// FromProcessingJob maps the tracker snapshot onto the API shape.
func FromProcessingJob(job entity.ProcessingJob) *ProcessingJobDTO {
	return &ProcessingJobDTO{
		JobID:           job.JobID,
		Stage:           job.Stage.String(),
		ProgressPercent: job.ProgressPercent,
		Message:         job.Message,
		Error:           job.Error,
		StartedAt:       job.StartedAt,
		UpdatedAt:       job.UpdatedAt,
		CompletedAt:     job.CompletedAt,
	}
}
