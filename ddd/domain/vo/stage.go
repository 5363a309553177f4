package vo

// Stage is the coarse processing phase of one ingestion job.
type Stage string

const (
	StageUploading            Stage = "uploading"
	StageAnalyzing            Stage = "analyzing"
	StageTranscoding          Stage = "transcoding"
	StageGeneratingThumbnails Stage = "generating_thumbnails"
	StageFinalizing           Stage = "finalizing"
	StageCompleted            Stage = "completed"
	StageFailed               Stage = "failed"
)

// IsValid reports whether s is a known stage.
func (s Stage) IsValid() bool {
	switch s {
	case StageUploading, StageAnalyzing, StageTranscoding,
		StageGeneratingThumbnails, StageFinalizing, StageCompleted, StageFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the stage ends the job. Stage transitions are
// otherwise unordered; a job may jump straight to failed.
func (s Stage) IsTerminal() bool {
	return s == StageCompleted || s == StageFailed
}

func (s Stage) String() string {
	return string(s)
}
