package port

import (
	"context"

	"video-pipeline-service/ddd/domain/vo"
)

// ProgressCallback receives transcode progress for one output in the
// range [0,100]. Implementations must tolerate out-of-order values.
type ProgressCallback func(percent float64)

// TranscodeSpec describes a single rendition to produce.
type TranscodeSpec struct {
	InputPath  string
	OutputPath string
	Width      int
	Height     int
	Format     vo.Format
}

// MediaToolkit abstracts the media binaries so domain services stay
// testable without ffmpeg on the machine.
type MediaToolkit interface {
	// Probe inspects a local file and returns its duration and dimensions.
	Probe(ctx context.Context, inputPath string) (vo.ProbeResult, error)

	// Transcode produces one rendition according to spec, reporting
	// progress through cb when cb is non-nil.
	Transcode(ctx context.Context, spec TranscodeSpec, cb ProgressCallback) error

	// ExtractFrame writes a single JPEG frame taken at the given offset,
	// scaled to fit width x height with aspect preserved.
	ExtractFrame(ctx context.Context, inputPath, outputPath string, offsetSeconds float64, width, height int) error
}
