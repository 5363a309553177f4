package service

import (
	"errors"
	"fmt"

	"video-pipeline-service/ddd/domain/vo"
)

// ErrNoPlayableSource means neither a transcoded variant nor the original
// upload could be signed for playback.
var ErrNoPlayableSource = errors.New("no playable source available")

// DownloadError wraps a failure to fetch the source object. It is the
// only error class that aborts a whole processing run.
type DownloadError struct {
	Key string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download source %s: %v", e.Key, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// ProbeError wraps a metadata probe failure. Probing is best-effort: the
// run continues with zero duration.
type ProbeError struct {
	Err error
}

func (e *ProbeError) Error() string { return fmt.Sprintf("probe source: %v", e.Err) }

func (e *ProbeError) Unwrap() error { return e.Err }

// TranscodeError records which rendition failed without failing the rest
// of the matrix.
type TranscodeError struct {
	Quality vo.Quality
	Format  vo.Format
	Err     error
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("transcode %s/%s: %v", e.Quality, e.Format, e.Err)
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// ThumbnailError records a single failed frame extraction.
type ThumbnailError struct {
	Index int
	Err   error
}

func (e *ThumbnailError) Error() string {
	return fmt.Sprintf("thumbnail %d: %v", e.Index, e.Err)
}

func (e *ThumbnailError) Unwrap() error { return e.Err }
