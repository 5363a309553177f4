package gateway

import (
	"context"

	"video-pipeline-service/ddd/domain/vo"
)

// ContentRecordStore is the pipeline's only coupling to persistence: the
// write-back of a finished run. Reading and lifecycle of the content
// record belong to the upload layer.
type ContentRecordStore interface {
	// MarkPlayable flags the asset as servable and records the probed
	// duration and chosen thumbnail URL when present. Called regardless of
	// how much of the pipeline succeeded: content must never stay
	// unplayable because processing failed.
	MarkPlayable(ctx context.Context, assetID string, durationSeconds float64, thumbnailURL string) error

	// RecordVariants stores the renditions a run produced, replacing any
	// rows from a previous run of the same asset.
	RecordVariants(ctx context.Context, assetID string, variants []vo.VideoVariant) error
}

// ResultPublisher notifies the upstream layer that a run finished.
type ResultPublisher interface {
	PublishProcessed(ctx context.Context, event vo.ProcessedEvent) error
}
