package vo

// ProbeResult carries the metadata extracted from a raw media file.
// DurationSeconds is 0 when the tool could not determine it.
type ProbeResult struct {
	DurationSeconds float64
	Width           int
	Height          int
}

// VideoVariant is one transcoded rendition stored in the blob store.
type VideoVariant struct {
	Quality   Quality
	Format    Format
	BlobKey   string
	SizeBytes int64
}

// Thumbnail is one extracted still frame.
type Thumbnail struct {
	Index            int
	TimestampSeconds float64
	BlobKey          string
}

// ProcessingResult is what one pipeline run produced. Any subset of
// variants and thumbnails may be missing; a partial result is a success.
type ProcessingResult struct {
	Variants        []VideoVariant
	Thumbnails      []Thumbnail
	DurationSeconds float64
}

// ProcessedEvent is published when a pipeline run finishes, successfully
// or not, so the upstream web layer can refresh the content record view.
type ProcessedEvent struct {
	AssetID         string  `json:"asset_id"`
	OwnerID         string  `json:"owner_id"`
	Succeeded       bool    `json:"succeeded"`
	VariantCount    int     `json:"variant_count"`
	ThumbnailCount  int     `json:"thumbnail_count"`
	DurationSeconds float64 `json:"duration_seconds"`
	Error           string  `json:"error,omitempty"`
}
