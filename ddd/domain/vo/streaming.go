package vo

// StreamingOptions narrows a playback request.
type StreamingOptions struct {
	Format           Format
	Quality          Quality
	StartTimeSeconds float64
}

// StreamingQuality is one playable rendition offered to the client.
type StreamingQuality struct {
	Label  string `json:"label"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// StreamingDescriptor answers a playback request. Computed on demand,
// never persisted.
type StreamingDescriptor struct {
	URL              string             `json:"url"`
	Format           string             `json:"format"`
	MimeType         string             `json:"mimeType"`
	DurationSeconds  float64            `json:"durationSeconds"`
	StartTimeSeconds float64            `json:"startTimeSeconds,omitempty"`
	Qualities        []StreamingQuality `json:"qualities"`
}
