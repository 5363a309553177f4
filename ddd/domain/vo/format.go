package vo

import "fmt"

// Format is a container/codec pairing for a transcoded rendition.
type Format string

const (
	// FormatMP4 is H.264 video with AAC audio, faststart for progressive playback.
	FormatMP4 Format = "mp4"
	// FormatWebM is VP9 video with Opus audio.
	FormatWebM Format = "webm"
)

// DefaultFormats returns the built-in output formats.
func DefaultFormats() []Format {
	return []Format{FormatMP4, FormatWebM}
}

// ParseFormat validates a requested container format. Empty defaults to mp4.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return FormatMP4, nil
	case FormatMP4, FormatWebM:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", s)
	}
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	return string(f)
}

// MimeType maps the container format onto a playback MIME type.
func (f Format) MimeType() string {
	if f == FormatMP4 {
		return "video/mp4"
	}
	return "video/webm"
}

func (f Format) String() string {
	return string(f)
}
