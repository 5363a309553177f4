package vo

import "fmt"

// Quality is one tier of the fixed resolution ladder.
type Quality string

const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"

	// QualityAuto asks the resolver to pick the best available tier.
	QualityAuto Quality = "auto"
)

// QualityTier binds a tier name to its target resolution.
type QualityTier struct {
	Name   Quality
	Width  int
	Height int
}

// DefaultLadder returns the built-in ladder in preference order, highest
// first. The resolver falls back along this order.
func DefaultLadder() []QualityTier {
	return []QualityTier{
		{Name: QualityHigh, Width: 1280, Height: 720},
		{Name: QualityMedium, Width: 854, Height: 480},
		{Name: QualityLow, Width: 640, Height: 360},
	}
}

// ParseQuality validates a requested quality label. Empty means auto.
func ParseQuality(s string) (Quality, error) {
	switch Quality(s) {
	case "", QualityAuto:
		return QualityAuto, nil
	case QualityHigh, QualityMedium, QualityLow:
		return Quality(s), nil
	default:
		return "", fmt.Errorf("unknown quality tier: %s", s)
	}
}

func (q Quality) String() string {
	return string(q)
}
