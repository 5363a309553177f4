package entity

// MediaAsset identifies one uploaded source file. Created by the upload
// layer; the pipeline only reads it and reports results back.
type MediaAsset struct {
	id              string
	ownerID         string
	sourceKey       string
	durationSeconds float64
}

// NewMediaAsset builds an asset reference from the upload metadata.
func NewMediaAsset(id, ownerID, sourceKey string, durationSeconds float64) *MediaAsset {
	return &MediaAsset{
		id:              id,
		ownerID:         ownerID,
		sourceKey:       sourceKey,
		durationSeconds: durationSeconds,
	}
}

func (a *MediaAsset) ID() string               { return a.id }
func (a *MediaAsset) OwnerID() string          { return a.ownerID }
func (a *MediaAsset) SourceKey() string        { return a.sourceKey }
func (a *MediaAsset) DurationSeconds() float64 { return a.durationSeconds }

// SetDurationSeconds records the probed duration.
func (a *MediaAsset) SetDurationSeconds(d float64) {
	if d > 0 {
		a.durationSeconds = d
	}
}
