package entity

import "time"

// ProcessingRequest is one unit of work queued for the background pool.
type ProcessingRequest struct {
	assetID    string
	ownerID    string
	sourceKey  string
	enqueuedAt time.Time
}

// NewProcessingRequest builds a request for the given upload.
func NewProcessingRequest(sourceKey, ownerID, assetID string) *ProcessingRequest {
	return &ProcessingRequest{
		assetID:    assetID,
		ownerID:    ownerID,
		sourceKey:  sourceKey,
		enqueuedAt: time.Now(),
	}
}

func (r *ProcessingRequest) AssetID() string       { return r.assetID }
func (r *ProcessingRequest) OwnerID() string       { return r.ownerID }
func (r *ProcessingRequest) SourceKey() string     { return r.sourceKey }
func (r *ProcessingRequest) EnqueuedAt() time.Time { return r.enqueuedAt }
