package service

import (
	"context"
	"fmt"

	"video-pipeline-service/ddd/domain/gateway"
	"video-pipeline-service/ddd/domain/vo"
	"video-pipeline-service/pkg/config"
	"video-pipeline-service/pkg/logger"
)

// Dimensions reported for the synthetic "Original" entry. The true
// dimensions of the raw upload are not tracked.
const (
	originalLabel          = "Original"
	originalFallbackWidth  = 1280
	originalFallbackHeight = 720
)

// StreamingResolver computes playback descriptors on demand. Nothing is
// persisted: the ladder is walked and signed per request, with an
// optional short-lived URL cache in front of the signer.
type StreamingResolver interface {
	// Resolve signs the available renditions for an asset and picks one
	// according to the requested quality. It returns ErrNoPlayableSource
	// only when neither a variant nor the original source can be signed.
	Resolve(ctx context.Context, assetID, ownerID, sourceKey string, durationSeconds float64, opts vo.StreamingOptions) (vo.StreamingDescriptor, error)
}

type streamingResolverImpl struct {
	blobStore gateway.BlobStore
	urlCache  gateway.URLCache
	cfg       *config.Config
}

// NewStreamingResolver creates the resolver. urlCache may be nil, in
// which case every request signs fresh URLs.
func NewStreamingResolver(blobStore gateway.BlobStore, urlCache gateway.URLCache, cfg *config.Config) StreamingResolver {
	return &streamingResolverImpl{blobStore: blobStore, urlCache: urlCache, cfg: cfg}
}

func (r *streamingResolverImpl) Resolve(ctx context.Context, assetID, ownerID, sourceKey string, durationSeconds float64, opts vo.StreamingOptions) (vo.StreamingDescriptor, error) {
	format := opts.Format
	if format == "" {
		format = vo.FormatMP4
	}

	// Walk the fixed ladder highest first. A tier that fails to sign was
	// most likely never produced; drop it and keep going.
	qualities := make([]vo.StreamingQuality, 0, 3)
	for _, tier := range vo.DefaultLadder() {
		key := vo.VariantKey(ownerID, assetID, tier.Name, format)
		url, err := r.signURL(ctx, key)
		if err != nil {
			logger.Debugf("variant not signable asset_id=%s quality=%s format=%s error=%s", assetID, tier.Name, format, err.Error())
			continue
		}
		qualities = append(qualities, vo.StreamingQuality{
			Label:  string(tier.Name),
			URL:    url,
			Width:  tier.Width,
			Height: tier.Height,
		})
	}

	if len(qualities) == 0 {
		url, err := r.signURL(ctx, sourceKey)
		if err != nil {
			logger.Warnf("no playable source asset_id=%s source_key=%s error=%s", assetID, sourceKey, err.Error())
			return vo.StreamingDescriptor{}, fmt.Errorf("resolve %s: %w", assetID, ErrNoPlayableSource)
		}
		qualities = append(qualities, vo.StreamingQuality{
			Label:  originalLabel,
			URL:    url,
			Width:  originalFallbackWidth,
			Height: originalFallbackHeight,
		})
	}

	selected := selectQuality(qualities, opts.Quality)
	return vo.StreamingDescriptor{
		URL:              selected.URL,
		Format:           string(format),
		MimeType:         format.MimeType(),
		DurationSeconds:  durationSeconds,
		StartTimeSeconds: opts.StartTimeSeconds,
		Qualities:        qualities,
	}, nil
}

// selectQuality picks the entry to play: auto takes the first (highest)
// available, a named tier matches by label or falls back to the first.
func selectQuality(qualities []vo.StreamingQuality, requested vo.Quality) vo.StreamingQuality {
	if requested == "" || requested == vo.QualityAuto {
		return qualities[0]
	}
	for _, q := range qualities {
		if q.Label == string(requested) {
			return q
		}
	}
	return qualities[0]
}

// signURL goes through the cache when one is wired. Cache failures fall
// through to a fresh signing.
func (r *streamingResolverImpl) signURL(ctx context.Context, key string) (string, error) {
	if r.urlCache != nil {
		if url, err := r.urlCache.Get(ctx, key); err != nil {
			logger.Warnf("url cache get failed key=%s error=%s", key, err.Error())
		} else if url != "" {
			return url, nil
		}
	}

	url, err := r.blobStore.SignGetURL(ctx, key, r.cfg.Streaming.SignTTL)
	if err != nil {
		return "", err
	}

	if r.urlCache != nil {
		if err := r.urlCache.Set(ctx, key, url, r.cfg.Streaming.URLCacheTTL); err != nil {
			logger.Warnf("url cache set failed key=%s error=%s", key, err.Error())
		}
	}
	return url, nil
}
