package cqe

import (
	"strings"

	"video-pipeline-service/ddd/domain/vo"
	"video-pipeline-service/pkg/errno"
)

// StartProcessingCqe triggers one pipeline run for an uploaded source.
type StartProcessingCqe struct {
	SourceKey string `json:"source_key" binding:"required"`
	OwnerID   string `json:"owner_id"`
	AssetID   string `json:"asset_id" binding:"required"`
}

func (c *StartProcessingCqe) Validate() error {
	if strings.TrimSpace(c.AssetID) == "" {
		return errno.NewBizError(errno.ErrAssetIDRequired, nil)
	}
	if strings.TrimSpace(c.OwnerID) == "" {
		return errno.NewBizError(errno.ErrOwnerIDRequired, nil)
	}
	if strings.TrimSpace(c.SourceKey) == "" {
		return errno.NewBizError(errno.ErrSourceKeyRequired, nil)
	}
	return nil
}

// StreamingQueryCqe asks for a playback descriptor.
type StreamingQueryCqe struct {
	AssetID          string  `form:"-" json:"asset_id"`
	OwnerID          string  `form:"-" json:"owner_id"`
	SourceKey        string  `form:"source_key" json:"source_key"`
	DurationSeconds  float64 `form:"duration" json:"duration_seconds"`
	Format           string  `form:"format" json:"format"`
	Quality          string  `form:"quality" json:"quality"`
	StartTimeSeconds float64 `form:"start_time" json:"start_time_seconds"`
}

// Validate checks the query and resolves the typed streaming options.
func (c *StreamingQueryCqe) Validate() (vo.StreamingOptions, error) {
	if strings.TrimSpace(c.AssetID) == "" {
		return vo.StreamingOptions{}, errno.NewBizError(errno.ErrAssetIDRequired, nil)
	}
	if strings.TrimSpace(c.OwnerID) == "" {
		return vo.StreamingOptions{}, errno.NewBizError(errno.ErrOwnerIDRequired, nil)
	}
	if strings.TrimSpace(c.SourceKey) == "" {
		return vo.StreamingOptions{}, errno.NewBizError(errno.ErrSourceKeyRequired, nil)
	}

	format, err := vo.ParseFormat(c.Format)
	if err != nil {
		return vo.StreamingOptions{}, errno.NewBizError(errno.ErrInvalidFormat, err)
	}
	quality, err := vo.ParseQuality(c.Quality)
	if err != nil {
		return vo.StreamingOptions{}, errno.NewBizError(errno.ErrInvalidQuality, err)
	}

	start := c.StartTimeSeconds
	if start < 0 {
		start = 0
	}
	return vo.StreamingOptions{
		Format:           format,
		Quality:          quality,
		StartTimeSeconds: start,
	}, nil
}
