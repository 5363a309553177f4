package persistence

import (
	"context"

	"video-pipeline-service/ddd/domain/gateway"
	"video-pipeline-service/ddd/domain/vo"
	"video-pipeline-service/ddd/infrastructure/database/convertor"
	"video-pipeline-service/ddd/infrastructure/database/dao"
)

// contentRecordStoreImpl implements gateway.ContentRecordStore on MySQL.
type contentRecordStoreImpl struct {
	assetDAO *dao.MediaAssetDAO
}

// NewContentRecordStore creates the write-back adapter.
func NewContentRecordStore(assetDAO *dao.MediaAssetDAO) gateway.ContentRecordStore {
	return &contentRecordStoreImpl{assetDAO: assetDAO}
}

func (s *contentRecordStoreImpl) MarkPlayable(ctx context.Context, assetID string, durationSeconds float64, thumbnailURL string) error {
	return s.assetDAO.MarkPlayable(ctx, assetID, durationSeconds, thumbnailURL)
}

func (s *contentRecordStoreImpl) RecordVariants(ctx context.Context, assetID string, variants []vo.VideoVariant) error {
	return s.assetDAO.ReplaceVariants(ctx, assetID, convertor.VariantsToPO(assetID, variants))
}
