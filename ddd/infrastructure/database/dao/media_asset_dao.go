package dao

import (
	"context"

	"gorm.io/gorm"

	"video-pipeline-service/ddd/infrastructure/database/po"
	"video-pipeline-service/internal/resource"
)

type MediaAssetDAO struct {
	db *gorm.DB
}

func NewMediaAssetDAO() *MediaAssetDAO {
	return &MediaAssetDAO{db: resource.DefaultMySqlResource().DB()}
}

func NewMediaAssetDAOWithDB(db *gorm.DB) *MediaAssetDAO {
	return &MediaAssetDAO{db: db}
}

// MarkPlayable flips the asset playable and records what processing
// learned. Zero duration and empty thumbnail are kept out of the update
// so a rerun never erases an earlier successful write.
func (d *MediaAssetDAO) MarkPlayable(ctx context.Context, assetUUID string, durationSeconds float64, thumbnailURL string) error {
	update := map[string]interface{}{"playable": true}
	if durationSeconds > 0 {
		update["duration_seconds"] = durationSeconds
	}
	if thumbnailURL != "" {
		update["thumbnail_url"] = thumbnailURL
	}
	return d.db.WithContext(ctx).Model(&po.MediaAsset{}).Where("asset_uuid = ?", assetUUID).Updates(update).Error
}

// ReplaceVariants swaps the variant rows of one asset atomically.
func (d *MediaAssetDAO) ReplaceVariants(ctx context.Context, assetUUID string, variants []*po.MediaVariant) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("asset_uuid = ?", assetUUID).Delete(&po.MediaVariant{}).Error; err != nil {
			return err
		}
		if len(variants) == 0 {
			return nil
		}
		return tx.Create(variants).Error
	})
}

// FindByUUID loads one content record.
func (d *MediaAssetDAO) FindByUUID(ctx context.Context, assetUUID string) (*po.MediaAsset, error) {
	var asset po.MediaAsset
	if err := d.db.WithContext(ctx).Where("asset_uuid = ?", assetUUID).First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// AutoMigrate creates or updates the pipeline-owned tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&po.MediaAsset{}, &po.MediaVariant{})
}
