package po

// MediaAsset is the content record row the pipeline writes back into.
// The surrounding web layer owns its full lifecycle; the pipeline only
// touches playability, duration and the cover thumbnail.
type MediaAsset struct {
	BaseModel
	AssetUUID       string  `gorm:"column:asset_uuid;type:varchar(36);uniqueIndex" json:"asset_uuid"`
	OwnerUUID       string  `gorm:"column:owner_uuid;type:varchar(36);index" json:"owner_uuid"`
	SourceKey       string  `gorm:"column:source_key;type:varchar(512)" json:"source_key"`
	DurationSeconds float64 `gorm:"column:duration_seconds;type:double" json:"duration_seconds"`
	ThumbnailURL    string  `gorm:"column:thumbnail_url;type:varchar(512)" json:"thumbnail_url"`
	Playable        bool    `gorm:"column:playable;type:tinyint(1);default:0" json:"playable"`
}

func (MediaAsset) TableName() string {
	return "media_assets"
}

// MediaVariant is one produced rendition of an asset.
type MediaVariant struct {
	BaseModel
	AssetUUID string `gorm:"column:asset_uuid;type:varchar(36);index" json:"asset_uuid"`
	Quality   string `gorm:"column:quality;type:varchar(20)" json:"quality"`
	Format    string `gorm:"column:format;type:varchar(20)" json:"format"`
	BlobKey   string `gorm:"column:blob_key;type:varchar(512)" json:"blob_key"`
	SizeBytes int64  `gorm:"column:size_bytes;type:bigint" json:"size_bytes"`
}

func (MediaVariant) TableName() string {
	return "media_variants"
}
