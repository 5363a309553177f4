package vo

import "fmt"

// Blob keys are deterministic so the resolver can locate variants without
// a database lookup: absence of a key simply means the variant was never
// produced.

// VariantKey returns the blob key of one transcoded rendition.
func VariantKey(ownerID, assetID string, quality Quality, format Format) string {
	return fmt.Sprintf("variants/%s/%s/%s_%s.%s", ownerID, assetID, assetID, quality, format.Ext())
}

// ThumbnailKey returns the blob key of the i-th thumbnail.
func ThumbnailKey(ownerID, assetID string, index int) string {
	return fmt.Sprintf("thumbnails/%s/%s/%s_thumbnail_%d.jpg", ownerID, assetID, assetID, index)
}
