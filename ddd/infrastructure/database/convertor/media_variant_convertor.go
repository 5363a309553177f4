package convertor

import (
	"video-pipeline-service/ddd/domain/vo"
	"video-pipeline-service/ddd/infrastructure/database/po"
)

// VariantsToPO maps produced renditions onto their persistence rows.
func VariantsToPO(assetUUID string, variants []vo.VideoVariant) []*po.MediaVariant {
	out := make([]*po.MediaVariant, 0, len(variants))
	for _, v := range variants {
		out = append(out, &po.MediaVariant{
			AssetUUID: assetUUID,
			Quality:   string(v.Quality),
			Format:    string(v.Format),
			BlobKey:   v.BlobKey,
			SizeBytes: v.SizeBytes,
		})
	}
	return out
}
