package vo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuality(t *testing.T) {
	q, err := ParseQuality("")
	require.NoError(t, err)
	assert.Equal(t, QualityAuto, q)

	q, err = ParseQuality("medium")
	require.NoError(t, err)
	assert.Equal(t, QualityMedium, q)

	_, err = ParseQuality("4k")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatMP4, f)

	f, err = ParseFormat("webm")
	require.NoError(t, err)
	assert.Equal(t, FormatWebM, f)

	_, err = ParseFormat("mkv")
	assert.Error(t, err)
}

func TestMimeType(t *testing.T) {
	assert.Equal(t, "video/mp4", FormatMP4.MimeType())
	assert.Equal(t, "video/webm", FormatWebM.MimeType())
}

func TestDefaultLadderOrder(t *testing.T) {
	ladder := DefaultLadder()
	require.Len(t, ladder, 3)
	assert.Equal(t, QualityHigh, ladder[0].Name)
	assert.Equal(t, QualityMedium, ladder[1].Name)
	assert.Equal(t, QualityLow, ladder[2].Name)
	assert.Equal(t, 1280, ladder[0].Width)
	assert.Equal(t, 360, ladder[2].Height)
}

func TestBlobKeys(t *testing.T) {
	assert.Equal(t,
		"variants/owner-1/asset-1/asset-1_high.mp4",
		VariantKey("owner-1", "asset-1", QualityHigh, FormatMP4))
	assert.Equal(t,
		"variants/owner-1/asset-1/asset-1_low.webm",
		VariantKey("owner-1", "asset-1", QualityLow, FormatWebM))
	assert.Equal(t,
		"thumbnails/owner-1/asset-1/asset-1_thumbnail_2.jpg",
		ThumbnailKey("owner-1", "asset-1", 2))
}

func TestStageTerminal(t *testing.T) {
	assert.True(t, StageCompleted.IsTerminal())
	assert.True(t, StageFailed.IsTerminal())
	assert.False(t, StageTranscoding.IsTerminal())
	assert.False(t, StageUploading.IsTerminal())
}

func TestStageValid(t *testing.T) {
	assert.True(t, StageGeneratingThumbnails.IsValid())
	assert.False(t, Stage("rendering").IsValid())
}
