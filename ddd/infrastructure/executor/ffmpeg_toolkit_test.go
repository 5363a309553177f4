package executor

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-pipeline-service/ddd/domain/port"
	"video-pipeline-service/ddd/domain/vo"
	"video-pipeline-service/pkg/config"
)

func toolkitForTest() *FFmpegToolkit {
	cfg := &config.Config{}
	cfg.Processing.FFmpeg.BinaryPath = "ffmpeg"
	cfg.Processing.FFmpeg.ProbeBinaryPath = "ffprobe"
	cfg.Processing.FFmpeg.CRF = 23
	cfg.Processing.FFmpeg.Preset = "medium"
	return NewFFmpegToolkit(cfg)
}

func TestBuildTranscodeArgsMP4(t *testing.T) {
	tk := toolkitForTest()
	spec := port.TranscodeSpec{
		InputPath:  "/tmp/in.mp4",
		OutputPath: "/tmp/out.mp4",
		Width:      1280,
		Height:     720,
		Format:     vo.FormatMP4,
	}

	args := strings.Join(tk.buildTranscodeArgs(spec), " ")

	assert.Contains(t, args, "-c:v libx264")
	assert.Contains(t, args, "-preset medium")
	assert.Contains(t, args, "-crf 23")
	assert.Contains(t, args, "-c:a aac")
	assert.Contains(t, args, "-movflags +faststart")
	assert.Contains(t, args, "scale=1280:720:force_original_aspect_ratio=decrease,pad=1280:720:(ow-iw)/2:(oh-ih)/2")
	assert.True(t, strings.HasSuffix(args, "-y /tmp/out.mp4"))
}

func TestBuildTranscodeArgsWebM(t *testing.T) {
	tk := toolkitForTest()
	spec := port.TranscodeSpec{
		InputPath:  "/tmp/in.mp4",
		OutputPath: "/tmp/out.webm",
		Width:      854,
		Height:     480,
		Format:     vo.FormatWebM,
	}

	args := strings.Join(tk.buildTranscodeArgs(spec), " ")

	assert.Contains(t, args, "-c:v libvpx-vp9")
	assert.Contains(t, args, "-b:v 0")
	assert.Contains(t, args, "-c:a libopus")
	assert.NotContains(t, args, "faststart")
	assert.Contains(t, args, "scale=854:480")
}

func TestProbeOutputParsing(t *testing.T) {
	// Shape of ffprobe -print_format json -show_format -show_streams.
	raw := `{
		"streams": [
			{"codec_type": "audio"},
			{"codec_type": "video", "width": 1920, "height": 1080}
		],
		"format": {"duration": "93.544000"}
	}`

	var parsed probeOutput
	require.NoError(t, json.Unmarshal([]byte(raw), &parsed))
	assert.Equal(t, "93.544000", parsed.Format.Duration)
	require.Len(t, parsed.Streams, 2)
	assert.Equal(t, 1920, parsed.Streams[1].Width)
}

func TestScanProgressReportsPercent(t *testing.T) {
	stderr := io.NopCloser(strings.NewReader(strings.Join([]string{
		"frame=  100 fps= 25 time=00:00:30.00 bitrate=1000k",
		"out_time_ms=60000000",
		"some diagnostic line",
		"time=00:01:30.00 extra",
	}, "\n")))

	var percents []float64
	var captured []string
	scanProgress(context.Background(), stderr, 100, func(pct float64) {
		percents = append(percents, pct)
	}, &captured)

	require.Len(t, percents, 3)
	assert.InDelta(t, 30.0, percents[0], 0.01)
	assert.InDelta(t, 60.0, percents[1], 0.01)
	assert.InDelta(t, 90.0, percents[2], 0.01)

	require.Len(t, captured, 1)
	assert.Equal(t, "some diagnostic line", captured[0])
}

func TestScanProgressCapsAt99(t *testing.T) {
	stderr := io.NopCloser(strings.NewReader("out_time_ms=200000000\n"))

	var last float64
	scanProgress(context.Background(), stderr, 100, func(pct float64) { last = pct }, nil)

	assert.InDelta(t, 99.0, last, 1e-9)
}
