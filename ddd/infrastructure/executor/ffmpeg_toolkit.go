package executor

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"video-pipeline-service/ddd/domain/port"
	"video-pipeline-service/ddd/domain/vo"
	"video-pipeline-service/pkg/config"
	"video-pipeline-service/pkg/logger"
)

// FFmpegToolkit implements port.MediaToolkit on top of local ffmpeg and
// ffprobe binaries.
type FFmpegToolkit struct {
	cfg *config.Config
}

func NewFFmpegToolkit(cfg *config.Config) *FFmpegToolkit {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &FFmpegToolkit{cfg: cfg}
}

// probeOutput mirrors the ffprobe -print_format json layout, reduced to
// the fields the pipeline needs.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// Probe inspects the input with ffprobe and parses its JSON report.
func (t *FFmpegToolkit) Probe(ctx context.Context, inputPath string) (vo.ProbeResult, error) {
	cmd := exec.CommandContext(ctx, t.cfg.Processing.FFmpeg.ProbeBinaryPath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return vo.ProbeResult{}, fmt.Errorf("run ffprobe: %w", err)
	}

	var parsed probeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return vo.ProbeResult{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	result := vo.ProbeResult{}
	if d, err := strconv.ParseFloat(strings.TrimSpace(parsed.Format.Duration), 64); err == nil {
		result.DurationSeconds = d
	}
	for _, stream := range parsed.Streams {
		if stream.CodecType == "video" {
			result.Width = stream.Width
			result.Height = stream.Height
			break
		}
	}
	return result, nil
}

// Transcode renders one rendition. Progress is scraped from the ffmpeg
// stderr stream; the probed duration anchors the percentage.
func (t *FFmpegToolkit) Transcode(ctx context.Context, spec port.TranscodeSpec, cb port.ProgressCallback) error {
	if t.cfg.Processing.FFmpeg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Processing.FFmpeg.Timeout)
		defer cancel()
	}

	durationSec := 0.0
	if probe, err := t.Probe(ctx, spec.InputPath); err == nil {
		durationSec = probe.DurationSeconds
	}

	cmd := exec.CommandContext(ctx, t.cfg.Processing.FFmpeg.BinaryPath, t.buildTranscodeArgs(spec)...)
	logger.Infof("ffmpeg command output=%s command=%s", spec.OutputPath, strings.Join(cmd.Args, " "))
	return t.runWithProgress(ctx, cmd, durationSec, cb)
}

// ExtractFrame grabs one frame at the given offset as a JPEG fitted into
// width x height.
func (t *FFmpegToolkit) ExtractFrame(ctx context.Context, inputPath, outputPath string, offsetSeconds float64, width, height int) error {
	if t.cfg.Processing.FFmpeg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Processing.FFmpeg.Timeout)
		defer cancel()
	}

	args := []string{
		"-ss", strconv.FormatFloat(offsetSeconds, 'f', 3, 64),
		"-i", inputPath,
		"-vframes", "1",
		"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", width, height),
		"-q:v", "3",
		"-y",
		outputPath,
	}
	cmd := exec.CommandContext(ctx, t.cfg.Processing.FFmpeg.BinaryPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		tail := string(out)
		if len(tail) > 2048 {
			tail = tail[len(tail)-2048:]
		}
		return fmt.Errorf("extract frame at %.3fs: %w: %s", offsetSeconds, err, tail)
	}
	return nil
}

// buildTranscodeArgs assembles the ffmpeg invocation for one rendition.
// Output is scaled into the target box and padded to exact dimensions so
// odd aspect ratios never distort.
func (t *FFmpegToolkit) buildTranscodeArgs(spec port.TranscodeSpec) []string {
	ff := t.cfg.Processing.FFmpeg

	args := []string{
		"-i", spec.InputPath,
		"-progress", "pipe:2",
		"-nostats",
		"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
			spec.Width, spec.Height, spec.Width, spec.Height),
	}

	switch spec.Format {
	case vo.FormatWebM:
		args = append(args,
			"-c:v", "libvpx-vp9",
			"-crf", strconv.Itoa(ff.CRF),
			"-b:v", "0",
			"-c:a", "libopus",
			"-b:a", "128k",
		)
	default:
		args = append(args,
			"-c:v", "libx264",
			"-preset", ff.Preset,
			"-crf", strconv.Itoa(ff.CRF),
			"-c:a", "aac",
			"-b:a", "128k",
			"-movflags", "+faststart",
		)
	}

	return append(args, "-y", spec.OutputPath)
}

// runWithProgress starts the command and scrapes stderr until it exits,
// keeping a bounded tail of non-progress lines for diagnostics.
func (t *FFmpegToolkit) runWithProgress(ctx context.Context, cmd *exec.Cmd, durationSec float64, cb port.ProgressCallback) error {
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("open ffmpeg stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	progressDone := make(chan struct{})
	tail := make([]string, 0, 200)
	go func() {
		defer close(progressDone)
		scanProgress(ctx, stderr, durationSec, cb, &tail)
	}()

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-progressDone
		return ctx.Err()
	case err := <-done:
		<-progressDone
		if err != nil && !errors.Is(err, context.Canceled) {
			if n := len(tail); n > 50 {
				tail = tail[n-50:]
			}
			if len(tail) > 0 {
				logger.Errorf("ffmpeg failed output=%s tail_stderr=%s", cmd.Args[len(cmd.Args)-1], strings.Join(tail, "\n"))
			}
		}
		return err
	}
}

var reProgressTime = regexp.MustCompile(`time=(\d+):(\d+):(\d+\.?\d*)`)

// scanProgress reads ffmpeg stderr line by line, turning out_time_ms= and
// time= lines into callback percentages and capturing everything else.
func scanProgress(ctx context.Context, stderr io.ReadCloser, durationSec float64, cb port.ProgressCallback, capture *[]string) {
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		line := scanner.Text()

		if strings.HasPrefix(line, "out_time_ms=") {
			if ms, err := strconv.ParseFloat(strings.TrimPrefix(line, "out_time_ms="), 64); err == nil && durationSec > 0 {
				report(cb, ms/1e6, durationSec)
			}
			continue
		}

		if m := reProgressTime.FindStringSubmatch(line); len(m) == 4 && durationSec > 0 {
			hh, _ := strconv.ParseFloat(m[1], 64)
			mm, _ := strconv.ParseFloat(m[2], 64)
			ss, _ := strconv.ParseFloat(m[3], 64)
			report(cb, hh*3600+mm*60+ss, durationSec)
			continue
		}

		if capture != nil {
			b := *capture
			if len(b) >= 200 {
				b = b[1:]
			}
			b = append(b, line)
			*capture = b
		}
	}
}

func report(cb port.ProgressCallback, currentSec, totalSec float64) {
	if cb == nil || totalSec <= 0 {
		return
	}
	pct := currentSec / totalSec * 100
	if pct > 99 {
		pct = 99
	}
	if pct < 0 {
		pct = 0
	}
	cb(pct)
}
