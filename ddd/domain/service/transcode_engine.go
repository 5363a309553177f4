package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"video-pipeline-service/ddd/domain/gateway"
	"video-pipeline-service/ddd/domain/port"
	"video-pipeline-service/ddd/domain/vo"
	"video-pipeline-service/pkg/config"
	"video-pipeline-service/pkg/logger"
)

// TranscodeEngine produces the full quality x format rendition matrix for
// one source file. Pairs run concurrently under a bounded semaphore and
// fail independently: one broken rendition never blocks the others.
type TranscodeEngine interface {
	// TranscodeAll renders and uploads every ladder/format pair, calling
	// onProgress with aggregate percent across the matrix. It returns the
	// variants that succeeded plus one error per failed pair.
	TranscodeAll(ctx context.Context, assetID, ownerID, inputPath, scratchDir string, onProgress func(percent int)) ([]vo.VideoVariant, []error)
}

type transcodeEngineImpl struct {
	blobStore gateway.BlobStore
	toolkit   port.MediaToolkit
	cfg       *config.Config
}

// NewTranscodeEngine creates the rendition matrix engine.
func NewTranscodeEngine(blobStore gateway.BlobStore, toolkit port.MediaToolkit, cfg *config.Config) TranscodeEngine {
	return &transcodeEngineImpl{blobStore: blobStore, toolkit: toolkit, cfg: cfg}
}

// pairJob is one (quality, format) cell of the matrix.
type pairJob struct {
	tier   vo.QualityTier
	format vo.Format
}

func (e *transcodeEngineImpl) TranscodeAll(ctx context.Context, assetID, ownerID, inputPath, scratchDir string, onProgress func(percent int)) ([]vo.VideoVariant, []error) {
	pairs := e.buildMatrix()
	if len(pairs) == 0 {
		return nil, nil
	}

	maxConcurrent := e.cfg.Worker.MaxConcurrentPairs
	if maxConcurrent <= 0 {
		maxConcurrent = len(pairs)
	}
	sem := make(chan struct{}, maxConcurrent)

	var (
		mu       sync.Mutex
		variants []vo.VideoVariant
		failures []error
		fraction = make([]float64, len(pairs))
		wg       sync.WaitGroup
	)

	report := func(idx int, pct float64) {
		if onProgress == nil {
			return
		}
		mu.Lock()
		fraction[idx] = pct
		var sum float64
		for _, f := range fraction {
			sum += f
		}
		total := int(sum / float64(len(pairs)))
		mu.Unlock()
		onProgress(total)
	}

	for i, p := range pairs {
		wg.Add(1)
		go func(idx int, p pairJob) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			variant, err := e.transcodePair(ctx, assetID, ownerID, inputPath, scratchDir, p, func(pct float64) {
				report(idx, pct)
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, &TranscodeError{Quality: p.tier.Name, Format: p.format, Err: err})
				fraction[idx] = 100 // a dead pair no longer holds back aggregate progress
				return
			}
			variants = append(variants, variant)
		}(i, p)
	}
	wg.Wait()

	return variants, failures
}

// transcodePair renders one rendition into scratch, uploads it, and
// removes the local file.
func (e *transcodeEngineImpl) transcodePair(ctx context.Context, assetID, ownerID, inputPath, scratchDir string, p pairJob, cb port.ProgressCallback) (vo.VideoVariant, error) {
	outputPath := filepath.Join(scratchDir, fmt.Sprintf("%s_%s.%s", assetID, p.tier.Name, p.format.Ext()))

	spec := port.TranscodeSpec{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Width:      p.tier.Width,
		Height:     p.tier.Height,
		Format:     p.format,
	}
	if err := e.toolkit.Transcode(ctx, spec, cb); err != nil {
		return vo.VideoVariant{}, err
	}

	key := vo.VariantKey(ownerID, assetID, p.tier.Name, p.format)
	size, err := e.blobStore.PutObject(ctx, key, outputPath, p.format.MimeType())
	if err != nil {
		return vo.VideoVariant{}, fmt.Errorf("upload variant: %w", err)
	}

	if err := os.Remove(outputPath); err != nil {
		logger.Warnf("failed to clean local variant file path=%s error=%s", outputPath, err.Error())
	}

	logger.Infof("variant uploaded asset_id=%s quality=%s format=%s key=%s size=%d",
		assetID, p.tier.Name, p.format, key, size)

	return vo.VideoVariant{
		Quality:   p.tier.Name,
		Format:    p.format,
		BlobKey:   key,
		SizeBytes: size,
	}, nil
}

// buildMatrix crosses the configured ladder with the configured formats.
// Invalid config entries are skipped rather than failing the run.
func (e *transcodeEngineImpl) buildMatrix() []pairJob {
	tiers := make([]vo.QualityTier, 0, len(e.cfg.Processing.QualityLadder))
	for _, t := range e.cfg.Processing.QualityLadder {
		q, err := vo.ParseQuality(t.Name)
		if err != nil || q == vo.QualityAuto {
			logger.Warnf("skipping invalid quality ladder entry name=%s", t.Name)
			continue
		}
		tiers = append(tiers, vo.QualityTier{Name: q, Width: t.Width, Height: t.Height})
	}
	if len(tiers) == 0 {
		tiers = vo.DefaultLadder()
	}

	formats := make([]vo.Format, 0, len(e.cfg.Processing.Formats))
	for _, f := range e.cfg.Processing.Formats {
		format, err := vo.ParseFormat(f)
		if err != nil {
			logger.Warnf("skipping invalid output format name=%s", f)
			continue
		}
		formats = append(formats, format)
	}
	if len(formats) == 0 {
		formats = vo.DefaultFormats()
	}

	pairs := make([]pairJob, 0, len(tiers)*len(formats))
	for _, t := range tiers {
		for _, f := range formats {
			pairs = append(pairs, pairJob{tier: t, format: f})
		}
	}
	return pairs
}
