package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"video-pipeline-service/ddd/domain/entity"
	"video-pipeline-service/ddd/domain/gateway"
	"video-pipeline-service/ddd/domain/port"
	"video-pipeline-service/ddd/domain/vo"
	"video-pipeline-service/pkg/config"
	"video-pipeline-service/pkg/logger"
)

// PipelineService orchestrates one end-to-end processing run: download,
// probe, concurrent transcode/thumbnail fan-out, scratch cleanup. It
// writes only to the blob store and the tracker; persisting the result is
// the caller's job.
type PipelineService interface {
	// Process runs the pipeline for one uploaded source. A partial result
	// is a success: only the source download is fatal, everything after it
	// degrades to a smaller result set plus a logged diagnostic.
	Process(ctx context.Context, req *entity.ProcessingRequest) (vo.ProcessingResult, error)
}

type pipelineServiceImpl struct {
	blobStore  gateway.BlobStore
	toolkit    port.MediaToolkit
	engine     TranscodeEngine
	thumbnails ThumbnailGenerator
	tracker    ProgressTracker
	cfg        *config.Config
}

// NewPipelineService wires the orchestrator.
func NewPipelineService(blobStore gateway.BlobStore, toolkit port.MediaToolkit, engine TranscodeEngine, thumbnails ThumbnailGenerator, tracker ProgressTracker, cfg *config.Config) PipelineService {
	return &pipelineServiceImpl{
		blobStore:  blobStore,
		toolkit:    toolkit,
		engine:     engine,
		thumbnails: thumbnails,
		tracker:    tracker,
		cfg:        cfg,
	}
}

// Stage boundaries for aggregate job progress. Transcode progress is
// mapped into the transcoding band.
const (
	progressDownloaded     = 5
	progressProbed         = 10
	progressTranscodeCeil  = 90
	progressFinalizing     = 95
	progressCompleted      = 100
	localSourcePermissions = 0o644
)

func (s *pipelineServiceImpl) Process(ctx context.Context, req *entity.ProcessingRequest) (vo.ProcessingResult, error) {
	assetID := req.AssetID()
	logger.Infof("pipeline start asset_id=%s owner_id=%s source_key=%s", assetID, req.OwnerID(), req.SourceKey())

	scratchDir := filepath.Join(s.cfg.Processing.ScratchDir, assetID)
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		derr := &DownloadError{Key: req.SourceKey(), Err: fmt.Errorf("create scratch dir: %w", err)}
		s.tracker.Fail(assetID, derr.Error())
		return vo.ProcessingResult{}, derr
	}
	// The scratch directory is owned by this run alone and goes away with
	// it, however the run ends.
	defer func() {
		if err := os.RemoveAll(scratchDir); err != nil {
			logger.Warnf("failed to clean scratch dir path=%s error=%s", scratchDir, err.Error())
		}
	}()

	localSource := filepath.Join(scratchDir, "source"+filepath.Ext(req.SourceKey()))
	s.tracker.Update(assetID, vo.StageUploading, 0, "downloading source")
	if err := s.blobStore.DownloadToFile(ctx, req.SourceKey(), localSource); err != nil {
		derr := &DownloadError{Key: req.SourceKey(), Err: err}
		s.tracker.Fail(assetID, derr.Error())
		return vo.ProcessingResult{}, derr
	}
	if err := os.Chmod(localSource, localSourcePermissions); err != nil {
		logger.Warnf("failed to chmod local source path=%s error=%s", localSource, err.Error())
	}

	s.tracker.Update(assetID, vo.StageAnalyzing, progressDownloaded, "probing metadata")
	probe, err := s.toolkit.Probe(ctx, localSource)
	if err != nil {
		// Best-effort: an unreadable container still transcodes sometimes.
		logger.Warnf("probe failed asset_id=%s error=%s", assetID, (&ProbeError{Err: err}).Error())
		probe = vo.ProbeResult{}
	}

	s.tracker.Update(assetID, vo.StageTranscoding, progressProbed, "transcoding renditions")

	var (
		wg                sync.WaitGroup
		variants          []vo.VideoVariant
		thumbnails        []vo.Thumbnail
		transcodeFailures []error
		thumbFailures     []error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		variants, transcodeFailures = s.engine.TranscodeAll(ctx, assetID, req.OwnerID(), localSource, scratchDir, func(percent int) {
			band := progressProbed + percent*(progressTranscodeCeil-progressProbed)/100
			s.tracker.Update(assetID, vo.StageTranscoding, band, "")
		})
	}()
	go func() {
		defer wg.Done()
		thumbnails, thumbFailures = s.thumbnails.GenerateAll(ctx, assetID, req.OwnerID(), localSource, scratchDir, probe.DurationSeconds)
	}()
	wg.Wait()

	for _, ferr := range transcodeFailures {
		logger.Warnf("transcode pair failed asset_id=%s error=%s", assetID, ferr.Error())
	}
	for _, ferr := range thumbFailures {
		logger.Warnf("thumbnail failed asset_id=%s error=%s", assetID, ferr.Error())
	}
	if len(thumbnails) > 0 {
		s.tracker.Update(assetID, vo.StageGeneratingThumbnails, progressTranscodeCeil, "")
	}

	s.tracker.Update(assetID, vo.StageFinalizing, progressFinalizing, "finalizing")

	result := vo.ProcessingResult{
		Variants:        variants,
		Thumbnails:      thumbnails,
		DurationSeconds: probe.DurationSeconds,
	}
	logger.Infof("pipeline finished asset_id=%s variants=%d thumbnails=%d duration=%.2f",
		assetID, len(result.Variants), len(result.Thumbnails), result.DurationSeconds)
	return result, nil
}
