package app

import (
	"context"
	"fmt"
	"sync"

	"video-pipeline-service/ddd/application/cqe"
	"video-pipeline-service/ddd/application/dto"
	"video-pipeline-service/ddd/domain/entity"
	"video-pipeline-service/ddd/domain/gateway"
	"video-pipeline-service/ddd/domain/service"
	"video-pipeline-service/ddd/domain/vo"
	"video-pipeline-service/ddd/infrastructure/cache"
	"video-pipeline-service/ddd/infrastructure/database/dao"
	"video-pipeline-service/ddd/infrastructure/database/persistence"
	"video-pipeline-service/ddd/infrastructure/executor"
	"video-pipeline-service/ddd/infrastructure/publisher"
	"video-pipeline-service/ddd/infrastructure/queue"
	"video-pipeline-service/ddd/infrastructure/storage"
	"video-pipeline-service/internal/resource"
	"video-pipeline-service/pkg/assert"
	"video-pipeline-service/pkg/config"
	"video-pipeline-service/pkg/logger"
)

var (
	singleProcessingApp ProcessingApp
	onceProcessingApp   sync.Once
)

// ProcessingApp is the use-case surface of the pipeline: trigger a run,
// query progress, resolve playback.
type ProcessingApp interface {
	// StartProcessing validates the request, initializes progress tracking
	// and enqueues the job. Fire-and-forget: the caller never waits for
	// processing.
	StartProcessing(ctx context.Context, req *cqe.StartProcessingCqe) error

	// RunJob executes one dequeued job end to end. Called from the worker
	// pool. Whatever happens inside, the asset ends marked playable.
	RunJob(ctx context.Context, req *entity.ProcessingRequest)

	// GetProgress returns the tracked job state of an asset.
	GetProgress(ctx context.Context, assetID string) (*dto.ProcessingJobDTO, error)

	// ListActiveJobs returns all jobs still in flight.
	ListActiveJobs(ctx context.Context) []*dto.ProcessingJobDTO

	// GetStreamingInfo resolves a playback descriptor for an asset.
	GetStreamingInfo(ctx context.Context, req *cqe.StreamingQueryCqe) (vo.StreamingDescriptor, error)
}

type processingAppImpl struct {
	pipeline     service.PipelineService
	resolver     service.StreamingResolver
	tracker      service.ProgressTracker
	jobQueue     queue.JobQueue
	blobStore    gateway.BlobStore
	contentStore gateway.ContentRecordStore
	publisher    gateway.ResultPublisher
}

// DefaultProcessingApp assembles the application service from the shared
// resources. Safe to call from multiple plugins; wiring happens once.
func DefaultProcessingApp() ProcessingApp {
	assert.NotCircular()
	onceProcessingApp.Do(func() {
		cfg := config.GetGlobalConfig()

		blobStore := storage.NewMinioBlobStore(resource.DefaultMinioResource(), cfg)
		toolkit := executor.NewFFmpegToolkit(cfg)
		tracker := service.NewProgressTracker()

		engine := service.NewTranscodeEngine(blobStore, toolkit, cfg)
		thumbnails := service.NewThumbnailGenerator(blobStore, toolkit, cfg)
		pipeline := service.NewPipelineService(blobStore, toolkit, engine, thumbnails, tracker, cfg)

		urlCache := cache.NewRedisURLCache(resource.DefaultRedisResource().Client())
		resolver := service.NewStreamingResolver(blobStore, urlCache, cfg)

		contentStore := persistence.NewContentRecordStore(dao.NewMediaAssetDAO())
		resultPublisher := publisher.NewKafkaResultPublisher(cfg)

		singleProcessingApp = NewProcessingAppWith(pipeline, resolver, tracker, queue.DefaultJobQueue(), blobStore, contentStore, resultPublisher)
	})
	assert.NotNil(singleProcessingApp)
	return singleProcessingApp
}

// NewProcessingAppWith wires the application service from explicit
// collaborators. publisher may be nil when kafka is disabled.
func NewProcessingAppWith(
	pipeline service.PipelineService,
	resolver service.StreamingResolver,
	tracker service.ProgressTracker,
	jobQueue queue.JobQueue,
	blobStore gateway.BlobStore,
	contentStore gateway.ContentRecordStore,
	resultPublisher gateway.ResultPublisher,
) ProcessingApp {
	return &processingAppImpl{
		pipeline:     pipeline,
		resolver:     resolver,
		tracker:      tracker,
		jobQueue:     jobQueue,
		blobStore:    blobStore,
		contentStore: contentStore,
		publisher:    resultPublisher,
	}
}

func (a *processingAppImpl) StartProcessing(ctx context.Context, req *cqe.StartProcessingCqe) error {
	if err := req.Validate(); err != nil {
		return err
	}

	a.tracker.Init(req.AssetID)
	if err := a.jobQueue.Enqueue(ctx, entity.NewProcessingRequest(req.SourceKey, req.OwnerID, req.AssetID)); err != nil {
		a.tracker.Fail(req.AssetID, fmt.Sprintf("enqueue: %v", err))
		return err
	}

	logger.Infof("processing enqueued asset_id=%s owner_id=%s source_key=%s", req.AssetID, req.OwnerID, req.SourceKey)
	return nil
}

func (a *processingAppImpl) RunJob(ctx context.Context, req *entity.ProcessingRequest) {
	var (
		result vo.ProcessingResult
		runErr error
	)

	// Processing errors must never leave the asset unplayable, including
	// a panic out of the pipeline itself.
	defer func() {
		if r := recover(); r != nil {
			runErr = fmt.Errorf("pipeline panic: %v", r)
			logger.Errorf("pipeline panicked asset_id=%s panic=%v", req.AssetID(), r)
			a.tracker.Fail(req.AssetID(), runErr.Error())
		}
		a.finalize(ctx, req, result, runErr)
	}()

	result, runErr = a.pipeline.Process(ctx, req)
}

// finalize performs the write-back: persist variants, mark the asset
// playable, close out the tracker, publish the processed event. Each step
// is best-effort so a failing collaborator never undoes the others.
func (a *processingAppImpl) finalize(ctx context.Context, req *entity.ProcessingRequest, result vo.ProcessingResult, runErr error) {
	assetID := req.AssetID()

	if len(result.Variants) > 0 {
		if err := a.contentStore.RecordVariants(ctx, assetID, result.Variants); err != nil {
			logger.Errorf("record variants failed asset_id=%s error=%s", assetID, err.Error())
		}
	}

	thumbnailURL := ""
	if len(result.Thumbnails) > 0 {
		thumbnailURL = a.blobStore.PublicURL(result.Thumbnails[0].BlobKey, false)
	}
	if err := a.contentStore.MarkPlayable(ctx, assetID, result.DurationSeconds, thumbnailURL); err != nil {
		logger.Errorf("mark playable failed asset_id=%s error=%s", assetID, err.Error())
	}

	if runErr == nil {
		a.tracker.Update(assetID, vo.StageCompleted, 100, "")
	}

	if a.publisher != nil {
		event := vo.ProcessedEvent{
			AssetID:         assetID,
			OwnerID:         req.OwnerID(),
			Succeeded:       runErr == nil,
			VariantCount:    len(result.Variants),
			ThumbnailCount:  len(result.Thumbnails),
			DurationSeconds: result.DurationSeconds,
		}
		if runErr != nil {
			event.Error = runErr.Error()
		}
		if err := a.publisher.PublishProcessed(ctx, event); err != nil {
			logger.Errorf("publish processed event failed asset_id=%s error=%s", assetID, err.Error())
		}
	}

	logger.Infof("job finalized asset_id=%s succeeded=%t variants=%d thumbnails=%d",
		assetID, runErr == nil, len(result.Variants), len(result.Thumbnails))
}

func (a *processingAppImpl) GetProgress(ctx context.Context, assetID string) (*dto.ProcessingJobDTO, error) {
	job, err := a.tracker.Get(assetID)
	if err != nil {
		return nil, err
	}
	return dto.FromProcessingJob(job), nil
}

func (a *processingAppImpl) ListActiveJobs(ctx context.Context) []*dto.ProcessingJobDTO {
	jobs := a.tracker.ListActive()
	out := make([]*dto.ProcessingJobDTO, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, dto.FromProcessingJob(job))
	}
	return out
}

func (a *processingAppImpl) GetStreamingInfo(ctx context.Context, req *cqe.StreamingQueryCqe) (vo.StreamingDescriptor, error) {
	opts, err := req.Validate()
	if err != nil {
		return vo.StreamingDescriptor{}, err
	}
	return a.resolver.Resolve(ctx, req.AssetID, req.OwnerID, req.SourceKey, req.DurationSeconds, opts)
}
