package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	appsvc "video-pipeline-service/ddd/application/app"
	"video-pipeline-service/ddd/application/cqe"
	"video-pipeline-service/ddd/domain/service"
	"video-pipeline-service/pkg/errno"
	"video-pipeline-service/pkg/manager"
	"video-pipeline-service/pkg/restapi"
)

func init() {
	manager.RegisterControllerPlugin(&PipelineControllerPlugin{})
}

// PipelineControllerPlugin mounts the processing and streaming routes.
type PipelineControllerPlugin struct{}

func (p *PipelineControllerPlugin) Name() string { return "pipelineController" }

func (p *PipelineControllerPlugin) MustCreateController(deps *manager.Dependencies) manager.Controller {
	var app appsvc.ProcessingApp
	if deps != nil {
		if v, ok := deps.ProcessingAppService.(appsvc.ProcessingApp); ok {
			app = v
		}
	}
	if app == nil {
		app = appsvc.DefaultProcessingApp()
	}
	return &PipelineController{processingApp: app}
}

// PipelineController exposes the pipeline to the surrounding web layer.
type PipelineController struct {
	processingApp appsvc.ProcessingApp
}

func (c *PipelineController) RegisterRoutes(engine *gin.Engine) {
	v1 := engine.Group("/api/v1")
	{
		processing := v1.Group("/processing")
		{
			processing.POST("", c.StartProcessing)
			processing.GET("/active", c.ListActiveJobs)
			processing.GET("/:asset_id/progress", c.GetProgress)
		}
		v1.GET("/assets/:asset_id/stream", c.GetStreamingInfo)
	}
}

// StartProcessing triggers a pipeline run and returns immediately.
func (c *PipelineController) StartProcessing(ctx *gin.Context) {
	var req cqe.StartProcessingCqe
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	if req.OwnerID == "" {
		req.OwnerID = ctx.GetString("owner_id")
	}

	if err := c.processingApp.StartProcessing(ctx.Request.Context(), &req); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	restapi.Success(ctx, gin.H{"asset_id": req.AssetID, "status": "enqueued"})
}

// GetProgress returns the tracked job state of one asset.
func (c *PipelineController) GetProgress(ctx *gin.Context) {
	assetID := ctx.Param("asset_id")
	if assetID == "" {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrAssetIDRequired, nil))
		return
	}

	job, err := c.processingApp.GetProgress(ctx.Request.Context(), assetID)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, job)
}

// ListActiveJobs returns every job still in flight.
func (c *PipelineController) ListActiveJobs(ctx *gin.Context) {
	restapi.Success(ctx, c.processingApp.ListActiveJobs(ctx.Request.Context()))
}

// GetStreamingInfo resolves a playback descriptor.
func (c *PipelineController) GetStreamingInfo(ctx *gin.Context) {
	var req cqe.StreamingQueryCqe
	if err := ctx.ShouldBindQuery(&req); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	req.AssetID = ctx.Param("asset_id")
	req.OwnerID = ctx.GetString("owner_id")
	if req.OwnerID == "" {
		req.OwnerID = ctx.Query("owner_id")
	}

	descriptor, err := c.processingApp.GetStreamingInfo(ctx.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNoPlayableSource) {
			restapi.Failed(ctx, errno.NewBizError(errno.ErrContentUnavailable, err))
			return
		}
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, descriptor)
}
