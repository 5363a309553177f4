package worker

import (
	"context"
	"fmt"

	"video-pipeline-service/ddd/application/app"
	"video-pipeline-service/ddd/infrastructure/queue"
	"video-pipeline-service/pkg/config"
	"video-pipeline-service/pkg/logger"
	"video-pipeline-service/pkg/manager"
	"video-pipeline-service/pkg/task"
)

func init() {
	manager.RegisterComponentPlugin(&ProcessingWorkerComponentPlugin{})
}

// ProcessingWorkerComponentPlugin starts the background processing pool.
type ProcessingWorkerComponentPlugin struct{}

func (p *ProcessingWorkerComponentPlugin) Name() string {
	return "processingWorkerComponent"
}

func (p *ProcessingWorkerComponentPlugin) MustCreateComponent(deps *manager.Dependencies) manager.Component {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}

	processingApp, ok := deps.ProcessingAppService.(app.ProcessingApp)
	if !ok || processingApp == nil {
		processingApp = app.DefaultProcessingApp()
	}

	workerCount := 1
	workerID := "processing-worker"
	if cfg != nil {
		if cfg.Worker.MaxConcurrentJobs > 0 {
			workerCount = cfg.Worker.MaxConcurrentJobs
		}
		if cfg.Worker.WorkerID != "" {
			workerID = cfg.Worker.WorkerID
		}
	}

	return &processingWorkerComponent{
		name:   "processingWorker",
		worker: NewProcessingWorker(workerID, queue.DefaultJobQueue(), processingApp, workerCount),
	}
}

type processingWorkerComponent struct {
	name   string
	worker ProcessingWorker
}

func (c *processingWorkerComponent) Start() error {
	if c.worker == nil {
		return fmt.Errorf("processing worker not initialized")
	}

	task.Register(&backgroundTaskAdapter{name: c.name, startFunc: c.worker.Start, stopFunc: c.worker.Stop})
	logger.Infof("processing worker component registered background task name=%s", c.name)
	return nil
}

func (c *processingWorkerComponent) Stop() error {
	queue.CloseDefaultJobQueue()
	logger.Infof("processing worker component stopped name=%s", c.name)
	return nil
}

func (c *processingWorkerComponent) GetName() string {
	return c.name
}

// backgroundTaskAdapter adapts Start/Stop functions to the BackgroundTask interface.
type backgroundTaskAdapter struct {
	name      string
	startFunc func(ctx context.Context) error
	stopFunc  func() error
}

func (b *backgroundTaskAdapter) Name() string                    { return b.name }
func (b *backgroundTaskAdapter) Start(ctx context.Context) error { return b.startFunc(ctx) }
func (b *backgroundTaskAdapter) Stop() error                     { return b.stopFunc() }
