package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"video-pipeline-service/ddd/application/app"
	"video-pipeline-service/ddd/infrastructure/queue"
	"video-pipeline-service/pkg/logger"
)

// ProcessingWorker drains the job queue with a bounded goroutine pool.
type ProcessingWorker interface {
	Start(ctx context.Context) error
	Stop() error
	IsRunning() bool
	GetStats() WorkerStats
}

// WorkerStats is a point-in-time view of pool activity.
type WorkerStats struct {
	ProcessedJobs    uint64
	CurrentlyRunning int
	StartTime        time.Time
	LastJobTime      time.Time
}

type processingWorkerImpl struct {
	id            string
	jobQueue      queue.JobQueue
	processingApp app.ProcessingApp
	workerCount   int
	running       bool
	cancel        context.CancelFunc
	stats         WorkerStats
	mu            sync.RWMutex
	wg            sync.WaitGroup
}

// NewProcessingWorker creates a pool of workerCount job loops.
func NewProcessingWorker(id string, jobQueue queue.JobQueue, processingApp app.ProcessingApp, workerCount int) ProcessingWorker {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &processingWorkerImpl{
		id:            id,
		jobQueue:      jobQueue,
		processingApp: processingApp,
		workerCount:   workerCount,
		stats:         WorkerStats{StartTime: time.Now()},
	}
}

func (w *processingWorkerImpl) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("worker %s is already running", w.id)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.stats.StartTime = time.Now()

	logger.Infof("starting processing worker id=%s goroutines=%d", w.id, w.workerCount)

	for i := 0; i < w.workerCount; i++ {
		w.wg.Add(1)
		go w.workerLoop(workerCtx, i)
	}
	return nil
}

func (w *processingWorkerImpl) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	cancel := w.cancel
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
	logger.Infof("processing worker stopped id=%s", w.id)
	return nil
}

func (w *processingWorkerImpl) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *processingWorkerImpl) GetStats() WorkerStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// workerLoop dequeues and runs jobs until the context ends. RunJob owns
// all error handling; nothing a job does can break the loop.
func (w *processingWorkerImpl) workerLoop(ctx context.Context, index int) {
	defer w.wg.Done()

	for {
		req, err := w.jobQueue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			logger.Warnf("worker dequeue failed id=%s index=%d error=%s", w.id, index, err.Error())
			return
		}

		w.mu.Lock()
		w.stats.CurrentlyRunning++
		w.mu.Unlock()

		logger.Infof("worker picked job id=%s index=%d asset_id=%s", w.id, index, req.AssetID())
		w.processingApp.RunJob(ctx, req)

		w.mu.Lock()
		w.stats.CurrentlyRunning--
		w.stats.ProcessedJobs++
		w.stats.LastJobTime = time.Now()
		w.mu.Unlock()
	}
}
