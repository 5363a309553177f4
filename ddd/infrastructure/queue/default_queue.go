package queue

import (
	"sync"

	"video-pipeline-service/pkg/config"
)

var (
	queueOnce    sync.Once
	defaultQueue JobQueue
)

// DefaultJobQueue returns the process-wide job queue, sized from
// configuration on first use.
func DefaultJobQueue() JobQueue {
	queueOnce.Do(func() {
		capacity := 100
		if cfg := config.GetGlobalConfig(); cfg != nil && cfg.Worker.QueueCapacity > 0 {
			capacity = cfg.Worker.QueueCapacity
		}
		defaultQueue = NewMemoryJobQueue(capacity)
	})
	return defaultQueue
}

// CloseDefaultJobQueue shuts the shared queue down.
func CloseDefaultJobQueue() {
	if defaultQueue != nil {
		_ = defaultQueue.Close()
	}
}
