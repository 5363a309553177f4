package task

import (
	"context"
	"sync"
)

// BackgroundTask represents a long-running background process (consumer,
// worker pool, cron).
type BackgroundTask interface {
	Name() string
	Start(ctx context.Context) error
	Stop() error
}

type taskManager struct {
	mu     sync.Mutex
	tasks  []BackgroundTask
	cancel context.CancelFunc
}

var defaultManager = &taskManager{}

// Register adds a background task; call during assembly before StartAll.
func Register(t BackgroundTask) {
	if t == nil {
		return
	}
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.tasks = append(defaultManager.tasks, t)
}

// StartAll starts every registered task once; later calls are no-ops.
func StartAll(ctx context.Context) error {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	if defaultManager.cancel != nil {
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	defaultManager.cancel = cancel
	for _, t := range defaultManager.tasks {
		if err := t.Start(runCtx); err != nil {
			return err
		}
	}
	return nil
}

// StopAll cancels the shared context and stops tasks in reverse order.
func StopAll() {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	if defaultManager.cancel != nil {
		defaultManager.cancel()
	}
	for i := len(defaultManager.tasks) - 1; i >= 0; i-- {
		_ = defaultManager.tasks[i].Stop()
	}
	defaultManager.cancel = nil
}
