package queue

import (
	"context"
	"fmt"
	"sync"

	"video-pipeline-service/ddd/domain/entity"
	"video-pipeline-service/pkg/errno"
)

// JobQueue feeds processing requests to the worker pool.
type JobQueue interface {
	// Enqueue adds a request without blocking. A full queue is rejected
	// so the upload path never stalls on processing backpressure.
	Enqueue(ctx context.Context, req *entity.ProcessingRequest) error

	// Dequeue blocks until a request is available or ctx is done.
	Dequeue(ctx context.Context) (*entity.ProcessingRequest, error)

	// Size reports the number of queued requests.
	Size() int

	// Close shuts the queue down. Enqueue after Close fails.
	Close() error
}

// MemoryJobQueue is a bounded in-process channel queue.
type MemoryJobQueue struct {
	queue  chan *entity.ProcessingRequest
	closed bool
	mu     sync.RWMutex
}

// NewMemoryJobQueue creates a queue with the given capacity.
func NewMemoryJobQueue(capacity int) JobQueue {
	if capacity <= 0 {
		capacity = 100
	}
	return &MemoryJobQueue{
		queue: make(chan *entity.ProcessingRequest, capacity),
	}
}

func (q *MemoryJobQueue) Enqueue(ctx context.Context, req *entity.ProcessingRequest) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return fmt.Errorf("queue is closed")
	}
	if req == nil {
		return fmt.Errorf("request cannot be nil")
	}

	select {
	case q.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errno.NewBizError(errno.ErrQueueFull, nil)
	}
}

func (q *MemoryJobQueue) Dequeue(ctx context.Context) (*entity.ProcessingRequest, error) {
	select {
	case req, ok := <-q.queue:
		if !ok {
			return nil, fmt.Errorf("queue is closed")
		}
		return req, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemoryJobQueue) Size() int {
	return len(q.queue)
}

func (q *MemoryJobQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	close(q.queue)
	return nil
}
