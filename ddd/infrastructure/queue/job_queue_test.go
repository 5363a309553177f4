package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-pipeline-service/ddd/domain/entity"
	"video-pipeline-service/pkg/errno"
)

func TestEnqueueDequeue(t *testing.T) {
	q := NewMemoryJobQueue(2)
	defer q.Close()

	req := entity.NewProcessingRequest("uploads/raw.mp4", "owner-1", "asset-1")
	require.NoError(t, q.Enqueue(context.Background(), req))
	assert.Equal(t, 1, q.Size())

	got, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "asset-1", got.AssetID())
	assert.Equal(t, 0, q.Size())
}

func TestEnqueueFullQueueRejected(t *testing.T) {
	q := NewMemoryJobQueue(1)
	defer q.Close()

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, entity.NewProcessingRequest("k1", "o", "a1")))

	err := q.Enqueue(ctx, entity.NewProcessingRequest("k2", "o", "a2"))
	require.Error(t, err)

	var biz *errno.BizError
	require.True(t, errors.As(err, &biz))
	assert.Equal(t, errno.ErrQueueFull.Code, biz.Code())
}

func TestEnqueueNilRejected(t *testing.T) {
	q := NewMemoryJobQueue(1)
	defer q.Close()

	assert.Error(t, q.Enqueue(context.Background(), nil))
}

func TestDequeueHonorsContext(t *testing.T) {
	q := NewMemoryJobQueue(1)
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEnqueueAfterClose(t *testing.T) {
	q := NewMemoryJobQueue(1)
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	err := q.Enqueue(context.Background(), entity.NewProcessingRequest("k", "o", "a"))
	assert.Error(t, err)
}
