package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Monsters_Go/internal/testing/leaktest"
)

type testJob struct {
	executed *int32
	err      error
}

func (j *testJob) Process(ctx context.Context) error {
	atomic.AddInt32(j.executed, 1)
	return j.err
}

func TestPool(t *testing.T) {
	var executed int32
	pool := NewPool(2, 10)
	pool.Start(context.Background())

	ctx := context.Background()
	require.NoError(t, pool.Enqueue(ctx, &testJob{executed: &executed}))
	require.NoError(t, pool.Enqueue(ctx, &testJob{executed: &executed}))
	require.NoError(t, pool.Enqueue(ctx, &testJob{executed: &executed, err: errors.New("boom")}))

	stats := pool.Close()

	assert.Equal(t, int32(3), atomic.LoadInt32(&executed))
	assert.Equal(t, int64(2), stats.Processed)
	assert.Equal(t, int64(1), stats.Failed)
}

func TestPool_CancelledContextSkipsJobs(t *testing.T) {
	var executed int32
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewPool(1, 4)
	for i := 0; i < 3; i++ {
		require.NoError(t, pool.Enqueue(context.Background(), &testJob{executed: &executed}))
	}
	pool.Start(ctx)
	stats := pool.Close()

	assert.Zero(t, atomic.LoadInt32(&executed))
	assert.Equal(t, int64(3), stats.Failed)
}

func TestPool_EnqueueHonorsContext(t *testing.T) {
	pool := NewPool(1, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executed int32
	err := pool.Enqueue(ctx, &testJob{executed: &executed})
	assert.ErrorIs(t, err, context.Canceled)
	pool.Close()
}

func TestPool_CloseStopsWorkers(t *testing.T) {
	leaktest.Run(t, func() {
		var executed int32
		pool := NewPool(8, 16)
		pool.Start(context.Background())
		for i := 0; i < 32; i++ {
			require.NoError(t, pool.Enqueue(context.Background(), &testJob{executed: &executed}))
		}
		stats := pool.Close()
		assert.Equal(t, int64(32), stats.Processed)
	})
}
