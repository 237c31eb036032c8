package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPool(t *testing.T, size int) *Pool {
	t.Helper()
	p, err := NewPool("test", Config{Size: size, TaskTimeout: time.Second}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Stop(context.Background()) })
	return p
}

func TestPool_RunsTasks(t *testing.T) {
	p := newTestPool(t, 2)

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(context.Background(), func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}))
	}
	require.NoError(t, p.Stop(context.Background()))
	assert.Equal(t, int32(10), ran.Load())
}

func TestPool_TaskIgnoresCallerCancellation(t *testing.T) {
	p := newTestPool(t, 1)

	type key struct{}
	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), key{}, "req-1"))

	var wg sync.WaitGroup
	wg.Add(1)
	var seenErr error
	var seenValue any
	release := make(chan struct{})
	require.NoError(t, p.Submit(ctx, func(taskCtx context.Context) error {
		defer wg.Done()
		<-release
		seenErr = taskCtx.Err()
		seenValue = taskCtx.Value(key{})
		return nil
	}))
	cancel()
	close(release)
	wg.Wait()

	assert.NoError(t, seenErr)
	assert.Equal(t, "req-1", seenValue)
}

func TestPool_CountsFailures(t *testing.T) {
	p := newTestPool(t, 1)

	require.NoError(t, p.Submit(context.Background(), func(context.Context) error {
		return errors.New("disk full")
	}))
	require.NoError(t, p.Submit(context.Background(), func(context.Context) error {
		panic("boom")
	}))
	require.NoError(t, p.Stop(context.Background()))

	assert.Equal(t, int64(2), p.Failed())
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := newTestPool(t, 1)
	require.NoError(t, p.Stop(context.Background()))

	err := p.Submit(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestPool_StopTimesOut(t *testing.T) {
	p := newTestPool(t, 1)
	block := make(chan struct{})
	defer close(block)

	require.NoError(t, p.Submit(context.Background(), func(context.Context) error {
		<-block
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Stop(ctx), context.DeadlineExceeded)
}
