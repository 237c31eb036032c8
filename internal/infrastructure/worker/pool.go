// Package worker runs fire-and-forget background tasks on a bounded ants pool
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// ErrPoolClosed is returned by Submit after Stop
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is one unit of background work
type Task func(ctx context.Context) error

// Config sizes a pool
type Config struct {
	Size        int
	TaskTimeout time.Duration
}

// DefaultConfig returns 4 workers and a 5 second task timeout
func DefaultConfig() Config {
	return Config{Size: 4, TaskTimeout: 5 * time.Second}
}

// Pool executes tasks asynchronously. Tasks run detached from the caller's
// cancellation but keep its values (logger, request id, trace).
type Pool struct {
	name    string
	pool    *ants.Pool
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
	closed  atomic.Bool
	failed  atomic.Int64
}

// NewPool starts a pool of cfg.Size workers
func NewPool(name string, cfg Config, logger *zap.Logger) (*Pool, error) {
	if cfg.Size <= 0 {
		cfg.Size = DefaultConfig().Size
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = DefaultConfig().TaskTimeout
	}
	p := &Pool{
		name:    name,
		timeout: cfg.TaskTimeout,
		logger:  logger.With(zap.String("pool", name)),
	}
	pool, err := ants.NewPool(cfg.Size, ants.WithExpiryDuration(time.Minute))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s pool: %w", name, err)
	}
	p.pool = pool
	return p, nil
}

// Submit queues task. It blocks only while every worker is busy.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}
	detached := context.WithoutCancel(ctx)

	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.failed.Add(1)
				p.logger.Error("background task panicked", zap.Any("panic", r))
			}
		}()
		taskCtx, cancel := context.WithTimeout(detached, p.timeout)
		defer cancel()
		if err := task(taskCtx); err != nil {
			p.failed.Add(1)
			p.logger.Warn("background task failed", zap.Error(err))
		}
	})
	if err != nil {
		p.wg.Done()
		if errors.Is(err, ants.ErrPoolClosed) {
			return ErrPoolClosed
		}
		return fmt.Errorf("failed to submit task: %w", err)
	}
	return nil
}

// Running returns the number of busy workers
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Waiting returns the number of submitters blocked on a free worker
func (p *Pool) Waiting() int {
	return p.pool.Waiting()
}

// Failed returns how many tasks returned an error or panicked
func (p *Pool) Failed() int64 {
	return p.failed.Load()
}

// Stop refuses new tasks and waits for queued ones until ctx is done
func (p *Pool) Stop(ctx context.Context) error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("%s pool: %w", p.name, ctx.Err())
	}
	p.pool.Release()
	p.logger.Info("worker pool stopped", zap.Int64("failed_tasks", p.failed.Load()))
	return err
}
