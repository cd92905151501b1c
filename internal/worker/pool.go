// Package worker provides a bounded pool for running analyses
// concurrently without letting request bursts exhaust the process.
package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonesrussell/a11yscan/internal/logger"
)

// PoolState represents the current state of the pool.
type PoolState int32

const (
	// PoolStateStopped means the pool is not running.
	PoolStateStopped PoolState = iota

	// PoolStateRunning means the pool is accepting analyses.
	PoolStateRunning

	// PoolStateDraining means the pool is shutting down gracefully.
	PoolStateDraining
)

// String returns the string representation of a pool state.
func (s PoolState) String() string {
	switch s {
	case PoolStateStopped:
		return "stopped"
	case PoolStateRunning:
		return "running"
	case PoolStateDraining:
		return "draining"
	default:
		return "unknown"
	}
}

// DefaultPoolSize bounds concurrent analyses when unconfigured.
const DefaultPoolSize = 4

// Task is one unit of work submitted to the pool. The returned error only
// feeds the pool's statistics; result delivery is the task's own business.
type Task func(ctx context.Context) error

// Pool runs submitted tasks with bounded concurrency.
type Pool struct {
	size   int
	logger logger.Interface
	state  atomic.Int32
	sem    chan struct{}
	wg     sync.WaitGroup
	stopCh chan struct{}

	totalStarted   atomic.Int64
	totalSucceeded atomic.Int64
	totalFailed    atomic.Int64
}

// NewPool creates a pool of the given size. Sizes below one fall back to
// the default.
func NewPool(size int, log logger.Interface) *Pool {
	if size < 1 {
		size = DefaultPoolSize
	}
	p := &Pool{
		size:   size,
		logger: log.WithComponent("worker"),
		sem:    make(chan struct{}, size),
		stopCh: make(chan struct{}),
	}
	p.state.Store(int32(PoolStateStopped))
	return p
}

// Start marks the pool as accepting work.
func (p *Pool) Start() error {
	if !p.state.CompareAndSwap(int32(PoolStateStopped), int32(PoolStateRunning)) {
		return errors.New("pool is already running")
	}
	p.logger.Info("worker pool started", "pool_size", p.size)
	return nil
}

// Stop drains the pool, waiting for running tasks until ctx expires.
func (p *Pool) Stop(ctx context.Context) error {
	if !p.state.CompareAndSwap(int32(PoolStateRunning), int32(PoolStateDraining)) {
		return errors.New("pool is not running")
	}

	p.logger.Info("worker pool draining")
	close(p.stopCh)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool stopped gracefully")
	case <-ctx.Done():
		p.logger.Warn("worker pool stop timed out")
	}

	p.state.Store(int32(PoolStateStopped))
	return nil
}

// Submit runs the task on the pool, blocking while all slots are busy.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	if p.State() != PoolStateRunning {
		return errors.New("pool is not running")
	}

	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopCh:
		return errors.New("pool is stopping")
	}

	p.wg.Add(1)
	p.totalStarted.Add(1)

	go func() {
		defer func() {
			<-p.sem
			p.wg.Done()
		}()

		start := time.Now()
		if err := task(ctx); err != nil {
			p.totalFailed.Add(1)
			p.logger.Error("task failed",
				"error", err,
				"duration", time.Since(start),
			)
			return
		}
		p.totalSucceeded.Add(1)
	}()

	return nil
}

// TrySubmit runs the task only when a slot is free, returning false
// otherwise.
func (p *Pool) TrySubmit(ctx context.Context, task Task) (bool, error) {
	if p.State() != PoolStateRunning {
		return false, errors.New("pool is not running")
	}

	select {
	case p.sem <- struct{}{}:
	default:
		return false, nil
	}

	p.wg.Add(1)
	p.totalStarted.Add(1)

	go func() {
		defer func() {
			<-p.sem
			p.wg.Done()
		}()

		if err := task(ctx); err != nil {
			p.totalFailed.Add(1)
			return
		}
		p.totalSucceeded.Add(1)
	}()

	return true, nil
}

// State returns the current pool state.
func (p *Pool) State() PoolState {
	return PoolState(p.state.Load())
}

// IsRunning returns true if the pool is accepting work.
func (p *Pool) IsRunning() bool {
	return p.State() == PoolStateRunning
}

// Size returns the pool size.
func (p *Pool) Size() int {
	return p.size
}

// BusyCount returns the number of occupied slots.
func (p *Pool) BusyCount() int {
	return len(p.sem)
}

// Stats returns pool statistics.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		State:          p.State(),
		PoolSize:       p.size,
		BusyWorkers:    p.BusyCount(),
		TasksStarted:   p.totalStarted.Load(),
		TasksSucceeded: p.totalSucceeded.Load(),
		TasksFailed:    p.totalFailed.Load(),
	}
}

// PoolStats holds statistics for the pool.
type PoolStats struct {
	State          PoolState `json:"state"`
	PoolSize       int       `json:"poolSize"`
	BusyWorkers    int       `json:"busyWorkers"`
	TasksStarted   int64     `json:"tasksStarted"`
	TasksSucceeded int64     `json:"tasksSucceeded"`
	TasksFailed    int64     `json:"tasksFailed"`
}
