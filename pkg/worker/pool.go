/*
Package worker provides a fixed-size worker pool for concurrent task
processing with optional rate limiting and context cancellation support.

Basic usage:

	pool, err := worker.NewPool(worker.Config{
		Workers:   4,
		RateLimit: 10, // 10 ops/sec
	})
	if err != nil {
		return err
	}

	if err := pool.Start(ctx); err != nil {
		return err
	}

	pool.Submit(worker.Task{
		ID: 1,
		Execute: func(ctx context.Context) (worker.Result, error) {
			return worker.Result{ID: 1, Data: "processed"}, nil
		},
	})

	// Results come back in submission order
	results, err := pool.Wait()

Results are accumulated in memory under a mutex, so workers never block on a
consumer and any number of tasks may be submitted before Wait is called.
*/
package worker

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Task represents a unit of work to be processed by the worker pool
type Task struct {
	// ID identifies the task in error messages
	ID int

	// Execute performs the work. It receives the pool context.
	Execute func(context.Context) (Result, error)
}

// Result represents the output of a processed task
type Result struct {
	// ID matches the task ID that produced this result
	ID int

	// Data holds the actual result data
	Data interface{}

	// order is the submission sequence number
	order int
}

// Config holds the configuration for the worker pool
type Config struct {
	// Workers is the number of concurrent workers
	Workers int

	// RateLimit is the maximum number of operations per second (0 for unlimited)
	RateLimit int
}

// Pool defines the interface for a worker pool
type Pool interface {
	// Start launches the workers
	Start(context.Context) error

	// Submit queues a task. It blocks while the queue is full.
	Submit(Task) error

	// Wait closes the queue, blocks until every submitted task has run and
	// returns the successful results in submission order together with the
	// first task error, if any.
	Wait() ([]Result, error)

	// GetStats returns current statistics about the pool
	GetStats() Stats

	// Status returns the current status of the pool
	Status() Status

	// Stop cancels outstanding work and shuts the pool down
	Stop() error
}

type queuedTask struct {
	Task
	order int
}

// pool implements the Pool interface
type pool struct {
	config  Config
	tasks   chan queuedTask
	limiter *rate.Limiter
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	// mu guards the lifecycle flags and the queue close
	mu       sync.RWMutex
	started  bool
	closed   bool
	stopping bool

	// resultsMu guards results and firstErr
	resultsMu sync.Mutex
	results   []Result
	firstErr  error

	startTime     time.Time
	nextOrder     atomic.Int64
	activeWorkers atomic.Int32
	queued        atomic.Int32
	completed     atomic.Int64
	failed        atomic.Int64
}

// NewPool creates a new worker pool with the given configuration
func NewPool(config Config) (Pool, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &pool{
		config:  config,
		tasks:   make(chan queuedTask, config.Workers*2),
		limiter: limiter,
	}, nil
}

// validateConfig checks if the pool configuration is valid
func validateConfig(config Config) error {
	if config.Workers <= 0 {
		return fmt.Errorf("number of workers must be positive")
	}
	if config.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}
	return nil
}

// Start initializes and starts the worker pool
func (p *pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("pool already started")
	}
	if p.closed {
		return fmt.Errorf("pool already stopped")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true
	p.startTime = time.Now()

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return nil
}

// Submit adds a task to the pool for processing
func (p *pool) Submit(task Task) error {
	if task.Execute == nil {
		return fmt.Errorf("task %d has no execute function", task.ID)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started {
		return fmt.Errorf("pool not started")
	}
	if p.closed {
		return fmt.Errorf("pool is closed")
	}

	order := int(p.nextOrder.Add(1) - 1)

	p.queued.Add(1)
	select {
	case <-p.ctx.Done():
		p.queued.Add(-1)
		return fmt.Errorf("pool is shutting down: %w", p.ctx.Err())
	case p.tasks <- queuedTask{Task: task, order: order}:
		return nil
	}
}

// Wait blocks until all submitted tasks are processed
func (p *pool) Wait() ([]Result, error) {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil, fmt.Errorf("pool not started")
	}
	p.closeQueue()
	p.mu.Unlock()

	p.wg.Wait()

	p.resultsMu.Lock()
	defer p.resultsMu.Unlock()

	results := make([]Result, len(p.results))
	copy(results, p.results)
	sort.Slice(results, func(i, j int) bool {
		return results[i].order < results[j].order
	})

	return results, p.firstErr
}

// Stop gracefully shuts down the pool
func (p *pool) Stop() error {
	p.mu.RLock()
	started := p.started
	p.mu.RUnlock()

	if !started {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		return nil
	}

	// Cancel first so a Submit blocked on a full queue releases its lock.
	p.cancel()

	p.mu.Lock()
	p.stopping = true
	p.closeQueue()
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(500 * time.Millisecond):
		return fmt.Errorf("shutdown timed out")
	}
}

// closeQueue must be called with mu held.
func (p *pool) closeQueue() {
	if !p.closed {
		close(p.tasks)
		p.closed = true
	}
}

func (p *pool) GetStats() Stats {
	var uptime time.Duration

	p.mu.RLock()
	if p.started {
		uptime = time.Since(p.startTime)
	}
	status := p.getStatus()
	p.mu.RUnlock()

	return Stats{
		ActiveWorkers:  int(p.activeWorkers.Load()),
		QueuedTasks:    int(p.queued.Load()),
		CompletedTasks: int(p.completed.Load()),
		FailedTasks:    int(p.failed.Load()),
		Status:         status,
		Uptime:         uptime,
	}
}

func (p *pool) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.getStatus()
}

// getStatus must be called with mu held.
func (p *pool) getStatus() Status {
	switch {
	case !p.started:
		return StatusStopped
	case p.stopping:
		if p.activeWorkers.Load() > 0 {
			return StatusShuttingDown
		}
		return StatusStopped
	case p.activeWorkers.Load() > 0 || p.queued.Load() > 0:
		return StatusProcessing
	default:
		return StatusIdle
	}
}

// worker processes tasks until the queue is closed
func (p *pool) worker() {
	defer p.wg.Done()

	for qt := range p.tasks {
		p.queued.Add(-1)
		p.activeWorkers.Add(1)
		p.run(qt)
		p.activeWorkers.Add(-1)
	}
}

func (p *pool) run(qt queuedTask) {
	if err := p.ctx.Err(); err != nil {
		p.fail(fmt.Errorf("task %d cancelled: %w", qt.ID, err))
		return
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(p.ctx); err != nil {
			p.fail(fmt.Errorf("rate limiter error: %w", err))
			return
		}
	}

	result, err := qt.Execute(p.ctx)
	if err != nil {
		p.fail(fmt.Errorf("task %d failed: %w", qt.ID, err))
		return
	}

	result.order = qt.order

	p.resultsMu.Lock()
	p.results = append(p.results, result)
	p.resultsMu.Unlock()

	p.completed.Add(1)
}

func (p *pool) fail(err error) {
	p.failed.Add(1)

	p.resultsMu.Lock()
	if p.firstErr == nil {
		p.firstErr = err
	}
	p.resultsMu.Unlock()
}
