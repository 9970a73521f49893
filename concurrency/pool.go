package concurrency

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolStopped is returned by Submit once the pool has been stopped.
var ErrPoolStopped = errors.New("worker pool is stopped")

// Job is a unit of work run by one worker.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is what a Job hands back.
type Result interface {
	GetError() error
}

// JobFunc adapts a function to Job.
type JobFunc func(ctx context.Context) Result

// Execute calls f.
func (f JobFunc) Execute(ctx context.Context) Result {
	return f(ctx)
}

// WorkerPool runs submitted jobs on a fixed number of goroutines. Results
// arrive in completion order; callers that need submission order carry an
// index in their Result.
//
// Typical use: Start, Submit from one goroutine then Close, and range over
// Results until it is closed.
type WorkerPool struct {
	size       int
	jobQueue   chan Job
	resultChan chan Result
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	closeOnce  sync.Once
}

// NewWorkerPool creates a pool of size workers with a job queue of
// queueSize. Sizes below 1 are raised to 1.
func NewWorkerPool(size, queueSize int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		size:       size,
		jobQueue:   make(chan Job, queueSize),
		resultChan: make(chan Result, size),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Size returns the number of workers.
func (p *WorkerPool) Size() int {
	return p.size
}

// Start launches the workers.
func (p *WorkerPool) Start() {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Submit queues job, blocking while the queue is full. It must not be called
// after Close.
func (p *WorkerPool) Submit(ctx context.Context, job Job) error {
	select {
	case <-p.ctx.Done():
		return ErrPoolStopped
	default:
	}

	select {
	case p.jobQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolStopped
	}
}

// Results returns the result channel. It is closed after Close once every
// queued job has finished.
func (p *WorkerPool) Results() <-chan Result {
	return p.resultChan
}

// Close stops accepting jobs, waits for the queued ones and closes Results.
// Results must be drained concurrently.
func (p *WorkerPool) Close() {
	p.closeOnce.Do(func() {
		close(p.jobQueue)
		p.wg.Wait()
		close(p.resultChan)
		p.cancel()
	})
}

// Stop cancels the context passed to running jobs, drops queued jobs and
// then behaves like Close.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.Close()
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for job := range p.jobQueue {
		if p.ctx.Err() != nil {
			continue
		}
		p.resultChan <- job.Execute(p.ctx)
	}
}
