// Package worker runs batches of independent jobs on a fixed number of goroutines.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/osse101/Monsters_Go/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// Stats counts what a pool did between Start and Close
type Stats struct {
	Processed int64
	Failed    int64
}

// Pool represents a worker pool
type Pool struct {
	workers   int
	jobQueue  chan Job
	wg        sync.WaitGroup
	processed atomic.Int64
	failed    atomic.Int64
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
	}
}

// Start starts the workers. Jobs receive ctx; once it is cancelled, queued jobs are
// drained without being run.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for job := range p.jobQueue {
		if ctx.Err() != nil {
			p.failed.Add(1)
			continue
		}
		if err := job.Process(ctx); err != nil {
			p.failed.Add(1)
			logger.FromContext(ctx).Error(LogMsgWorkerJobFailed, "error", err)
			continue
		}
		p.processed.Add(1)
	}
}

// Enqueue blocks until the job is queued or ctx is done
func (p *Pool) Enqueue(ctx context.Context, job Job) error {
	select {
	case p.jobQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs, waits for the queue to drain and reports the totals.
func (p *Pool) Close() Stats {
	close(p.jobQueue)
	p.wg.Wait()
	return Stats{Processed: p.processed.Load(), Failed: p.failed.Load()}
}
