package preload

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Job is a unit of work run by the WorkerPool. Its error is logged.
type Job func(ctx context.Context) error

var (
	// ErrPoolClosed is returned by Submit and TrySubmit after Close.
	ErrPoolClosed = errors.New("worker pool closed")
	// ErrQueueFull is returned by TrySubmit when no queue slot is free.
	ErrQueueFull = errors.New("worker pool queue full")
)

// WorkerPool runs queued jobs on a fixed number of goroutines.
type WorkerPool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int

	closeMu   sync.Mutex
	closed    bool
	done      chan struct{}
	closeOnce sync.Once
}

func NewWorkerPool(workers, queue int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers
	}
	return &WorkerPool{
		jobs:    make(chan Job, queue),
		workers: workers,
		done:    make(chan struct{}),
	}
}

// Start launches the workers. They exit when ctx is done or the pool is
// closed and drained.
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					if err := job(ctx); err != nil {
						log.Printf("preload: job failed: %v", err)
					}
				}
			}
		}()
	}
}

// Submit enqueues job, blocking while the queue is full. A Submit blocked
// when Close is called returns ErrPoolClosed.
func (p *WorkerPool) Submit(job Job) error {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		return nil
	case <-p.done:
		return ErrPoolClosed
	}
}

// TrySubmit enqueues job without blocking.
func (p *WorkerPool) TrySubmit(job Job) error {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting jobs and waits for the workers to finish what is
// queued.
func (p *WorkerPool) Close() {
	// Wake blocked senders before taking the lock they hold.
	p.closeOnce.Do(func() { close(p.done) })

	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.closeMu.Unlock()
	p.wg.Wait()
}
