package analyzer

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs the independent raster scans of concurrent analyses on a
// bounded set of goroutines
type WorkerPool struct {
	workers   int
	jobQueue  chan func()
	wg        sync.WaitGroup
	startOnce sync.Once

	// mu orders Submit sends against Close so the queue is never closed
	// with a send in flight
	mu     sync.RWMutex
	closed bool

	totalJobs     atomic.Int64
	completedJobs atomic.Int64
	activeWorkers atomic.Int64
}

// PoolStats is a snapshot of the pool counters
type PoolStats struct {
	TotalJobs     int64
	CompletedJobs int64
	ActiveWorkers int64
}

// NewWorkerPool creates a new worker pool with the specified number of
// workers, defaulting to the CPU count
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start launches the workers. Calling Start more than once has no effect.
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

// worker processes jobs from the job queue
func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		wp.activeWorkers.Add(1)
		job()
		wp.activeWorkers.Add(-1)
		wp.completedJobs.Add(1)
		wp.wg.Done()
	}
}

// Submit queues a job, blocking while the queue is full. It reports whether
// the job was accepted; a closed pool rejects all jobs.
func (wp *WorkerPool) Submit(job func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}
	wp.wg.Add(1)
	wp.totalJobs.Add(1)
	wp.jobQueue <- job
	return true
}

// Wait blocks until every accepted job has completed
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// GetStats returns a snapshot of the pool counters
func (wp *WorkerPool) GetStats() PoolStats {
	return PoolStats{
		TotalJobs:     wp.totalJobs.Load(),
		CompletedJobs: wp.completedJobs.Load(),
		ActiveWorkers: wp.activeWorkers.Load(),
	}
}

// Close shuts down the worker pool. Jobs already queued still run; later
// submissions are rejected.
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.closed {
		return
	}
	wp.closed = true
	close(wp.jobQueue)
}
