package analyzer

import (
	"sync"
	"testing"
)

func TestNewWorkerPool(t *testing.T) {
	pool := NewWorkerPool(4)
	if pool == nil {
		t.Fatal("Expected non-nil worker pool")
	}
}

func TestNewWorkerPool_ZeroWorkers(t *testing.T) {
	// Should default to runtime.NumCPU() when workers <= 0
	pool := NewWorkerPool(0)
	if pool == nil {
		t.Error("Expected non-nil WorkerPool")
	}
}

func TestWorkerPool_Submit(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	defer pool.Close()

	var counter int
	var mu sync.Mutex

	for i := 0; i < 5; i++ {
		pool.Submit(func() {
			mu.Lock()
			counter++
			mu.Unlock()
		})
	}

	pool.Wait()

	if counter != 5 {
		t.Errorf("Expected counter to be 5, got %d", counter)
	}
}

func TestWorkerPool_Concurrent(t *testing.T) {
	pool := NewWorkerPool(3)
	pool.Start()
	defer pool.Close()

	var results []int
	var mu sync.Mutex

	for i := 0; i < 10; i++ {
		value := i
		pool.Submit(func() {
			processedValue := value * 2
			mu.Lock()
			results = append(results, processedValue)
			mu.Unlock()
		})
	}

	pool.Wait()

	if len(results) != 10 {
		t.Errorf("Expected 10 results, got %d", len(results))
	}
}

func TestWorkerPool_StartOnce(t *testing.T) {
	pool := NewWorkerPool(2)

	// Start should be idempotent
	pool.Start()
	pool.Start()

	defer pool.Close()

	var executed bool
	var mu sync.Mutex
	pool.Submit(func() {
		mu.Lock()
		executed = true
		mu.Unlock()
	})

	pool.Wait()

	mu.Lock()
	defer mu.Unlock()
	if !executed {
		t.Error("Expected job to be executed")
	}
}

func TestWorkerPool_SubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()

	var executed bool
	var mu sync.Mutex
	if ok := pool.Submit(func() {
		mu.Lock()
		executed = true
		mu.Unlock()
	}); !ok {
		t.Fatal("Expected submission to be accepted before close")
	}

	pool.Wait()
	pool.Close()

	mu.Lock()
	wasExecuted := executed
	mu.Unlock()
	if !wasExecuted {
		t.Error("Expected job to be executed before close")
	}

	if ok := pool.Submit(func() {}); ok {
		t.Error("Expected submission to be rejected after close")
	}
}

func TestWorkerPool_CloseTwice(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()

	pool.Close()
	pool.Close() // Must not panic
}

func TestWorkerPool_SubmissionConsistency(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Start()
	defer pool.Close()

	const numJobs = 3
	successCount := 0

	for i := 0; i < numJobs; i++ {
		if pool.Submit(func() {}) {
			successCount++
		}
	}

	pool.Wait()

	stats := pool.GetStats()
	if stats.TotalJobs != int64(successCount) {
		t.Errorf("Expected TotalJobs=%d, got %d", successCount, stats.TotalJobs)
	}
	if stats.CompletedJobs != int64(successCount) {
		t.Errorf("Expected CompletedJobs=%d, got %d", successCount, stats.CompletedJobs)
	}
	if stats.ActiveWorkers != 0 {
		t.Errorf("Expected 0 active workers, got %d", stats.ActiveWorkers)
	}
}

func TestWorkerPool_AtomicCounters(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Close()

	const numJobs = 5

	for i := 0; i < numJobs; i++ {
		pool.Submit(func() {
			for j := 0; j < 1000; j++ {
				_ = j * j
			}
		})
	}

	pool.Wait()

	stats := pool.GetStats()
	if stats.TotalJobs != int64(numJobs) {
		t.Errorf("Expected %d total jobs, got %d", numJobs, stats.TotalJobs)
	}
	if stats.CompletedJobs != int64(numJobs) {
		t.Errorf("Expected %d completed jobs, got %d", numJobs, stats.CompletedJobs)
	}
	if stats.ActiveWorkers != 0 {
		t.Errorf("Expected 0 active workers after completion, got %d", stats.ActiveWorkers)
	}
}

func TestWorkerPool_ConcurrentStatsAccess(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	defer pool.Close()

	const numJobs = 20
	const numStatsReads = 10

	var wg sync.WaitGroup

	for i := 0; i < numJobs; i++ {
		pool.Submit(func() {
			for j := 0; j < 5000; j++ {
				_ = j * j
			}
		})
	}

	for i := 0; i < numStatsReads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				stats := pool.GetStats()
				_ = stats.TotalJobs
				_ = stats.CompletedJobs
				_ = stats.ActiveWorkers
			}
		}()
	}

	wg.Wait()
	pool.Wait()

	finalStats := pool.GetStats()
	if finalStats.TotalJobs != numJobs {
		t.Errorf("Expected %d total jobs, got %d", numJobs, finalStats.TotalJobs)
	}
}
