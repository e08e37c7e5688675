package core

import (
	"context"
	"sync"
	"testing"
)

func TestWorkerPoolRunsSubmittedJobs(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Stop()

	counter := NewSafeCounter()
	for i := 0; i < 100; i++ {
		pool.Submit(func() {
			counter.Increment()
		})
	}
	pool.Wait()

	if counter.Get() != 100 {
		t.Errorf("Expected 100 completed jobs, got %d", counter.Get())
	}
}

func TestWorkerPoolDefaultsToCPUCount(t *testing.T) {
	pool := CreateDefaultWorkerPool()
	defer pool.Stop()

	if pool.GetNumWorkers() < 1 {
		t.Errorf("Default pool should have at least one worker, got %d", pool.GetNumWorkers())
	}
}

func TestParallelForCoversRange(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Stop()

	var mu sync.Mutex
	seen := make(map[int]bool)
	pool.ParallelFor(0, 50, func(i int) {
		mu.Lock()
		seen[i] = true
		mu.Unlock()
	})

	if len(seen) != 50 {
		t.Fatalf("Expected 50 indices visited, got %d", len(seen))
	}
	for i := 0; i < 50; i++ {
		if !seen[i] {
			t.Errorf("Index %d was never visited", i)
		}
	}
}

func TestParallelForCancelledContextSkipsWork(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	defer pool.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	counter := NewSafeCounter()
	pool.ParallelForWithContext(ctx, 0, 100, func(int) {
		counter.Increment()
	})

	if counter.Get() != 0 {
		t.Errorf("Cancelled context should prevent iterations, %d ran", counter.Get())
	}
}

func TestSubmitWithCancelledContextSkipsJob(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	defer pool.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := NewSafeCounter()
	pool.SubmitWithContext(ctx, func() {
		ran.Increment()
	})
	pool.Wait()

	if ran.Get() != 0 {
		t.Errorf("Job should not run under a cancelled context")
	}
}

func TestParallelForEachProcessesAllItems(t *testing.T) {
	items := make([]int, 37)
	for i := range items {
		items[i] = i
	}

	sum := NewSafeCounter()
	ParallelForEach(items, func(v int) {
		sum.Add(int64(v))
	})

	if sum.Get() != 37*36/2 {
		t.Errorf("Expected sum %d, got %d", 37*36/2, sum.Get())
	}
}

func TestParallelMapPreservesOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	results := ParallelMap(items, func(v int) int {
		return v * v
	})

	if len(results) != len(items) {
		t.Fatalf("Expected %d results, got %d", len(items), len(results))
	}
	for i, v := range items {
		if results[i] != v*v {
			t.Errorf("Result %d: expected %d, got %d", i, v*v, results[i])
		}
	}
}

func TestParallelMapEmptyInput(t *testing.T) {
	if results := ParallelMap(nil, func(v int) int { return v }); results != nil {
		t.Errorf("Empty input should yield nil results, got %v", results)
	}
}

func TestBatchProcessesEveryItem(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = 1
	}

	counter := NewSafeCounter()
	batch := NewBatch(items, func(chunk []int) {
		counter.Add(int64(len(chunk)))
	})
	batch.Process(4)

	if counter.Get() != 25 {
		t.Errorf("Expected 25 items processed, got %d", counter.Get())
	}
}

func TestSafeCounterOperations(t *testing.T) {
	c := NewSafeCounter()

	if c.Increment() != 1 {
		t.Errorf("Increment from zero should return 1")
	}
	if c.Decrement() != 0 {
		t.Errorf("Decrement should return 0")
	}
	c.Set(10)
	if c.Add(5) != 15 {
		t.Errorf("Add(5) after Set(10) should return 15, got %d", c.Get())
	}
	if !c.CompareAndSwap(15, 20) {
		t.Errorf("CompareAndSwap(15, 20) should succeed")
	}
	if c.CompareAndSwap(15, 30) {
		t.Errorf("CompareAndSwap with stale value should fail")
	}
	if c.Get() != 20 {
		t.Errorf("Expected final value 20, got %d", c.Get())
	}
}
