package core

import (
	"context"
	"runtime"
	"sync"
)

// Generic parallel helpers shared by the generation pipeline.

// CreateDefaultWorkerPool creates a worker pool with default CPU count
func CreateDefaultWorkerPool() *WorkerPool {
	pool := NewWorkerPool(0) // 0 means use CPU count
	pool.Start()
	return pool
}

// ParallelForEach executes a function in parallel for each item in a slice.
// This is a convenience wrapper around ParallelForEachWithContext using context.Background().
func ParallelForEach[T any](items []T, fn func(T)) {
	ParallelForEachWithContext(context.Background(), items, fn)
}

// ParallelForEachWithContext executes a function in parallel for each item in a slice
// with cancellation support via context. Goroutines check for cancellation between items.
func ParallelForEachWithContext[T any](ctx context.Context, items []T, fn func(T)) {
	if len(items) == 0 {
		return
	}

	numWorkers := min(runtime.NumCPU(), len(items))
	var wg sync.WaitGroup

	chunkSize := max(1, len(items)/numWorkers)

	for i := 0; i < len(items); i += chunkSize {
		end := min(i+chunkSize, len(items))
		chunk := items[i:end]

		wg.Add(1)
		go func(chunk []T) {
			defer wg.Done()
			for _, item := range chunk {
				// Check for cancellation between items
				select {
				case <-ctx.Done():
					return
				default:
					fn(item)
				}
			}
		}(chunk)
	}

	wg.Wait()
}

// ParallelMap executes a function in parallel for each item and collects results.
// Results land in a pre-allocated slice indexed by item position, so ordering is
// preserved and no mutex is needed.
func ParallelMap[T any, R any](items []T, fn func(T) R) []R {
	return ParallelMapWithContext(context.Background(), items, fn)
}

// ParallelMapWithContext executes a function in parallel with cancellation support.
func ParallelMapWithContext[T any, R any](ctx context.Context, items []T, fn func(T) R) []R {
	if len(items) == 0 {
		return nil
	}

	numWorkers := min(runtime.NumCPU(), len(items))
	chunkSize := max(1, len(items)/numWorkers)

	results := make([]R, len(items))
	var wg sync.WaitGroup

	for i := 0; i < len(items); i += chunkSize {
		start := i
		end := min(i+chunkSize, len(items))

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for j := start; j < end; j++ {
				select {
				case <-ctx.Done():
					return
				default:
					results[j] = fn(items[j])
				}
			}
		}(start, end)
	}

	wg.Wait()
	return results
}
