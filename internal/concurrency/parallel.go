// Package concurrency provides a small bounded-parallelism helper for
// pipeline stages that touch disjoint sources.
package concurrency

import (
	"context"
	"sync"
)

// Options configures parallel processing.
type Options struct {
	// MaxWorkers caps in-flight work. <=0 falls back to the default.
	MaxWorkers int
}

// DefaultOptions returns the default parallelism settings.
func DefaultOptions() Options {
	return Options{MaxWorkers: 4}
}

// ProcessParallel runs itemFunc over items with bounded parallelism and
// returns results in input order. Errors come back positionally; a canceled
// context stops scheduling new work.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts Options,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = DefaultOptions().MaxWorkers
	}
	if maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					errs[i] = ctx.Err()
				default:
					results[i], errs[i] = itemFunc(ctx, i, items[i])
				}
			}
		}()
	}
	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, errs
		}
	}
	return results, nil
}

// FirstError returns the first non-nil error, or nil.
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
