// Package fanout runs a function across a slice of items on a bounded number
// of goroutines, preserving input order in the results.
//
// Each item's outcome is a result.Result, so one failing item never hides
// the outcomes of the others.
package fanout

import (
	"context"
	"sync"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/result"
)

// Run executes fn for each item in items using at most maxWorkers concurrent
// goroutines. Results are returned in the same order as the input items.
//
// If ctx is canceled while a goroutine is waiting for a semaphore slot,
// that goroutine records Failure(ctx.Err()) and does not call fn.
// Goroutines that have already acquired a slot run to completion (fn is
// responsible for checking ctx internally if it supports cancellation).
//
// Run blocks until all goroutines complete. If items is empty, it returns
// an empty non-nil slice immediately. A maxWorkers below 1 is treated as 1.
func Run[T, R any](ctx context.Context, maxWorkers int, items []T, fn func(context.Context, T) (R, error)) []result.Result[R, error] {
	if len(items) == 0 {
		return []result.Result[R, error]{}
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	results := make([]result.Result[R, error], len(items))
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Go(func() {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = result.Failure[R](ctx.Err())
				return
			}
			results[i] = result.Try[R](fn(ctx, item))
		})
	}

	wg.Wait()
	return results
}
