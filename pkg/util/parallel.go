package util

import (
	"context"
	"sync"
)

// Parallel runs fn over inputs with at most workers goroutines. The first
// error cancels the remaining work and is returned; if ctx ends first its
// error is returned.
func Parallel[T any](ctx context.Context, inputs []T, workers int, fn func(context.Context, T) error) error {
	if len(inputs) == 0 {
		return nil
	}
	workers = min(max(workers, 1), len(inputs))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tasks := make(chan T)
	var (
		once     sync.Once
		firstErr error
		wg       sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range tasks {
				if err := fn(ctx, item); err != nil {
					once.Do(func() {
						firstErr = err
						cancel()
					})
				}
			}
		}()
	}

feed:
	for _, item := range inputs {
		select {
		case <-ctx.Done():
			break feed
		case tasks <- item:
		}
	}
	close(tasks)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return context.Cause(ctx)
}
