// Package parallel runs data-parallel loops. Each call is a full barrier:
// when For returns, every chunk has finished and no writes are in flight.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers resolves a configured worker count. Zero or negative means one
// worker per available CPU.
func Workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// For splits [0, n) into chunks of at most chunk items and calls fn(lo, hi)
// for each chunk on up to workers goroutines. The first error cancels the
// remaining chunks and is returned once all running chunks have stopped.
// A chunk that has not started when ctx is done is skipped.
func For(ctx context.Context, n, chunk, workers int, fn func(lo, hi int) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n <= 0 {
		return nil
	}
	if chunk <= 0 {
		chunk = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Workers(workers))

	for start := 0; start < n; start += chunk {
		lo, hi := start, min(start+chunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(lo, hi)
		})
	}
	return g.Wait()
}
