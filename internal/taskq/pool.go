package taskq

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool runs tasks concurrently, at most size at a time, in no particular order.
type Pool struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// NewPool returns a pool allowing size concurrent tasks (at least one).
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

// Go starts fn on p. If ctx ends before a slot frees up the future resolves
// with ctx.Err() and fn never runs.
func Go[T any](p *Pool, ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.sem.Acquire(ctx, 1); err != nil {
			var zero T
			f.resolve(zero, err)
			return
		}
		defer p.sem.Release(1)
		f.resolve(call(ctx, fn))
	}()
	return f
}

// Wait blocks until every started task has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}
