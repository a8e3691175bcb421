// Package taskq runs work off the caller's goroutine and hands results back
// through futures.
//
// Serial executes tasks one at a time in submission order and is used for
// every recycle-bin store operation. Pool runs tasks concurrently up to a
// fixed limit with no ordering guarantee and is used for long file copies.
package taskq

import (
	"context"
	"errors"
	"fmt"
)

// ErrClosed is returned for tasks submitted after the queue was closed.
var ErrClosed = errors.New("task queue closed")

// Result is the tagged outcome of a task: a value on success or an error.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the task succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Future is the pending result of a submitted task.
type Future[T any] struct {
	done chan struct{}
	res  Result[T]
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a future that is already complete.
func Resolved[T any](v T, err error) *Future[T] {
	f := newFuture[T]()
	f.resolve(v, err)
	return f
}

func (f *Future[T]) resolve(v T, err error) {
	f.res = Result[T]{Value: v, Err: err}
	close(f.done)
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the task completes and returns its tagged result.
func (f *Future[T]) Result() Result[T] {
	<-f.done
	return f.res
}

// Wait blocks until the task completes or ctx is done. Giving up on the wait
// does not cancel the task itself.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.res.Value, f.res.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// call runs fn and converts a panic into an error so a worker survives it.
func call[T any](ctx context.Context, fn func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if p := recover(); p != nil {
			var zero T
			v, err = zero, fmt.Errorf("task panicked: %v", p)
		}
	}()
	return fn(ctx)
}
