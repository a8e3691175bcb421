package taskq

import (
	"context"
	"sync"
)

// Serial is a single-goroutine FIFO executor. Submitting never blocks: the
// queue is unbounded.
type Serial struct {
	mu      sync.Mutex
	queue   []func()
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
}

// NewSerial starts the worker goroutine.
func NewSerial() *Serial {
	s := &Serial{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go s.loop()
	return s
}

// Run submits fn to s and returns its future. Tasks run in submission order.
// A task whose ctx is already done when its turn comes is skipped and
// resolves with ctx.Err().
func Run[T any](s *Serial, ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	ok := s.enqueue(func() {
		if err := ctx.Err(); err != nil {
			var zero T
			f.resolve(zero, err)
			return
		}
		f.resolve(call(ctx, fn))
	})
	if !ok {
		var zero T
		f.resolve(zero, ErrClosed)
	}
	return f
}

func (s *Serial) enqueue(task func()) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.queue = append(s.queue, task)
	s.mu.Unlock()
	s.signal()
	return true
}

func (s *Serial) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Serial) loop() {
	defer close(s.stopped)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return
			}
			<-s.wake
			continue
		}
		task := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		task()
	}
}

// Close rejects new submissions, runs everything already queued and waits
// for the worker to exit. It is safe to call more than once.
func (s *Serial) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.signal()
	<-s.stopped
}
