package task

import (
	"context"
	"sync"
)

// Lazy is a cold, single-shot asynchronous result. Nothing runs until the
// first Await; later callers get the same outcome.
type Lazy[T any] struct {
	fn func(ctx context.Context) (T, error)

	mu      sync.Mutex
	started bool
	done    chan struct{}
	val     T
	err     error
}

func NewLazy[T any](fn func(ctx context.Context) (T, error)) *Lazy[T] {
	return &Lazy[T]{fn: fn, done: make(chan struct{})}
}

// Await runs the work on the first call, using that call's ctx, and blocks
// until it finishes. Concurrent callers wait for the same run or for their
// own ctx to end.
func (l *Lazy[T]) Await(ctx context.Context) (T, error) {
	l.mu.Lock()
	if !l.started {
		l.started = true
		l.mu.Unlock()

		l.val, l.err = l.fn(ctx)
		close(l.done)
		return l.val, l.err
	}
	l.mu.Unlock()

	select {
	case <-l.done:
		return l.val, l.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Started reports whether Await has been called.
func (l *Lazy[T]) Started() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started
}
