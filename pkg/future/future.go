// Package future provides a single-assignment result of an asynchronous operation.
package future

import (
	"context"
	"fmt"
	"sync"
)

// Future is the pending result of an operation running on its own goroutine.
// It resolves exactly once, either with a value or with an error.
type Future[T any] struct {
	done   chan struct{}
	once   sync.Once
	value  T
	err    error
	cancel context.CancelFunc
}

// Go starts fn on a new goroutine and returns immediately with its pending Future.
// The context handed to fn is cancelled by Future.Cancel or when parent is done.
// A panic inside fn resolves the future with an error instead of crashing the process.
func Go[T any](parent context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	f := &Future[T]{
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.resolve(zero, fmt.Errorf("future: operation panicked: %v", r))
			}
		}()

		value, err := fn(ctx)
		f.resolve(value, err)
	}()

	return f
}

// Completed returns a future that is already resolved with value and err.
func Completed[T any](value T, err error) *Future[T] {
	f := &Future[T]{
		done:   make(chan struct{}),
		cancel: func() {},
	}
	f.resolve(value, err)
	return f
}

// Failed returns a future that is already resolved with err.
func Failed[T any](err error) *Future[T] {
	var zero T
	return Completed(zero, err)
}

func (f *Future[T]) resolve(value T, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed once the future has resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Get blocks until the future resolves or ctx is done.
// Giving up on ctx does not cancel the underlying operation; use Cancel for that.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Await blocks until the future resolves.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.value, f.err
}

// Poll returns the result without blocking. ok is false while the future is pending.
func (f *Future[T]) Poll() (value T, ok bool, err error) {
	select {
	case <-f.done:
		return f.value, true, f.err
	default:
		var zero T
		return zero, false, nil
	}
}

// Cancel asks the running operation to stop. It is best-effort: work that has
// already reached the remote side is not retracted.
func (f *Future[T]) Cancel() {
	f.cancel()
}
