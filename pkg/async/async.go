package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Future holds the eventual outcome of a task started with Async.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// Result is a settled future outcome.
type Result[U any] struct {
	Value U
	Err   error
}

// Await blocks until the task finishes.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout blocks until the task finishes or the timeout elapses.
// The task keeps running after a timeout.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the task has finished without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async runs fn(ctx, param) in its own goroutine.
// A context that is already done short-circuits fn. A panic inside fn is
// recovered and reported as an error wrapping ErrPanic.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		defer func() {
			if r := recover(); r != nil {
				f.once.Do(func() {
					var zero U
					f.result = zero
					f.err = errors.Join(ErrPanic, fmt.Errorf("%v", r))
				})
			}
		}()

		res, err := fn(ctx, param)

		f.once.Do(func() {
			f.result = res
			f.err = err
		})
	}()

	return f
}

// WaitAll waits for futures in order and stops at the first error.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// WaitAllSettled waits for every future regardless of failures and returns
// their outcomes in the order given.
func WaitAllSettled[U any](futures ...*Future[U]) []Result[U] {
	results := make([]Result[U], len(futures))
	for i, future := range futures {
		v, err := future.Await()
		results[i] = Result[U]{Value: v, Err: err}
	}
	return results
}
