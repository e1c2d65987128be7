package admin

import (
	"context"
	"sync"
)

// Future is a single-assignment handle for the outcome of one admin call or
// one derived batch result. The engine resolves it exactly once with either a
// value or an error; every code path in the client guarantees resolution, so
// waiting on a future can never hang past the call's deadline.
//
// Futures are safe for concurrent use. Waiters pick between Get (blocking
// with context cancellation), Done (select-friendly channel), and
// WhenComplete (callback).
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	value     T
	err       error
	resolved  bool
	listeners []func(T, error)
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// complete resolves the future with a value. First resolution wins; later
// calls are no-ops, which keeps shutdown races harmless.
func (f *Future[T]) complete(v T) {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return
	}
	f.value = v
	f.resolved = true
	listeners := f.listeners
	f.listeners = nil
	close(f.done)
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(v, nil)
	}
}

// fail resolves the future with an error. First resolution wins.
func (f *Future[T]) fail(err error) {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return
	}
	f.err = err
	f.resolved = true
	listeners := f.listeners
	f.listeners = nil
	close(f.done)
	f.mu.Unlock()

	var zero T
	for _, fn := range listeners {
		fn(zero, err)
	}
}

// Get blocks until the future resolves or ctx is cancelled. A cancelled
// context returns ctx.Err() without affecting the call itself: the engine
// keeps running it and the future can still be read later.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel that is closed once the future resolves. Useful in
// select loops alongside other channels.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// WhenComplete registers fn to run when the future resolves. A listener
// attached after resolution runs immediately on the calling goroutine;
// otherwise it runs on the goroutine that resolves the future. Listeners
// must not block: the dispatcher resolves futures inline.
func (f *Future[T]) WhenComplete(fn func(T, error)) {
	f.mu.Lock()
	if !f.resolved {
		f.listeners = append(f.listeners, fn)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()
	fn(v, err)
}
