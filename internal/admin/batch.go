package admin

import (
	"sync/atomic"
)

// Batch operations fan out into one call per item so items fail
// independently, then expose a combined future over the per-item ones. The
// helpers here build those combined futures.
//
// Combined futures are fail-fast: the first item failure fails the combined
// future immediately and verbatim, while the remaining per-item futures
// still resolve on their own. Later failures lose the race and are only
// visible through their item futures.

// joinVoid resolves once every input future succeeds, or fails with the
// first failure among them. An empty order resolves immediately.
func joinVoid[K comparable, V any](order []K, futures map[K]*Future[V]) *Future[struct{}] {
	combined := newFuture[struct{}]()
	if len(order) == 0 {
		combined.complete(struct{}{})
		return combined
	}

	var remaining atomic.Int64
	remaining.Store(int64(len(order)))
	for _, k := range order {
		futures[k].WhenComplete(func(_ V, err error) {
			if err != nil {
				combined.fail(err)
				return
			}
			if remaining.Add(-1) == 0 {
				combined.complete(struct{}{})
			}
		})
	}
	return combined
}

// joinValues resolves with every input's value, in order, once all succeed,
// or fails with the first failure among them.
func joinValues[K comparable, V any](order []K, futures map[K]*Future[V]) *Future[[]V] {
	combined := newFuture[[]V]()
	if len(order) == 0 {
		combined.complete(nil)
		return combined
	}

	values := make([]V, len(order))
	var remaining atomic.Int64
	remaining.Store(int64(len(order)))
	for i, k := range order {
		i := i
		futures[k].WhenComplete(func(v V, err error) {
			if err != nil {
				combined.fail(err)
				return
			}
			values[i] = v
			if remaining.Add(-1) == 0 {
				combined.complete(values)
			}
		})
	}
	return combined
}

// then derives a future by transforming another's value. Failures pass
// through untransformed; a transform error fails the derived future. fn runs
// on whichever goroutine resolves f and must not block.
func then[V, U any](f *Future[V], fn func(V) (U, error)) *Future[U] {
	derived := newFuture[U]()
	f.WhenComplete(func(v V, err error) {
		if err != nil {
			derived.fail(err)
			return
		}
		u, err := fn(v)
		if err != nil {
			derived.fail(err)
			return
		}
		derived.complete(u)
	})
	return derived
}
