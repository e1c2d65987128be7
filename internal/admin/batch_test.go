package admin

import (
	"context"
	"errors"
	"testing"
)

func TestJoinVoidWaitsForEveryFuture(t *testing.T) {
	futures := map[string]*Future[struct{}]{
		"a": newFuture[struct{}](),
		"b": newFuture[struct{}](),
	}
	combined := joinVoid([]string{"a", "b"}, futures)

	futures["a"].complete(struct{}{})
	select {
	case <-combined.Done():
		t.Fatal("combined future resolved before every member did")
	default:
	}

	futures["b"].complete(struct{}{})
	if _, err := combined.Get(context.Background()); err != nil {
		t.Fatalf("expected combined success, got %v", err)
	}
}

func TestJoinVoidFailsWithFirstFailure(t *testing.T) {
	first := errors.New("first failure")
	second := errors.New("second failure")

	futures := map[string]*Future[struct{}]{
		"a": newFuture[struct{}](),
		"b": newFuture[struct{}](),
		"c": newFuture[struct{}](),
	}
	combined := joinVoid([]string{"a", "b", "c"}, futures)

	futures["b"].fail(first)
	futures["c"].fail(second)
	futures["a"].complete(struct{}{})

	if _, err := combined.Get(context.Background()); !errors.Is(err, first) {
		t.Fatalf("combined error = %v, want first failure", err)
	}
}

func TestJoinVoidEmptyResolvesImmediately(t *testing.T) {
	combined := joinVoid(nil, map[string]*Future[struct{}]{})
	select {
	case <-combined.Done():
	default:
		t.Fatal("expected empty join to resolve immediately")
	}
}

func TestJoinValuesKeepsDeclaredOrder(t *testing.T) {
	futures := map[string]*Future[int]{
		"a": newFuture[int](),
		"b": newFuture[int](),
		"c": newFuture[int](),
	}
	combined := joinValues([]string{"a", "b", "c"}, futures)

	// Resolve out of declared order.
	futures["c"].complete(30)
	futures["a"].complete(10)
	futures["b"].complete(20)

	values, err := combined.Get(context.Background())
	if err != nil {
		t.Fatalf("expected combined success, got %v", err)
	}
	want := []int{10, 20, 30}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("values = %v, want %v", values, want)
		}
	}
}

func TestThenTransformsValue(t *testing.T) {
	src := newFuture[int]()
	doubled := then(src, func(v int) (int, error) { return v * 2, nil })

	src.complete(21)
	got, err := doubled.Get(context.Background())
	if err != nil || got != 42 {
		t.Fatalf("then result = (%d, %v), want (42, nil)", got, err)
	}
}

func TestThenPropagatesFailures(t *testing.T) {
	boom := errors.New("boom")

	src := newFuture[int]()
	derived := then(src, func(v int) (int, error) { return v, nil })
	src.fail(boom)
	if _, err := derived.Get(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("derived error = %v, want source failure", err)
	}

	src2 := newFuture[int]()
	mapped := then(src2, func(int) (int, error) { return 0, boom })
	src2.complete(1)
	if _, err := mapped.Get(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("mapped error = %v, want transform failure", err)
	}
}
