package admin

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestFutureGetBlocksUntilResolved(t *testing.T) {
	fut := newFuture[string]()

	go func() {
		time.Sleep(20 * time.Millisecond)
		fut.complete("tidal-anchor")
	}()

	got, err := fut.Get(context.Background())
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if got != "tidal-anchor" {
		t.Errorf("Get() = %q, want %q", got, "tidal-anchor")
	}

	select {
	case <-fut.Done():
	default:
		t.Error("expected Done channel to be closed after resolution")
	}
}

func TestFutureFirstResolutionWins(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		resolve func(f *Future[int])
		want    int
		wantErr error
	}{
		{
			name: "complete then fail keeps value",
			resolve: func(f *Future[int]) {
				f.complete(42)
				f.fail(boom)
			},
			want: 42,
		},
		{
			name: "fail then complete keeps error",
			resolve: func(f *Future[int]) {
				f.fail(boom)
				f.complete(42)
			},
			wantErr: boom,
		},
		{
			name: "double complete keeps first value",
			resolve: func(f *Future[int]) {
				f.complete(1)
				f.complete(2)
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fut := newFuture[int]()
			tt.resolve(fut)

			got, err := fut.Get(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Get() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Get() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFutureGetHonorsContext(t *testing.T) {
	fut := newFuture[int]()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := fut.Get(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// Abandoning one Get never resolves the future itself.
	fut.complete(7)
	got, err := fut.Get(context.Background())
	if err != nil || got != 7 {
		t.Errorf("Get() after cancellation = (%d, %v), want (7, nil)", got, err)
	}
}

func TestFutureWhenComplete(t *testing.T) {
	fut := newFuture[string]()

	var calls atomic.Int64
	var observed atomic.Value
	fut.WhenComplete(func(v string, err error) {
		calls.Add(1)
		observed.Store(v)
	})

	fut.complete("ready")

	deadline := time.Now().Add(time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected listener to run once, ran %d times", calls.Load())
	}
	if got := observed.Load(); got != "ready" {
		t.Errorf("listener observed %v, want %q", got, "ready")
	}

	// Listeners attached after resolution run immediately.
	var late atomic.Int64
	fut.WhenComplete(func(v string, err error) { late.Add(1) })
	if late.Load() != 1 {
		t.Errorf("expected late listener to run synchronously, ran %d times", late.Load())
	}
}

func TestFutureWhenCompleteSeesFailure(t *testing.T) {
	fut := newFuture[int]()
	boom := errors.New("boom")

	errCh := make(chan error, 1)
	fut.WhenComplete(func(_ int, err error) { errCh <- err })

	fut.fail(boom)

	select {
	case err := <-errCh:
		if !errors.Is(err, boom) {
			t.Errorf("listener error = %v, want %v", err, boom)
		}
	case <-time.After(time.Second):
		t.Fatal("listener never ran after failure")
	}
}
