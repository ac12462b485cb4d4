package kernel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type counterState struct {
	seen  map[string]bool
	order []string
}

func newCounterWorker() *Worker[counterState] {
	return New("counter", func() counterState {
		return counterState{seen: make(map[string]bool)}
	})
}

func startWorker[S any](t *testing.T, w *Worker[S]) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func TestCallReturnsValue(t *testing.T) {
	w := newCounterWorker()
	startWorker(t, w)

	got, err := Call(context.Background(), w, "add", func(s *counterState) (int, error) {
		s.order = append(s.order, "a")
		return len(s.order), nil
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
}

func TestCallPropagatesError(t *testing.T) {
	w := newCounterWorker()
	startWorker(t, w)

	sentinel := errors.New("nope")
	_, err := Call(context.Background(), w, "fail", func(s *counterState) (int, error) {
		return 0, sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("got %v, want %v", err, sentinel)
	}
}

// Concurrent duplicate submissions: exactly one caller wins per key,
// regardless of interleaving.
func TestConcurrentDuplicateDetection(t *testing.T) {
	w := newCounterWorker()
	startWorker(t, w)

	const callers = 64
	var wg sync.WaitGroup
	wins := make(chan struct{}, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := Call(context.Background(), w, "claim", func(s *counterState) (bool, error) {
				if s.seen["key"] {
					return false, nil
				}
				s.seen["key"] = true
				return true, nil
			})
			if err != nil {
				t.Errorf("Call: %v", err)
				return
			}
			if ok {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	var n int
	for range wins {
		n++
	}
	if n != 1 {
		t.Fatalf("winners = %d, want exactly 1", n)
	}
}

// Requests from a single caller are applied in submission order.
func TestFIFOOrdering(t *testing.T) {
	w := newCounterWorker()
	startWorker(t, w)

	const n = 100
	for i := 0; i < n; i++ {
		tag := fmt.Sprintf("op-%03d", i)
		w.Cast("append", func(s *counterState) {
			s.order = append(s.order, tag)
		})
	}

	order, err := Call(context.Background(), w, "read", func(s *counterState) ([]string, error) {
		out := make([]string, len(s.order))
		copy(out, s.order)
		return out, nil
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(order) != n {
		t.Fatalf("applied %d ops, want %d", len(order), n)
	}
	for i, tag := range order {
		want := fmt.Sprintf("op-%03d", i)
		if tag != want {
			t.Fatalf("order[%d] = %q, want %q", i, tag, want)
		}
	}
}

// A timed-out call is still processed by the worker, in order.
func TestTimedOutCallStillApplies(t *testing.T) {
	w := newCounterWorker()

	// Worker not running yet: the call cannot be served before the
	// deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := Call(ctx, w, "slow", func(s *counterState) (int, error) {
		s.order = append(s.order, "slow")
		return 0, nil
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("got %v, want ErrTimeout", err)
	}

	startWorker(t, w)

	order, err := Call(context.Background(), w, "read", func(s *counterState) ([]string, error) {
		return append([]string(nil), s.order...), nil
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(order) != 1 || order[0] != "slow" {
		t.Fatalf("abandoned call was not applied: %v", order)
	}
}

// A panicking operation fails its own caller, stops Run, and leaves the
// rest of the queue intact for the restarted worker.
func TestPanicRestartPreservesQueue(t *testing.T) {
	loads := 0
	w := New("crashy", func() counterState {
		loads++
		return counterState{seen: make(map[string]bool)}
	})

	type result struct {
		err error
	}
	boomDone := make(chan result, 1)
	go func() {
		_, err := Call(context.Background(), w, "boom", func(s *counterState) (int, error) {
			panic("kaboom")
		})
		boomDone <- result{err: err}
	}()

	// Wait for the panicking request to be queued before queueing the
	// survivor behind it.
	for w.Len() == 0 {
		time.Sleep(time.Millisecond)
	}
	w.Cast("survivor", func(s *counterState) {
		s.order = append(s.order, "survivor")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := w.Run(ctx)
	if err == nil {
		t.Fatal("Run returned nil after panic")
	}
	res := <-boomDone
	if res.err == nil {
		t.Fatal("panicking call returned nil error")
	}

	// Restart: load runs again and the survivor is served.
	startWorker(t, w)
	order, err := Call(context.Background(), w, "read", func(s *counterState) ([]string, error) {
		return append([]string(nil), s.order...), nil
	})
	if err != nil {
		t.Fatalf("Call after restart: %v", err)
	}
	if len(order) != 1 || order[0] != "survivor" {
		t.Fatalf("queued request lost across restart: %v", order)
	}
	if loads != 2 {
		t.Fatalf("load ran %d times, want 2", loads)
	}
}
