package supervisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRestartsFailingChild(t *testing.T) {
	var starts atomic.Int32
	child := Child{
		Name: "flaky",
		Run: func(ctx context.Context) error {
			if starts.Add(1) <= 2 {
				return errors.New("boom")
			}
			<-ctx.Done()
			return ctx.Err()
		},
	}

	s := New(child)
	s.Backoff = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for starts.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("child restarted %d times, want 3 starts", starts.Load())
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v", err)
	}
}

func TestOneChildFailureLeavesSiblingsRunning(t *testing.T) {
	var flakyStarts, steadyStarts atomic.Int32
	steadyStopped := make(chan struct{})

	s := New(
		Child{Name: "flaky", Run: func(ctx context.Context) error {
			flakyStarts.Add(1)
			return errors.New("boom")
		}},
		Child{Name: "steady", Run: func(ctx context.Context) error {
			steadyStarts.Add(1)
			<-ctx.Done()
			close(steadyStopped)
			return ctx.Err()
		}},
	)
	s.Backoff = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = s.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for flakyStarts.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("flaky child was not restarted")
		}
		time.Sleep(time.Millisecond)
	}
	if got := steadyStarts.Load(); got != 1 {
		t.Fatalf("steady child started %d times, want 1", got)
	}

	cancel()
	select {
	case <-steadyStopped:
	case <-time.After(2 * time.Second):
		t.Fatal("steady child did not stop on cancel")
	}
}

func TestChildrenFirstStartInDeclarationOrder(t *testing.T) {
	const n = 8
	var mu sync.Mutex
	var order []int
	running := make(chan struct{}, n)

	children := make([]Child, n)
	for i := 0; i < n; i++ {
		i := i
		children[i] = Child{
			Name: fmt.Sprintf("c%d", i),
			Run: func(ctx context.Context) error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				running <- struct{}{}
				<-ctx.Done()
				return ctx.Err()
			},
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = New(children...).Run(ctx)
	}()

	for i := 0; i < n; i++ {
		select {
		case <-running:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d children started", i)
		}
	}
	cancel()
	<-done

	for i, got := range order {
		if got != i {
			t.Fatalf("start order = %v", order)
		}
	}
}

func TestStopsOnCancelWithoutChildren(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New().Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v", err)
	}
}
