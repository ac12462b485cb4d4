// Package supervisor restarts long-running workers. Each child is
// supervised one-for-one: a child that returns or panics is restarted
// with exponential backoff while the rest keep running, and its state
// is rebuilt from the snapshot store by the worker's own load step.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Child is one supervised worker. Run is expected to block until its
// context is cancelled; returning earlier counts as a failure.
type Child struct {
	Name string
	Run  func(ctx context.Context) error
}

// Supervisor runs a fixed set of children until its context is
// cancelled.
type Supervisor struct {
	children []Child

	// Backoff caps the restart delay. Tests shrink it.
	Backoff time.Duration
}

// New creates a supervisor over the given children.
func New(children ...Child) *Supervisor {
	return &Supervisor{children: children, Backoff: maxBackoff}
}

// Run supervises every child until ctx is cancelled and then returns
// ctx.Err(). First starts are sequenced in declaration order: a child
// is not launched until the one before it is running. Restarts after
// that are independent.
func (s *Supervisor) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, child := range s.children {
		child := child
		started := make(chan struct{})
		g.Go(func() error {
			s.supervise(ctx, child, started)
			return nil
		})
		select {
		case <-started:
		case <-ctx.Done():
		}
	}
	_ = g.Wait()
	return ctx.Err()
}

func (s *Supervisor) supervise(ctx context.Context, child Child, started chan<- struct{}) {
	backoff := initialBackoff
	for {
		if started != nil {
			close(started)
			started = nil
		}
		err := child.Run(ctx)
		if ctx.Err() != nil {
			return
		}
		slog.Error("worker exited, restarting", "worker", child.Name, "err", err, "backoff", backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > s.Backoff {
			backoff = s.Backoff
		}
	}
}
