// Package kernel provides the single-writer worker every registry is
// built on: callers on any goroutine enqueue requests into an unbounded
// FIFO, and one worker goroutine applies them to the state in strict
// arrival order. Duplicate checks inside an operation therefore observe
// a consistent snapshot without registry-wide locks.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"hackhub/internal/check"
)

// ErrTimeout is returned by Call when the caller's deadline expires
// before the worker replies. The worker still processes the request in
// order: a timed-out call does NOT guarantee the operation did not
// apply.
var ErrTimeout = errors.New("call timed out")

type response struct {
	value any
	err   error
}

type request[S any] struct {
	op    string
	fn    func(*S) (any, error)
	reply chan response // nil for casts
}

// Worker serializes access to a state value of type S. State is built
// by the load function when Run starts and is only ever touched by the
// Run goroutine.
type Worker[S any] struct {
	name string
	load func() S

	mu    sync.Mutex
	queue []request[S]
	wake  chan struct{}
}

// New creates a worker. load runs at the start of every Run, before any
// request is served, so a restarted worker rebuilds its state from
// whatever load reads (typically a snapshot file).
func New[S any](name string, load func() S) *Worker[S] {
	check.Assert(name != "", "kernel.New: name must not be empty")
	check.Assert(load != nil, "kernel.New: load must not be nil")
	return &Worker[S]{
		name: name,
		load: load,
		wake: make(chan struct{}, 1),
	}
}

// Name returns the worker name used in logs.
func (w *Worker[S]) Name() string { return w.name }

// Len reports the current queue depth.
func (w *Worker[S]) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// Run loads state and serves queued requests one at a time until ctx is
// cancelled. A panic inside an operation is replied to the caller as an
// error and makes Run return, so a supervisor can restart the worker;
// pending requests stay queued across the restart.
func (w *Worker[S]) Run(ctx context.Context) error {
	state := w.load()
	slog.Debug("worker started", "worker", w.name)

	for {
		req, ok := w.next(ctx)
		if !ok {
			slog.Debug("worker stopped", "worker", w.name)
			return ctx.Err()
		}
		if err := w.serve(&state, req); err != nil {
			return err
		}
	}
}

// next pops the oldest queued request, blocking until one arrives or
// ctx is cancelled.
func (w *Worker[S]) next(ctx context.Context) (request[S], bool) {
	for {
		w.mu.Lock()
		if len(w.queue) > 0 {
			req := w.queue[0]
			w.queue[0] = request[S]{}
			w.queue = w.queue[1:]
			w.mu.Unlock()
			return req, true
		}
		w.mu.Unlock()

		select {
		case <-ctx.Done():
			return request[S]{}, false
		case <-w.wake:
		}
	}
}

func (w *Worker[S]) serve(state *S, req request[S]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %s: %s panicked: %v", w.name, req.op, r)
			slog.Warn("worker operation panicked", "worker", w.name, "op", req.op, "panic", r)
			if req.reply != nil {
				req.reply <- response{err: err}
			}
		}
	}()

	value, opErr := req.fn(state)
	if req.reply != nil {
		req.reply <- response{value: value, err: opErr}
	}
	return nil
}

func (w *Worker[S]) enqueue(req request[S]) {
	w.mu.Lock()
	w.queue = append(w.queue, req)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Call runs fn on the worker goroutine and waits for the reply or the
// caller's context deadline. The reply channel is buffered, so an
// abandoned call never blocks the worker.
func Call[S, R any](ctx context.Context, w *Worker[S], op string, fn func(*S) (R, error)) (R, error) {
	var zero R

	reply := make(chan response, 1)
	w.enqueue(request[S]{
		op:    op,
		reply: reply,
		fn: func(s *S) (any, error) {
			return fn(s)
		},
	})

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	case resp := <-reply:
		if resp.err != nil {
			return zero, resp.err
		}
		v, ok := resp.value.(R)
		if !ok {
			return zero, fmt.Errorf("worker %s: %s replied %T", w.name, op, resp.value)
		}
		return v, nil
	}
}

// Cast enqueues fn without a reply. Errors must be handled (or logged)
// inside fn.
func (w *Worker[S]) Cast(op string, fn func(*S)) {
	w.enqueue(request[S]{
		op: op,
		fn: func(s *S) (any, error) {
			fn(s)
			return nil, nil
		},
	})
}
