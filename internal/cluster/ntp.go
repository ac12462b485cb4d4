package cluster

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"hackhub"

	"github.com/beevik/ntp"
)

const (
	defaultNTPPool      = "pool.ntp.org"
	defaultNTPInterval  = 60 * time.Second
	defaultNTPThreshold = 500 * time.Millisecond
)

// NTPStatus is the last clock-skew measurement. Cross-node message
// timestamps are only meaningful when skew stays small, so the monitor
// surfaces it.
type NTPStatus struct {
	Offset    time.Duration
	Healthy   bool
	Error     string
	CheckedAt time.Time
}

// NTPChecker periodically measures the local clock offset against an
// NTP pool and logs when it exceeds the threshold.
type NTPChecker struct {
	pool      string
	interval  time.Duration
	threshold time.Duration
	clock     hackhub.Clock

	// CheckFunc overrides the NTP query in tests.
	CheckFunc func() NTPStatus

	mu     sync.RWMutex
	status NTPStatus
}

// NewNTPChecker creates a checker against the default pool.
func NewNTPChecker(clock hackhub.Clock) *NTPChecker {
	if clock == nil {
		clock = hackhub.RealClock{}
	}
	return &NTPChecker{
		pool:      defaultNTPPool,
		interval:  defaultNTPInterval,
		threshold: defaultNTPThreshold,
		clock:     clock,
	}
}

// Run checks immediately and then on every interval until ctx is
// cancelled.
func (n *NTPChecker) Run(ctx context.Context) {
	n.check()
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.check()
		}
	}
}

func (n *NTPChecker) check() {
	var status NTPStatus
	if n.CheckFunc != nil {
		status = n.CheckFunc()
	} else {
		resp, err := ntp.Query(n.pool)
		now := n.clock.Now()
		if err != nil {
			status = NTPStatus{Error: err.Error(), CheckedAt: now}
		} else {
			status = NTPStatus{
				Offset:    resp.ClockOffset,
				Healthy:   resp.ClockOffset.Abs() < n.threshold,
				CheckedAt: now,
			}
		}
	}

	n.mu.Lock()
	prev := n.status
	n.status = status
	n.mu.Unlock()

	if !status.Healthy && status.Error == "" && (prev.Healthy || prev.CheckedAt.IsZero()) {
		slog.Warn("clock skew above threshold", "offset", status.Offset, "threshold", n.threshold)
	}
}

// Status returns the last measurement.
func (n *NTPChecker) Status() NTPStatus {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.status
}
