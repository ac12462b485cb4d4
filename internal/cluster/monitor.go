package cluster

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"hackhub"
)

const (
	// pingInterval is 5s: cheap enough per peer, fast enough to notice
	// churn.
	pingInterval = 5 * time.Second
)

// Monitor pings every configured peer and logs node-up / node-down
// transitions. It only observes — no state migrates on churn.
type Monitor struct {
	self   Node
	peers  []Node
	cookie string
	clock  hackhub.Clock
	ntp    *NTPChecker

	// PingFunc overrides the HTTP ping in tests.
	PingFunc func(ctx context.Context, peer Node) error

	mu       sync.Mutex
	statuses map[string]NodeStatus
}

// NewMonitor creates a monitor for this node's peers. ntp may be nil.
func NewMonitor(self Node, peers []Node, cookie string, ntp *NTPChecker, clock hackhub.Clock) *Monitor {
	if clock == nil {
		clock = hackhub.RealClock{}
	}
	statuses := make(map[string]NodeStatus, len(peers))
	for _, p := range peers {
		statuses[p.Name] = NodeStatus{Node: p, State: NodeUnknown}
	}
	return &Monitor{
		self:     self,
		peers:    peers,
		cookie:   cookie,
		clock:    clock,
		ntp:      ntp,
		statuses: statuses,
	}
}

// Run pings peers until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	if m.ntp != nil {
		go m.ntp.Run(ctx)
	}

	m.sweep(ctx)
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

func (m *Monitor) sweep(ctx context.Context) {
	for _, peer := range m.peers {
		err := m.ping(ctx, peer)
		m.record(peer, err)
	}
}

func (m *Monitor) ping(ctx context.Context, peer Node) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx, peer)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, err := NewClient(peer.Addr, m.cookie).Health(pingCtx)
	return err
}

func (m *Monitor) record(peer Node, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.statuses[peer.Name]
	next := prev
	if err != nil {
		next.State = NodeDown
	} else {
		next.State = NodeUp
		next.LastSeen = m.clock.Now()
	}
	m.statuses[peer.Name] = next

	if prev.State == next.State {
		return
	}
	switch next.State {
	case NodeUp:
		slog.Info("node up", "node", peer.Name, "addr", peer.Addr)
	case NodeDown:
		slog.Info("node down", "node", peer.Name, "addr", peer.Addr, "err", err)
	}
}

// Statuses returns the last observed state of every peer.
func (m *Monitor) Statuses() []NodeStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]NodeStatus, 0, len(m.peers))
	for _, p := range m.peers {
		out = append(out, m.statuses[p.Name])
	}
	return out
}
