// Package cluster handles node membership, the chat singleton election
// and transparent forwarding to the global holder.
//
// The election is deliberately simple: a booting node probes its
// configured peers for an existing holder; when one answers, this node
// becomes a forwarder, otherwise it claims the singleton and serves
// chat locally. No state migrates when a holder dies — chat data is
// gone until a fresh boot re-elects.
package cluster

import (
	"os"
	"time"
)

const (
	// CookieEnv is the environment variable carrying the shared cluster
	// secret in distributed mode.
	CookieEnv = "HACKHUB_COOKIE"

	defaultCookie = "hackhub-dev-cookie"

	// CookieHeader carries the cookie on every node-to-node request.
	CookieHeader = "X-Hackhub-Cookie"
)

// Cookie returns the shared secret from the environment, or the
// built-in default for single-host runs.
func Cookie() string {
	if c := os.Getenv(CookieEnv); c != "" {
		return c
	}
	return defaultCookie
}

// Node identifies a cluster member.
type Node struct {
	Name string `json:"name"`
	Addr string `json:"addr"` // host:port of the node's daemon API
}

// NodeState is the monitor's view of a peer.
type NodeState uint8

const (
	NodeUnknown NodeState = iota + 1
	NodeUp
	NodeDown
)

func (s NodeState) String() string {
	switch s {
	case NodeUnknown:
		return "unknown"
	case NodeUp:
		return "up"
	case NodeDown:
		return "down"
	default:
		return "invalid"
	}
}

// MarshalText lets NodeState render as its name in JSON.
func (s NodeState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// NodeStatus is one peer's last observed state.
type NodeStatus struct {
	Node     Node      `json:"node"`
	State    NodeState `json:"state"`
	LastSeen time.Time `json:"last_seen,omitzero"`
}

// Info describes the cluster from one node's point of view.
type Info struct {
	Self   Node         `json:"self"`
	Holder string       `json:"holder,omitempty"` // chat holder node name, "" when unresolved
	Local  bool         `json:"local"`            // whether this node holds the chat singleton
	Nodes  []NodeStatus `json:"nodes"`
}
