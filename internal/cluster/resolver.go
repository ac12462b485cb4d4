package cluster

import (
	"context"
	"log/slog"
	"sync"

	"hackhub"
	"hackhub/internal/chat"
)

// Resolver decides, per call, where the chat singleton lives. Chat
// callers go through Resolve on every operation; they get either the
// local server or a forwarding client, or ErrChatUnavailable when no
// holder can be found.
type Resolver struct {
	self   Node
	peers  []Node
	cookie string

	mu     sync.Mutex
	local  *chat.Server
	remote *Client
}

// NewResolver creates a resolver for this node.
func NewResolver(self Node, peers []Node, cookie string) *Resolver {
	return &Resolver{self: self, peers: peers, cookie: cookie}
}

// Elect runs the startup election: when any peer already holds the
// singleton, this node becomes a forwarder and Elect returns false;
// otherwise the node should start a local chat server (and hand it to
// AdoptLocal), and Elect returns true.
func (r *Resolver) Elect(ctx context.Context) bool {
	if c := r.findHolder(ctx); c != nil {
		r.mu.Lock()
		r.remote = c
		r.mu.Unlock()
		slog.Info("chat singleton held remotely, forwarding", "holder", c.Node())
		return false
	}
	slog.Info("no chat holder found, claiming singleton", "node", r.self.Name)
	return true
}

// AdoptLocal installs the locally started chat server as the holder.
func (r *Resolver) AdoptLocal(s *chat.Server) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.local = s
	r.remote = nil
}

// Resolve returns the current holder's chat API. A cached forwarder
// that stopped answering is dropped and the peers are probed again;
// with no holder anywhere the call fails with ErrChatUnavailable.
func (r *Resolver) Resolve(ctx context.Context) (chat.API, error) {
	r.mu.Lock()
	local, remote := r.local, r.remote
	r.mu.Unlock()

	if local != nil {
		return local, nil
	}
	if remote != nil {
		if own, err := remote.Owner(ctx); err == nil && own.Owner {
			return remote, nil
		}
		r.mu.Lock()
		if r.remote == remote {
			r.remote = nil
		}
		r.mu.Unlock()
		slog.Warn("chat holder stopped answering", "holder", remote.Node())
	}

	if c := r.findHolder(ctx); c != nil {
		r.mu.Lock()
		r.remote = c
		r.mu.Unlock()
		return c, nil
	}
	return nil, hackhub.ErrChatUnavailable
}

// IsLocal reports whether this node holds the singleton.
func (r *Resolver) IsLocal() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.local != nil
}

// HolderName returns the holder's node name, or "" when unresolved.
func (r *Resolver) HolderName(ctx context.Context) string {
	r.mu.Lock()
	local, remote := r.local, r.remote
	r.mu.Unlock()
	if local != nil {
		return r.self.Name
	}
	if remote != nil {
		return remote.Node()
	}
	if c := r.findHolder(ctx); c != nil {
		return c.Node()
	}
	return ""
}

func (r *Resolver) findHolder(ctx context.Context) *Client {
	for _, peer := range r.peers {
		c := NewClient(peer.Addr, r.cookie)
		own, err := c.Owner(ctx)
		if err != nil {
			slog.Debug("peer probe failed", "peer", peer.Name, "err", err)
			continue
		}
		if own.Owner {
			return c
		}
	}
	return nil
}
