// Package cmdutil wires CLI commands to a hub. Registry commands run an
// embedded hub over the local data dir; chat commands transparently
// forward to a daemon when one holds the singleton.
package cmdutil

import (
	"context"
	"errors"

	"hackhub"
	"hackhub/config"
	"hackhub/internal/chat"
	"hackhub/internal/cluster"
	"hackhub/internal/hub"
	"hackhub/internal/kernel"
	"hackhub/internal/mentor"
	"hackhub/internal/project"
	"hackhub/internal/pubsub"
	"hackhub/internal/snapshot"
	"hackhub/internal/team"
)

// Session is an embedded hub for the lifetime of one CLI invocation.
type Session struct {
	Hub    *hub.Hub
	Config *config.Config

	bus    *pubsub.Bus
	cancel context.CancelFunc
}

// Open loads the config and boots the registries from the local
// snapshots. The configured server address is probed as a chat peer, so
// a running daemon keeps the singleton and the session forwards to it.
func Open(ctx context.Context) (*Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)

	store := snapshot.New(cfg.DataDir)
	bus := pubsub.NewBus()

	teams := team.New(store, nil)
	projects := project.New(store, nil)
	mentors := mentor.New(store, projects, nil)

	self := cluster.Node{Name: "cli"}
	peers := make([]cluster.Node, 0, len(cfg.Peers)+1)
	if cfg.Server != "" {
		peers = append(peers, cluster.Node{Name: "server", Addr: cfg.Server})
	}
	for _, p := range cfg.Peers {
		peers = append(peers, cluster.Node{Name: p.Name, Addr: p.Addr})
	}
	cookie := cluster.Cookie()

	resolver := cluster.NewResolver(self, peers, cookie)
	runners := []func(context.Context) error{teams.Run, projects.Run, mentors.Run}
	if resolver.Elect(runCtx) {
		chatSrv := chat.NewServer(store, bus, nil)
		resolver.AdoptLocal(chatSrv)
		runners = append(runners, chatSrv.Run)
	}
	for _, run := range runners {
		go func(run func(context.Context) error) { _ = run(runCtx) }(run)
	}

	return &Session{
		Hub:    hub.New(teams, projects, mentors, resolver, nil, store, bus, self),
		Config: cfg,
		bus:    bus,
		cancel: cancel,
	}, nil
}

// Close stops the session's workers.
func (s *Session) Close() {
	s.cancel()
	s.bus.Close()
}

// Client returns a direct API client for the configured daemon.
func (s *Session) Client() *cluster.Client {
	return cluster.NewClient(s.Config.Server, cluster.Cookie())
}

// DomainMessage renders a domain error as a one-line human message.
// The bool is false for non-domain errors, which should exit non-zero.
func DomainMessage(err error) (string, bool) {
	var verr *hackhub.ValidationError
	switch {
	case errors.As(err, &verr):
		return "invalid input: " + verr.Error(), true
	case errors.Is(err, kernel.ErrTimeout):
		return "request timed out; the operation may still apply", true
	}

	for _, sentinel := range []error{
		hackhub.ErrTeamExists, hackhub.ErrTeamNotFound, hackhub.ErrParticipantDuplicate,
		hackhub.ErrProjectExists, hackhub.ErrProjectNotFound,
		hackhub.ErrMentorNotFound,
		hackhub.ErrRoomExists, hackhub.ErrRoomNotFound, hackhub.ErrChatUnavailable,
		hackhub.ErrUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error(), true
		}
	}
	return "", false
}
