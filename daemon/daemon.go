// Package daemon assembles and runs a hackhub node: the registry
// workers under supervision, the chat singleton election and the HTTP
// API.
package daemon

import (
	"context"
	"errors"
	"log/slog"

	"hackhub/config"
	"hackhub/internal/chat"
	"hackhub/internal/cluster"
	"hackhub/internal/hub"
	"hackhub/internal/mentor"
	"hackhub/internal/project"
	"hackhub/internal/pubsub"
	"hackhub/internal/snapshot"
	"hackhub/internal/supervisor"
	"hackhub/internal/team"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
)

// Run starts the node and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	store := snapshot.New(cfg.DataDir)
	bus := pubsub.NewBus()
	defer bus.Close()

	teams := team.New(store, nil)
	projects := project.New(store, nil)
	mentors := mentor.New(store, projects, nil)

	self := cluster.Node{Name: cfg.Node, Addr: cfg.Listen}
	peers := make([]cluster.Node, 0, len(cfg.Peers))
	for _, p := range cfg.Peers {
		peers = append(peers, cluster.Node{Name: p.Name, Addr: p.Addr})
	}
	cookie := cluster.Cookie()

	resolver := cluster.NewResolver(self, peers, cookie)
	// Boot order: teams, projects, chat (when held locally), mentors,
	// monitor. The supervisor starts children in declaration order.
	children := []supervisor.Child{
		{Name: "teams", Run: teams.Run},
		{Name: "projects", Run: projects.Run},
	}
	if resolver.Elect(ctx) {
		chatSrv := chat.NewServer(store, bus, nil)
		resolver.AdoptLocal(chatSrv)
		children = append(children, supervisor.Child{Name: "chat", Run: chatSrv.Run})
	}
	children = append(children, supervisor.Child{Name: "mentors", Run: mentors.Run})

	monitor := cluster.NewMonitor(self, peers, cookie, cluster.NewNTPChecker(nil), nil)
	children = append(children, supervisor.Child{Name: "monitor", Run: monitor.Run})

	h := hub.New(teams, projects, mentors, resolver, monitor, store, bus, self)
	srv := NewServer(h, cfg.Node, cookie, tp)

	slog.Info("node starting", "node", cfg.Node, "listen", cfg.Listen,
		"data_dir", cfg.DataDir, "peers", len(peers), "chat_holder", resolver.IsLocal())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return supervisor.New(children...).Run(ctx) })
	g.Go(func() error { return srv.ListenAndServe(ctx, cfg.Listen) })
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
