package loadgen

import (
	"context"
	"testing"

	"hackhub/internal/chat"
	"hackhub/internal/cluster"
	"hackhub/internal/hub"
	"hackhub/internal/mentor"
	"hackhub/internal/project"
	"hackhub/internal/pubsub"
	"hackhub/internal/snapshot"
	"hackhub/internal/team"
)

func newTestHub(t *testing.T) *hub.Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := snapshot.New(t.TempDir())
	bus := pubsub.NewBus()
	t.Cleanup(bus.Close)

	teams := team.New(store, nil)
	projects := project.New(store, nil)
	mentors := mentor.New(store, projects, nil)

	self := cluster.Node{Name: "n1", Addr: "127.0.0.1:0"}
	resolver := cluster.NewResolver(self, nil, "cookie")
	resolver.Elect(ctx)
	chatSrv := chat.NewServer(store, bus, nil)
	resolver.AdoptLocal(chatSrv)

	for _, run := range []func(context.Context) error{
		teams.Run, projects.Run, mentors.Run, chatSrv.Run,
	} {
		go func(run func(context.Context) error) { _ = run(ctx) }(run)
	}

	return hub.New(teams, projects, mentors, resolver, nil, store, bus, self)
}

func TestRunPreservesCountsUnderContention(t *testing.T) {
	h := newTestHub(t)
	ctx := context.Background()
	cfg := Config{Teams: 20, Participants: 5, Messages: 4}

	report, err := Run(ctx, h, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := report.Errors(); got != 0 {
		t.Fatalf("report has %d errors: %+v", got, report)
	}
	if len(report.Phases) != 4 || report.Total <= 0 {
		t.Fatalf("report shape: %+v", report)
	}

	teams, err := h.ListTeams(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(teams) != cfg.Teams {
		t.Fatalf("teams = %d, want %d", len(teams), cfg.Teams)
	}
	participants := 0
	for _, team := range teams {
		participants += len(team.Participants)
	}
	if want := cfg.Teams * cfg.Participants; participants != want {
		t.Fatalf("participants = %d, want %d", participants, want)
	}

	projects, err := h.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != cfg.Teams {
		t.Fatalf("projects = %d, want %d", len(projects), cfg.Teams)
	}

	// Sends are casts; history reads flush each room's queue.
	messages := 0
	for i := 0; i < cfg.Teams; i++ {
		history, err := h.History(ctx, RoomName(i))
		if err != nil {
			t.Fatalf("History(%s): %v", RoomName(i), err)
		}
		messages += len(history)
	}
	if want := cfg.Teams * cfg.Messages; messages != want {
		t.Fatalf("messages = %d, want %d", messages, want)
	}
}

func TestRunCountsDuplicateTeamsAsErrors(t *testing.T) {
	h := newTestHub(t)
	ctx := context.Background()
	cfg := Config{Teams: 5, Participants: 1, Messages: 1}

	if _, err := h.CreateTeam(ctx, TeamName(0), "taken"); err != nil {
		t.Fatal(err)
	}

	report, err := Run(ctx, h, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if report.Phases[0].Errors != 1 || report.Phases[0].Count != cfg.Teams-1 {
		t.Fatalf("teams phase = %+v", report.Phases[0])
	}
	if _, err := h.GetTeam(ctx, TeamName(0)); err != nil {
		t.Fatalf("first team lost: %v", err)
	}
}

var _ Target = (*hub.Hub)(nil)
