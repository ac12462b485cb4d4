package hub

import (
	"context"
	"errors"
	"testing"
	"time"

	"hackhub"
	"hackhub/internal/chat"
	"hackhub/internal/cluster"
	"hackhub/internal/mentor"
	"hackhub/internal/project"
	"hackhub/internal/pubsub"
	"hackhub/internal/snapshot"
	"hackhub/internal/team"
)

// newTestHub wires a full single-node hub on a temp snapshot dir, with
// every worker running and the chat singleton held locally.
func newTestHub(t *testing.T) *Hub {
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
	if !resolver.Elect(ctx) {
		t.Fatal("lone node did not claim chat")
	}
	chatSrv := chat.NewServer(store, bus, nil)
	resolver.AdoptLocal(chatSrv)

	for _, run := range []func(context.Context) error{
		teams.Run, projects.Run, mentors.Run, chatSrv.Run,
	} {
		go func(run func(context.Context) error) { _ = run(ctx) }(run)
	}

	return New(teams, projects, mentors, resolver, nil, store, bus, self)
}

func TestHubEndToEnd(t *testing.T) {
	h := newTestHub(t)
	ctx := context.Background()

	if _, err := h.CreateTeam(ctx, "Los Rompecódigos", "IA educativa"); err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	if _, err := h.AddParticipant(ctx, "Los Rompecódigos", "Ana", "ana@example.com"); err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}
	if _, err := h.CreateProject(ctx, "Los Rompecódigos", "Tutor adaptativo", hackhub.CategoryEducational); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	m, err := h.RegisterMentor(ctx, "Dra. Ruiz", "machine learning")
	if err != nil {
		t.Fatalf("RegisterMentor: %v", err)
	}
	if _, err := h.SendFeedback(ctx, m.ID, "Los Rompecódigos", "buen arranque"); err != nil {
		t.Fatalf("SendFeedback: %v", err)
	}

	p, err := h.GetProject(ctx, "Los Rompecódigos")
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if len(p.Feedback) != 1 || p.Feedback[0].MentorName != "Dra. Ruiz" {
		t.Fatalf("feedback did not reach the project: %+v", p.Feedback)
	}
}

func TestHubChatRoundTrip(t *testing.T) {
	h := newTestHub(t)
	ctx := context.Background()

	if _, err := h.CreateRoom(ctx, "equipo-1"); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	events, cancel, err := h.Subscribe(ctx, "equipo-1")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	if err := h.SendMessage(ctx, "equipo-1", "Ana", "hola"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	select {
	case ev := <-events:
		if ev.Message.Content != "hola" {
			t.Fatalf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no broadcast received")
	}

	history, err := h.History(ctx, "equipo-1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].Author != "Ana" {
		t.Fatalf("history = %+v", history)
	}
}

func TestHubResetClearsEverything(t *testing.T) {
	h := newTestHub(t)
	ctx := context.Background()

	if _, err := h.CreateTeam(ctx, "Alpha", "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.CreateRoom(ctx, "extra"); err != nil {
		t.Fatal(err)
	}

	if err := h.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if _, err := h.GetTeam(ctx, "Alpha"); !errors.Is(err, hackhub.ErrTeamNotFound) {
		t.Fatalf("team survived reset: %v", err)
	}
	rooms, err := h.ListRooms(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rooms) != 1 || rooms[0] != hackhub.GeneralRoom {
		t.Fatalf("rooms after reset = %v", rooms)
	}
}

func TestHubPersistState(t *testing.T) {
	h := newTestHub(t)
	ctx := context.Background()

	if _, err := h.CreateTeam(ctx, "Alpha", "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.CreateProject(ctx, "Alpha", "d", hackhub.CategorySocial); err != nil {
		t.Fatal(err)
	}
	if _, err := h.RegisterMentor(ctx, "M", "go"); err != nil {
		t.Fatal(err)
	}
	if err := h.SendMessage(ctx, hackhub.GeneralRoom, "Ana", "hola"); err != nil {
		t.Fatal(err)
	}
	// Send is asynchronous; a history read flushes the queue.
	if _, err := h.History(ctx, hackhub.GeneralRoom); err != nil {
		t.Fatal(err)
	}

	if err := h.PersistState(ctx); err != nil {
		t.Fatalf("PersistState: %v", err)
	}

	info := h.PersistInfo()
	if info.Teams != 1 || info.Projects != 1 || info.Mentors != 1 || info.Rooms != 1 {
		t.Fatalf("info = %+v", info)
	}
	if info.Messages != 1 {
		t.Fatalf("messages = %d, want 1", info.Messages)
	}
}

func TestHubClusterInfoLocalHolder(t *testing.T) {
	h := newTestHub(t)
	info := h.ClusterInfo(context.Background())
	if !info.Local || info.Holder != "n1" || info.Self.Name != "n1" {
		t.Fatalf("info = %+v", info)
	}
}
