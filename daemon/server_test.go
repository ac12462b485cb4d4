package daemon

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hackhub"
	"hackhub/internal/chat"
	"hackhub/internal/cluster"
	"hackhub/internal/hub"
	"hackhub/internal/mentor"
	"hackhub/internal/project"
	"hackhub/internal/pubsub"
	"hackhub/internal/snapshot"
	"hackhub/internal/team"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const testCookie = "test-cookie"

// newTestServer runs a full single-node daemon API over httptest.
func newTestServer(t *testing.T) (*httptest.Server, *tracetest.SpanRecorder) {
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
	resolver := cluster.NewResolver(self, nil, testCookie)
	resolver.Elect(ctx)
	chatSrv := chat.NewServer(store, bus, nil)
	resolver.AdoptLocal(chatSrv)

	for _, run := range []func(context.Context) error{
		teams.Run, projects.Run, mentors.Run, chatSrv.Run,
	} {
		go func(run func(context.Context) error) { _ = run(ctx) }(run)
	}

	h := hub.New(teams, projects, mentors, resolver, nil, store, bus, self)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	srv := httptest.NewServer(NewServer(h, "n1", testCookie, tp).Handler())
	t.Cleanup(srv.Close)
	return srv, recorder
}

func testClient(srv *httptest.Server) *cluster.Client {
	return cluster.NewClient(strings.TrimPrefix(srv.URL, "http://"), testCookie)
}

func TestRejectsBadCookie(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/healthz", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set(cluster.CookieHeader, "wrong")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestOwnerReportsLocalHolder(t *testing.T) {
	srv, _ := newTestServer(t)
	own, err := testClient(srv).Owner(context.Background())
	if err != nil {
		t.Fatalf("Owner: %v", err)
	}
	if !own.Owner || own.Node != "n1" {
		t.Fatalf("owner = %+v", own)
	}
}

func TestChatOverTheWire(t *testing.T) {
	srv, _ := newTestServer(t)
	c := testClient(srv)
	ctx := context.Background()

	name, err := c.CreateRoom(ctx, "equipo-1")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if name != "equipo-1" {
		t.Fatalf("name = %q", name)
	}

	if _, err := c.CreateRoom(ctx, "equipo-1"); !errors.Is(err, hackhub.ErrRoomExists) {
		t.Fatalf("duplicate room error = %v, want ErrRoomExists", err)
	}

	if err := c.Send("equipo-1", "Ana", "hola"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	// Send is asynchronous; the worker serves history after the append.
	var history []hackhub.Message
	deadline := time.Now().Add(2 * time.Second)
	for {
		history, err = c.History(ctx, "equipo-1")
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if len(history) > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(history) != 1 || history[0].Author != "Ana" || history[0].Content != "hola" {
		t.Fatalf("history = %+v", history)
	}

	rooms, err := c.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms: %v", err)
	}
	if len(rooms) != 2 || rooms[0] != "equipo-1" || rooms[1] != hackhub.GeneralRoom {
		t.Fatalf("rooms = %v", rooms)
	}
}

func TestHistoryMissingRoom(t *testing.T) {
	srv, _ := newTestServer(t)
	_, err := testClient(srv).History(context.Background(), "missing")
	if !errors.Is(err, hackhub.ErrRoomNotFound) {
		t.Fatalf("got %v, want ErrRoomNotFound", err)
	}
}

func TestWatchStreamsOverWebsocket(t *testing.T) {
	srv, _ := newTestServer(t)
	c := testClient(srv)
	ctx := context.Background()

	events, cancel, err := c.Subscribe(ctx, hackhub.GeneralRoom)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	if err := c.Send(hackhub.GeneralRoom, "Ana", "hola"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Kind != "new_message" || ev.Message.Content != "hola" {
			t.Fatalf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event over websocket")
	}
}

func TestChatResetOverTheWire(t *testing.T) {
	srv, _ := newTestServer(t)
	c := testClient(srv)
	ctx := context.Background()

	if _, err := c.CreateRoom(ctx, "extra"); err != nil {
		t.Fatal(err)
	}
	if err := c.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	rooms, err := c.ListRooms(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rooms) != 1 || rooms[0] != hackhub.GeneralRoom {
		t.Fatalf("rooms after reset = %v", rooms)
	}
}

func TestRequestsAreTraced(t *testing.T) {
	srv, recorder := newTestServer(t)
	if _, err := testClient(srv).Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}

	spans := recorder.Ended()
	if len(spans) == 0 {
		t.Fatal("no spans recorded")
	}
	if got := spans[0].Name(); got != "GET /v1/healthz" {
		t.Fatalf("span name = %q", got)
	}
}
