package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"hackhub"
	"hackhub/internal/cluster"
	"hackhub/internal/hub"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Server is the daemon's HTTP API: health, cluster info and the chat
// surface that forwarder nodes and `hackhub chat watch` dispatch to.
type Server struct {
	hub    *hub.Hub
	node   string
	cookie string
	tracer trace.Tracer

	upgrader websocket.Upgrader
}

// NewServer creates the API server. tp may be nil; spans are then
// no-ops.
func NewServer(h *hub.Hub, node, cookie string, tp trace.TracerProvider) *Server {
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return &Server{
		hub:    h,
		node:   node,
		cookie: cookie,
		tracer: tp.Tracer("hackhub/daemon"),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := httprouter.New()
	r.HandlerFunc(http.MethodGet, "/v1/healthz", s.handleHealthz)
	r.HandlerFunc(http.MethodGet, "/v1/cluster", s.handleCluster)
	r.HandlerFunc(http.MethodGet, "/v1/chat/owner", s.handleOwner)
	r.HandlerFunc(http.MethodGet, "/v1/chat/rooms", s.handleListRooms)
	r.HandlerFunc(http.MethodPost, "/v1/chat/rooms", s.handleCreateRoom)
	r.Handle(http.MethodPost, "/v1/chat/rooms/:room/messages", s.roomHandler(s.handleSend))
	r.Handle(http.MethodGet, "/v1/chat/rooms/:room/history", s.roomHandler(s.handleHistory))
	r.Handle(http.MethodGet, "/v1/chat/rooms/:room/ws", s.roomHandler(s.handleWatch))
	r.HandlerFunc(http.MethodPost, "/v1/chat/reset", s.handleChatReset)
	return s.middleware(r)
}

// middleware checks the cluster cookie and wraps every request in a
// span.
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(cluster.CookieHeader) != s.cookie {
			writeError(w, http.StatusUnauthorized, "bad_cookie")
			return
		}
		ctx, span := s.tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// roomHandler decodes the escaped :room parameter.
func (s *Server) roomHandler(h func(http.ResponseWriter, *http.Request, string)) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		room, err := url.PathUnescape(ps.ByName("room"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_room")
			return
		}
		h(w, r, room)
	}
}

// ListenAndServe starts the HTTP server and blocks until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	slog.Info("daemon listening", "addr", addr, "node", s.node)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, cluster.HealthResponse{Node: s.node, OK: true})
}

func (s *Server) handleOwner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, cluster.OwnerResponse{Node: s.node, Owner: s.hub.Chat.IsLocal()})
}

func (s *Server) handleCluster(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.hub.ClusterInfo(r.Context()))
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.hub.ListRooms(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, rooms)
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req cluster.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	name, err := s.hub.CreateRoom(r.Context(), req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, cluster.RoomResponse{Name: name})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request, room string) {
	var req cluster.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	if err := s.hub.SendMessage(r.Context(), room, req.Author, req.Content); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, room string) {
	history, err := s.hub.History(r.Context(), room)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if history == nil {
		history = []hackhub.Message{}
	}
	writeJSON(w, history)
}

// handleWatch upgrades to a websocket and relays room events until the
// client goes away or the subscription ends.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request, room string) {
	events, cancel, err := s.hub.Subscribe(r.Context(), room)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	defer cancel()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	// Reader only notices the peer closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) handleChatReset(w http.ResponseWriter, r *http.Request) {
	if err := s.hub.ChatReset(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(cluster.ErrorResponse{Error: kind})
}

// writeDomainError maps domain errors onto HTTP statuses with their
// stable wire kind, so the client side can map them back to sentinels.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *hackhub.ValidationError
	switch {
	case errors.Is(err, hackhub.ErrRoomExists):
		writeError(w, http.StatusConflict, cluster.ErrorKind(err))
	case errors.Is(err, hackhub.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, cluster.ErrorKind(err))
	case errors.Is(err, hackhub.ErrChatUnavailable):
		writeError(w, http.StatusServiceUnavailable, cluster.ErrorKind(err))
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	default:
		writeError(w, http.StatusInternalServerError, cluster.ErrorKind(err))
	}
}
