// Package chat is the room registry and broadcast server. At most one
// chat server is active across the cluster; every other node forwards
// to it through the cluster resolver.
package chat

import (
	"context"
	"log/slog"
	"sort"

	"hackhub"
	"hackhub/internal/check"
	"hackhub/internal/kernel"
	"hackhub/internal/pubsub"
)

type state struct {
	rooms map[string][]hackhub.Message // newest-first per room
}

// Server is the local chat worker. It owns the room map, appends
// messages in arrival order and publishes every append on the bus.
type Server struct {
	w     *kernel.Worker[state]
	store Store
	bus   *pubsub.Bus
	clock hackhub.Clock
}

// NewServer creates the chat worker. The "general" room is ensured on
// every load.
func NewServer(store Store, bus *pubsub.Bus, clock hackhub.Clock) *Server {
	check.Assert(store != nil, "chat.NewServer: store must not be nil")
	check.Assert(bus != nil, "chat.NewServer: bus must not be nil")
	if clock == nil {
		clock = hackhub.RealClock{}
	}
	s := &Server{store: store, bus: bus, clock: clock}
	s.w = kernel.New("chat", func() state {
		rooms := store.LoadChat()
		if _, ok := rooms[hackhub.GeneralRoom]; !ok {
			rooms[hackhub.GeneralRoom] = nil
			if err := store.SaveChat(rooms); err != nil {
				slog.Warn("chat snapshot write failed", "err", err)
			}
		}
		return state{rooms: rooms}
	})
	return s
}

// Run serves the chat worker until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error { return s.w.Run(ctx) }

var _ API = (*Server)(nil)

// CreateRoom registers an empty room and returns its name.
func (s *Server) CreateRoom(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", &hackhub.ValidationError{Field: "room", Message: "is required"}
	}
	return kernel.Call(ctx, s.w, "create_room", func(st *state) (string, error) {
		if _, ok := st.rooms[name]; ok {
			return "", hackhub.ErrRoomExists
		}
		st.rooms[name] = nil
		s.persistAll(st)
		return name, nil
	})
}

// Send appends a message and publishes it on chat:<room>. It is a
// cast: the caller never waits, and a message to a missing room is
// dropped with a log line. Per-room history order equals arrival order
// at this worker.
func (s *Server) Send(room, author, content string) error {
	s.w.Cast("send_message", func(st *state) {
		history, ok := st.rooms[room]
		if !ok {
			slog.Warn("message to unknown room dropped", "room", room, "author", author)
			return
		}
		msg := hackhub.Message{
			ID:        hackhub.NewID(),
			Author:    author,
			Content:   content,
			Room:      room,
			Timestamp: s.clock.Now(),
		}
		st.rooms[room] = append([]hackhub.Message{msg}, history...)
		if err := s.store.SaveRoom(room, st.rooms[room]); err != nil {
			slog.Warn("room snapshot write failed", "room", room, "err", err)
		}
		// Broadcast strictly after the history append.
		s.bus.Publish(pubsub.RoomTopic(room), pubsub.NewMessage(msg))
	})
	return nil
}

// History returns a room's messages oldest-first. Storage is
// newest-first; the read reverses.
func (s *Server) History(ctx context.Context, room string) ([]hackhub.Message, error) {
	return kernel.Call(ctx, s.w, "history", func(st *state) ([]hackhub.Message, error) {
		history, ok := st.rooms[room]
		if !ok {
			return nil, hackhub.ErrRoomNotFound
		}
		out := make([]hackhub.Message, len(history))
		for i, m := range history {
			out[len(history)-1-i] = m
		}
		return out, nil
	})
}

// ListRooms returns all room names sorted.
func (s *Server) ListRooms(ctx context.Context) ([]string, error) {
	return kernel.Call(ctx, s.w, "list_rooms", func(st *state) ([]string, error) {
		out := make([]string, 0, len(st.rooms))
		for name := range st.rooms {
			out = append(out, name)
		}
		sort.Strings(out)
		return out, nil
	})
}

// Subscribe attaches to a room's live broadcast.
func (s *Server) Subscribe(_ context.Context, room string) (<-chan pubsub.Event, context.CancelFunc, error) {
	sub := s.bus.Subscribe(pubsub.RoomTopic(room))
	return sub.C, sub.Cancel, nil
}

// Reset restores the room set to exactly {"general"} with empty
// history.
func (s *Server) Reset(ctx context.Context) error {
	_, err := kernel.Call(ctx, s.w, "reset", func(st *state) (struct{}, error) {
		st.rooms = map[string][]hackhub.Message{hackhub.GeneralRoom: nil}
		s.persistAll(st)
		return struct{}{}, nil
	})
	return err
}

func (s *Server) persistAll(st *state) {
	if err := s.store.SaveChat(st.rooms); err != nil {
		slog.Warn("chat snapshot write failed", "err", err)
	}
}
