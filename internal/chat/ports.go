package chat

import (
	"context"

	"hackhub"
	"hackhub/internal/pubsub"
)

// Store persists chat rooms and histories.
// Production: *snapshot.Store. Testing: in-memory fake.
type Store interface {
	LoadChat() map[string][]hackhub.Message
	SaveChat(rooms map[string][]hackhub.Message) error
	SaveRoom(name string, msgs []hackhub.Message) error
}

// API is the chat surface every caller sees. The cluster resolver hands
// out either the local *Server or a remote client forwarding to the
// global holder; call sites cannot tell which.
type API interface {
	CreateRoom(ctx context.Context, name string) (string, error)
	// Send is the sole cast of the public API: fire-and-forget, no
	// reply. A missing room drops the message silently (logged). The
	// error is non-nil only when the holder is unreachable.
	Send(room, author, content string) error
	History(ctx context.Context, room string) ([]hackhub.Message, error)
	ListRooms(ctx context.Context) ([]string, error)
	Subscribe(ctx context.Context, room string) (<-chan pubsub.Event, context.CancelFunc, error)
	Reset(ctx context.Context) error
}
