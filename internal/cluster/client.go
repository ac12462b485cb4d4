package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"hackhub"
	"hackhub/internal/pubsub"

	"github.com/gorilla/websocket"
)

// defaultCallTimeout bounds every forwarded chat call.
const defaultCallTimeout = 5 * time.Second

// Client forwards chat operations to the holder node's daemon over
// HTTP, and live subscriptions over a websocket. It satisfies chat.API
// so callers cannot tell a forwarder from the local server.
type Client struct {
	base   string // http://host:port
	cookie string
	http   *http.Client

	mu   sync.Mutex
	node string // holder node name, once known
}

// NewClient creates a forwarding client for the daemon at addr.
func NewClient(addr, cookie string) *Client {
	return &Client{
		base:   "http://" + addr,
		cookie: cookie,
		http:   &http.Client{Timeout: defaultCallTimeout},
	}
}

// Node returns the holder's node name as reported by Owner. Safe for
// concurrent use: request goroutines re-verify ownership while others
// read the cached name.
func (c *Client) Node() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.node
}

// Owner asks the remote daemon whether it holds the chat singleton.
func (c *Client) Owner(ctx context.Context) (OwnerResponse, error) {
	var out OwnerResponse
	err := c.get(ctx, "/v1/chat/owner", &out)
	if err == nil {
		c.mu.Lock()
		c.node = out.Node
		c.mu.Unlock()
	}
	return out, err
}

// Health pings the remote daemon.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.get(ctx, "/v1/healthz", &out)
	return out, err
}

// ClusterInfo fetches the remote daemon's view of the cluster.
func (c *Client) ClusterInfo(ctx context.Context) (Info, error) {
	var out Info
	err := c.get(ctx, "/v1/cluster", &out)
	return out, err
}

// CreateRoom forwards room creation to the holder.
func (c *Client) CreateRoom(ctx context.Context, name string) (string, error) {
	var out RoomResponse
	if err := c.post(ctx, "/v1/chat/rooms", CreateRoomRequest{Name: name}, &out); err != nil {
		return "", err
	}
	return out.Name, nil
}

// Send forwards the cast to the holder. Unreachable holder fails with
// ErrChatUnavailable; everything else is fire-and-forget.
func (c *Client) Send(room, author, content string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultCallTimeout)
	defer cancel()
	err := c.post(ctx, "/v1/chat/rooms/"+url.PathEscape(room)+"/messages",
		SendRequest{Author: author, Content: content}, nil)
	if err != nil {
		slog.Warn("remote chat send failed", "room", room, "err", err)
	}
	return err
}

// History fetches a room's messages oldest-first from the holder.
func (c *Client) History(ctx context.Context, room string) ([]hackhub.Message, error) {
	var out []hackhub.Message
	err := c.get(ctx, "/v1/chat/rooms/"+url.PathEscape(room)+"/history", &out)
	return out, err
}

// ListRooms fetches the room names from the holder.
func (c *Client) ListRooms(ctx context.Context) ([]string, error) {
	var out []string
	err := c.get(ctx, "/v1/chat/rooms", &out)
	return out, err
}

// Subscribe opens a websocket to the holder and relays events into a
// channel. Cancel closes the socket and the channel.
func (c *Client) Subscribe(ctx context.Context, room string) (<-chan pubsub.Event, context.CancelFunc, error) {
	wsURL := "ws" + c.base[len("http"):] + "/v1/chat/rooms/" + url.PathEscape(room) + "/ws"
	header := http.Header{CookieHeader: []string{c.cookie}}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, nil, hackhub.ErrChatUnavailable
	}

	events := make(chan pubsub.Event, 64)
	done := make(chan struct{})
	go func() {
		defer close(events)
		for {
			var ev pubsub.Event
			if err := conn.ReadJSON(&ev); err != nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	cancel := func() {
		close(done)
		_ = conn.Close()
	}
	return events, cancel, nil
}

// Reset forwards the chat reset to the holder.
func (c *Client) Reset(ctx context.Context) error {
	return c.post(ctx, "/v1/chat/reset", nil, nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set(CookieHeader, c.cookie)
	resp, err := c.http.Do(req)
	if err != nil {
		return hackhub.ErrChatUnavailable
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Error kinds cross nodes as stable strings; map them back to the
// shared sentinels so errors.Is works on both sides of the wire.

const (
	kindRoomExists      = "room_exists"
	kindRoomNotFound    = "room_not_found"
	kindChatUnavailable = "chat_unavailable"
)

// ErrorKind renders a domain error as its wire kind.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, hackhub.ErrRoomExists):
		return kindRoomExists
	case errors.Is(err, hackhub.ErrRoomNotFound):
		return kindRoomNotFound
	case errors.Is(err, hackhub.ErrChatUnavailable):
		return kindChatUnavailable
	default:
		return err.Error()
	}
}

func decodeError(resp *http.Response) error {
	var body ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	switch body.Error {
	case kindRoomExists:
		return hackhub.ErrRoomExists
	case kindRoomNotFound:
		return hackhub.ErrRoomNotFound
	case kindChatUnavailable:
		return hackhub.ErrChatUnavailable
	}
	if body.Error != "" {
		return fmt.Errorf("remote: %s", body.Error)
	}
	return fmt.Errorf("remote: http %d", resp.StatusCode)
}
