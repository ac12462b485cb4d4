// Package pubsub is the in-process broadcast bus. Publishers fan a
// payload out to every subscriber of a topic; delivery within one topic
// is FIFO, and nothing is promised across topics.
//
// Chat publishes on "chat:<room>" with an Event payload.
package pubsub

import (
	"log/slog"
	"sync"

	"hackhub"

	"github.com/google/uuid"
)

// subscriberBufferCap bounds each subscriber channel; a slow subscriber
// drops messages rather than stalling the publisher.
const subscriberBufferCap = 128

// RoomTopic names the broadcast topic for one chat room.
func RoomTopic(room string) string { return "chat:" + room }

// Event is the payload published for every appended chat message.
type Event struct {
	Kind    string          `json:"kind"` // always "new_message"
	Message hackhub.Message `json:"message"`
}

// NewMessage builds the event published after a message is appended to
// history.
func NewMessage(msg hackhub.Message) Event {
	return Event{Kind: "new_message", Message: msg}
}

// Subscription is a live attachment to one topic.
type Subscription struct {
	ID    string
	Topic string
	C     <-chan Event

	bus *Bus
	ch  chan Event
}

// Cancel detaches the subscription and closes its channel.
func (s *Subscription) Cancel() {
	if s.bus != nil {
		s.bus.cancel(s.Topic, s.ID)
	}
}

// Bus is a topic → subscribers map with non-blocking publish.
type Bus struct {
	mu     sync.Mutex
	topics map[string]map[string]*Subscription
	closed bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{topics: make(map[string]map[string]*Subscription)}
}

// Subscribe attaches a new subscriber to topic. The returned channel is
// closed when the subscription is cancelled or the bus shuts down.
func (b *Bus) Subscribe(topic string) *Subscription {
	ch := make(chan Event, subscriberBufferCap)
	sub := &Subscription{
		ID:    uuid.NewString(),
		Topic: topic,
		C:     ch,
		bus:   b,
		ch:    ch,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return sub
	}
	subs := b.topics[topic]
	if subs == nil {
		subs = make(map[string]*Subscription)
		b.topics[topic] = subs
	}
	subs[sub.ID] = sub
	return sub
}

// Publish delivers ev to every subscriber of topic. Delivery is
// non-blocking: a full subscriber buffer drops the event for that
// subscriber only.
func (b *Bus) Publish(topic string, ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.topics[topic] {
		select {
		case sub.ch <- ev:
		default:
			slog.Debug("pubsub subscriber lagging, event dropped", "topic", topic, "sub", sub.ID)
		}
	}
}

// Subscribers reports the subscriber count for a topic.
func (b *Bus) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}

func (b *Bus) cancel(topic, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.topics[topic]
	sub, ok := subs[id]
	if !ok {
		return
	}
	delete(subs, id)
	if len(subs) == 0 {
		delete(b.topics, topic)
	}
	close(sub.ch)
}

// Close cancels every subscription. Further subscribes return an
// already-closed channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for topic, subs := range b.topics {
		for _, sub := range subs {
			close(sub.ch)
		}
		delete(b.topics, topic)
	}
}
