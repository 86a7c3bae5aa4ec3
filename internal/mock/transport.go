package mock

import (
	"context"
	"sync"

	"github.com/miladsoleymani/hashmux/location"
)

// Transport is a test double for location.Transport. Published messages are
// recorded and, like a real broadcast transport, delivered to every
// subscriber of the topic.
type Transport struct {
	mu           sync.Mutex
	published    []PublishedMessage
	handlers     map[string][]location.Handler
	subscribed   chan string
	SubscribeErr error
	PublishErr   error
	closed       bool
}

// PublishedMessage records a message sent through Publish.
type PublishedMessage struct {
	Topic   string
	Message location.Message
}

func NewTransport() *Transport {
	return &Transport{
		handlers:   make(map[string][]location.Handler),
		subscribed: make(chan string, 16),
	}
}

func (t *Transport) Publish(ctx context.Context, topic string, msg location.Message) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return location.ErrTransportClosed
	}
	if t.PublishErr != nil {
		err := t.PublishErr
		t.mu.Unlock()
		return err
	}
	t.published = append(t.published, PublishedMessage{Topic: topic, Message: msg})
	handlers := append([]location.Handler(nil), t.handlers[topic]...)
	t.mu.Unlock()

	for _, h := range handlers {
		if err := h(ctx, &Message{V: msg.Value(), H: msg.Headers()}); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transport) Subscribe(ctx context.Context, topic string, h location.Handler) error {
	t.mu.Lock()
	if t.SubscribeErr != nil {
		err := t.SubscribeErr
		t.mu.Unlock()
		return err
	}
	t.handlers[topic] = append(t.handlers[topic], h)
	t.mu.Unlock()
	t.subscribed <- topic

	// Block until context is cancelled (simulates a real subscription loop)
	<-ctx.Done()
	return nil
}

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// Subscribed returns a channel receiving the topic of every Subscribe call
// once its handler is registered.
func (t *Transport) Subscribed() <-chan string {
	return t.subscribed
}

// Deliver simulates an incoming message on topic, as if published by
// another process.
func (t *Transport) Deliver(ctx context.Context, topic string, msg location.Message) error {
	t.mu.Lock()
	handlers := append([]location.Handler(nil), t.handlers[topic]...)
	t.mu.Unlock()
	for _, h := range handlers {
		if err := h(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// Published returns all messages sent via Publish.
func (t *Transport) Published() []PublishedMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]PublishedMessage, len(t.published))
	copy(out, t.published)
	return out
}

// IsClosed reports whether Close was called.
func (t *Transport) IsClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
