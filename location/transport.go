package location

import (
	"context"
	"errors"
)

// HeaderOrigin identifies the Provider that published a navigation.
const HeaderOrigin = "X-Hashmux-Origin"

var (
	// ErrTransportClosed is returned when operations are attempted on a closed transport.
	ErrTransportClosed = errors.New("hashmux: transport is closed")

	// ErrUnknownTransport is returned by Create for a name nobody registered.
	ErrUnknownTransport = errors.New("hashmux: unknown transport")
)

// Message is one navigation on the wire: the URL that was pushed, plus
// headers. Implementations are provided by transport plugins.
type Message interface {
	Value() []byte
	Headers() map[string]string
	Ack() error
	Nack() error
}

// Handler receives navigations from a Transport subscription.
type Handler func(ctx context.Context, msg Message) error

// Transport carries navigations between processes. Every subscriber to a
// topic must receive every message published on it.
type Transport interface {
	Publish(ctx context.Context, topic string, msg Message) error

	// Subscribe delivers messages to h until ctx is cancelled.
	Subscribe(ctx context.Context, topic string, h Handler) error

	Close() error
}

// OutboundMessage is a Message built locally for Publish.
type OutboundMessage struct {
	URL    string
	Header map[string]string
}

func (m *OutboundMessage) Value() []byte              { return []byte(m.URL) }
func (m *OutboundMessage) Headers() map[string]string { return m.Header }
func (m *OutboundMessage) Ack() error                 { return nil }
func (m *OutboundMessage) Nack() error                { return nil }
