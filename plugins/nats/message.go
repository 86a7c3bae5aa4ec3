package nats

import "github.com/nats-io/nats.go/jetstream"

// message adapts a JetStream message to location.Message. Navigations are
// read through ordered consumers, which do not take acks.
type message struct {
	msg jetstream.Msg
}

func (m *message) Value() []byte { return m.msg.Data() }

func (m *message) Headers() map[string]string {
	raw := m.msg.Headers()
	h := make(map[string]string, len(raw))
	for k, v := range raw {
		if len(v) > 0 {
			h[k] = v[0]
		}
	}
	return h
}

func (m *message) Ack() error  { return nil }
func (m *message) Nack() error { return nil }
