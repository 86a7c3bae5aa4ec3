package kafka

import "github.com/segmentio/kafka-go"

// message adapts a kafka.Message to location.Message. Readers run without a
// consumer group, so there are no offsets to commit.
type message struct {
	raw kafka.Message
}

func (m *message) Value() []byte { return m.raw.Value }

func (m *message) Headers() map[string]string {
	h := make(map[string]string, len(m.raw.Headers))
	for _, kh := range m.raw.Headers {
		h[kh.Key] = string(kh.Value)
	}
	return h
}

func (m *message) Ack() error  { return nil }
func (m *message) Nack() error { return nil }
