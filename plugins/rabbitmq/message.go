package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// message adapts an amqp.Delivery to location.Message.
type message struct {
	delivery amqp.Delivery
}

func (m *message) Value() []byte { return m.delivery.Body }

func (m *message) Headers() map[string]string {
	h := make(map[string]string, len(m.delivery.Headers))
	for k, v := range m.delivery.Headers {
		if s, ok := v.(string); ok {
			h[k] = s
		} else {
			h[k] = fmt.Sprintf("%v", v)
		}
	}
	return h
}

// Ack acknowledges the navigation, removing it from the listener's queue.
func (m *message) Ack() error {
	if err := m.delivery.Ack(false); err != nil {
		return fmt.Errorf("hashmux/rabbitmq: ack: %w", err)
	}
	return nil
}

// Nack drops the navigation without requeueing it.
func (m *message) Nack() error {
	if err := m.delivery.Nack(false, false); err != nil {
		return fmt.Errorf("hashmux/rabbitmq: nack: %w", err)
	}
	return nil
}
