package rabbitmq

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"

	"github.com/miladsoleymani/hashmux/location"
)

func TestMessageHeaders(t *testing.T) {
	m := &message{delivery: amqp.Delivery{
		Body:    []byte("#/a"),
		Headers: amqp.Table{location.HeaderOrigin: "abc", "attempt": int32(2)},
	}}

	assert.Equal(t, "#/a", string(m.Value()))
	assert.Equal(t, map[string]string{location.HeaderOrigin: "abc", "attempt": "2"}, m.Headers())
}

func TestOptsFromConfig(t *testing.T) {
	assert.Nil(t, optsFromConfig(location.Config{}))

	opts := defaults()
	assert.True(t, opts.durableExchange)

	for _, fn := range optsFromConfig(location.Config{Extra: map[string]any{
		"durable_exchange": false,
		"prefetch_count":   1,
	}}) {
		fn(&opts)
	}
	assert.False(t, opts.durableExchange)
	assert.Equal(t, 1, opts.prefetchCount)
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, location.Transports(), "rabbitmq")
}
