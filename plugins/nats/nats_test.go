package nats

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"

	"github.com/miladsoleymani/hashmux/location"
)

func TestStreamName(t *testing.T) {
	assert.Equal(t, "HASHMUX-hashmux-navigation", streamName("hashmux.navigation"))
	assert.Equal(t, "HASHMUX-app-nav--", streamName("app.nav.>"))
	assert.Equal(t, "HASHMUX-a-b-c", streamName("a b*c"))
}

func TestOptsFromConfig(t *testing.T) {
	assert.Nil(t, optsFromConfig(location.Config{}))

	opts := defaults()
	for _, fn := range optsFromConfig(location.Config{Extra: map[string]any{
		"replicas":     3,
		"max_messages": 10,
		"replay_last":  true,
	}}) {
		fn(&opts)
	}
	assert.Equal(t, 3, opts.replicas)
	assert.Equal(t, int64(10), opts.maxMsgs)
	assert.Equal(t, jetstream.DeliverLastPolicy, opts.deliver)
}

func TestOptions(t *testing.T) {
	opts := defaults()
	assert.Equal(t, jetstream.DeliverNewPolicy, opts.deliver)
	assert.Equal(t, jetstream.MemoryStorage, opts.storage)

	for _, fn := range []Option{WithMaxAge(time.Minute), WithStorage(jetstream.FileStorage)} {
		fn(&opts)
	}
	assert.Equal(t, time.Minute, opts.maxAge)
	assert.Equal(t, jetstream.FileStorage, opts.storage)
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, location.Transports(), "nats")

	_, err := location.Create("nats", location.Config{})
	assert.ErrorContains(t, err, "server URL is required")
}
