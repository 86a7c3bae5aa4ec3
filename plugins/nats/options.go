package nats

import (
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// Option configures the NATS transport.
type Option func(*options)

type options struct {
	// Stream
	maxMsgs  int64
	maxAge   time.Duration
	replicas int
	storage  jetstream.StorageType

	// Consumer
	deliver jetstream.DeliverPolicy
}

func defaults() options {
	return options{
		maxMsgs:  1000,
		maxAge:   time.Hour,
		replicas: 1,
		storage:  jetstream.MemoryStorage,
		deliver:  jetstream.DeliverNewPolicy,
	}
}

// WithMaxMessages sets how many navigations the stream keeps.
func WithMaxMessages(n int64) Option {
	return func(o *options) { o.maxMsgs = n }
}

// WithMaxAge sets how long navigations are kept in the stream.
func WithMaxAge(d time.Duration) Option {
	return func(o *options) { o.maxAge = d }
}

// WithReplicas sets the stream replication factor.
func WithReplicas(n int) Option {
	return func(o *options) { o.replicas = n }
}

// WithStorage sets the stream storage type (file or memory).
func WithStorage(s jetstream.StorageType) Option {
	return func(o *options) { o.storage = s }
}

// WithReplayLast makes a new subscriber start with the most recent
// navigation instead of waiting for the next one.
func WithReplayLast() Option {
	return func(o *options) { o.deliver = jetstream.DeliverLastPolicy }
}
