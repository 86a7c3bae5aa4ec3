package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// Option configures the Kafka transport.
type Option func(*options)

type options struct {
	// Writer
	batchSize    int
	batchTimeout time.Duration

	// Reader
	partition   int
	minBytes    int
	maxBytes    int
	maxWait     time.Duration
	startOffset int64

	// General
	dialer *kafka.Dialer
}

func defaults() options {
	return options{
		batchSize:    1,
		batchTimeout: 10 * time.Millisecond,
		minBytes:     1,
		maxBytes:     1e6, // 1 MB
		maxWait:      250 * time.Millisecond,
		startOffset:  kafka.LastOffset,
	}
}

// WithBatchSize sets the maximum batch size for writes.
func WithBatchSize(n int) Option {
	return func(o *options) { o.batchSize = n }
}

// WithPartition sets the partition readers follow. Navigation topics are
// expected to have a single partition.
func WithPartition(p int) Option {
	return func(o *options) { o.partition = p }
}

// WithMaxWait sets the maximum wait time for fetches.
func WithMaxWait(d time.Duration) Option {
	return func(o *options) { o.maxWait = d }
}

// WithStartOffset sets where a new reader starts (kafka.FirstOffset or kafka.LastOffset).
func WithStartOffset(offset int64) Option {
	return func(o *options) { o.startOffset = offset }
}

// WithDialer sets a custom dialer for TLS/SASL connections.
func WithDialer(d *kafka.Dialer) Option {
	return func(o *options) { o.dialer = d }
}
