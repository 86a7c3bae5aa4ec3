package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/miladsoleymani/hashmux/location"
)

func init() {
	location.Register("kafka", func(cfg location.Config) (location.Transport, error) {
		return New(cfg.Brokers, optsFromConfig(cfg)...)
	})
}

// Transport implements location.Transport on Apache Kafka using
// segmentio/kafka-go.
//
// One kafka.Writer is shared by all Publish calls. Each Subscribe runs its
// own reader without a consumer group, so every listener sees every
// navigation.
type Transport struct {
	brokers []string
	opts    options

	writer  *kafka.Writer
	readers []*kafka.Reader
	mu      sync.Mutex
	closed  bool
}

// New creates a Kafka Transport.
func New(brokers []string, fns ...Option) (*Transport, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("hashmux/kafka: at least one broker address is required")
	}

	opts := defaults()
	for _, fn := range fns {
		fn(&opts)
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    opts.batchSize,
		BatchTimeout: opts.batchTimeout,
		RequiredAcks: kafka.RequireAll,
	}
	if opts.dialer != nil {
		w.Transport = &kafka.Transport{
			TLS:  opts.dialer.TLS,
			SASL: opts.dialer.SASLMechanism,
		}
	}

	return &Transport{
		brokers: brokers,
		opts:    opts,
		writer:  w,
	}, nil
}

// Publish writes a navigation to the topic.
func (t *Transport) Publish(ctx context.Context, topic string, msg location.Message) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return location.ErrTransportClosed
	}
	t.mu.Unlock()

	km := kafka.Message{
		Topic:   topic,
		Value:   msg.Value(),
		Headers: toHeaders(msg.Headers()),
	}
	if err := t.writer.WriteMessages(ctx, km); err != nil {
		return fmt.Errorf("hashmux/kafka: publish to %q: %w", topic, err)
	}
	return nil
}

// Subscribe reads the topic and delivers navigations to h until ctx is
// cancelled.
func (t *Transport) Subscribe(ctx context.Context, topic string, h location.Handler) error {
	cfg := kafka.ReaderConfig{
		Brokers:     t.brokers,
		Topic:       topic,
		Partition:   t.opts.partition,
		MinBytes:    t.opts.minBytes,
		MaxBytes:    t.opts.maxBytes,
		MaxWait:     t.opts.maxWait,
		StartOffset: t.opts.startOffset,
	}
	if t.opts.dialer != nil {
		cfg.Dialer = t.opts.dialer
	}

	r := kafka.NewReader(cfg)

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		r.Close()
		return location.ErrTransportClosed
	}
	t.readers = append(t.readers, r)
	t.mu.Unlock()

	return t.readLoop(ctx, r, h)
}

// readLoop reads navigations and hands them to the handler.
func (t *Transport) readLoop(ctx context.Context, r *kafka.Reader, h location.Handler) error {
	for {
		raw, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil // graceful shutdown
			}
			return fmt.Errorf("hashmux/kafka: read: %w", err)
		}
		_ = h(ctx, &message{raw: raw})
	}
}

// Close flushes the writer and closes all readers.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	var errs []error
	if err := t.writer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("hashmux/kafka: close writer: %w", err))
	}
	for _, r := range t.readers {
		if err := r.Close(); err != nil {
			errs = append(errs, fmt.Errorf("hashmux/kafka: close reader: %w", err))
		}
	}
	return errors.Join(errs...)
}

// toHeaders converts a string map to Kafka headers.
func toHeaders(h map[string]string) []kafka.Header {
	if len(h) == 0 {
		return nil
	}
	headers := make([]kafka.Header, 0, len(h))
	for k, v := range h {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return headers
}

// optsFromConfig extracts options from location.Config.Extra.
func optsFromConfig(cfg location.Config) []Option {
	if cfg.Extra == nil {
		return nil
	}
	var opts []Option
	if v, ok := cfg.Extra["batch_size"].(int); ok {
		opts = append(opts, WithBatchSize(v))
	}
	if v, ok := cfg.Extra["partition"].(int); ok {
		opts = append(opts, WithPartition(v))
	}
	if v, ok := cfg.Extra["from_beginning"].(bool); ok && v {
		opts = append(opts, WithStartOffset(kafka.FirstOffset))
	}
	return opts
}
