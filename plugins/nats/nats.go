package nats

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/miladsoleymani/hashmux/location"
)

func init() {
	location.Register("nats", func(cfg location.Config) (location.Transport, error) {
		if len(cfg.Brokers) == 0 {
			return nil, fmt.Errorf("hashmux/nats: at least one server URL is required")
		}
		return New(strings.Join(cfg.Brokers, ","), optsFromConfig(cfg)...)
	})
}

// Transport implements location.Transport on NATS JetStream.
//
// Each topic is backed by a small stream; each Subscribe reads it through its
// own ordered consumer, so every listener sees every navigation.
type Transport struct {
	conn *nats.Conn
	js   jetstream.JetStream
	opts options

	mu      sync.Mutex
	closed  bool
	streams map[string]jetstream.Stream
	subs    []jetstream.ConsumeContext
}

// New connects to url, a standard NATS URL (nats://host:port) or a
// comma-separated list of them.
func New(url string, fns ...Option) (*Transport, error) {
	opts := defaults()
	for _, fn := range fns {
		fn(&opts)
	}

	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("hashmux/nats: connect to %q: %w", url, err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("hashmux/nats: init jetstream: %w", err)
	}

	return &Transport{
		conn:    nc,
		js:      js,
		opts:    opts,
		streams: make(map[string]jetstream.Stream),
	}, nil
}

// Publish sends a navigation on the topic's subject.
func (t *Transport) Publish(ctx context.Context, topic string, msg location.Message) error {
	if _, err := t.stream(ctx, topic); err != nil {
		return err
	}

	headers := nats.Header{}
	for k, v := range msg.Headers() {
		headers.Set(k, v)
	}
	nm := &nats.Msg{
		Subject: topic,
		Data:    msg.Value(),
		Header:  headers,
	}
	if _, err := t.js.PublishMsg(ctx, nm); err != nil {
		return fmt.Errorf("hashmux/nats: publish to %q: %w", topic, err)
	}
	return nil
}

// Subscribe reads the topic through an ordered consumer until ctx is
// cancelled.
func (t *Transport) Subscribe(ctx context.Context, topic string, h location.Handler) error {
	stream, err := t.stream(ctx, topic)
	if err != nil {
		return err
	}

	cons, err := stream.OrderedConsumer(ctx, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{topic},
		DeliverPolicy:  t.opts.deliver,
	})
	if err != nil {
		return fmt.Errorf("hashmux/nats: create ordered consumer on %q: %w", topic, err)
	}

	cc, err := cons.Consume(func(jsMsg jetstream.Msg) {
		_ = h(ctx, &message{msg: jsMsg})
	})
	if err != nil {
		return fmt.Errorf("hashmux/nats: start consume on %q: %w", topic, err)
	}

	t.mu.Lock()
	t.subs = append(t.subs, cc)
	t.mu.Unlock()

	<-ctx.Done()
	cc.Stop()
	return nil
}

// Close stops all consumers and closes the connection.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	for _, s := range t.subs {
		s.Stop()
	}
	t.conn.Close()
	return nil
}

// stream creates or updates the stream backing topic, once per Transport.
func (t *Transport) stream(ctx context.Context, topic string) (jetstream.Stream, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, location.ErrTransportClosed
	}
	if s, ok := t.streams[topic]; ok {
		return s, nil
	}

	name := streamName(topic)
	s, err := t.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      name,
		Subjects:  []string{topic},
		MaxMsgs:   t.opts.maxMsgs,
		MaxAge:    t.opts.maxAge,
		Replicas:  t.opts.replicas,
		Retention: jetstream.LimitsPolicy,
		Storage:   t.opts.storage,
	})
	if err != nil {
		return nil, fmt.Errorf("hashmux/nats: create stream %q: %w", name, err)
	}
	t.streams[topic] = s
	return s, nil
}

// streamName derives a valid stream name from a subject.
func streamName(topic string) string {
	buf := []byte("HASHMUX-" + topic)
	for i, c := range buf {
		if c == '.' || c == '*' || c == '>' || c == ' ' {
			buf[i] = '-'
		}
	}
	return string(buf)
}

// optsFromConfig extracts options from location.Config.Extra.
func optsFromConfig(cfg location.Config) []Option {
	if cfg.Extra == nil {
		return nil
	}
	var opts []Option
	if v, ok := cfg.Extra["replicas"].(int); ok {
		opts = append(opts, WithReplicas(v))
	}
	if v, ok := cfg.Extra["max_messages"].(int); ok {
		opts = append(opts, WithMaxMessages(int64(v)))
	}
	if v, ok := cfg.Extra["replay_last"].(bool); ok && v {
		opts = append(opts, WithReplayLast())
	}
	return opts
}
