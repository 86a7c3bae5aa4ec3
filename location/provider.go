package location

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/miladsoleymani/hashmux/core"
)

// Provider is a LocationProvider whose navigations travel over a Transport.
// PushURL publishes the URL on the topic; URLs published by other Providers
// become fragment changes once Listen is running. A Provider never raises a
// change for its own pushes.
type Provider struct {
	transport Transport
	topic     string
	origin    string
	timeout   time.Duration
	logger    *log.Logger

	mu        sync.RWMutex
	current   string
	listeners listenerSet
}

var _ core.LocationProvider = (*Provider)(nil)

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithPublishTimeout bounds each PushURL. Defaults to 5s.
func WithPublishTimeout(d time.Duration) ProviderOption {
	return func(p *Provider) { p.timeout = d }
}

// WithStartURL sets the location displayed before any navigation arrives.
// Defaults to "#/".
func WithStartURL(url string) ProviderOption {
	return func(p *Provider) { p.current = core.ExtractFragment(url) }
}

// WithProviderLogger sets the provider's logger.
func WithProviderLogger(l *log.Logger) ProviderOption {
	return func(p *Provider) { p.logger = l }
}

// NewProvider creates a Provider publishing and listening on topic.
func NewProvider(t Transport, topic string, fns ...ProviderOption) *Provider {
	p := &Provider{
		transport: t,
		topic:     topic,
		origin:    uuid.NewString(),
		timeout:   5 * time.Second,
		current:   "#/",
	}
	for _, fn := range fns {
		fn(p)
	}
	if p.logger == nil {
		p.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "hashmux/location"})
	}
	return p
}

// Origin identifies this Provider's pushes on the wire.
func (p *Provider) Origin() string { return p.origin }

func (p *Provider) CurrentFragment() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

func (p *Provider) OnFragmentChange(l core.FragmentListener)  { p.listeners.add(l) }
func (p *Provider) OffFragmentChange(l core.FragmentListener) { p.listeners.remove(l) }

// PushURL displays url and publishes it for other Providers on the topic.
func (p *Provider) PushURL(url string) error {
	p.setCurrent(core.ExtractFragment(url))

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	msg := &OutboundMessage{
		URL:    url,
		Header: map[string]string{HeaderOrigin: p.origin},
	}
	if err := p.transport.Publish(ctx, p.topic, msg); err != nil {
		return fmt.Errorf("hashmux: publish navigation to %q: %w", p.topic, err)
	}
	return nil
}

// Listen turns navigations published on the topic into fragment changes
// until ctx is cancelled. Listeners run on the calling goroutine.
func (p *Provider) Listen(ctx context.Context) error {
	p.logger.Info("listening for navigations", "topic", p.topic, "origin", p.origin)
	if err := p.transport.Subscribe(ctx, p.topic, p.handle); err != nil {
		return fmt.Errorf("hashmux: listen on %q: %w", p.topic, err)
	}
	return nil
}

// Close closes the underlying transport.
func (p *Provider) Close() error {
	return p.transport.Close()
}

func (p *Provider) handle(_ context.Context, msg Message) error {
	if msg.Headers()[HeaderOrigin] == p.origin {
		return msg.Ack()
	}

	url := string(msg.Value())
	fragment := core.ExtractFragment(url)
	p.setCurrent(fragment)
	p.logger.Debug("navigation received", "url", url, "fragment", fragment)

	p.listeners.notify(fragment)
	return msg.Ack()
}

func (p *Provider) setCurrent(fragment string) {
	p.mu.Lock()
	p.current = fragment
	p.mu.Unlock()
}
