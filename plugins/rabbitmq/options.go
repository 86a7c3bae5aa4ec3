package rabbitmq

// Option configures the RabbitMQ transport.
type Option func(*options)

type options struct {
	// Exchange settings
	durableExchange bool

	// Consumer settings
	prefetchCount int
}

func defaults() options {
	return options{
		durableExchange: true,
		prefetchCount:   10,
	}
}

// WithDurableExchange controls whether navigation exchanges survive broker restart.
func WithDurableExchange(d bool) Option {
	return func(o *options) { o.durableExchange = d }
}

// WithPrefetchCount sets how many navigations are delivered before requiring ack.
func WithPrefetchCount(n int) Option {
	return func(o *options) { o.prefetchCount = n }
}
