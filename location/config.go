package location

// Config holds transport-agnostic configuration.
// Transport plugins extract the fields they need.
type Config struct {
	// Brokers is a list of broker addresses (e.g., "nats://localhost:4222").
	Brokers []string

	// Topic is the subject, topic or exchange navigations travel on.
	Topic string

	// Group names the consumer where a transport needs one.
	Group string

	// Extra holds plugin-specific configuration.
	Extra map[string]any
}

// DefaultTopic is used when Config.Topic is empty.
const DefaultTopic = "hashmux.navigation"

func (c Config) topic() string {
	if c.Topic == "" {
		return DefaultTopic
	}
	return c.Topic
}
