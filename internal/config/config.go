// Package config loads hashmux CLI configuration using Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/miladsoleymani/hashmux/core"
	"github.com/miladsoleymani/hashmux/location"
)

// EnvPrefix prefixes environment overrides, e.g. HASHMUX_LOCATION_TOPIC.
const EnvPrefix = "HASHMUX"

// Config is the CLI configuration.
type Config struct {
	IgnoreCase     bool     `mapstructure:"ignorecase"`
	TerminalFinish bool     `mapstructure:"terminal_finish"`
	Routes         []string `mapstructure:"routes"`
	MetricsAddr    string   `mapstructure:"metrics_addr"`
	LogLevel       string   `mapstructure:"log_level"`
	Location       Location `mapstructure:"location"`
}

// Location selects and configures the broker transport.
type Location struct {
	Transport string   `mapstructure:"transport"`
	Brokers   []string `mapstructure:"brokers"`
	Topic     string   `mapstructure:"topic"`
	Group     string   `mapstructure:"group"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		IgnoreCase: true,
		LogLevel:   "info",
		Location: Location{
			Transport: "nats",
			Brokers:   []string{"nats://localhost:4222"},
			Topic:     location.DefaultTopic,
		},
	}
}

// Load reads path, when given, over the defaults and applies HASHMUX_*
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("ignorecase", defaults.IgnoreCase)
	v.SetDefault("terminal_finish", defaults.TerminalFinish)
	v.SetDefault("routes", []string{})
	v.SetDefault("metrics_addr", defaults.MetricsAddr)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("location.transport", defaults.Location.Transport)
	v.SetDefault("location.brokers", defaults.Location.Brokers)
	v.SetDefault("location.topic", defaults.Location.Topic)
	v.SetDefault("location.group", defaults.Location.Group)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every configured route compiles.
func (c *Config) Validate() error {
	var errs []error
	for _, route := range c.Routes {
		if _, err := core.Compile(route, c.IgnoreCase); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RouterOptions returns the core options the configuration selects.
func (c *Config) RouterOptions() []core.Option {
	return []core.Option{
		core.WithIgnoreCase(c.IgnoreCase),
		core.WithTerminalFinish(c.TerminalFinish),
	}
}

// LocationConfig returns the transport configuration.
func (c *Config) LocationConfig() location.Config {
	return location.Config{
		Brokers: c.Location.Brokers,
		Topic:   c.Location.Topic,
		Group:   c.Location.Group,
	}
}
