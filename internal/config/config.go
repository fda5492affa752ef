package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"topicbus/internal/broadcast"
)

// ChannelConfig configures the pub-sub channel itself.
type ChannelConfig struct {
	Capacity       int    `mapstructure:"capacity"`
	OverflowPolicy string `mapstructure:"overflow_policy"` // block | drop_oldest
	HistorySize    int    `mapstructure:"history_size"`
}

// Policy maps the configured overflow policy name to the queue policy.
func (c ChannelConfig) Policy() (broadcast.OverflowPolicy, error) {
	switch c.OverflowPolicy {
	case "", "block":
		return broadcast.Block, nil
	case "drop_oldest":
		return broadcast.DropOldest, nil
	default:
		return 0, fmt.Errorf("unknown overflow_policy %q", c.OverflowPolicy)
	}
}

// PublishConfig configures the daemon's synthetic event source.
type PublishConfig struct {
	Topics   []string      `mapstructure:"topics"`
	Interval time.Duration `mapstructure:"interval"`
}

type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listen_addr"` // e.g. 0.0.0.0:9090
}

type AppConfig struct {
	LogLevel string        `mapstructure:"log_level"`
	Channel  ChannelConfig `mapstructure:"channel"`
	Publish  PublishConfig `mapstructure:"publish"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
}

// Default returns the configuration fanoutd runs with when no file is
// given.
func Default() *AppConfig {
	return &AppConfig{
		LogLevel: "info",
		Channel: ChannelConfig{
			Capacity:       64,
			OverflowPolicy: "block",
		},
		Publish: PublishConfig{
			Topics:   []string{"orders", "payments"},
			Interval: time.Second,
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: ":9090",
		},
	}
}

// Load reads a YAML config from path, fills in defaults and validates it.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) normalize() {
	def := Default()
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Channel.OverflowPolicy == "" {
		c.Channel.OverflowPolicy = def.Channel.OverflowPolicy
	}
	if len(c.Publish.Topics) == 0 {
		c.Publish.Topics = def.Publish.Topics
	}
	if c.Publish.Interval <= 0 {
		c.Publish.Interval = def.Publish.Interval
	}
	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = def.Metrics.ListenAddr
	}
}

// Validate rejects configurations the channel constructor would refuse,
// so a bad file fails at startup rather than at wiring time.
func (c *AppConfig) Validate() error {
	if c.Channel.Capacity < 1 {
		return fmt.Errorf("channel.capacity must be at least 1, got %d", c.Channel.Capacity)
	}
	if _, err := c.Channel.Policy(); err != nil {
		return err
	}
	if c.Channel.HistorySize < 0 {
		return fmt.Errorf("channel.history_size must not be negative, got %d", c.Channel.HistorySize)
	}
	return nil
}
