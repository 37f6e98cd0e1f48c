package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	App  AppConfig  `envPrefix:"APP_"`
	Log  LogConfig  `envPrefix:"LOG_"`
	HTTP HTTPConfig `envPrefix:"HTTP_"`
	Feed FeedConfig `envPrefix:"FEED_"`
}

// AppConfig represents the process-level settings.
type AppConfig struct {
	Name            string        `env:"NAME" envDefault:"market-book"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// PriceScale is the number of implied decimals in a price tick.
	PriceScale int32 `env:"PRICE_SCALE" envDefault:"4"`
}

// LogConfig represents the logger settings. File "none" or empty disables
// file output.
type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	File   string `env:"FILE" envDefault:"none"`
}

// HTTPConfig represents the HTTP surface settings.
type HTTPConfig struct {
	RateLimitDisabled      bool          `env:"RATE_LIMIT_DISABLED" envDefault:"false"`
	RateLimitMax           int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitWindow        time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1s"`
	MaxConcurrentRequests  int64         `env:"MAX_CONCURRENT_REQUESTS" envDefault:"0"`
	MaintenanceMode        bool          `env:"MAINTENANCE_MODE" envDefault:"false"`
	RequestLoggingDisabled bool          `env:"REQUEST_LOGGING_DISABLED" envDefault:"false"`
	DefaultDepth           int           `env:"ORDERBOOK_DEFAULT_DEPTH" envDefault:"10"`
	MaxDepth               int           `env:"ORDERBOOK_MAX_DEPTH" envDefault:"1000"`
	MaxBatch               int           `env:"MAX_BATCH" envDefault:"10000"`
}

// FeedConfig represents the feed sources. ReplayFile is applied once at
// startup; the Kafka consumer runs when KafkaEnabled is set.
type FeedConfig struct {
	ReplayFile    string   `env:"REPLAY_FILE"`
	KafkaEnabled  bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	Brokers       []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic         string   `env:"TOPIC" envDefault:"market-feed"`
	ConsumerGroup string   `env:"CONSUMER_GROUP" envDefault:"market-book"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the configuration with every default applied and no
// environment lookups.
func Default() *Config {
	cfg := &Config{}
	_ = env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{}})
	return cfg
}

func (c *Config) validate() error {
	if c.App.PriceScale < 0 || c.App.PriceScale > 18 {
		return fmt.Errorf("invalid config: APP_PRICE_SCALE must be within 0..18, got %d", c.App.PriceScale)
	}
	if c.HTTP.DefaultDepth <= 0 || c.HTTP.MaxDepth <= 0 {
		return fmt.Errorf("invalid config: order book depth limits must be positive")
	}
	if c.HTTP.RateLimitMax <= 0 || c.HTTP.RateLimitWindow <= 0 {
		return fmt.Errorf("invalid config: rate limit must be positive")
	}
	if c.Feed.KafkaEnabled && (len(c.Feed.Brokers) == 0 || c.Feed.Topic == "") {
		return fmt.Errorf("invalid config: kafka feed needs FEED_BROKERS and FEED_TOPIC")
	}
	return nil
}
