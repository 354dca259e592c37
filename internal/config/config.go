package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds the full runtime configuration. Values come from environment
// variables, optionally backed by a .env file in the working directory.
type Config struct {
	HTTPAddr       string        `mapstructure:"HTTP_ADDR"`
	GRPCAddr       string        `mapstructure:"GRPC_ADDR"`
	MySQLDSN       string        `mapstructure:"MYSQL_DSN"`
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	KafkaBrokers   string        `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic     string        `mapstructure:"KAFKA_TOPIC"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	WorkerCount    int           `mapstructure:"WORKER_COUNT"`
	QueueSize      int           `mapstructure:"QUEUE_SIZE"`
	ReportCacheTTL time.Duration `mapstructure:"REPORT_CACHE_TTL"`
}

// Load reads the configuration. When a .env file exists it is watched, and
// onReload (if non-nil) runs with the freshly parsed config after each
// change; the caller typically uses this to adjust the log level without a
// restart.
func Load(onReload func(*Config)) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		fileLoaded = false
	}

	cfg, err := parse(v)
	if err != nil {
		return nil, err
	}

	if fileLoaded {
		v.OnConfigChange(func(fsnotify.Event) {
			if next, err := parse(v); err == nil && onReload != nil {
				onReload(next)
			}
		})
		v.WatchConfig()
	}
	return cfg, nil
}

func parse(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GRPC_ADDR", ":50051")
	v.SetDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/storefront?parseTime=true")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "storefront.orders")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("WORKER_COUNT", 4)
	v.SetDefault("QUEUE_SIZE", 1024)
	v.SetDefault("REPORT_CACHE_TTL", "5m")
}

func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if c.MySQLDSN == "" {
		return fmt.Errorf("MYSQL_DSN is required")
	}
	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive")
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("QUEUE_SIZE must be positive")
	}
	if c.ReportCacheTTL <= 0 {
		return fmt.Errorf("REPORT_CACHE_TTL must be positive")
	}
	if c.KafkaBrokers != "" && c.KafkaTopic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when brokers are set")
	}
	return nil
}

// Brokers splits the comma-separated broker list. Empty means event
// publishing is disabled.
func (c *Config) Brokers() []string {
	if c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Level parses the configured log level; Validate has already ensured it is
// well-formed.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
