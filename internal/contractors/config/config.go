// Package config loads the service configuration from a YAML file with
// environment overrides (CONTRACTORS_GRPC_PORT and so on).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const EnvPrefix = "CONTRACTORS"

const (
	defaultGRPCPort = 50051
	defaultHTTPPort = 8080
	defaultTopic    = "contractor-events"
)

type Config struct {
	GRPCPort     int      `mapstructure:"GRPC_PORT"`
	HTTPPort     int      `mapstructure:"HTTP_PORT"`
	KafkaBrokers []string `mapstructure:"KAFKA_BROKERS"`
	Topic        string   `mapstructure:"TOPIC"`
	// SeedPath points at a seed document; empty means the built-in seed.
	SeedPath    string `mapstructure:"SEED_PATH"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	Development bool   `mapstructure:"DEVELOPMENT"`

	level zapcore.Level
}

// Load reads path (skipped when empty), applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("GRPC_PORT", defaultGRPCPort)
	v.SetDefault("HTTP_PORT", defaultHTTPPort)
	v.SetDefault("KAFKA_BROKERS", []string{})
	v.SetDefault("TOPIC", defaultTopic)
	v.SetDefault("SEED_PATH", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DEVELOPMENT", false)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Level is the parsed LOG_LEVEL.
func (c *Config) Level() zapcore.Level {
	return c.level
}

func (c *Config) validateAndNormalize() error {
	if err := checkPort("GRPC_PORT", c.GRPCPort); err != nil {
		return err
	}
	if err := checkPort("HTTP_PORT", c.HTTPPort); err != nil {
		return err
	}
	if c.GRPCPort == c.HTTPPort {
		return fmt.Errorf("config: GRPC_PORT and HTTP_PORT must differ (both %d)", c.GRPCPort)
	}

	brokers := make([]string, 0, len(c.KafkaBrokers))
	for _, b := range c.KafkaBrokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.KafkaBrokers = brokers

	c.Topic = strings.TrimSpace(c.Topic)
	if len(c.KafkaBrokers) > 0 && c.Topic == "" {
		return fmt.Errorf("config: TOPIC is required when KAFKA_BROKERS is set")
	}
	c.SeedPath = strings.TrimSpace(c.SeedPath)

	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	c.level = level
	return nil
}

func checkPort(key string, port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("config: %s %d out of range", key, port)
	}
	return nil
}
