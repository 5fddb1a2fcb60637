package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Backend    BackendConfig    `yaml:"backend"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Database   DatabaseConfig   `yaml:"database"`
	Navigation NavigationConfig `yaml:"navigation"`
	Refresh    RefreshConfig    `yaml:"refresh"`
	CORS       CORSConfig       `yaml:"cors"`

	LogLevel   string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat  string `yaml:"log_format" validate:"oneof=json console"`
	InstanceID string `yaml:"instance_id" validate:"required"`
}

type ServerConfig struct {
	Port            string        `yaml:"port" validate:"required,numeric"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

// BackendConfig points at the orders REST API.
type BackendConfig struct {
	URL     string        `yaml:"url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
	Token   string        `yaml:"token"`
}

// RedisConfig enables cross-instance activity when URL is set.
type RedisConfig struct {
	URL string `yaml:"url" validate:"omitempty,url"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" validate:"omitempty,dive,hostname_port"`
	Topic   string   `yaml:"topic" validate:"required_with=Brokers"`
}

// DatabaseConfig enables the audit log when URL is set.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type NavigationConfig struct {
	RedirectDelay       time.Duration `yaml:"redirect_delay" validate:"gt=0"`
	StatusRedirectDelay time.Duration `yaml:"status_redirect_delay" validate:"gt=0"`
}

// RefreshConfig schedules periodic reloads; an empty schedule disables them.
type RefreshConfig struct {
	Schedule string `yaml:"schedule"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" validate:"dive,required"`
}

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Backend: BackendConfig{
			URL:     "http://localhost:8081",
			Timeout: 10 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic: "dashboard.order.activity",
		},
		Navigation: NavigationConfig{
			RedirectDelay:       1200 * time.Millisecond,
			StatusRedirectDelay: 650 * time.Millisecond,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:4200"},
		},
		LogLevel:   "info",
		LogFormat:  "json",
		InstanceID: uuid.New().String(),
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty or the file does not exist), then environment
// variables, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Backend.URL = getEnv("BACKEND_URL", cfg.Backend.URL)
	cfg.Backend.Timeout = getEnvDuration("BACKEND_TIMEOUT", cfg.Backend.Timeout)
	cfg.Backend.Token = getEnv("BACKEND_TOKEN", cfg.Backend.Token)

	cfg.Redis.URL = getEnv("REDIS_URL", cfg.Redis.URL)
	cfg.Kafka.Brokers = getEnvList("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", cfg.Kafka.Topic)
	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)

	cfg.Navigation.RedirectDelay = getEnvDuration("REDIRECT_DELAY", cfg.Navigation.RedirectDelay)
	cfg.Navigation.StatusRedirectDelay = getEnvDuration("STATUS_REDIRECT_DELAY", cfg.Navigation.StatusRedirectDelay)
	cfg.Refresh.Schedule = getEnv("REFRESH_SCHEDULE", cfg.Refresh.Schedule)
	cfg.CORS.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", cfg.CORS.AllowedOrigins)

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.InstanceID = getEnv("INSTANCE_ID", cfg.InstanceID)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// plain numbers are milliseconds
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

// getEnvList reads a comma-separated list.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return lo.Compact(lo.Map(strings.Split(value, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}
