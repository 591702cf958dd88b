package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Lock modes for per-campaign mutual exclusion
const (
	LockModeLocal    = "local"
	LockModePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	JWT      JWTConfig
	Dispatch DispatchConfig
	LogLevel string
	Sentry   SentryConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           string
	BasePath       string
	AllowedOrigins []string
}

// DatabaseConfig holds postgres connection parameters
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RabbitMQConfig holds broker connection parameters and queue names
type RabbitMQConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	EventsQueue   string
	ReportsQueue  string
	ConsumerCount int
}

// JWTConfig holds the secret used to validate caller tokens
type JWTConfig struct {
	Secret string
}

// DispatchConfig tunes the campaign dispatch core
type DispatchConfig struct {
	LockMode             string
	ActivationBatchSize  int
	InstancePollInterval time.Duration
}

// SentryConfig holds error tracking settings. An empty DSN disables Sentry.
type SentryConfig struct {
	DSN         string
	Environment string
}

// Load reads .env (if present) and the environment into a Config
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("port"),
			BasePath:       v.GetString("base_path"),
			AllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Name:     v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		RabbitMQ: RabbitMQConfig{
			Host:          v.GetString("rabbitmq.host"),
			Port:          v.GetString("rabbitmq.port"),
			User:          v.GetString("rabbitmq.user"),
			Password:      v.GetString("rabbitmq.pass"),
			EventsQueue:   v.GetString("rabbitmq.events_queue"),
			ReportsQueue:  v.GetString("rabbitmq.reports_queue"),
			ConsumerCount: v.GetInt("rabbitmq.consumer_count"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
		},
		Dispatch: DispatchConfig{
			LockMode:             strings.ToLower(v.GetString("dispatch.lock_mode")),
			ActivationBatchSize:  v.GetInt("dispatch.batch_size"),
			InstancePollInterval: v.GetDuration("instance.poll_interval"),
		},
		LogLevel: v.GetString("log_level"),
		Sentry: SentryConfig{
			DSN:         v.GetString("sentry.dsn"),
			Environment: v.GetString("sentry.environment"),
		},
	}

	// local only serializes within one process; anything else gets advisory locks
	if cfg.Dispatch.LockMode != LockModeLocal {
		cfg.Dispatch.LockMode = LockModePostgres
	}
	if cfg.Dispatch.ActivationBatchSize <= 0 {
		cfg.Dispatch.ActivationBatchSize = 100
	}
	if cfg.Dispatch.InstancePollInterval <= 0 {
		cfg.Dispatch.InstancePollInterval = 30 * time.Second
	}

	return cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("base_path", "/outreach-dispatch-api")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("rabbitmq.host", "localhost")
	v.SetDefault("rabbitmq.port", "5672")
	v.SetDefault("rabbitmq.user", "guest")
	v.SetDefault("rabbitmq.pass", "guest")
	v.SetDefault("rabbitmq.events_queue", "dispatch_events")
	v.SetDefault("rabbitmq.reports_queue", "dispatch_status_reports")
	v.SetDefault("rabbitmq.consumer_count", 1)
	v.SetDefault("dispatch.lock_mode", LockModePostgres)
	v.SetDefault("dispatch.batch_size", 100)
	v.SetDefault("instance.poll_interval", "30s")
	v.SetDefault("log_level", "info")
	v.SetDefault("sentry.environment", "production")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
