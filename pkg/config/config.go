package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/platinummonkey/guilddash/pkg/observability"
)

// Backend names shared by the session and settings stores.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Session       SessionConfig
	OAuth         OAuthConfig
	Platform      PlatformConfig
	Settings      SettingsConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// SessionConfig holds session store configuration
type SessionConfig struct {
	Backend  string // memory or redis
	TTL      time.Duration
	RedisURL string
}

// OAuthConfig holds the identity provider's OAuth2 settings
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
}

// PlatformConfig holds the membership API settings
type PlatformConfig struct {
	APIBaseURL    string
	BotToken      string
	LookupTimeout time.Duration
}

// SettingsConfig holds the settings store configuration
type SettingsConfig struct {
	Backend     string // memory, redis, or postgres
	RedisURL    string
	PostgresURL string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("GUILDDASH_HOST", "0.0.0.0"),
			Port:            getEnv("GUILDDASH_PORT", "8080"),
			ReadTimeout:     getEnvDuration("GUILDDASH_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("GUILDDASH_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("GUILDDASH_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("GUILDDASH_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthPort:      getEnv("GUILDDASH_HEALTH_PORT", "9090"),
		},
		Session: SessionConfig{
			Backend:  getEnv("GUILDDASH_SESSION_BACKEND", BackendMemory),
			TTL:      getEnvDuration("GUILDDASH_SESSION_TTL", 24*time.Hour),
			RedisURL: getEnv("GUILDDASH_REDIS_URL", ""),
		},
		OAuth: OAuthConfig{
			ClientID:     getEnv("GUILDDASH_OAUTH_CLIENT_ID", ""),
			ClientSecret: getEnv("GUILDDASH_OAUTH_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GUILDDASH_OAUTH_REDIRECT_URL", ""),
			AuthURL:      getEnv("GUILDDASH_OAUTH_AUTH_URL", ""),
			TokenURL:     getEnv("GUILDDASH_OAUTH_TOKEN_URL", ""),
		},
		Platform: PlatformConfig{
			APIBaseURL:    getEnv("GUILDDASH_API_BASE_URL", ""),
			BotToken:      getEnv("GUILDDASH_BOT_TOKEN", ""),
			LookupTimeout: getEnvDuration("GUILDDASH_LOOKUP_TIMEOUT", 5*time.Second),
		},
		Settings: SettingsConfig{
			Backend:     getEnv("GUILDDASH_SETTINGS_BACKEND", BackendMemory),
			RedisURL:    getEnv("GUILDDASH_REDIS_URL", ""),
			PostgresURL: getEnv("GUILDDASH_POSTGRES_URL", ""),
		},
		Observability: ObservabilityConfig{
			LogLevel:       observability.ParseLevel(getEnv("GUILDDASH_LOG_LEVEL", "info")),
			MetricsEnabled: getEnvBool("GUILDDASH_METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.OAuth.ClientID == "" {
		return fmt.Errorf("OAuth client id is required")
	}
	if c.OAuth.ClientSecret == "" {
		return fmt.Errorf("OAuth client secret is required")
	}
	if c.OAuth.RedirectURL == "" {
		return fmt.Errorf("OAuth redirect URL is required")
	}

	if c.Platform.BotToken == "" {
		return fmt.Errorf("bot token is required")
	}

	switch c.Session.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Session.RedisURL == "" {
			return fmt.Errorf("redis URL is required for the redis session backend")
		}
	default:
		return fmt.Errorf("invalid session backend: %s (must be memory or redis)", c.Session.Backend)
	}

	switch c.Settings.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Settings.RedisURL == "" {
			return fmt.Errorf("redis URL is required for the redis settings backend")
		}
	case BackendPostgres:
		if c.Settings.PostgresURL == "" {
			return fmt.Errorf("postgres URL is required for the postgres settings backend")
		}
	default:
		return fmt.Errorf("invalid settings backend: %s (must be memory, redis, or postgres)", c.Settings.Backend)
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
