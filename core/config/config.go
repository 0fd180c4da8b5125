package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// DatabaseConfig holds database connection settings. It mirrors the core
// database package's config so this package stays free of storage imports.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// GeminiConfig tunes the generative provider and the credential rotation.
type GeminiConfig struct {
	Model           string  `yaml:"model" envconfig:"GEMINI_MODEL"`
	Temperature     float32 `yaml:"temperature" envconfig:"GEMINI_TEMPERATURE"`
	TopP            float32 `yaml:"top_p" envconfig:"GEMINI_TOP_P"`
	MaxOutputTokens int32   `yaml:"max_output_tokens" envconfig:"GEMINI_MAX_OUTPUT_TOKENS"`
	// RequestTimeoutSeconds bounds a single generation attempt.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" envconfig:"GEMINI_REQUEST_TIMEOUT_SECONDS"`
	// RetryAllErrors makes the rotation retry every provider failure across
	// the credential pool instead of failing fast on non-quota errors.
	RetryAllErrors bool `yaml:"retry_all_errors" envconfig:"GEMINI_RETRY_ALL_ERRORS"`
}

// RequestTimeout returns the per-attempt timeout as a duration.
func (g GeminiConfig) RequestTimeout() time.Duration {
	return time.Duration(g.RequestTimeoutSeconds) * time.Second
}

const (
	// SessionsBackendPostgres stores sessions in the relational database.
	SessionsBackendPostgres = "postgres"
	// SessionsBackendRedis stores sessions in Redis with a TTL.
	SessionsBackendRedis = "redis"
)

// SessionsConfig selects where per-user regeneration state lives.
type SessionsConfig struct {
	Backend    string `yaml:"backend" envconfig:"SESSIONS_BACKEND"`
	RedisURL   string `yaml:"redis_url" envconfig:"REDIS_URL"`
	TTLMinutes int    `yaml:"ttl_minutes" envconfig:"SESSIONS_TTL_MINUTES"`
}

// TTL returns the Redis record lifetime; zero means no expiry.
func (s SessionsConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

// HealthConfig configures the liveness HTTP endpoint used by uptime monitors.
type HealthConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"HEALTH_ENABLED"`
	Port    int  `yaml:"port" envconfig:"HEALTH_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

// RateLimitConfig holds settings for per-user rate limiting.
type RateLimitConfig struct {
	IntervalMS int `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

// Config aggregates all application configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Database  DatabaseConfig  `yaml:"database"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	Health    HealthConfig    `yaml:"health"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-1.5-flash"
	}
	if cfg.Gemini.Temperature <= 0 {
		cfg.Gemini.Temperature = 1.1
	}
	if cfg.Gemini.TopP <= 0 {
		cfg.Gemini.TopP = 0.95
	}
	if cfg.Gemini.MaxOutputTokens <= 0 {
		cfg.Gemini.MaxOutputTokens = 100
	}
	if cfg.Gemini.RequestTimeoutSeconds <= 0 {
		cfg.Gemini.RequestTimeoutSeconds = 9
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Sessions.Backend))
	if backend == "" {
		backend = SessionsBackendPostgres
	}
	switch backend {
	case SessionsBackendPostgres:
	case SessionsBackendRedis:
		if strings.TrimSpace(cfg.Sessions.RedisURL) == "" {
			return fmt.Errorf("sessions.redis_url is required when sessions.backend is 'redis'")
		}
	default:
		return fmt.Errorf("invalid sessions.backend %q; allowed: postgres, redis", cfg.Sessions.Backend)
	}
	cfg.Sessions.Backend = backend

	if cfg.Health.Enabled && cfg.Health.Port <= 0 {
		cfg.Health.Port = 8080
	}

	return nil
}
