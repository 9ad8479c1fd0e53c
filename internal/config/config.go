package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the NewsCheck server.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Perplexity PerplexityConfig
	Gemini     GeminiConfig
}

type ServerConfig struct {
	Port               int
	Env                string
	FrontendOrigin     string
	RateLimitPerMinute int
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig is optional: an empty URL selects the no-op cache at startup.
type RedisConfig struct {
	URL string
}

// PerplexityConfig configures the evidence-gathering model. Model, when set,
// overrides the default candidate list.
type PerplexityConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// GeminiConfig configures the structuring model.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
// Model credentials are deliberately not required here: a missing key fails the
// verification pipeline per request and the boundary degrades to a mock result.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               envInt("NEWSCHECK_PORT", 8080),
			Env:                envString("NEWSCHECK_ENV", "development"),
			FrontendOrigin:     envString("FRONTEND_ORIGIN", "*"),
			RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 10),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Perplexity: PerplexityConfig{
			APIKey:  os.Getenv("PERPLEXITY_API_KEY"),
			Model:   strings.TrimSpace(os.Getenv("PERPLEXITY_MODEL")),
			BaseURL: envString("PERPLEXITY_BASE_URL", "https://api.perplexity.ai"),
			Timeout: envDurationSecs("PERPLEXITY_TIMEOUT_SECS", 30*time.Second),
		},
		Gemini: GeminiConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			Model:   envString("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL: envString("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if !strings.HasPrefix(c.Perplexity.BaseURL, "http://") && !strings.HasPrefix(c.Perplexity.BaseURL, "https://") {
		return fmt.Errorf("PERPLEXITY_BASE_URL must start with http:// or https://, got %q", c.Perplexity.BaseURL)
	}
	if !strings.HasPrefix(c.Gemini.BaseURL, "http://") && !strings.HasPrefix(c.Gemini.BaseURL, "https://") {
		return fmt.Errorf("GEMINI_BASE_URL must start with http:// or https://, got %q", c.Gemini.BaseURL)
	}

	if c.Server.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.Server.RateLimitPerMinute)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
