// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server settings
	Port      int
	Debug     bool
	LogFormat string // text | json

	// Feed settings
	FeedsConfigPath string // empty means the built-in roster
	FetchTimeout    time.Duration
	BucketLimit     int
	CacheTTL        time.Duration // 0 disables the response cache
	Timezone        string        // IANA name; empty means local time
	EnrichImages    bool

	// Brief settings
	AIProvider         string // google | mistral | "" (disabled)
	AIModel            string
	GeminiAPIKey       string
	MistralAPIKey      string
	BriefRatePerMinute int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:               8080,
		LogFormat:          "text",
		FetchTimeout:       8 * time.Second,
		BucketLimit:        12,
		CacheTTL:           15 * time.Minute,
		BriefRatePerMinute: 6,
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", cfg.Port); err != nil {
		return nil, err
	}
	if cfg.BucketLimit, err = getEnvInt("BUCKET_LIMIT", cfg.BucketLimit); err != nil {
		return nil, err
	}
	if cfg.BriefRatePerMinute, err = getEnvInt("BRIEF_RATE_PER_MINUTE", cfg.BriefRatePerMinute); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getEnvDuration("FETCH_TIMEOUT", cfg.FetchTimeout); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getEnvDuration("CACHE_TTL", cfg.CacheTTL); err != nil {
		return nil, err
	}

	cfg.Debug = os.Getenv("DEBUG") == "true"
	cfg.EnrichImages = os.Getenv("ENRICH_IMAGES") == "true"
	cfg.LogFormat = strings.ToLower(getEnvOrDefault("LOG_FORMAT", cfg.LogFormat))
	cfg.FeedsConfigPath = os.Getenv("FEEDS_CONFIG_PATH")
	cfg.Timezone = os.Getenv("TIMEZONE")

	cfg.AIProvider = strings.ToLower(os.Getenv("AI_PROVIDER"))
	cfg.AIModel = os.Getenv("AI_MODEL")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.MistralAPIKey = os.Getenv("MISTRAL_API_KEY")

	return cfg, cfg.Validate()
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json'")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if c.BucketLimit < 1 {
		return fmt.Errorf("BUCKET_LIMIT must be at least 1")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}

	switch c.AIProvider {
	case "":
	case "google":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for AI_PROVIDER=google")
		}
	case "mistral":
		if c.MistralAPIKey == "" {
			return fmt.Errorf("MISTRAL_API_KEY is required for AI_PROVIDER=mistral")
		}
	default:
		return fmt.Errorf("AI_PROVIDER must be 'google', 'mistral' or empty, got %q", c.AIProvider)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, value)
	}
	return d, nil
}
