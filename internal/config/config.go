package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	MusicBrainz MusicBrainzConfig
	CORS        CORSConfig
	Logging     LoggingConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int
	Host string
}

// Addr returns the listen address for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MusicBrainzConfig holds settings for the outbound MusicBrainz client
type MusicBrainzConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// RateLimit is the number of requests per second; 0 disables throttling.
	RateLimit float64
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

const (
	DefaultMusicBrainzBaseURL = "https://musicbrainz.org/ws/2"
	DefaultUserAgent          = "artistlookup/1.0 (+https://musicbrainz.org/doc/MusicBrainz_API)"
)

// Load reads configuration from env files (when present) and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load("config/local.env")
	_ = godotenv.Load()

	return FromEnv()
}

// FromEnv reads configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	if err := cfg.loadServer(); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}

	if err := cfg.loadMusicBrainz(); err != nil {
		return nil, fmt.Errorf("load musicbrainz config: %w", err)
	}

	cfg.loadCORS()
	cfg.loadLogging()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadServer() error {
	portStr := getEnvOrDefault("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	c.Server.Port = port
	c.Server.Host = os.Getenv("HOST")
	return nil
}

func (c *Config) loadMusicBrainz() error {
	c.MusicBrainz.BaseURL = strings.TrimRight(getEnvOrDefault("MUSICBRAINZ_BASE_URL", DefaultMusicBrainzBaseURL), "/")
	c.MusicBrainz.UserAgent = getEnvOrDefault("MUSICBRAINZ_USER_AGENT", DefaultUserAgent)

	timeout, err := time.ParseDuration(getEnvOrDefault("MUSICBRAINZ_TIMEOUT", "30s"))
	if err != nil {
		return fmt.Errorf("invalid MUSICBRAINZ_TIMEOUT: %w", err)
	}
	c.MusicBrainz.Timeout = timeout

	rps, err := strconv.ParseFloat(getEnvOrDefault("MUSICBRAINZ_RATE_LIMIT", "0"), 64)
	if err != nil {
		return fmt.Errorf("invalid MUSICBRAINZ_RATE_LIMIT: %w", err)
	}
	c.MusicBrainz.RateLimit = rps
	return nil
}

func (c *Config) loadCORS() {
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		return
	}
	for _, origin := range strings.Split(originsEnv, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			c.CORS.AllowedOrigins = append(c.CORS.AllowedOrigins, trimmed)
		}
	}
}

func (c *Config) loadLogging() {
	c.Logging.Level = getEnvOrDefault("LOG_LEVEL", "info")
	c.Logging.Format = getEnvOrDefault("LOG_FORMAT", "json")
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var errors []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "PORT must be between 1 and 65535")
	}

	if u, err := url.Parse(c.MusicBrainz.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, "MUSICBRAINZ_BASE_URL must be an absolute URL")
	}
	if strings.TrimSpace(c.MusicBrainz.UserAgent) == "" {
		errors = append(errors, "MUSICBRAINZ_USER_AGENT must not be blank")
	}
	if c.MusicBrainz.Timeout < 0 {
		errors = append(errors, "MUSICBRAINZ_TIMEOUT must not be negative")
	}
	if c.MusicBrainz.RateLimit < 0 {
		errors = append(errors, "MUSICBRAINZ_RATE_LIMIT must not be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		errors = append(errors, "LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		errors = append(errors, "LOG_FORMAT must be one of: json, text")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
