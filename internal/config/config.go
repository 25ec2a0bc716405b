// Package config provides configuration loading and validation for the
// server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Defaults applied when neither the environment nor a config file sets a
// value.
const (
	DefaultPort           = "8080"
	DefaultRemoteTimeout  = 30 * time.Second
	DefaultRemoteRPS      = 5.0
	DefaultMaxUploadBytes = 10 << 20
)

// Config represents the assistant configuration. Values come from the
// environment and may be overlaid by a JSON file.
type Config struct {
	Port        string `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// External services
	ProfileAPIURL     string `json:"profile_api_url,omitempty"`
	JobsAPIURL        string `json:"jobs_api_url,omitempty"`
	ParserAPIURL      string `json:"parser_api_url,omitempty"`
	MatchAPIURL       string `json:"match_api_url,omitempty"`
	CoverLetterAPIURL string `json:"cover_letter_api_url,omitempty"`
	RemoteAPIKey      string `json:"remote_api_key,omitempty"`

	APIKey string `json:"api_key,omitempty"` // Gemini API key

	RemoteTimeout  time.Duration `json:"remote_timeout,omitempty"`
	RemoteRPS      float64       `json:"remote_rps,omitempty"`
	MaxUploadBytes int64         `json:"max_upload_bytes,omitempty"`

	// LegacyProfiles writes profiles to the profile API in the v1 shape.
	LegacyProfiles bool `json:"legacy_profiles,omitempty"`
	Verbose        bool `json:"verbose,omitempty"`
}

// LoadFromEnv reads the configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Port:              os.Getenv("PORT"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		ProfileAPIURL:     os.Getenv("PROFILE_API_URL"),
		JobsAPIURL:        os.Getenv("JOBS_API_URL"),
		ParserAPIURL:      os.Getenv("PARSER_API_URL"),
		MatchAPIURL:       os.Getenv("MATCH_API_URL"),
		CoverLetterAPIURL: os.Getenv("COVER_LETTER_API_URL"),
		RemoteAPIKey:      os.Getenv("REMOTE_API_KEY"),
		APIKey:            os.Getenv("GEMINI_API_KEY"),
	}

	if v := os.Getenv("REMOTE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REMOTE_TIMEOUT: %v", err)
		}
		cfg.RemoteTimeout = d
	}
	if v := os.Getenv("REMOTE_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid REMOTE_RPS: %v", err)
		}
		cfg.RemoteRPS = rps
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %v", err)
		}
		cfg.MaxUploadBytes = n
	}
	if v := os.Getenv("LEGACY_PROFILES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LEGACY_PROFILES: %v", err)
		}
		cfg.LegacyProfiles = b
	}

	return cfg, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Service URLs
// are optional; when set they must be absolute http(s) URLs.
func (c *Config) Validate() error {
	if c.Port != "" {
		if n, err := strconv.Atoi(c.Port); err != nil || n < 1 || n > 65535 {
			return fmt.Errorf("config error: 'port' must be a TCP port, got %q", c.Port)
		}
	}

	urls := map[string]string{
		"profile_api_url":      c.ProfileAPIURL,
		"jobs_api_url":         c.JobsAPIURL,
		"parser_api_url":       c.ParserAPIURL,
		"match_api_url":        c.MatchAPIURL,
		"cover_letter_api_url": c.CoverLetterAPIURL,
	}
	for name, raw := range urls {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config error: '%s' must be an http(s) URL, got %q", name, raw)
		}
	}

	if c.RemoteTimeout < 0 {
		return fmt.Errorf("config error: 'remote_timeout' must be non-negative")
	}
	if c.RemoteRPS < 0 {
		return fmt.Errorf("config error: 'remote_rps' must be non-negative")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults, then from the package defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.Port, defaults.Port)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.ProfileAPIURL, defaults.ProfileAPIURL)
	fill(&result.JobsAPIURL, defaults.JobsAPIURL)
	fill(&result.ParserAPIURL, defaults.ParserAPIURL)
	fill(&result.MatchAPIURL, defaults.MatchAPIURL)
	fill(&result.CoverLetterAPIURL, defaults.CoverLetterAPIURL)
	fill(&result.RemoteAPIKey, defaults.RemoteAPIKey)
	fill(&result.APIKey, defaults.APIKey)
	fill(&result.Port, DefaultPort)

	// Numeric fields: use default if zero
	if result.RemoteTimeout == 0 {
		result.RemoteTimeout = defaults.RemoteTimeout
	}
	if result.RemoteTimeout == 0 {
		result.RemoteTimeout = DefaultRemoteTimeout
	}
	if result.RemoteRPS == 0 {
		result.RemoteRPS = defaults.RemoteRPS
	}
	if result.RemoteRPS == 0 {
		result.RemoteRPS = DefaultRemoteRPS
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = DefaultMaxUploadBytes
	}

	// Bool fields: cannot distinguish unset from false, so true wins
	result.LegacyProfiles = result.LegacyProfiles || defaults.LegacyProfiles
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}
