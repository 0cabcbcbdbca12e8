package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the config file nor the environment
// sets a value.
const (
	DefaultLimit          = 10
	DefaultLoad           = 300
	DefaultVisibility     = "all"
	DefaultMarkdown       = "inline"
	DefaultCodelines      = 2
	DefaultMaxConcurrency = 5
)

// Config holds application configuration.
// Follows Single Responsibility - only holds configuration data.
type Config struct {
	// GitHub configuration
	GitHubURL   string `yaml:"github_url"`
	GitHubToken string `yaml:"-"`

	// Subject of the feed
	Login   string `yaml:"login"`
	Account string `yaml:"account"` // "user" or "organization"
	Repo    string `yaml:"repo"`    // "owner/name"; enables repository mode

	// MetricsAddr enables the Prometheus /metrics listener when set
	// (e.g. ":9090"). Empty disables it.
	MetricsAddr string `yaml:"metrics_addr"`

	Feed FeedConfig `yaml:"feed"`
}

// FeedConfig holds the feed assembly options.
type FeedConfig struct {
	Limit      int      `yaml:"limit"`
	Load       int      `yaml:"load"`
	Days       int      `yaml:"days"` // accepted but currently inert
	Visibility string   `yaml:"visibility"`
	Filter     []string `yaml:"filter"`
	Ignored    []string `yaml:"ignored"`
	Skipped    []string `yaml:"skipped"`
	Markdown   string   `yaml:"markdown"`
	Codelines  int      `yaml:"codelines"`
	Timestamps bool     `yaml:"timestamps"`

	MaxConcurrency int `yaml:"max_concurrency"`
}

// Load loads configuration from an optional YAML file (path in
// ACTIVITY_CONFIG), then applies environment variable overrides.
func Load() (*Config, error) {
	cfg := &Config{
		GitHubURL: "https://api.github.com",
		Account:   "user",
		Feed: FeedConfig{
			Limit:          DefaultLimit,
			Load:           DefaultLoad,
			Visibility:     DefaultVisibility,
			Filter:         []string{"all"},
			Markdown:       DefaultMarkdown,
			Codelines:      DefaultCodelines,
			MaxConcurrency: DefaultMaxConcurrency,
		},
	}

	if path := os.Getenv("ACTIVITY_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides lets environment variables override file values.
func applyEnvOverrides(cfg *Config) {
	setString(&cfg.GitHubURL, "GITHUB_URL")
	setString(&cfg.GitHubToken, "GITHUB_TOKEN")
	setString(&cfg.Login, "ACTIVITY_LOGIN")
	setString(&cfg.Account, "ACTIVITY_ACCOUNT")
	setString(&cfg.Repo, "ACTIVITY_REPO")
	setString(&cfg.MetricsAddr, "ACTIVITY_METRICS_ADDR")

	setInt(&cfg.Feed.Limit, "ACTIVITY_LIMIT")
	setInt(&cfg.Feed.Load, "ACTIVITY_LOAD")
	setInt(&cfg.Feed.Days, "ACTIVITY_DAYS")
	setString(&cfg.Feed.Visibility, "ACTIVITY_VISIBILITY")
	setList(&cfg.Feed.Filter, "ACTIVITY_FILTER")
	setList(&cfg.Feed.Ignored, "ACTIVITY_IGNORED")
	setList(&cfg.Feed.Skipped, "ACTIVITY_SKIPPED")
	setString(&cfg.Feed.Markdown, "ACTIVITY_MARKDOWN")
	setInt(&cfg.Feed.Codelines, "ACTIVITY_CODELINES")
	setInt(&cfg.Feed.MaxConcurrency, "ACTIVITY_MAX_CONCURRENCY")

	if raw := os.Getenv("ACTIVITY_TIMESTAMPS"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cfg.Feed.Timestamps = v
		}
	}
}

// Validate checks that the configuration selects a subject.
func (c *Config) Validate() error {
	if c.Login == "" && c.Repo == "" {
		return fmt.Errorf("no subject configured: set ACTIVITY_LOGIN or ACTIVITY_REPO")
	}
	if c.Repo != "" {
		if _, _, ok := c.RepoOwnerName(); !ok {
			return fmt.Errorf("invalid repository %q: expected owner/name", c.Repo)
		}
	}
	return nil
}

// HasRepo returns true if a repository subject is configured.
func (c *Config) HasRepo() bool {
	return c.Repo != ""
}

// RepoOwnerName splits the configured repository into owner and name.
func (c *Config) RepoOwnerName() (owner, name string, ok bool) {
	owner, name, found := strings.Cut(c.Repo, "/")
	if !found || owner == "" || name == "" {
		return "", "", false
	}
	return owner, name, true
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func setInt(dst *int, key string) {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			*dst = v
		}
	}
}

func setList(dst *[]string, key string) {
	raw := os.Getenv(key)
	if raw == "" {
		return
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	if len(result) > 0 {
		*dst = result
	}
}
