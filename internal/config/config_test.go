package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoad_Defaults tests loading config with default values.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestLoad_Defaults(t *testing.T) {
	// Arrange
	clearEnv(t)
	t.Setenv("ACTIVITY_LOGIN", "octocat")

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Feed.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, cfg.Feed.Limit)
	}

	if cfg.Feed.Load != DefaultLoad {
		t.Errorf("expected default load %d, got %d", DefaultLoad, cfg.Feed.Load)
	}

	if cfg.Feed.Visibility != "all" {
		t.Errorf("expected default visibility 'all', got %q", cfg.Feed.Visibility)
	}

	if len(cfg.Feed.Filter) != 1 || cfg.Feed.Filter[0] != "all" {
		t.Errorf("expected default filter [all], got %v", cfg.Feed.Filter)
	}

	if cfg.Feed.Codelines != DefaultCodelines {
		t.Errorf("expected default codelines %d, got %d", DefaultCodelines, cfg.Feed.Codelines)
	}
}

// TestLoad_EnvOverrides tests environment variable overrides.
func TestLoad_EnvOverrides(t *testing.T) {
	// Arrange
	clearEnv(t)
	t.Setenv("ACTIVITY_LOGIN", "octocat")
	t.Setenv("ACTIVITY_LIMIT", "25")
	t.Setenv("ACTIVITY_VISIBILITY", "public")
	t.Setenv("ACTIVITY_FILTER", "push, issue")
	t.Setenv("ACTIVITY_IGNORED", "bot-one,bot-two")

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Feed.Limit != 25 {
		t.Errorf("expected limit 25, got %d", cfg.Feed.Limit)
	}

	if cfg.Feed.Visibility != "public" {
		t.Errorf("expected visibility 'public', got %q", cfg.Feed.Visibility)
	}

	if len(cfg.Feed.Filter) != 2 || cfg.Feed.Filter[0] != "push" || cfg.Feed.Filter[1] != "issue" {
		t.Errorf("expected filter [push issue], got %v", cfg.Feed.Filter)
	}

	if len(cfg.Feed.Ignored) != 2 {
		t.Errorf("expected 2 ignored users, got %v", cfg.Feed.Ignored)
	}
}

// TestLoad_YAMLFile tests loading options from a YAML config file.
func TestLoad_YAMLFile(t *testing.T) {
	// Arrange
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "activity.yaml")
	content := `login: octocat
account: organization
feed:
  limit: 5
  visibility: public
  filter: [star, fork]
  skipped:
    - octocat/sandbox
  timestamps: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("ACTIVITY_CONFIG", path)

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Login != "octocat" {
		t.Errorf("expected login 'octocat', got %q", cfg.Login)
	}

	if cfg.Account != "organization" {
		t.Errorf("expected account 'organization', got %q", cfg.Account)
	}

	if cfg.Feed.Limit != 5 {
		t.Errorf("expected limit 5, got %d", cfg.Feed.Limit)
	}

	if len(cfg.Feed.Filter) != 2 {
		t.Errorf("expected 2 filter entries, got %v", cfg.Feed.Filter)
	}

	if !cfg.Feed.Timestamps {
		t.Error("expected timestamps true")
	}
}

// TestLoad_EnvOverridesFile tests that env vars win over the file.
func TestLoad_EnvOverridesFile(t *testing.T) {
	// Arrange
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "activity.yaml")
	if err := os.WriteFile(path, []byte("login: octocat\nfeed:\n  limit: 5\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("ACTIVITY_CONFIG", path)
	t.Setenv("ACTIVITY_LIMIT", "50")

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Feed.Limit != 50 {
		t.Errorf("expected env override limit 50, got %d", cfg.Feed.Limit)
	}
}

// TestLoad_MetricsAddr tests the opt-in metrics listener address.
func TestLoad_MetricsAddr(t *testing.T) {
	// Arrange
	clearEnv(t)
	t.Setenv("ACTIVITY_LOGIN", "octocat")

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.MetricsAddr != "" {
		t.Errorf("expected metrics disabled by default, got %q", cfg.MetricsAddr)
	}

	// Arrange: opt in via environment
	t.Setenv("ACTIVITY_METRICS_ADDR", ":9090")

	// Act
	cfg, err = Load()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.MetricsAddr != ":9090" {
		t.Errorf("expected metrics addr ':9090', got %q", cfg.MetricsAddr)
	}
}

// TestLoad_NoSubject tests that a missing subject is rejected.
func TestLoad_NoSubject(t *testing.T) {
	// Arrange
	clearEnv(t)

	// Act
	_, err := Load()

	// Assert
	if err == nil {
		t.Fatal("expected error for missing subject, got nil")
	}
}

// TestLoad_InvalidRepo tests that a malformed repository is rejected.
func TestLoad_InvalidRepo(t *testing.T) {
	// Arrange
	clearEnv(t)
	t.Setenv("ACTIVITY_REPO", "not-a-full-name")

	// Act
	_, err := Load()

	// Assert
	if err == nil {
		t.Fatal("expected error for invalid repo, got nil")
	}
}

// TestRepoOwnerName tests splitting the repository subject.
func TestRepoOwnerName(t *testing.T) {
	// Arrange
	cfg := &Config{Repo: "octocat/hello-world"}

	// Act
	owner, name, ok := cfg.RepoOwnerName()

	// Assert
	if !ok {
		t.Fatal("expected valid owner/name split")
	}

	if owner != "octocat" || name != "hello-world" {
		t.Errorf("expected octocat/hello-world, got %s/%s", owner, name)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ACTIVITY_CONFIG", "ACTIVITY_LOGIN", "ACTIVITY_ACCOUNT", "ACTIVITY_REPO",
		"ACTIVITY_LIMIT", "ACTIVITY_LOAD", "ACTIVITY_DAYS", "ACTIVITY_VISIBILITY",
		"ACTIVITY_FILTER", "ACTIVITY_IGNORED", "ACTIVITY_SKIPPED", "ACTIVITY_MARKDOWN",
		"ACTIVITY_CODELINES", "ACTIVITY_MAX_CONCURRENCY", "ACTIVITY_TIMESTAMPS",
		"ACTIVITY_METRICS_ADDR",
		"GITHUB_URL", "GITHUB_TOKEN",
	} {
		t.Setenv(key, "")
	}
}
