package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "BACKEND_BASE_URL", "ADMIN_POLL_INTERVAL", "EMAIL_PROVIDER", "RATE_LIMIT_RPS"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.AdminPollInterval != 30*time.Second {
		t.Fatalf("expected default poll interval, got %s", cfg.AdminPollInterval)
	}
	if cfg.BookingCloseDelay != 2*time.Second {
		t.Fatalf("expected default close delay, got %s", cfg.BookingCloseDelay)
	}
	if cfg.EmailProvider != "stub" {
		t.Fatalf("expected stub email provider, got %s", cfg.EmailProvider)
	}
	if cfg.RateLimitRPS != 0.5 {
		t.Fatalf("expected default rate limit, got %v", cfg.RateLimitRPS)
	}
	if cfg.IsProduction() {
		t.Fatalf("development config reported as production")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "Production")
	t.Setenv("BACKEND_BASE_URL", "https://proj.supabase.co/functions/v1/make-server/")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("USE_MEMORY_SESSIONS", "true")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("EMAIL_PROVIDER", " SES ")
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production env")
	}
	if cfg.BackendBaseURL != "https://proj.supabase.co/functions/v1/make-server" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.BackendBaseURL)
	}
	if cfg.BackendTimeout != 3*time.Second {
		t.Fatalf("expected backend timeout override, got %s", cfg.BackendTimeout)
	}
	if !cfg.UseMemorySessions {
		t.Fatalf("expected memory sessions")
	}
	if cfg.RateLimitBurst != 3 {
		t.Fatalf("expected burst override, got %d", cfg.RateLimitBurst)
	}
	if cfg.EmailProvider != "ses" {
		t.Fatalf("expected normalised provider, got %q", cfg.EmailProvider)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Fatalf("expected invalid duration to fall back to default, got %s", cfg.SessionTTL)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("OWNER_EMAIL=milan@example.com\nPORT=7070\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("PORT", "6060")
	t.Setenv("OWNER_EMAIL", "")
	os.Unsetenv("OWNER_EMAIL")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	cfg := Load()
	if cfg.OwnerEmail != "milan@example.com" {
		t.Fatalf("expected owner email from .env, got %q", cfg.OwnerEmail)
	}
	if cfg.Port != "6060" {
		t.Fatalf("expected existing env to win, got %s", cfg.Port)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}
