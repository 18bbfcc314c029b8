// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
	"time"
)

func TestParseFlags_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.Port)
	}
	if cfg.WebhookURL != "http://localhost:5678/webhook" {
		t.Errorf("unexpected default webhook URL %q", cfg.WebhookURL)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("expected origins [*], got %v", cfg.AllowedOrigins)
	}
	if cfg.Environment != ModeDevelopment || cfg.IsProduction() {
		t.Errorf("expected development mode, got %q", cfg.Environment)
	}
	if cfg.UpstreamTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.UpstreamTimeout)
	}
	if cfg.RateLimitMax != 100 || cfg.RateLimitWindow != 15*time.Minute {
		t.Errorf("expected 100 per 15m, got %d per %v", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if cfg.BodyLimit != 10_000_000 {
		t.Errorf("expected 10MB body limit, got %d", cfg.BodyLimit)
	}
	if cfg.WSMaxInflight != 4 {
		t.Errorf("expected 4 in-flight websocket calls, got %d", cfg.WSMaxInflight)
	}
	if cfg.DatabaseURL != "" || cfg.DatabaseType != "sqlite" {
		t.Errorf("expected no database and sqlite type, got %q %q", cfg.DatabaseURL, cfg.DatabaseType)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("N8N_WEBHOOK_URL", "https://n8n.example.com/webhook")
	os.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	os.Setenv("NODE_ENV", "production")
	os.Setenv("UPSTREAM_TIMEOUT", "5s")
	os.Setenv("RATE_LIMIT_MAX", "20")
	os.Setenv("BODY_LIMIT", "1MiB")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("DATABASE_TYPE", "postgres")
	os.Setenv("WS_MAX_INFLIGHT", "2")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.WebhookURL != "https://n8n.example.com/webhook" {
		t.Errorf("unexpected webhook URL %q", cfg.WebhookURL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://admin.example.com" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if !cfg.IsProduction() {
		t.Error("expected production mode")
	}
	if cfg.UpstreamTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.UpstreamTimeout)
	}
	if cfg.RateLimitMax != 20 {
		t.Errorf("expected rate limit 20, got %d", cfg.RateLimitMax)
	}
	if cfg.BodyLimit != 1<<20 {
		t.Errorf("expected 1MiB body limit, got %d", cfg.BodyLimit)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %q", cfg.DatabaseType)
	}
	if cfg.WSMaxInflight != 2 {
		t.Errorf("expected 2 in-flight websocket calls, got %d", cfg.WSMaxInflight)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("N8N_WEBHOOK_URL", "http://env-host/webhook")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-webhook-url", "http://cli-host/webhook", "-d", "file:test.db", "-rate-window", "1m"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.WebhookURL != "http://cli-host/webhook" {
		t.Errorf("CLI should override env: got %q", cfg.WebhookURL)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Errorf("expected 1m window, got %v", cfg.RateLimitWindow)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"bad port env", map[string]string{"PORT": "abc"}, nil},
		{"port out of range", nil, []string{"-p", "70000"}},
		{"bad timeout", map[string]string{"UPSTREAM_TIMEOUT": "soon"}, nil},
		{"negative window", nil, []string{"-rate-window", "-5m"}},
		{"bad rate limit", map[string]string{"RATE_LIMIT_MAX": "0"}, nil},
		{"bad body limit", nil, []string{"-body-limit", "lots"}},
		{"bad database type", map[string]string{"DATABASE_TYPE": "mysql"}, nil},
		{"bad ws in-flight env", map[string]string{"WS_MAX_INFLIGHT": "0"}, nil},
		{"negative ws in-flight", nil, []string{"-ws-inflight", "-1"}},
		{"unknown flag", nil, []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				os.Setenv(k, v)
			}
			defer os.Clearenv()

			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}
