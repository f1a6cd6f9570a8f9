package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Auth.Mode != AuthModeDemo {
		t.Errorf("expected demo mode, got %q", cfg.Auth.Mode)
	}
	if cfg.Auth.LoginLatency != time.Second {
		t.Errorf("expected 1s latency, got %v", cfg.Auth.LoginLatency)
	}
	if cfg.Session.Storage != StorageMemory {
		t.Errorf("expected memory storage, got %q", cfg.Session.Storage)
	}
	if cfg.Session.IdleTimeout != 30*time.Minute {
		t.Errorf("expected 30m idle timeout, got %v", cfg.Session.IdleTimeout)
	}
	if cfg.NeedsMongo() || cfg.NeedsRedis() {
		t.Errorf("defaults must not require external services")
	}
}

func TestLoad_CredentialsMode(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"AUTH_MODE":       "credentials",
		"JWT_SECRET":      "s3cret",
		"SESSION_STORAGE": "redis",
		"LOGIN_LATENCY":   "0s",
		"ALLOWED_ORIGINS": "http://localhost:5173,https://spabook.com",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !cfg.NeedsMongo() || !cfg.NeedsRedis() {
		t.Errorf("credentials+redis must require mongo and redis")
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.Auth.LoginLatency != 0 {
		t.Errorf("expected zero latency, got %v", cfg.Auth.LoginLatency)
	}
}

func TestLoad_CredentialsWithoutSecret(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"AUTH_MODE": "credentials",
	}))
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
}

func TestValidate_UnknownValues(t *testing.T) {
	cfg := &Config{
		Auth:    AuthConfig{Mode: "ldap"},
		Session: SessionConfig{Storage: "disk"},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "AUTH_MODE") || !strings.Contains(err.Error(), "SESSION_STORAGE") {
		t.Fatalf("expected both problems reported, got %v", err)
	}
}
