package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "DATABASE_URL", "REDIS_ADDR", "SESSION_TTL",
		"COLLABORATOR_TIMEOUT", "PAYMENT_LINK_BASE_URL", "PAYMENT_CURRENCY", "CORS_ALLOWED_ORIGINS",
		"ASSISTANT_RATE_LIMIT", "ASSISTANT_RATE_BURST"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected default session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.CollaboratorTimeout != 10*time.Second {
		t.Fatalf("expected default collaborator timeout, got %s", cfg.CollaboratorTimeout)
	}
	if cfg.PaymentCurrency != "INR" {
		t.Fatalf("expected INR default currency, got %s", cfg.PaymentCurrency)
	}
	if cfg.UsePostgres() || cfg.UseRedis() {
		t.Fatalf("expected memory-backed defaults")
	}
	if cfg.AssistantRateLimit != 2 || cfg.AssistantRateBurst != 5 {
		t.Fatalf("unexpected default rate limit %v/%d", cfg.AssistantRateLimit, cfg.AssistantRateBurst)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("COLLABORATOR_TIMEOUT", "3s")
	t.Setenv("PAYMENT_LINK_BASE_URL", "https://pay.example.com/links/")
	t.Setenv("PAYMENT_CURRENCY", "usd")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DEFAULT_SESSION_MINUTES", "45")
	t.Setenv("ASSISTANT_RATE_LIMIT", "0.5")
	t.Setenv("ASSISTANT_RATE_BURST", "3")
	cfg := Load()
	if cfg.Port != "9090" || cfg.Env != "production" {
		t.Fatalf("unexpected port/env %s/%s", cfg.Port, cfg.Env)
	}
	if !cfg.UsePostgres() || !cfg.UseRedis() {
		t.Fatalf("expected postgres and redis to be enabled")
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected session ttl override, got %s", cfg.SessionTTL)
	}
	if cfg.CollaboratorTimeout != 3*time.Second {
		t.Fatalf("expected timeout override, got %s", cfg.CollaboratorTimeout)
	}
	if cfg.PaymentLinkBaseURL != "https://pay.example.com/links" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.PaymentLinkBaseURL)
	}
	if cfg.PaymentCurrency != "USD" {
		t.Fatalf("expected upper-cased currency, got %s", cfg.PaymentCurrency)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.DefaultSessionMinutes != 45 {
		t.Fatalf("expected default minutes override, got %d", cfg.DefaultSessionMinutes)
	}
	if cfg.AssistantRateLimit != 0.5 || cfg.AssistantRateBurst != 3 {
		t.Fatalf("unexpected rate limit %v/%d", cfg.AssistantRateLimit, cfg.AssistantRateBurst)
	}
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("COLLABORATOR_TIMEOUT", "-5s")
	cfg := Load()
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected fallback ttl, got %s", cfg.SessionTTL)
	}
	if cfg.CollaboratorTimeout != 10*time.Second {
		t.Fatalf("expected fallback timeout, got %s", cfg.CollaboratorTimeout)
	}
}
