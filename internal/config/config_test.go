package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.DatabaseDriver != "sqlite" {
		t.Errorf("expected sqlite driver, got %s", cfg.DatabaseDriver)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token ttl, got %v", cfg.TokenTTL)
	}
	if cfg.RequirePayment {
		t.Error("expected payment gate to be off by default")
	}
	if cfg.CapacityGuard != "transaction" {
		t.Errorf("expected transaction guard, got %s", cfg.CapacityGuard)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("REQUIRE_PAYMENT", "true")
	t.Setenv("CAPACITY_GUARD", "none")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Errorf("expected JWT secret from env, got %q", cfg.JWTSecret)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("expected 2h token ttl, got %v", cfg.TokenTTL)
	}
	if !cfg.RequirePayment {
		t.Error("expected payment gate to be on")
	}
	if cfg.CapacityGuard != "none" {
		t.Errorf("expected none guard, got %s", cfg.CapacityGuard)
	}
}

func TestLoadConfig_InvalidGuard(t *testing.T) {
	t.Setenv("CAPACITY_GUARD", "optimistic")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown capacity guard, got nil")
	}
}
