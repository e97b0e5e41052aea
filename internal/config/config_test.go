package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port: got %q, want %q", cfg.Port, "8080")
	}
	if cfg.Env != "development" {
		t.Errorf("Env: got %q, want %q", cfg.Env, "development")
	}
	if !cfg.IsDev() {
		t.Error("IsDev should be true for defaults")
	}
	if cfg.JWTTTL != 168*time.Hour {
		t.Errorf("JWTTTL: got %v, want %v", cfg.JWTTTL, 168*time.Hour)
	}
}

func TestLoadProductionGuards(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Error("expected error for default POSTGRES_PASSWORD in production")
	}

	t.Setenv("POSTGRES_PASSWORD", "real-password")
	if _, err := Load(); err == nil {
		t.Error("expected error for default JWT_SECRET in production")
	}

	t.Setenv("JWT_SECRET", "real-secret")
	if _, err := Load(); err != nil {
		t.Errorf("unexpected error with all production values set: %v", err)
	}
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("JWT_TTL", "not-a-duration")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid JWT_TTL")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d",
	}
	want := "postgres://u:p@h:5432/d?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "9000"}
	if got := cfg.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr: got %q, want %q", got, "127.0.0.1:9000")
	}
}
