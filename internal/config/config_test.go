package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.DatasetPath != "data/orders.csv" {
		t.Fatalf("unexpected dataset path %q", cfg.DatasetPath)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("unexpected request timeout %v", cfg.RequestTimeout)
	}
	if cfg.RawRowsLimit != 500 {
		t.Fatalf("unexpected raw rows limit %d", cfg.RawRowsLimit)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ADMIN_KEY", "secret")
	t.Setenv("MODEL_URL", "http://model:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected env port 9090, got %q", cfg.Port)
	}
	if cfg.AdminKey != "secret" {
		t.Fatalf("expected env admin key, got %q", cfg.AdminKey)
	}
	if cfg.ModelURL != "http://model:9000" {
		t.Fatalf("expected env model URL, got %q", cfg.ModelURL)
	}
}
