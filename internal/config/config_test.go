package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsWithoutServices(t *testing.T) {
	t.Setenv("MINIO_ACCESS_KEY_ID", "")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Export.Scale != 2 {
		t.Fatalf("expected default scale 2, got %v", cfg.Export.Scale)
	}
	if cfg.Export.Hold() != 1500*time.Millisecond {
		t.Fatalf("unexpected hold %v", cfg.Export.Hold())
	}
	if cfg.Editor.DefaultTheme != "Modern Professional" {
		t.Fatalf("unexpected default theme %q", cfg.Editor.DefaultTheme)
	}
	if err := cfg.ValidateServices(); err == nil || !strings.Contains(err.Error(), "minio access key") {
		t.Fatalf("expected minio credential error, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("EXPORT_SCALE", "3")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("EDITOR_DEFAULT_THEME", "Tri Panel")
	t.Setenv("MINIO_ACCESS_KEY_ID", "key")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "secret")
	t.Setenv("API_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("API_ENQUEUE_LIMIT", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Export.Scale != 3 || cfg.Redis.Addr() != "localhost:6380" || cfg.Editor.DefaultTheme != "Tri Panel" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if len(cfg.API.AllowedOrigins) != 2 || cfg.API.AllowedOrigins[1] != "https://b.example" || cfg.API.EnqueueLimit != 5 {
		t.Fatalf("api env not applied: %+v", cfg.API)
	}
	if err := cfg.ValidateServices(); err != nil {
		t.Fatalf("validate services: %v", err)
	}
}

func TestLoadRejectsBadScale(t *testing.T) {
	t.Setenv("EXPORT_SCALE", "9")
	if _, err := Load(); err == nil {
		t.Fatal("expected scale error")
	}
}
