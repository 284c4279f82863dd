package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEmotionServerConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("EMOTION_HTTP_ADDR", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("EMOTION_FORM_CLASSIFIER", "")
	t.Setenv("EMOTION_REMOTE_TIMEOUT_SECONDS", "")
	t.Setenv("CACHE_TTL_SECONDS", "")

	cfg, err := LoadEmotionServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Env != EnvDevelopment {
		t.Fatalf("env=%s, want development", cfg.Env)
	}
	if cfg.HTTPAddr != ":5000" {
		t.Fatalf("addr=%s, want :5000", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level=%s, want debug", cfg.LogLevel)
	}
	if cfg.FormClassifier != FormClassifierRemote {
		t.Fatalf("form classifier=%s, want remote", cfg.FormClassifier)
	}
	if cfg.RemoteTimeout != 0 {
		t.Fatalf("remote timeout=%s, want 0", cfg.RemoteTimeout)
	}
	if cfg.CacheTTL != time.Hour {
		t.Fatalf("cache ttl=%s, want 1h", cfg.CacheTTL)
	}
}

func TestLoadEmotionServerConfigProductionNeedsSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SECRET_KEY", "")
	t.Setenv("LOG_LEVEL", "")
	if _, err := LoadEmotionServerConfig(); err == nil {
		t.Fatalf("expected error without SECRET_KEY")
	}

	t.Setenv("SECRET_KEY", "s3cret")
	cfg, err := LoadEmotionServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("log level=%s, want warn", cfg.LogLevel)
	}
}

func TestLoadEmotionServerConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "env", key: "APP_ENV", val: "staging"},
		{name: "classifier", key: "EMOTION_FORM_CLASSIFIER", val: "hybrid"},
		{name: "body size", key: "EMOTION_MAX_BODY_BYTES", val: "-1"},
		{name: "timeout", key: "EMOTION_REMOTE_TIMEOUT_SECONDS", val: "-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", "testing")
			t.Setenv(tt.key, tt.val)
			if _, err := LoadEmotionServerConfig(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_ENV", "testing")
	t.Setenv("EMOTION_TEST_FROM_FILE", "")
	os.Unsetenv("EMOTION_TEST_FROM_FILE")
	if err := os.WriteFile(filepath.Join(dir, ".env.testing"), []byte("EMOTION_TEST_FROM_FILE=yes\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	loaded := LoadEnvFiles(dir)
	if len(loaded) != 1 {
		t.Fatalf("loaded=%v, want only .env.testing", loaded)
	}
	if got := os.Getenv("EMOTION_TEST_FROM_FILE"); got != "yes" {
		t.Fatalf("EMOTION_TEST_FROM_FILE=%q, want yes", got)
	}
}
