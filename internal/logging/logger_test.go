package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q)=%s, want %s", in, got, want)
		}
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	var buf bytes.Buffer
	logger := New(&buf, "warn")
	logger.Info("hidden message")
	logger.Warn("visible message", "key", "value")
	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, "visible message") {
		t.Fatalf("warn line missing: %s", out)
	}
}
