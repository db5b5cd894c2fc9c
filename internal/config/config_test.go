package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr() != ":8080" || cfg.Backend != BackendMemory || cfg.Tracing != TracingNone {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RateLimitRPS != 0 || cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"PORT":                 "3000",
		"LOG_LEVEL":            "DEBUG",
		"LOG_FORMAT":           "text",
		"TASKS_BACKEND":        "sqlite",
		"RATE_LIMIT_RPS":       "2.5",
		"RATE_LIMIT_BURST":     "4",
		"REQUEST_TIMEOUT":      "3s",
		"CORS_ALLOWED_ORIGINS": "http://a.test, http://b.test",
		"TRACING_EXPORTER":     "stdout",
		"SERVICE_NAME":         "board",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 3000 || cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != "text" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Backend != BackendSQLite || cfg.RateLimitRPS != 2.5 || cfg.RateLimitBurst != 4 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.RequestTimeout != 3*time.Second || cfg.Tracing != TracingStdout || cfg.ServiceName != "board" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestFromLookup_ReportsAllErrors(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"PORT":          "http",
		"TASKS_BACKEND": "postgres",
	}))
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "PORT") || !strings.Contains(msg, "TASKS_BACKEND") {
		t.Fatalf("expected both variables reported, got %q", msg)
	}
}
