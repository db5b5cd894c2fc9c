// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"

	TracingNone   = "none"
	TracingStdout = "stdout"
	TracingOTLP   = "otlp"
)

type Config struct {
	Port           int
	LogLevel       slog.Level
	LogFormat      string
	Backend        string
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
	AllowedOrigins []string
	Tracing        string
	ServiceName    string
}

// Addr is the listen address for Port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func Default() Config {
	return Config{
		Port:           8080,
		LogLevel:       slog.LevelInfo,
		LogFormat:      "json",
		Backend:        BackendMemory,
		RateLimitBurst: 10,
		RequestTimeout: 15 * time.Second,
		AllowedOrigins: []string{"*"},
		Tracing:        TracingNone,
		ServiceName:    "taskboard",
	}
}

// Load reads the process environment.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, starting from Default. Every
// malformed variable is reported.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs []error

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("PORT"); ok {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 || p > 65535 {
			errs = append(errs, fmt.Errorf("PORT: invalid port %q", v))
		} else {
			cfg.Port = p
		}
	}

	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = parseLevel(v)
	}

	if v, ok := get("LOG_FORMAT"); ok {
		switch v = strings.ToLower(v); v {
		case "json", "text":
			cfg.LogFormat = v
		default:
			errs = append(errs, fmt.Errorf("LOG_FORMAT: must be json or text, got %q", v))
		}
	}

	if v, ok := get("TASKS_BACKEND"); ok {
		switch v = strings.ToLower(v); v {
		case BackendMemory, BackendSQLite:
			cfg.Backend = v
		default:
			errs = append(errs, fmt.Errorf("TASKS_BACKEND: must be memory or sqlite, got %q", v))
		}
	}

	if v, ok := get("RATE_LIMIT_RPS"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS: invalid value %q", v))
		} else {
			cfg.RateLimitRPS = f
		}
	}

	if v, ok := get("RATE_LIMIT_BURST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST: invalid value %q", v))
		} else {
			cfg.RateLimitBurst = n
		}
	}

	if v, ok := get("REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT: invalid duration %q", v))
		} else {
			cfg.RequestTimeout = d
		}
	}

	if v, ok := get("CORS_ALLOWED_ORIGINS"); ok {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowedOrigins = origins
	}

	if v, ok := get("TRACING_EXPORTER"); ok {
		switch v = strings.ToLower(v); v {
		case TracingNone, TracingStdout, TracingOTLP:
			cfg.Tracing = v
		default:
			errs = append(errs, fmt.Errorf("TRACING_EXPORTER: must be none, stdout or otlp, got %q", v))
		}
	}

	if v, ok := get("SERVICE_NAME"); ok {
		cfg.ServiceName = v
	}

	return cfg, errors.Join(errs...)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
