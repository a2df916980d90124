package config

import (
	"fmt"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg and returns a *ValidationError listing every problem.
// A missing API key is not an error here; commands that call the model check it.
func Validate(cfg *Config) error {
	ve := &ValidationError{}

	if cfg.Storage.Path == "" {
		ve.Add("storage.path must not be empty")
	}

	if cfg.LLM.APIURL == "" {
		ve.Add("llm.api_url must not be empty")
	}
	if cfg.LLM.Timeout <= 0 {
		ve.Add("llm.timeout must be > 0")
	}
	if cfg.LLM.RequestsPerMinute < 0 {
		ve.Add("llm.requests_per_minute must be >= 0")
	}
	if cb := cfg.LLM.CircuitBreaker; cb.Enabled {
		if cb.MaxFailures <= 0 {
			ve.Add("llm.circuit_breaker.max_failures must be > 0")
		}
		if cb.Timeout <= 0 {
			ve.Add("llm.circuit_breaker.timeout must be > 0")
		}
	}

	if cfg.Server.Addr == "" {
		ve.Add("server.addr must not be empty")
	}

	switch cfg.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		ve.Add("logger.level %q is not one of debug, info, warn, error", cfg.Logger.Level)
	}
	switch cfg.Logger.Format {
	case "json", "console", "text":
	default:
		ve.Add("logger.format %q is not one of json, console", cfg.Logger.Format)
	}

	if cfg.Tracer.Enabled {
		switch cfg.Tracer.Exporter {
		case "stdout", "noop":
		default:
			ve.Add("tracer.exporter %q is not one of stdout, noop", cfg.Tracer.Exporter)
		}
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}
