package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g. "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. It implements the error interface and provides access to
// all field errors.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateRules(&cfg.Rules)...)
	errs = append(errs, validateEngine(&cfg.Engine)...)
	errs = append(errs, validateChain(&cfg.Chain)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError
	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{"server.listen_address", "must not be empty"})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{"server.shutdown_timeout", "must not be negative"})
	}
	return errs
}

func validateRules(cfg *RulesConfig) []FieldError {
	var errs []FieldError
	switch cfg.Mode {
	case "file":
		if cfg.Path == "" {
			errs = append(errs, FieldError{"rules.path", "must not be empty in file mode"})
		}
	case "http":
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, FieldError{"rules.base_url", fmt.Sprintf("invalid URL %q", cfg.BaseURL)})
		}
		if cfg.FetchTimeout <= 0 {
			errs = append(errs, FieldError{"rules.fetch_timeout", "must be positive"})
		}
	default:
		errs = append(errs, FieldError{"rules.mode", fmt.Sprintf("must be \"file\" or \"http\", got %q", cfg.Mode)})
	}
	return errs
}

func validateEngine(cfg *EngineConfig) []FieldError {
	var errs []FieldError
	switch cfg.FailPolicy {
	case "preserve-severity", "escalate-always":
	default:
		errs = append(errs, FieldError{"engine.fail_policy", fmt.Sprintf("must be \"preserve-severity\" or \"escalate-always\", got %q", cfg.FailPolicy)})
	}
	if cfg.SimilarityThreshold < 0 || cfg.SimilarityThreshold > 1 {
		errs = append(errs, FieldError{"engine.similarity_threshold", "must be in [0, 1]"})
	}
	return errs
}

func validateChain(cfg *ChainConfig) []FieldError {
	var errs []FieldError
	switch cfg.Backend {
	case "memory":
	case "sqlite":
		if cfg.SQLitePath == "" {
			errs = append(errs, FieldError{"chain.sqlite_path", "must not be empty for sqlite backend"})
		}
	default:
		errs = append(errs, FieldError{"chain.backend", fmt.Sprintf("must be \"memory\" or \"sqlite\", got %q", cfg.Backend)})
	}
	if cfg.Retention.Enabled {
		if cfg.Retention.Days <= 0 {
			errs = append(errs, FieldError{"chain.retention.days", "must be positive"})
		}
		if cfg.Retention.Schedule == "" {
			errs = append(errs, FieldError{"chain.retention.schedule", "must not be empty"})
		}
	}
	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{"telemetry.logging.level", fmt.Sprintf("unknown level %q", cfg.Logging.Level)})
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{"telemetry.logging.format", fmt.Sprintf("unknown format %q", cfg.Logging.Format)})
	}
	return errs
}
