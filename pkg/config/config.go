package config

import "time"

// Config is the root configuration structure for Arbiter. It contains
// all configuration sections for the HTTP server, rule sources, the
// evaluation engine, the decision chain store, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address
	// and timeouts.
	Server ServerConfig `yaml:"server"`

	// Rules contains configuration for the rule group source (file
	// directory or remote HTTP rule store).
	Rules RulesConfig `yaml:"rules"`

	// Engine contains configuration for the evaluation engine including
	// the fail-closed policy and the variable resolver threshold.
	Engine EngineConfig `yaml:"engine"`

	// Chain contains configuration for decision chain storage and
	// retention.
	Chain ChainConfig `yaml:"chain"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RulesConfig contains configuration for the rule group source.
type RulesConfig struct {
	// Mode selects the rule source: "file" loads rule groups from a
	// directory of YAML files, "http" fetches them from a remote rule
	// store on demand.
	// Default: "file"
	Mode string `yaml:"mode"`

	// Path is the directory containing rule group YAML files (file mode).
	// Default: "./rules"
	Path string `yaml:"path"`

	// Watch enables hot reload of the rules directory (file mode).
	// Default: false
	Watch bool `yaml:"watch"`

	// BaseURL is the base URL of the remote rule store (http mode).
	// Default: "http://127.0.0.1:8001"
	BaseURL string `yaml:"base_url"`

	// FetchTimeout bounds each remote fetch (http mode).
	// Default: 3s
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// EngineConfig contains configuration for the evaluation engine.
type EngineConfig struct {
	// FailPolicy selects how unsafe evaluations (missing variables, type
	// mismatches) are converted to outcomes: "preserve-severity" keeps
	// DENY for rules that declare DENY and escalates everything else,
	// "escalate-always" converts every unsafe evaluation to ESCALATE.
	// Default: "preserve-severity"
	FailPolicy string `yaml:"fail_policy"`

	// SimilarityThreshold is the minimum similarity score for the fuzzy
	// variable resolver's edit-distance fallback, in [0, 1].
	// Default: 0.4
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
}

// ChainConfig contains configuration for decision chain storage.
type ChainConfig struct {
	// Backend selects the chain store: "memory" or "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLitePath is the SQLite database file path (sqlite backend).
	// Default: "data/chains.db"
	SQLitePath string `yaml:"sqlite_path"`

	// Retention contains configuration for pruning resolved chains.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig contains configuration for chain retention.
type RetentionConfig struct {
	// Enabled toggles scheduled pruning of resolved chains.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Days is the age in days past which resolved chains are pruned.
	// Default: 90
	Days int `yaml:"days"`

	// Schedule is the cron schedule for retention runs.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json" or "text").
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled toggles the /metrics endpoint.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the prefix for all metric names.
	// Default: "arbiter"
	Namespace string `yaml:"namespace"`

	// Subsystem is the secondary prefix for all metric names.
	// Default: ""
	Subsystem string `yaml:"subsystem"`
}
