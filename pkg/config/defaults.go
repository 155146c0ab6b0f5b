package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Rules defaults
	DefaultRulesMode    = "file"
	DefaultRulesPath    = "./rules"
	DefaultRulesBaseURL = "http://127.0.0.1:8001"
	DefaultFetchTimeout = 3 * time.Second

	// Engine defaults
	DefaultFailPolicy          = "preserve-severity"
	DefaultSimilarityThreshold = 0.4

	// Chain defaults
	DefaultChainBackend      = "memory"
	DefaultSQLitePath        = "data/chains.db"
	DefaultRetentionDays     = 90
	DefaultRetentionSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsNamespace = "arbiter"
)

// ApplyDefaults fills in default values for any zero-valued fields in the
// configuration. It is called by LoadConfig before validation.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Rules.Mode == "" {
		cfg.Rules.Mode = DefaultRulesMode
	}
	if cfg.Rules.Path == "" {
		cfg.Rules.Path = DefaultRulesPath
	}
	if cfg.Rules.BaseURL == "" {
		cfg.Rules.BaseURL = DefaultRulesBaseURL
	}
	if cfg.Rules.FetchTimeout == 0 {
		cfg.Rules.FetchTimeout = DefaultFetchTimeout
	}

	if cfg.Engine.FailPolicy == "" {
		cfg.Engine.FailPolicy = DefaultFailPolicy
	}
	if cfg.Engine.SimilarityThreshold == 0 {
		cfg.Engine.SimilarityThreshold = DefaultSimilarityThreshold
	}

	if cfg.Chain.Backend == "" {
		cfg.Chain.Backend = DefaultChainBackend
	}
	if cfg.Chain.SQLitePath == "" {
		cfg.Chain.SQLitePath = DefaultSQLitePath
	}
	if cfg.Chain.Retention.Days == 0 {
		cfg.Chain.Retention.Days = DefaultRetentionDays
	}
	if cfg.Chain.Retention.Schedule == "" {
		cfg.Chain.Retention.Schedule = DefaultRetentionSchedule
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// DefaultConfig returns a fully defaulted configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Telemetry.Metrics.Enabled = true
	return cfg
}
