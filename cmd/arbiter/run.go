package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"arbiter-hq/arbiter/pkg/center"
	"arbiter-hq/arbiter/pkg/config"
	"arbiter-hq/arbiter/pkg/decision/chain"
	"arbiter-hq/arbiter/pkg/decision/retention"
	"arbiter-hq/arbiter/pkg/engine"
	"arbiter-hq/arbiter/pkg/expr/eval"
	"arbiter-hq/arbiter/pkg/rules/source"
	"arbiter-hq/arbiter/pkg/server"
	"arbiter-hq/arbiter/pkg/telemetry/logging"
	"arbiter-hq/arbiter/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Arbiter decision server",
	Long: `Start the Arbiter decision server with the specified configuration.

The server evaluates request contexts against rule groups loaded from a
directory of YAML files or fetched from a remote rule store, records every
decision chain, and queues escalated decisions for approval.

Examples:
  # Start with the config.yaml in the working directory
  arbiter run

  # Start with a specific config file
  arbiter run --config /etc/arbiter/config.yaml

  # Override listen address
  arbiter run --listen 0.0.0.0:8080

  # Validate config without starting server
  arbiter run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.Setup(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	})
	if err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Println("configuration valid")
		return nil
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Rule source
	src, watcher, err := buildSource(cfg)
	if err != nil {
		return err
	}
	if watcher != nil {
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				logger.Error("rule watcher stopped", "error", err)
			}
		}()
	}

	// Chain store
	store, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// Metrics
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(metrics.Config{
			Enabled:   true,
			Namespace: cfg.Telemetry.Metrics.Namespace,
			Subsystem: cfg.Telemetry.Metrics.Subsystem,
		}, nil)
	}

	// Engine + service
	engineCfg := &engine.Config{
		FailPolicy:          eval.FailPolicy(cfg.Engine.FailPolicy),
		SimilarityThreshold: cfg.Engine.SimilarityThreshold,
	}
	if err := engineCfg.Validate(); err != nil {
		return err
	}
	service := center.New(src, engine.New(engineCfg), store, collector)

	// Seed the pending gauge: with a persistent backend, unresolved
	// decisions survive restarts and must be counted before any resolution
	// decrements the gauge.
	if collector != nil {
		pending, err := store.ListPending(ctx)
		if err != nil {
			return fmt.Errorf("failed to list pending decisions: %w", err)
		}
		collector.Chain().SetPending(len(pending))
	}

	// Retention
	if cfg.Chain.Retention.Enabled {
		pruner := retention.NewPruner(store, &retention.Config{
			RetentionDays: cfg.Chain.Retention.Days,
			Schedule:      cfg.Chain.Retention.Schedule,
		}, collector)
		scheduler := retention.NewScheduler(pruner)
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start retention scheduler: %w", err)
		}
		defer scheduler.Stop()
	}

	srv := server.NewServer(&cfg.Server, service, collector)
	return srv.Start(ctx)
}

func buildSource(cfg *config.Config) (source.Source, *source.Watcher, error) {
	switch cfg.Rules.Mode {
	case "file":
		fs, err := source.NewFileSource(cfg.Rules.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load rules from %q: %w", cfg.Rules.Path, err)
		}
		if !cfg.Rules.Watch {
			return fs, nil, nil
		}
		w, err := source.NewWatcher(fs, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to watch rules directory: %w", err)
		}
		return fs, w, nil
	case "http":
		return source.NewHTTPSource(&source.HTTPConfig{
			BaseURL: cfg.Rules.BaseURL,
			Timeout: cfg.Rules.FetchTimeout,
		}), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown rules mode %q", cfg.Rules.Mode)
	}
}

func buildStore(cfg *config.Config) (chain.Store, error) {
	switch cfg.Chain.Backend {
	case "memory":
		return chain.NewMemoryStore(), nil
	case "sqlite":
		sqliteCfg := chain.DefaultSQLiteConfig()
		sqliteCfg.Path = cfg.Chain.SQLitePath
		store, err := chain.NewSQLiteStore(sqliteCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open chain database: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown chain backend %q", cfg.Chain.Backend)
	}
}
