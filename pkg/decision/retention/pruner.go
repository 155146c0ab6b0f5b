// Package retention prunes resolved decision chains past their retention
// window, on demand or on a cron schedule. Only resolved chains are ever
// pruned: open and pending decisions keep their audit trail regardless of
// age.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"arbiter-hq/arbiter/pkg/decision/chain"
	"arbiter-hq/arbiter/pkg/telemetry/metrics"
)

// Config contains retention configuration.
type Config struct {
	// RetentionDays is how long resolved chains are kept. Zero disables
	// pruning entirely.
	RetentionDays int

	// Schedule is the cron expression for automatic pruning (standard
	// 5-field syntax, e.g. "0 3 * * *" for daily at 3 AM). Empty disables
	// the scheduler; Prune can still be called manually.
	Schedule string
}

// DefaultConfig returns the default retention configuration: 90 days,
// pruned daily at 3 AM.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 90,
		Schedule:      "0 3 * * *",
	}
}

// Pruner deletes resolved chains older than the retention window.
type Pruner struct {
	store   chain.Store
	config  *Config
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewPruner creates a pruner over the given chain store. The metrics
// collector may be nil.
func NewPruner(store chain.Store, config *Config, collector *metrics.Collector) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Pruner{
		store:   store,
		config:  config,
		metrics: collector,
		logger:  slog.Default().With("component", "retention.pruner"),
	}
}

// Prune runs one pruning cycle and returns the number of chains removed.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)

	pruned, err := p.store.PruneResolved(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune resolved chains: %w", err)
	}

	if pruned > 0 {
		if p.metrics != nil {
			p.metrics.Chain().RecordPruned(pruned)
		}
		p.logger.Info("pruned resolved decision chains",
			"pruned", pruned,
			"cutoff", cutoff,
		)
	}

	return pruned, nil
}
