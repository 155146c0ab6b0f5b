package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config contains configuration for metric collection.
type Config struct {
	// Enabled toggles metric collection. The Collector still exists when
	// disabled so call sites stay unconditional; metrics simply are not
	// registered or exported.
	Enabled bool `yaml:"enabled"`

	// Namespace is the prefix for all metric names.
	Namespace string `yaml:"namespace"`

	// Subsystem is the secondary prefix for all metric names.
	Subsystem string `yaml:"subsystem"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Namespace: "arbiter",
	}
}

// Collector owns the Prometheus registry and all metric sets.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	evaluation *EvaluationMetrics
	chain      *ChainMetrics
}

// NewCollector creates a collector and registers all metric sets. A nil
// registry gets a fresh one including the standard Go runtime collectors.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return &Collector{
		config:     cfg,
		registry:   registry,
		evaluation: NewEvaluationMetrics(cfg, registry),
		chain:      NewChainMetrics(cfg, registry),
	}
}

// Evaluation returns the evaluation metric set.
func (c *Collector) Evaluation() *EvaluationMetrics { return c.evaluation }

// Chain returns the decision-chain metric set.
func (c *Collector) Chain() *ChainMetrics { return c.chain }

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler returns an HTTP handler exposing the registry in the standard
// Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
