package engine

import (
	"fmt"

	"arbiter-hq/arbiter/pkg/expr/eval"
)

// Config contains configuration for the rule-set engine.
type Config struct {
	// FailPolicy selects the fail-closed conversion policy for unsafe
	// evaluations. Default: eval.FailPreserveSeverity.
	FailPolicy eval.FailPolicy

	// SimilarityThreshold is the minimum similarity (0..1) the variable
	// resolver requires of a fuzzy alias candidate. Default: 0.4.
	SimilarityThreshold float64
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		FailPolicy:          eval.FailPreserveSeverity,
		SimilarityThreshold: 0.4,
	}
}

// Validate validates the engine configuration.
func (c *Config) Validate() error {
	if !c.FailPolicy.Valid() {
		return fmt.Errorf("invalid fail policy %q", c.FailPolicy)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be within [0, 1], got %v", c.SimilarityThreshold)
	}
	return nil
}
