// Package config provides configuration loading, defaulting, and
// validation for Arbiter.
//
// Configuration is read from a YAML file, defaulted via ApplyDefaults,
// optionally overridden by ARBITER_* environment variables, and checked
// by Validate. Validation collects every failing field into a single
// ValidationError rather than stopping at the first problem.
package config
