// Package decision defines the core domain types for the Arbiter decision
// engine: the three-valued Outcome with its total restrictiveness order, the
// Decision produced by a single evaluation, and the append-only decision
// chain types used for auditing and the human-approval lifecycle.
//
// The package is intentionally dependency-free so that every other package
// (evaluator, rule-set engine, chain stores, HTTP layer) can share these
// types without import cycles.
package decision
