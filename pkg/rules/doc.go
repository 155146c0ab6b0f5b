// Package rules defines the business-rule model: rules with dual-form
// conditions (legacy pattern strings and JSON-Logic documents), rule
// groups, and the datapoint type definitions groups may declare for input
// coercion by collaborators.
//
// Rules are immutable once fetched for an evaluation; nothing in the
// decision path mutates them.
package rules
