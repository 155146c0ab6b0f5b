package rules

import "time"

// Rule is one business rule. The wire shape matches the rule store's JSON
// representation; the YAML tags serve the file-based group source.
type Rule struct {
	// ID is the rule's unique identifier within its group.
	ID string `json:"id" yaml:"id"`

	// Name is the display name.
	Name string `json:"name" yaml:"name"`

	// Feature tags the product feature the rule belongs to.
	Feature string `json:"feature" yaml:"feature"`

	// Datapoints lists the variable names the rule declares it depends on.
	Datapoints []string `json:"datapoints" yaml:"datapoints"`

	// Logic is the primary condition in legacy string form.
	Logic string `json:"rule_logic" yaml:"rule_logic"`

	// LogicJSON is the primary condition in JSON-Logic form, if the
	// authoring pipeline produced one.
	LogicJSON map[string]any `json:"rule_logic_json,omitempty" yaml:"rule_logic_json,omitempty"`

	// EdgeCases are override conditions in legacy string form, checked
	// before and capable of pre-empting the primary condition.
	EdgeCases []string `json:"edge_cases" yaml:"edge_cases"`

	// EdgeCasesJSON are the corresponding JSON-Logic forms, aligned by
	// index with EdgeCases where both exist.
	EdgeCasesJSON []map[string]any `json:"edge_cases_json,omitempty" yaml:"edge_cases_json,omitempty"`

	// CreatedAt is when the rule was authored.
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Primary returns the rule's primary condition in dual representation.
func (r *Rule) Primary() Condition {
	c := Condition{Text: r.Logic}
	if r.LogicJSON != nil {
		c.Doc = map[string]any(r.LogicJSON)
	}
	return c
}

// Overrides returns the rule's override conditions in declaration order.
// A structured form is attached to the override at the same index when one
// exists; structured-only overrides beyond the string list are appended.
func (r *Rule) Overrides() []Condition {
	n := len(r.EdgeCases)
	if len(r.EdgeCasesJSON) > n {
		n = len(r.EdgeCasesJSON)
	}

	conditions := make([]Condition, 0, n)
	for i := 0; i < n; i++ {
		var c Condition
		if i < len(r.EdgeCases) {
			c.Text = r.EdgeCases[i]
		}
		if i < len(r.EdgeCasesJSON) && r.EdgeCasesJSON[i] != nil {
			c.Doc = map[string]any(r.EdgeCasesJSON[i])
		}
		if !c.Empty() {
			conditions = append(conditions, c)
		}
	}
	return conditions
}

// Group is an ordered collection of rules plus the datapoint type
// definitions callers use to coerce raw inputs.
type Group struct {
	// ID is the group's unique identifier.
	ID string `json:"id" yaml:"id"`

	// Name is the display name.
	Name string `json:"name" yaml:"name"`

	// Description documents the group's purpose.
	Description string `json:"description" yaml:"description"`

	// Rules are evaluated in stored order.
	Rules []Rule `json:"rules" yaml:"rules"`

	// Datapoints are the declared variable type definitions. They drive
	// input coercion in collaborators, not the evaluator.
	Datapoints []DatapointDefinition `json:"datapoint_definitions,omitempty" yaml:"datapoint_definitions,omitempty"`
}
