package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// DatapointKind is the declared type of a context variable.
type DatapointKind string

const (
	KindText    DatapointKind = "text"
	KindNumber  DatapointKind = "number"
	KindBoolean DatapointKind = "boolean"
	KindEnum    DatapointKind = "enum"
)

// DatapointDefinition declares the name and kind of a variable a group's
// rules reference, so that collaborators (the HTTP layer, CLI tooling) can
// coerce raw string inputs before evaluation. The evaluator itself never
// consults these.
type DatapointDefinition struct {
	// Name is the variable name.
	Name string `json:"name" yaml:"name"`

	// Kind is the declared type.
	Kind DatapointKind `json:"kind" yaml:"kind"`

	// AllowedValues constrains enum datapoints.
	AllowedValues []string `json:"allowed_values,omitempty" yaml:"allowed_values,omitempty"`
}

// Coerce converts a raw string input to the declared kind. Enum values are
// matched case-insensitively and returned in their declared spelling.
func (d DatapointDefinition) Coerce(raw string) (any, error) {
	switch d.Kind {
	case KindText, "":
		return raw, nil

	case KindNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("datapoint %q: %q is not a number", d.Name, raw)
		}
		return n, nil

	case KindBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("datapoint %q: %q is not a boolean", d.Name, raw)
		}
		return b, nil

	case KindEnum:
		for _, allowed := range d.AllowedValues {
			if strings.EqualFold(raw, allowed) {
				return allowed, nil
			}
		}
		return nil, fmt.Errorf("datapoint %q: %q is not one of %v", d.Name, raw, d.AllowedValues)

	default:
		return nil, fmt.Errorf("datapoint %q: unknown kind %q", d.Name, d.Kind)
	}
}
