package rules

import (
	"encoding/json"
	"errors"
	"fmt"

	"arbiter-hq/arbiter/pkg/expr/ast"
	"arbiter-hq/arbiter/pkg/expr/parser"
)

// ErrMalformedCondition indicates a condition that is unparseable in both
// supported forms. By design a malformed rule behaves as NoMatch: it must
// not silently become permissive, and it must not crash the evaluation of
// the rest of the group.
var ErrMalformedCondition = errors.New("condition is unparseable in both supported forms")

// Condition is one rule condition in its dual representation: the legacy
// pattern string rule authors write, and the equivalent JSON-Logic document
// produced by the authoring pipeline. Either form may be absent.
type Condition struct {
	// Text is the legacy "IF <field> <op> <value> THEN <OUTCOME>" form.
	Text string

	// Doc is the structured JSON-Logic form as decoded JSON (map/slice/scalar).
	Doc any
}

// Tree parses the condition into an expression tree. The structured form is
// preferred; the legacy string is parsed into the same tree shape when the
// structured form is absent or invalid. ErrMalformedCondition is returned
// when neither form parses.
func (c Condition) Tree() (ast.Node, error) {
	if c.Doc != nil {
		tree, err := parser.DecodeJSONLogic(c.Doc)
		if err == nil {
			return tree, nil
		}
		// Fall through to the legacy form; a broken structured document
		// should not take down a rule that still carries a valid string.
	}

	if c.Text != "" {
		tree, err := parser.ParseLegacy(c.Text)
		if err == nil {
			return tree, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrMalformedCondition, c.Source())
}

// Empty reports whether the condition carries no representation at all.
func (c Condition) Empty() bool {
	return c.Text == "" && c.Doc == nil
}

// Source returns the literal expression text used for firing provenance:
// the legacy string when present, otherwise the compact JSON rendering of
// the structured form.
func (c Condition) Source() string {
	if c.Text != "" {
		return c.Text
	}
	if c.Doc == nil {
		return ""
	}
	data, err := json.Marshal(c.Doc)
	if err != nil {
		return fmt.Sprintf("%v", c.Doc)
	}
	return string(data)
}
