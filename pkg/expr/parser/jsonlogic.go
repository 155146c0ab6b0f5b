package parser

import (
	"encoding/json"
	"fmt"

	"arbiter-hq/arbiter/pkg/expr/ast"
)

// JSONError indicates a JSON-Logic document that could not be decoded into
// an expression tree.
type JSONError struct {
	Message string
}

// Error returns the error message.
func (e *JSONError) Error() string {
	return fmt.Sprintf("invalid json-logic expression: %s", e.Message)
}

// jsonOps maps JSON-Logic operator tokens onto engine operators. The strict
// JavaScript variants ("===", "!==") are folded into their two-character
// forms; the engine's comparison semantics are strict either way.
var jsonOps = map[string]ast.Op{
	"if":  ast.OpIf,
	"and": ast.OpAnd,
	"or":  ast.OpOr,
	"!":   ast.OpNot,
	"==":  ast.OpEqual,
	"===": ast.OpEqual,
	"!=":  ast.OpNotEqual,
	"!==": ast.OpNotEqual,
	"<":   ast.OpLessThan,
	">":   ast.OpGreaterThan,
	"<=":  ast.OpLessEqual,
	">=":  ast.OpGreaterEqual,
}

// ParseJSONLogic decodes a JSON-Logic document into an expression tree.
func ParseJSONLogic(data []byte) (ast.Node, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &JSONError{Message: err.Error()}
	}
	return DecodeJSONLogic(doc)
}

// DecodeJSONLogic converts an already-unmarshalled JSON-Logic value
// (map/slice/scalar as produced by encoding/json) into an expression tree.
func DecodeJSONLogic(doc any) (ast.Node, error) {
	switch v := doc.(type) {
	case nil:
		return &ast.NullLit{}, nil

	case bool:
		return &ast.BoolLit{Value: v}, nil

	case float64:
		return &ast.NumberLit{Value: v}, nil

	case string:
		return &ast.StringLit{Value: v}, nil

	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, &JSONError{Message: fmt.Sprintf("bad number %q", v.String())}
		}
		return &ast.NumberLit{Value: f}, nil

	case map[string]any:
		return decodeOperator(v)

	default:
		return nil, &JSONError{Message: fmt.Sprintf("unsupported value of type %T", doc)}
	}
}

// decodeOperator decodes a single-key operator object.
func decodeOperator(obj map[string]any) (ast.Node, error) {
	if len(obj) != 1 {
		return nil, &JSONError{Message: fmt.Sprintf("operator object must have exactly one key, got %d", len(obj))}
	}

	for token, args := range obj {
		if token == "var" {
			return decodeVar(args)
		}

		op, ok := jsonOps[token]
		if !ok {
			return nil, &JSONError{Message: fmt.Sprintf("unsupported operator %q", token)}
		}

		// Arguments are normally an array; json-logic also permits a bare
		// single argument.
		var rawChildren []any
		if list, ok := args.([]any); ok {
			rawChildren = list
		} else {
			rawChildren = []any{args}
		}

		children := make([]ast.Node, 0, len(rawChildren))
		for _, raw := range rawChildren {
			child, err := DecodeJSONLogic(raw)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}

		if err := checkArity(op, len(children)); err != nil {
			return nil, err
		}

		return &ast.OpNode{Op: op, Children: children}, nil
	}

	// Unreachable: len(obj) == 1 guarantees one iteration.
	return nil, &JSONError{Message: "empty operator object"}
}

// decodeVar decodes a {"var": ...} reference. The argument is a name
// string, or an array whose first element is the name (json-logic's
// name-plus-default form; the engine's fail-closed semantics replace
// defaults).
func decodeVar(args any) (ast.Node, error) {
	switch v := args.(type) {
	case string:
		return &ast.VarRef{Name: v}, nil
	case []any:
		if len(v) >= 1 {
			if name, ok := v[0].(string); ok {
				return &ast.VarRef{Name: name}, nil
			}
		}
	}
	return nil, &JSONError{Message: "var reference must name a variable"}
}

// checkArity rejects operator applications the evaluator cannot give
// meaning to.
func checkArity(op ast.Op, n int) error {
	switch {
	case op == ast.OpNot && n != 1:
		return &JSONError{Message: fmt.Sprintf("! takes exactly one argument, got %d", n)}
	case op.IsComparison() && n != 2:
		return &JSONError{Message: fmt.Sprintf("%s takes exactly two arguments, got %d", op, n)}
	case op == ast.OpIf && n < 2:
		return &JSONError{Message: fmt.Sprintf("if takes at least two arguments, got %d", n)}
	case (op == ast.OpAnd || op == ast.OpOr) && n == 0:
		return &JSONError{Message: fmt.Sprintf("%s takes at least one argument", op)}
	}
	return nil
}
