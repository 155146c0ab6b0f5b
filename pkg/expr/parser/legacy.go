package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"arbiter-hq/arbiter/pkg/decision"
	"arbiter-hq/arbiter/pkg/expr/ast"
)

// ErrNoParse indicates an expression does not fit the legacy grammar.
// Downstream this is not an error condition: a non-matching legacy
// expression simply yields NoMatch for the rule.
var ErrNoParse = errors.New("expression does not match the legacy rule grammar")

// legacyPattern matches "IF <field> <op> <value> THEN <OUTCOME>".
// Keywords and the outcome token are case-insensitive. Multi-character
// operators must come first so ">=" is not consumed as ">".
var legacyPattern = regexp.MustCompile(`(?i)^\s*IF\s+(\w+)\s*(>=|<=|!=|==|=|>|<)\s*(.+?)\s+THEN\s+(\w+)\s*$`)

// ParseLegacy parses a legacy string rule into an expression tree of the
// shape if(cmp(var(field), value), OUTCOME, null), identical to the tree
// an equivalent JSON-Logic document decodes to. It returns ErrNoParse when
// the string does not fit the grammar or names an unknown outcome token.
func ParseLegacy(expr string) (ast.Node, error) {
	m := legacyPattern.FindStringSubmatch(expr)
	if m == nil {
		return nil, ErrNoParse
	}

	field, op, rawValue, outcomeToken := m[1], m[2], m[3], m[4]

	// "=" is what rule authors (and LLM translators) tend to write for
	// equality; treat it as "==".
	if op == "=" {
		op = "=="
	}

	outcome, ok := decision.ParseOutcome(outcomeToken)
	if !ok {
		return nil, ErrNoParse
	}

	cmp := &ast.OpNode{
		Op:       ast.Op(op),
		Children: []ast.Node{&ast.VarRef{Name: field}, parseLegacyValue(rawValue)},
	}

	return &ast.OpNode{
		Op: ast.OpIf,
		Children: []ast.Node{
			cmp,
			&ast.StringLit{Value: string(outcome)},
			&ast.NullLit{},
		},
	}, nil
}

// parseLegacyValue interprets the value token: a quoted string literal, a
// number, or a bare token treated as a string.
func parseLegacyValue(raw string) ast.Node {
	raw = strings.TrimSpace(raw)

	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return &ast.StringLit{Value: raw[1 : len(raw)-1]}
		}
	}

	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return &ast.NumberLit{Value: n}
	}

	return &ast.StringLit{Value: raw}
}
