package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is an operator in an expression tree.
type Op string

const (
	// OpIf is the conditional operator. Children alternate condition/result
	// pairs followed by an optional default: [c1, r1, c2, r2, ..., default].
	OpIf Op = "if"

	// OpAnd is logical conjunction over all children.
	OpAnd Op = "and"

	// OpOr is logical disjunction over all children.
	OpOr Op = "or"

	// OpNot is logical negation of a single child.
	OpNot Op = "!"

	OpEqual        Op = "=="
	OpNotEqual     Op = "!="
	OpLessThan     Op = "<"
	OpGreaterThan  Op = ">"
	OpLessEqual    Op = "<="
	OpGreaterEqual Op = ">="
)

// comparison operators, the terminal nodes of rule logic.
var comparisonOps = map[Op]bool{
	OpEqual:        true,
	OpNotEqual:     true,
	OpLessThan:     true,
	OpGreaterThan:  true,
	OpLessEqual:    true,
	OpGreaterEqual: true,
}

// IsComparison reports whether op is a terminal comparison operator.
func (op Op) IsComparison() bool {
	return comparisonOps[op]
}

// IsLogical reports whether op is a boolean combinator.
func (op Op) IsLogical() bool {
	return op == OpAnd || op == OpOr || op == OpNot
}

// Node is one node of an expression tree.
type Node interface {
	fmt.Stringer
	node()
}

// BoolLit is a boolean literal.
type BoolLit struct {
	Value bool
}

// StringLit is a string literal. Outcome tokens in result positions are
// plain string literals; they are interpreted by the evaluator, not here.
type StringLit struct {
	Value string
}

// NumberLit is a numeric literal. All numbers are float64, matching both
// JSON and the legacy grammar.
type NumberLit struct {
	Value float64
}

// NullLit is the null literal, used by edge-case expressions as the
// "rule does not apply" sentinel.
type NullLit struct{}

// VarRef references a context variable by name.
type VarRef struct {
	Name string
}

// OpNode applies an operator to its children.
type OpNode struct {
	Op       Op
	Children []Node
}

func (*BoolLit) node()   {}
func (*StringLit) node() {}
func (*NumberLit) node() {}
func (*NullLit) node()   {}
func (*VarRef) node()    {}
func (*OpNode) node()    {}

func (n *BoolLit) String() string   { return strconv.FormatBool(n.Value) }
func (n *StringLit) String() string { return strconv.Quote(n.Value) }
func (n *NumberLit) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (n *NullLit) String() string   { return "null" }
func (n *VarRef) String() string    { return "var(" + n.Name + ")" }

func (n *OpNode) String() string {
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.String()
	}
	return string(n.Op) + "(" + strings.Join(parts, ", ") + ")"
}
