package eval

import (
	"strings"

	"arbiter-hq/arbiter/pkg/decision"
	"arbiter-hq/arbiter/pkg/expr/ast"
)

// FailPolicy selects which restrictive outcome a fail-closed conversion
// produces. The rule history shows both policies in production use, so the
// choice is a parameter rather than a constant.
type FailPolicy string

const (
	// FailPreserveSeverity fails closed to DENY for rules whose own declared
	// outcome is DENY, and to ESCALATE for everything else. A rule that
	// would reject on match also rejects when its inputs are unusable.
	// This is the default.
	FailPreserveSeverity FailPolicy = "preserve-severity"

	// FailEscalateAlways fails closed to ESCALATE regardless of the rule's
	// declared outcome, always routing unsafe evaluations to a human.
	FailEscalateAlways FailPolicy = "escalate-always"
)

// Valid reports whether p is a known fail policy.
func (p FailPolicy) Valid() bool {
	return p == FailPreserveSeverity || p == FailEscalateAlways
}

// Result is the outcome of evaluating one expression against one context.
type Result struct {
	// Matched is false for NoMatch: the condition evaluated safely and the
	// rule does not apply. Outcome is meaningless when Matched is false.
	Matched bool

	// Outcome is the outcome the expression produced, or the fail-closed
	// outcome when FailClosed is set.
	Outcome decision.Outcome

	// FailClosed is true when the expression could not be evaluated safely
	// and the outcome was forced by the fail policy.
	FailClosed bool

	// FailReason is the unsafe-evaluation classification when FailClosed is
	// set, for diagnostics and metrics ("missing_variable", "type_mismatch").
	FailReason UnsafeReason
}

// NoMatch is the Result of a condition that did not apply.
var NoMatch = Result{}

// Evaluator evaluates expression trees. It is stateless apart from the
// configured fail policy and safe for concurrent use.
type Evaluator struct {
	policy FailPolicy
}

// New creates an evaluator with the given fail policy. An unknown policy
// falls back to FailPreserveSeverity.
func New(policy FailPolicy) *Evaluator {
	if !policy.Valid() {
		policy = FailPreserveSeverity
	}
	return &Evaluator{policy: policy}
}

// Policy returns the configured fail policy.
func (e *Evaluator) Policy() FailPolicy { return e.policy }

// Evaluate evaluates the tree against the context. The tree is expected to
// produce an outcome token or the null no-match sentinel; any other safe
// result is treated as NoMatch so a broken rule cannot become permissive by
// crashing or restrictive by accident.
//
// Unsafe evaluations (missing variable, incomparable types) never surface
// as errors: they are converted to a fail-closed Result per the policy.
func (e *Evaluator) Evaluate(tree ast.Node, ctx map[string]any) Result {
	if tree == nil {
		return NoMatch
	}

	value, err := evalValue(tree, ctx)
	if err != nil {
		return e.failClosed(tree, err)
	}

	switch v := value.(type) {
	case nil:
		return NoMatch
	case string:
		if outcome, ok := decision.ParseOutcome(v); ok {
			return Result{Matched: true, Outcome: outcome}
		}
		return NoMatch
	case bool:
		// A bare boolean tree has no outcome to offer; false is plainly
		// NoMatch, and true without an outcome token cannot force anything.
		return NoMatch
	default:
		return NoMatch
	}
}

// failClosed converts an unsafe evaluation into a concrete outcome.
func (e *Evaluator) failClosed(tree ast.Node, err error) Result {
	reason := ReasonTypeMismatch
	if unsafe, ok := err.(*UnsafeError); ok {
		reason = unsafe.Reason
	}

	outcome := decision.OutcomeEscalate
	if e.policy == FailPreserveSeverity && DeclaredOutcome(tree) == decision.OutcomeDeny {
		outcome = decision.OutcomeDeny
	}

	return Result{
		Matched:    true,
		Outcome:    outcome,
		FailClosed: true,
		FailReason: reason,
	}
}

// DeclaredOutcome returns the most restrictive outcome the tree can
// produce, determined by walking outcome tokens in result positions of
// if-nodes. It is the rule's "declared outcome severity" used by the
// severity-preserving fail policy. Trees with no reachable outcome token
// declare ESCALATE, the conservative floor.
func DeclaredOutcome(tree ast.Node) decision.Outcome {
	outcomes := collectDeclared(tree)
	if len(outcomes) == 0 {
		return decision.OutcomeEscalate
	}
	return decision.MostRestrictive(outcomes)
}

// collectDeclared gathers outcome tokens from result positions, recursing
// through nested if-nodes. Comparison operands are deliberately not
// considered: a rule comparing a variable against the string "DENY" does
// not declare a deny outcome.
func collectDeclared(node ast.Node) []decision.Outcome {
	var out []decision.Outcome

	switch n := node.(type) {
	case *ast.StringLit:
		if o, ok := decision.ParseOutcome(n.Value); ok {
			out = append(out, o)
		}

	case *ast.OpNode:
		if n.Op != ast.OpIf {
			return nil
		}
		for _, result := range ifResults(n) {
			out = append(out, collectDeclared(result)...)
		}
	}

	return out
}

// ifResults returns the result-position children of an if-node:
// [c1, r1, c2, r2, ..., default]: the odd indices plus the trailing
// default when the arity is odd.
func ifResults(n *ast.OpNode) []ast.Node {
	var results []ast.Node
	for i := 1; i < len(n.Children); i += 2 {
		results = append(results, n.Children[i])
	}
	if len(n.Children)%2 == 1 {
		results = append(results, n.Children[len(n.Children)-1])
	}
	return results
}

// evalValue recursively evaluates a node to a Go value (float64, string,
// bool, nil). Unsafe situations return an *UnsafeError.
func evalValue(node ast.Node, ctx map[string]any) (any, error) {
	switch n := node.(type) {
	case *ast.BoolLit:
		return n.Value, nil
	case *ast.StringLit:
		return n.Value, nil
	case *ast.NumberLit:
		return n.Value, nil
	case *ast.NullLit:
		return nil, nil

	case *ast.VarRef:
		return lookupVar(n.Name, ctx)

	case *ast.OpNode:
		return evalOp(n, ctx)

	default:
		return nil, &UnsafeError{Reason: ReasonTypeMismatch, Detail: "unknown node type"}
	}
}

// evalOp evaluates an operator node.
func evalOp(n *ast.OpNode, ctx map[string]any) (any, error) {
	switch {
	case n.Op == ast.OpIf:
		return evalIf(n, ctx)

	case n.Op == ast.OpAnd:
		for _, child := range n.Children {
			ok, err := evalBool(child, ctx)
			if err != nil {
				return nil, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	case n.Op == ast.OpOr:
		for _, child := range n.Children {
			ok, err := evalBool(child, ctx)
			if err != nil {
				return nil, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case n.Op == ast.OpNot:
		ok, err := evalBool(n.Children[0], ctx)
		if err != nil {
			return nil, err
		}
		return !ok, nil

	case n.Op.IsComparison():
		left, err := evalValue(n.Children[0], ctx)
		if err != nil {
			return nil, err
		}
		right, err := evalValue(n.Children[1], ctx)
		if err != nil {
			return nil, err
		}
		return compare(n.Op, left, right)

	default:
		return nil, &UnsafeError{
			Reason: ReasonTypeMismatch,
			Detail: "unsupported operator " + string(n.Op),
		}
	}
}

// evalIf walks condition/result pairs, returning the first result whose
// condition holds, then the default, then nil.
func evalIf(n *ast.OpNode, ctx map[string]any) (any, error) {
	i := 0
	for ; i+1 < len(n.Children); i += 2 {
		ok, err := evalBool(n.Children[i], ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			return evalValue(n.Children[i+1], ctx)
		}
	}
	if i < len(n.Children) {
		// Trailing default.
		return evalValue(n.Children[i], ctx)
	}
	return nil, nil
}

// evalBool evaluates a node in condition position and applies json-logic
// truthiness. Unsafe errors propagate: a condition that cannot be evaluated
// must never silently become false.
func evalBool(node ast.Node, ctx map[string]any) (bool, error) {
	v, err := evalValue(node, ctx)
	if err != nil {
		return false, err
	}
	switch val := v.(type) {
	case bool:
		return val, nil
	case nil:
		return false, nil
	case float64:
		return val != 0, nil
	case string:
		return val != "", nil
	default:
		return false, nil
	}
}

// lookupVar resolves a variable from the context, tolerating case drift in
// key names. A missing variable is an unsafe evaluation.
func lookupVar(name string, ctx map[string]any) (any, error) {
	if v, ok := ctx[name]; ok {
		return normalize(v), nil
	}
	// Case drift fallback. Pick the lexicographically smallest folded match
	// so the lookup stays deterministic regardless of map iteration order.
	var bestKey string
	for key := range ctx {
		if strings.EqualFold(key, name) && (bestKey == "" || key < bestKey) {
			bestKey = key
		}
	}
	if bestKey != "" {
		return normalize(ctx[bestKey]), nil
	}
	return nil, &UnsafeError{
		Reason:   ReasonMissingVariable,
		Variable: name,
		Detail:   "variable not present in context",
	}
}

// normalize widens context scalars to the evaluator's value domain.
func normalize(v any) any {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case float32:
		return float64(val)
	default:
		return v
	}
}
