package eval

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"arbiter-hq/arbiter/pkg/expr/ast"
)

// compare evaluates a terminal comparison between two already-evaluated
// operands. It returns an UnsafeError rather than false when the operands
// cannot be compared.
func compare(op ast.Op, left, right any) (bool, error) {
	switch op {
	case ast.OpEqual:
		return compareEqual(left, right)

	case ast.OpNotEqual:
		eq, err := compareEqual(left, right)
		return !eq, err

	case ast.OpLessThan, ast.OpGreaterThan, ast.OpLessEqual, ast.OpGreaterEqual:
		return compareOrdered(op, left, right)

	default:
		return false, &UnsafeError{
			Reason: ReasonTypeMismatch,
			Detail: fmt.Sprintf("operator %q is not a comparison", op),
		}
	}
}

// compareEqual implements ==. String equality is case-insensitive; numeric
// operands (including numeric strings) compare numerically; anything else
// is a type mismatch, never a silent false.
func compareEqual(left, right any) (bool, error) {
	// null compares equal only to null.
	if left == nil || right == nil {
		return left == nil && right == nil, nil
	}

	ls, lIsStr := left.(string)
	rs, rIsStr := right.(string)
	if lIsStr && rIsStr {
		return strings.EqualFold(ls, rs), nil
	}

	lb, lIsBool := left.(bool)
	rb, rIsBool := right.(bool)
	if lIsBool && rIsBool {
		return lb == rb, nil
	}
	if lIsBool || rIsBool {
		return false, typeMismatch(left, right)
	}

	// Remaining combinations are numeric, or string-vs-number where the
	// string may still carry a number.
	ln, lok := toFloat(left)
	rn, rok := toFloat(right)
	if lok && rok {
		return ln == rn, nil
	}

	return false, typeMismatch(left, right)
}

// compareOrdered implements <, >, <=, >= over numeric operands. Numeric
// strings are coerced; everything else is a type mismatch.
func compareOrdered(op ast.Op, left, right any) (bool, error) {
	ln, lok := toFloat(left)
	rn, rok := toFloat(right)
	if !lok || !rok {
		return false, typeMismatch(left, right)
	}

	switch op {
	case ast.OpLessThan:
		return ln < rn, nil
	case ast.OpGreaterThan:
		return ln > rn, nil
	case ast.OpLessEqual:
		return ln <= rn, nil
	case ast.OpGreaterEqual:
		return ln >= rn, nil
	}
	return false, typeMismatch(left, right)
}

// toFloat converts numeric values and numeric strings to float64.
func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func typeMismatch(left, right any) *UnsafeError {
	return &UnsafeError{
		Reason: ReasonTypeMismatch,
		Detail: fmt.Sprintf("cannot compare %T with %T", left, right),
	}
}
