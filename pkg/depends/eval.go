package depends

import (
	"fmt"
	"strconv"
	"strings"
)

// Evaluate runs a parsed expression against a field-value mapping. A nil
// expression evaluates to true. Undefined field references resolve to a
// defined empty value that compares false to every equality and membership
// check, so evaluation never fails at runtime.
func Evaluate(expr *Expr, values map[string]any) bool {
	if expr == nil {
		return true
	}
	return evalExpr(expr, values)
}

func evalExpr(e *Expr, values map[string]any) bool {
	if e == nil {
		return true
	}
	if evalAnd(e.Left, values) {
		return true
	}
	for _, term := range e.Right {
		if term != nil && evalAnd(term.Expr, values) {
			return true
		}
	}
	return false
}

func evalAnd(a *AndExpr, values map[string]any) bool {
	if a == nil {
		return true
	}
	if !evalPrimary(a.Left, values) {
		return false
	}
	for _, term := range a.Right {
		if term == nil || !evalPrimary(term.Expr, values) {
			return false
		}
	}
	return true
}

func evalPrimary(p *Primary, values map[string]any) bool {
	if p == nil {
		return false
	}
	if p.Group != nil {
		return evalExpr(p.Group, values)
	}
	return evalComparison(p.Comparison, values)
}

func evalComparison(c *Comparison, values map[string]any) bool {
	if c == nil {
		return false
	}
	value, defined := lookup(values, c.Field)

	if c.Tail == nil {
		return defined && truthy(value)
	}

	if m := c.Tail.Membership; m != nil {
		found := false
		if defined {
			for _, lit := range m.List {
				if literalEquals(lit, value) {
					found = true
					break
				}
			}
		}
		if m.Not {
			return !found
		}
		return found
	}

	b := c.Tail.Binary
	if b == nil {
		return false
	}
	switch b.Op {
	case "==":
		return defined && literalEquals(b.Value, value)
	case "!=":
		return !defined || !literalEquals(b.Value, value)
	case "<", "<=", ">", ">=":
		if !defined {
			return false
		}
		got, ok := coerceNumber(value)
		if !ok {
			return false
		}
		want, ok := literalNumber(b.Value)
		if !ok {
			return false
		}
		switch b.Op {
		case "<":
			return got < want
		case "<=":
			return got <= want
		case ">":
			return got > want
		default:
			return got >= want
		}
	default:
		return false
	}
}

func literalEquals(lit *Literal, value any) bool {
	switch {
	case lit == nil:
		return false
	case lit.String != nil:
		return coerceString(value) == unquote(*lit.String)
	case lit.Number != nil:
		got, ok := coerceNumber(value)
		return ok && got == *lit.Number
	case lit.True || lit.False:
		got, ok := coerceBool(value)
		return ok && got == lit.True
	case lit.Ident != nil:
		// Bare word compared as a string.
		return coerceString(value) == *lit.Ident
	default:
		return false
	}
}

func literalNumber(lit *Literal) (float64, bool) {
	switch {
	case lit == nil:
		return 0, false
	case lit.Number != nil:
		return *lit.Number, true
	case lit.String != nil:
		f, err := strconv.ParseFloat(unquote(*lit.String), 64)
		return f, err == nil
	case lit.Ident != nil:
		f, err := strconv.ParseFloat(*lit.Ident, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func lookup(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}

	// Prefer exact match for dotted keys before traversing nested maps.
	if v, ok := values[path]; ok {
		return v, v != nil
	}

	parts := strings.Split(path, ".")
	var current any = values
	for _, part := range parts {
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, current != nil
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case float32:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func coerceBool(value any) (bool, bool) {
	switch v := value.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err == nil {
			return parsed, true
		}
		return strings.TrimSpace(v) != "", true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case float64:
		return v != 0, true
	default:
		return truthy(value), true
	}
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
