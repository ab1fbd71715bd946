package depends

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Expr is the root of a parsed dependency expression: one or more and-groups
// joined by "or".
type Expr struct {
	Pos lexer.Position

	Left  *AndExpr  `parser:"@@"`
	Right []*OrTerm `parser:"@@*"`
}

// OrTerm is a single "or" operand.
type OrTerm struct {
	Expr *AndExpr `parser:"'or' @@"`
}

// AndExpr joins one or more primaries with "and".
type AndExpr struct {
	Left  *Primary   `parser:"@@"`
	Right []*AndTerm `parser:"@@*"`
}

// AndTerm is a single "and" operand.
type AndTerm struct {
	Expr *Primary `parser:"'and' @@"`
}

// Primary is either a parenthesized sub-expression or a field comparison.
type Primary struct {
	Group      *Expr       `parser:"  LParen @@ RParen"`
	Comparison *Comparison `parser:"| @@"`
}

// Comparison references a field value, optionally followed by a binary
// comparison or a membership test. A bare reference is a truthiness check.
type Comparison struct {
	Pos lexer.Position

	Field string       `parser:"@Ident"`
	Tail  *CompareTail `parser:"@@?"`
}

// CompareTail distinguishes operator comparisons from membership tests.
type CompareTail struct {
	Binary     *BinaryTail     `parser:"  @@"`
	Membership *MembershipTail `parser:"| @@"`
}

// BinaryTail is an operator plus a literal right-hand side.
type BinaryTail struct {
	Op    string   `parser:"@( Equal | NotEqual | LessEqual | GreaterEqual | Less | Greater )"`
	Value *Literal `parser:"@@"`
}

// MembershipTail is an `in` / `not in` test over a literal list.
type MembershipTail struct {
	Not  bool       `parser:"@'not'?"`
	List []*Literal `parser:"'in' LBracket @@ (Comma @@)* RBracket"`
}

// Literal is a quoted string, a number, a boolean, or a bare word. Bare words
// are treated as strings to keep the evaluator forgiving about unquoted
// option values coming out of schema definitions.
type Literal struct {
	String *string  `parser:"  @String"`
	Number *float64 `parser:"| @Number"`
	True   bool     `parser:"| @'true'"`
	False  bool     `parser:"| @'false'"`
	Ident  *string  `parser:"| @Ident"`
}

// Fields returns every field name referenced by the expression, in source
// order with duplicates removed.
func (e *Expr) Fields() []string {
	var out []string
	seen := make(map[string]struct{})
	e.walkFields(func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	})
	return out
}

func (e *Expr) walkFields(visit func(string)) {
	if e == nil {
		return
	}
	e.Left.walkFields(visit)
	for _, term := range e.Right {
		if term != nil {
			term.Expr.walkFields(visit)
		}
	}
}

func (a *AndExpr) walkFields(visit func(string)) {
	if a == nil {
		return
	}
	a.Left.walkFields(visit)
	for _, term := range a.Right {
		if term != nil {
			term.Expr.walkFields(visit)
		}
	}
}

func (p *Primary) walkFields(visit func(string)) {
	if p == nil {
		return
	}
	if p.Group != nil {
		p.Group.walkFields(visit)
		return
	}
	if p.Comparison != nil {
		visit(p.Comparison.Field)
	}
}

func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	quote := raw[0]
	if (quote != '"' && quote != '\'') || raw[len(raw)-1] != quote {
		return raw
	}
	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var b strings.Builder
	escaped := false
	for _, r := range body {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
