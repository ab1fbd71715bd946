package depends

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
)

var parser = participle.MustBuild[Expr](
	participle.Lexer(exprLexer),
	participle.Elide("Whitespace"),
	participle.CaseInsensitive("Ident"),
	participle.UseLookahead(2),
)

// ParseError reports a malformed dependency expression. Callers drop the
// dependency and keep the field, so the error carries enough context to be
// surfaced as a build warning.
type ParseError struct {
	Expression string
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("depends: parse %q: %v", e.Expression, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse compiles an expression string into its AST. An empty expression is
// valid and parses to nil, meaning "always true".
func Parse(expression string) (*Expr, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return nil, nil
	}
	expr, err := parser.ParseString("", trimmed)
	if err != nil {
		return nil, &ParseError{Expression: expression, Err: err}
	}
	return expr, nil
}
