package depends

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// exprLexer tokenizes dependency expressions. Keywords (and, or, in, not,
// true, false) are matched case-insensitively by the parser; identifiers
// preserve case because field names are case-sensitive.
var exprLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`, Action: nil},

		// Multi-character operators before single-char ones.
		{Name: "NotEqual", Pattern: `!=`},
		{Name: "LessEqual", Pattern: `<=`},
		{Name: "GreaterEqual", Pattern: `>=`},
		{Name: "Equal", Pattern: `==`},
		{Name: "Less", Pattern: `<`},
		{Name: "Greater", Pattern: `>`},

		{Name: "LParen", Pattern: `\(`},
		{Name: "RParen", Pattern: `\)`},
		{Name: "LBracket", Pattern: `\[`},
		{Name: "RBracket", Pattern: `\]`},
		{Name: "Comma", Pattern: `,`},

		{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d*|\.\d+|\d+)(?:[eE][+-]?\d+)?`},

		// Dotted paths reference values in nested child rows.
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*(?:\.[a-zA-Z_][a-zA-Z0-9_]*)*`},
	},
})
