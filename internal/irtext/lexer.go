package irtext

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var IRLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments run to the end of the line
		{"Comment", `;[^\n]*`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},

		// String literals
		{"String", `"(\\.|[^"\\])*"`, nil},

		// Numbers (decimal before integer)
		{"Decimal", `[0-9]+\.[0-9]+`, nil},
		{"Int", `[0-9]+`, nil},

		// Block labels (must come before identifiers)
		{"Label", `[a-zA-Z_][a-zA-Z0-9_.]*:`, nil},

		// Identifiers, including $-prefixed temporaries
		{"Ident", `[$a-zA-Z_][$a-zA-Z0-9_.]*`, nil},

		// Operators
		{"Operator", `(==|!=|<=|>=|//|\*\*|[-+*/%<>&|=])`, nil},

		// Punctuation
		{"Punctuation", `[{}()\[\],]`, nil},
	},
})
