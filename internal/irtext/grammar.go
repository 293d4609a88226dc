package irtext

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type File struct {
	Pos       lexer.Position
	Functions []*Function `@@*`
}

type Function struct {
	Pos    lexer.Position
	Name   string   `"func" @Ident`
	Params []string `"(" [ @Ident { "," @Ident } ] ")"`
	Blocks []*Block `"{" @@* "}"`
}

type Block struct {
	Pos   lexer.Position
	Label string  `@Label`
	Stmts []*Stmt `@@*`
}

type Stmt struct {
	Pos    lexer.Position
	Print  *PrintStmt  `  @@`
	Jump   *JumpStmt   `| @@`
	Branch *BranchStmt `| @@`
	Return *ReturnStmt `| @@`
	Assign *AssignStmt `| @@`
}

type PrintStmt struct {
	Pos  lexer.Position
	Args []*CallArg `"print" "(" [ @@ { "," @@ } ] ")"`
}

type JumpStmt struct {
	Pos    lexer.Position
	Target string `"jump" @Ident`
}

type BranchStmt struct {
	Pos   lexer.Position
	Cond  string `"branch" @Ident ","`
	True  string `@Ident ","`
	False string `@Ident`
}

type ReturnStmt struct {
	Pos   lexer.Position
	Value string `"return" @Ident`
}

type AssignStmt struct {
	Pos    lexer.Position
	Target string `@Ident "="`
	Value  *Expr  `@@`
}

type Expr struct {
	Pos           lexer.Position
	Const         *Literal           `  "const" @@`
	Global        *string            `| "global" @Ident`
	Arg           *int               `| "arg" "(" @Int ")"`
	Call          *CallExpr          `| "call" @@`
	GetItem       *GetItemExpr       `| "getitem" @@`
	StaticGetItem *StaticGetItemExpr `| "static_getitem" @@`
	BinOp         *BinOpExpr         `| "binop" @@`
	Var           *string            `| @Ident`
}

type CallExpr struct {
	Pos  lexer.Position
	Func string     `@Ident "("`
	Args []*CallArg `[ @@ { "," @@ } ] ")"`
}

type CallArg struct {
	Pos     lexer.Position
	Vararg  *string  `  "*" @Ident`
	Keyword *Keyword `| @@`
	Name    *string  `| @Ident`
}

type Keyword struct {
	Pos   lexer.Position
	Name  string `@Ident "="`
	Value string `@Ident`
}

type GetItemExpr struct {
	Pos   lexer.Position
	Value string `@Ident "["`
	Index string `@Ident "]"`
}

type StaticGetItemExpr struct {
	Pos   lexer.Position
	Value string   `@Ident "["`
	Index *Literal `@@ "]"`
}

type BinOpExpr struct {
	Pos   lexer.Position
	Left  string `@Ident`
	Op    string `@Operator`
	Right string `@Ident`
}

type Literal struct {
	Pos     lexer.Position
	Decimal *string `  @("-"? Decimal)`
	Int     *string `| @("-"? Int)`
	Str     *string `| @String`
	None    bool    `| @"None"`
	True    bool    `| @"True"`
	False   bool    `| @"False"`
}
