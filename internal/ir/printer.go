package ir

import (
	"fmt"
	"sort"
	"strings"
)

// Printer provides pretty-printing for IR. The output is the textual IR
// format read back by the irtext package.
type Printer struct {
	indent int
	output strings.Builder
}

// NewPrinter creates a new IR printer
func NewPrinter() *Printer {
	return &Printer{indent: 0}
}

// PrintFunction returns the string representation of a function
func PrintFunction(fn *Function) string {
	p := NewPrinter()
	p.printFunction(fn)
	return p.output.String()
}

// PrintBlock returns the string representation of a single block
func PrintBlock(block *Block) string {
	p := NewPrinter()
	p.printBlock(block)
	return p.output.String()
}

// Helper methods

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printFunction(fn *Function) {
	p.writeLine("func %s(%s) {", fn.Name, strings.Join(fn.Params, ", "))
	for _, block := range fn.Blocks {
		p.printBlock(block)
	}
	p.writeLine("}")
}

func (p *Printer) printBlock(block *Block) {
	p.writeLine("%s:", block.Label)

	p.indent++
	for _, inst := range block.Body {
		p.writeLine("%s", inst.String())
	}
	p.indent--
}

func argsString(args []*Var, vararg *Var, kws []Keyword) string {
	parts := make([]string, 0, len(args)+len(kws)+1)
	for _, a := range args {
		parts = append(parts, a.Name)
	}
	if vararg != nil {
		parts = append(parts, "*"+vararg.Name)
	}
	for _, kw := range kws {
		parts = append(parts, kw.Name+"="+kw.Value.Name)
	}
	return strings.Join(parts, ", ")
}

// ConstsString renders a constant map in index order
func ConstsString(consts map[int]Constant) string {
	indexes := make([]int, 0, len(consts))
	for idx := range consts {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	parts := make([]string, len(indexes))
	for i, idx := range indexes {
		parts[i] = fmt.Sprintf("%d: %s", idx, consts[idx])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (f *Function) String() string { return PrintFunction(f) }
func (b *Block) String() string    { return PrintBlock(b) }

func (v *Var) String() string    { return v.Name }
func (c *Const) String() string  { return "const " + c.Value.String() }
func (g *Global) String() string { return "global " + g.Name }
func (a *Arg) String() string    { return fmt.Sprintf("arg(%d)", a.Index) }

func (c *CallExpr) String() string {
	return fmt.Sprintf("call %s(%s)", c.Func.Name, argsString(c.Args, c.Vararg, c.Kws))
}

func (g *GetItemExpr) String() string {
	return fmt.Sprintf("getitem %s[%s]", g.Value.Name, g.Index.Name)
}

func (s *StaticGetItemExpr) String() string {
	if s.IndexVar != nil {
		return fmt.Sprintf("static_getitem %s[%s] ; index %s", s.Value.Name, s.Index, s.IndexVar.Name)
	}
	return fmt.Sprintf("static_getitem %s[%s]", s.Value.Name, s.Index)
}

func (b *BinOpExpr) String() string {
	return fmt.Sprintf("binop %s %s %s", b.Left.Name, b.Op, b.Right.Name)
}

func (a *Assign) String() string {
	return fmt.Sprintf("%s = %s", a.Target.Name, a.Value.String())
}

func (p *Print) String() string {
	s := fmt.Sprintf("print(%s)", argsString(p.Args, p.Vararg, nil))
	if len(p.Consts) > 0 {
		s += " ; consts " + ConstsString(p.Consts)
	}
	return s
}

func (j *Jump) String() string { return "jump " + j.Target }

func (b *Branch) String() string {
	return fmt.Sprintf("branch %s, %s, %s", b.Cond.Name, b.True, b.False)
}

func (r *Return) String() string { return "return " + r.Value.Name }
