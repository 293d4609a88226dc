package ir

// Instruction is a single IR statement. Identity is by pointer: two
// instructions with identical contents are still distinct.
type Instruction interface {
	Pos() Loc
	String() string
}

// Terminator ends a basic block
type Terminator interface {
	Instruction
	Targets() []string
}

// Value is anything that may appear on the right-hand side of an Assign
type Value interface {
	Pos() Loc
	String() string
	isValue()
}

// Var is a reference to a named value. Dataflow identity is the name.
type Var struct {
	Name string
	Loc  Loc
}

// Const is a literal constant value in the IR
type Const struct {
	Value Constant
	Loc   Loc
}

// Global refers to a module-level or builtin name
type Global struct {
	Name string
	Loc  Loc
}

// Arg is the value of the function's Index-th parameter
type Arg struct {
	Index int
	Name  string
	Loc   Loc
}

// Keyword is a single keyword argument of a call
type Keyword struct {
	Name  string
	Value *Var
}

// CallExpr calls Func with positional, variadic and keyword arguments
type CallExpr struct {
	Func   *Var
	Args   []*Var
	Vararg *Var // optional
	Kws    []Keyword
	Loc    Loc
}

// GetItemExpr is Value[Index] with a dynamic index
type GetItemExpr struct {
	Value *Var
	Index *Var
	Loc   Loc
}

// StaticGetItemExpr is Value[Index] with an index known at compile time.
// IndexVar keeps the original index reference when there was one.
type StaticGetItemExpr struct {
	Value    *Var
	Index    Constant
	IndexVar *Var
	Loc      Loc
}

// BinOpExpr applies Op to two values
type BinOpExpr struct {
	Op    string
	Left  *Var
	Right *Var
	Loc   Loc
}

func (*Var) isValue()               {}
func (*Const) isValue()             {}
func (*Global) isValue()            {}
func (*Arg) isValue()               {}
func (*CallExpr) isValue()          {}
func (*GetItemExpr) isValue()       {}
func (*StaticGetItemExpr) isValue() {}
func (*BinOpExpr) isValue()         {}

func (v *Var) Pos() Loc               { return v.Loc }
func (c *Const) Pos() Loc             { return c.Loc }
func (g *Global) Pos() Loc            { return g.Loc }
func (a *Arg) Pos() Loc               { return a.Loc }
func (c *CallExpr) Pos() Loc          { return c.Loc }
func (g *GetItemExpr) Pos() Loc       { return g.Loc }
func (s *StaticGetItemExpr) Pos() Loc { return s.Loc }
func (b *BinOpExpr) Pos() Loc         { return b.Loc }

// HasKeywords reports whether the call passes any keyword arguments
func (c *CallExpr) HasKeywords() bool { return len(c.Kws) > 0 }

// Instructions

// Assign stores Value into Target
type Assign struct {
	Target *Var
	Value  Value
	Loc    Loc
}

// Print is the dedicated print node. Consts maps an argument index to the
// constant it is known to hold; an index present there is final.
type Print struct {
	Args   []*Var
	Vararg *Var // optional
	Consts map[int]Constant
	Loc    Loc
}

// Jump transfers control to Target
type Jump struct {
	Target string
	Loc    Loc
}

// Branch transfers control to True or False depending on Cond
type Branch struct {
	Cond  *Var
	True  string
	False string
	Loc   Loc
}

// Return leaves the function with Value
type Return struct {
	Value *Var
	Loc   Loc
}

func (a *Assign) Pos() Loc { return a.Loc }
func (p *Print) Pos() Loc  { return p.Loc }
func (j *Jump) Pos() Loc   { return j.Loc }
func (b *Branch) Pos() Loc { return b.Loc }
func (r *Return) Pos() Loc { return r.Loc }

func (j *Jump) Targets() []string   { return []string{j.Target} }
func (b *Branch) Targets() []string { return []string{b.True, b.False} }
func (r *Return) Targets() []string { return nil }

// NewPrint creates a print node with an empty constant map
func NewPrint(args []*Var, vararg *Var, loc Loc) *Print {
	return &Print{
		Args:   args,
		Vararg: vararg,
		Consts: make(map[int]Constant),
		Loc:    loc,
	}
}

// WithConsts returns a copy of the print node carrying consts
func (p *Print) WithConsts(consts map[int]Constant) *Print {
	annotated := &Print{
		Args:   p.Args,
		Vararg: p.Vararg,
		Consts: make(map[int]Constant, len(consts)),
		Loc:    p.Loc,
	}
	for idx, c := range consts {
		annotated.Consts[idx] = c
	}
	return annotated
}
