package irtext

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/shopspring/decimal"

	"peep/internal/ir"
)

// builder lowers the parse tree to IR, collecting structural errors
type builder struct {
	filename string
	errors   []Error
}

func newBuilder(filename string) *builder {
	return &builder{filename: filename}
}

func (b *builder) loc(pos lexer.Position) ir.Loc {
	return ir.Loc{Filename: b.filename, Line: pos.Line, Column: pos.Column}
}

func (b *builder) errorf(kind ErrorKind, pos lexer.Position, length int, format string, args ...interface{}) {
	b.errors = append(b.errors, Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Loc:     b.loc(pos),
		Length:  length,
	})
}

func (b *builder) build(file *File) []*ir.Function {
	functions := make([]*ir.Function, 0, len(file.Functions))
	for _, fn := range file.Functions {
		functions = append(functions, b.buildFunction(fn))
	}
	return functions
}

func (b *builder) buildFunction(fn *Function) *ir.Function {
	out := &ir.Function{
		Name:   fn.Name,
		Params: fn.Params,
		Loc:    b.loc(fn.Pos),
	}

	labels := make(map[string]bool)
	for _, block := range fn.Blocks {
		label := block.Label[:len(block.Label)-1] // trailing ':'
		if labels[label] {
			b.errorf(DuplicateLabel, block.Pos, len(label), "duplicate block label '%s'", label)
		}
		labels[label] = true
		out.Blocks = append(out.Blocks, b.buildBlock(label, block, fn))
	}

	// Validate branch targets once every label is known
	for i, block := range out.Blocks {
		term := block.Terminator()
		if term == nil {
			continue
		}
		for _, target := range term.Targets() {
			if !labels[target] {
				stmt := fn.Blocks[i].Stmts[len(fn.Blocks[i].Stmts)-1]
				b.errorf(UnknownTarget, stmt.Pos, len(target), "unknown block '%s'", target)
			}
		}
	}

	return out
}

func (b *builder) buildBlock(label string, block *Block, fn *Function) *ir.Block {
	out := ir.NewBlock(label, b.loc(block.Pos))

	for i, stmt := range block.Stmts {
		inst := b.buildStmt(stmt, fn)
		if inst == nil {
			continue
		}
		if term, ok := inst.(ir.Terminator); ok {
			if i != len(block.Stmts)-1 {
				b.errorf(MisplacedTerminator, stmt.Pos, 1, "terminator must be the last instruction of block '%s'", label)
			}
			out.Successors = append(out.Successors, term.Targets()...)
		}
		out.Append(inst)
	}

	return out
}

func (b *builder) buildStmt(stmt *Stmt, fn *Function) ir.Instruction {
	loc := b.loc(stmt.Pos)

	switch {
	case stmt.Print != nil:
		args, vararg, kws := b.buildArgs(stmt.Print.Args, loc)
		if len(kws) > 0 {
			b.errorf(InvalidArgument, stmt.Pos, 5, "print nodes take no keyword arguments")
		}
		return ir.NewPrint(args, vararg, loc)
	case stmt.Jump != nil:
		return &ir.Jump{Target: stmt.Jump.Target, Loc: loc}
	case stmt.Branch != nil:
		return &ir.Branch{
			Cond:  b.variable(stmt.Branch.Cond, loc),
			True:  stmt.Branch.True,
			False: stmt.Branch.False,
			Loc:   loc,
		}
	case stmt.Return != nil:
		return &ir.Return{Value: b.variable(stmt.Return.Value, loc), Loc: loc}
	case stmt.Assign != nil:
		value := b.buildExpr(stmt.Assign.Value, fn)
		if value == nil {
			return nil
		}
		return &ir.Assign{
			Target: b.variable(stmt.Assign.Target, loc),
			Value:  value,
			Loc:    loc,
		}
	}
	return nil
}

func (b *builder) variable(name string, loc ir.Loc) *ir.Var {
	return &ir.Var{Name: name, Loc: loc}
}

func (b *builder) buildExpr(expr *Expr, fn *Function) ir.Value {
	loc := b.loc(expr.Pos)

	switch {
	case expr.Const != nil:
		value, ok := b.literal(expr.Const)
		if !ok {
			return nil
		}
		return &ir.Const{Value: value, Loc: loc}
	case expr.Global != nil:
		return &ir.Global{Name: *expr.Global, Loc: loc}
	case expr.Arg != nil:
		index := *expr.Arg
		if index >= len(fn.Params) {
			b.errorf(InvalidArgument, expr.Pos, 3, "function '%s' has no parameter %d", fn.Name, index)
			return nil
		}
		return &ir.Arg{Index: index, Name: fn.Params[index], Loc: loc}
	case expr.Call != nil:
		args, vararg, kws := b.buildArgs(expr.Call.Args, loc)
		return &ir.CallExpr{
			Func:   b.variable(expr.Call.Func, loc),
			Args:   args,
			Vararg: vararg,
			Kws:    kws,
			Loc:    loc,
		}
	case expr.GetItem != nil:
		return &ir.GetItemExpr{
			Value: b.variable(expr.GetItem.Value, loc),
			Index: b.variable(expr.GetItem.Index, loc),
			Loc:   loc,
		}
	case expr.StaticGetItem != nil:
		index, ok := b.literal(expr.StaticGetItem.Index)
		if !ok {
			return nil
		}
		return &ir.StaticGetItemExpr{
			Value: b.variable(expr.StaticGetItem.Value, loc),
			Index: index,
			Loc:   loc,
		}
	case expr.BinOp != nil:
		return &ir.BinOpExpr{
			Op:    expr.BinOp.Op,
			Left:  b.variable(expr.BinOp.Left, loc),
			Right: b.variable(expr.BinOp.Right, loc),
			Loc:   loc,
		}
	case expr.Var != nil:
		return b.variable(*expr.Var, loc)
	}
	return nil
}

func (b *builder) buildArgs(args []*CallArg, loc ir.Loc) ([]*ir.Var, *ir.Var, []ir.Keyword) {
	var (
		positional []*ir.Var
		vararg     *ir.Var
		kws        []ir.Keyword
	)
	seen := make(map[string]bool)

	for _, arg := range args {
		switch {
		case arg.Vararg != nil:
			if vararg != nil {
				b.errorf(InvalidArgument, arg.Pos, 1, "only one variadic argument is allowed")
			}
			vararg = b.variable(*arg.Vararg, loc)
		case arg.Keyword != nil:
			name := arg.Keyword.Name
			if seen[name] {
				b.errorf(DuplicateKeyword, arg.Pos, len(name), "keyword argument '%s' repeated", name)
				continue
			}
			seen[name] = true
			kws = append(kws, ir.Keyword{Name: name, Value: b.variable(arg.Keyword.Value, loc)})
		case arg.Name != nil:
			if vararg != nil || len(kws) > 0 {
				b.errorf(InvalidArgument, arg.Pos, len(*arg.Name), "positional argument '%s' follows variadic or keyword argument", *arg.Name)
			}
			positional = append(positional, b.variable(*arg.Name, loc))
		}
	}

	return positional, vararg, kws
}

func (b *builder) literal(lit *Literal) (ir.Constant, bool) {
	switch {
	case lit.Decimal != nil:
		d, err := decimal.NewFromString(*lit.Decimal)
		if err != nil {
			b.errorf(InvalidLiteral, lit.Pos, len(*lit.Decimal), "invalid decimal literal: %v", err)
			return ir.Constant{}, false
		}
		return ir.Decimal(d), true
	case lit.Int != nil:
		i, err := strconv.ParseInt(*lit.Int, 10, 64)
		if err != nil {
			b.errorf(InvalidLiteral, lit.Pos, len(*lit.Int), "integer literal out of range: %s", *lit.Int)
			return ir.Constant{}, false
		}
		return ir.Int(i), true
	case lit.Str != nil:
		return ir.String(*lit.Str), true
	case lit.True:
		return ir.Bool(true), true
	case lit.False:
		return ir.Bool(false), true
	}
	return ir.None(), true
}
