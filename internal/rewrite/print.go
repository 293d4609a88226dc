package rewrite

import (
	"peep/internal/ir"
)

// Rule names as registered in the stage registry
const (
	PrintCallRewriteName          = "print-call"
	ConstPrintArgumentRewriteName = "const-print-arguments"
)

// PrintCallRewrite turns calls to the print builtin into print nodes.
//
//	x = call $print(a, b)
//
// becomes
//
//	print(a, b)
//	x = const None
//
// Calls with keyword arguments are left alone.
type PrintCallRewrite struct{}

// NewPrintCallRewrite creates the rule; it matches the Factory signature
func NewPrintCallRewrite() Rule { return &PrintCallRewrite{} }

func (r *PrintCallRewrite) Name() string { return PrintCallRewriteName }

// Match finds every assignment whose value is a keyword-free call to print
func (r *PrintCallRewrite) Match(ctx *Context, block *ir.Block) (Plan, bool) {
	prints := make(map[*ir.Assign]*ir.CallExpr)

	for _, inst := range ir.FindInsts[*ir.Assign](block) {
		call, ok := inst.Value.(*ir.CallExpr)
		if !ok {
			continue
		}
		if call.HasKeywords() {
			// only positional arguments are supported
			continue
		}
		callee, ok := ctx.Oracle.InferConstant(call.Func)
		if !ok || !callee.IsBuiltin(string(ir.BuiltinPrint)) {
			continue
		}
		prints[inst] = call
	}

	if len(prints) == 0 {
		return nil, false
	}
	return &printCallPlan{block: block, prints: prints}, true
}

type printCallPlan struct {
	block  *ir.Block
	prints map[*ir.Assign]*ir.CallExpr
}

// Apply rewrites `var = call <print>(...)` as `print(...)` then `var = const None`
func (p *printCallPlan) Apply() *ir.Block {
	out := p.block.EmptyCopy()

	for _, inst := range p.block.Body {
		assign, ok := inst.(*ir.Assign)
		call, matched := p.prints[assign]
		if !ok || !matched {
			out.Append(inst)
			continue
		}

		out.Append(ir.NewPrint(call.Args, call.Vararg, call.Loc))
		out.Append(&ir.Assign{
			Target: assign.Target,
			Value:  &ir.Const{Value: ir.None(), Loc: call.Loc},
			Loc:    assign.Loc,
		})
	}

	return out
}

// ConstPrintArgumentRewrite records which arguments of a print node are
// compile-time constants. Nodes whose constant map is already populated are
// final and never revisited.
type ConstPrintArgumentRewrite struct{}

// NewConstPrintArgumentRewrite creates the rule; it matches the Factory signature
func NewConstPrintArgumentRewrite() Rule { return &ConstPrintArgumentRewrite{} }

func (r *ConstPrintArgumentRewrite) Name() string { return ConstPrintArgumentRewriteName }

// Match queries the oracle for each positional argument of every
// unannotated print node. Arguments that do not resolve are left out.
func (r *ConstPrintArgumentRewrite) Match(ctx *Context, block *ir.Block) (Plan, bool) {
	consts := make(map[*ir.Print]map[int]ir.Constant)

	for _, inst := range ir.FindInsts[*ir.Print](block) {
		if len(inst.Consts) > 0 {
			// already rewritten
			continue
		}
		for idx, arg := range inst.Args {
			value, ok := ctx.Oracle.InferConstant(arg)
			if !ok {
				continue
			}
			if consts[inst] == nil {
				consts[inst] = make(map[int]ir.Constant)
			}
			consts[inst][idx] = value
		}
	}

	if len(consts) == 0 {
		return nil, false
	}
	return &constPrintPlan{block: block, consts: consts}, true
}

type constPrintPlan struct {
	block  *ir.Block
	consts map[*ir.Print]map[int]ir.Constant
}

// Apply stores the detected constants on annotated copies of the nodes
func (p *constPrintPlan) Apply() *ir.Block {
	out := p.block.EmptyCopy()

	for _, inst := range p.block.Body {
		node, ok := inst.(*ir.Print)
		consts, matched := p.consts[node]
		if !ok || !matched {
			out.Append(inst)
			continue
		}
		out.Append(node.WithConsts(consts))
	}

	return out
}
