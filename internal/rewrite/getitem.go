package rewrite

import (
	"peep/internal/ir"
)

const ConstGetitemRewriteName = "const-getitem"

// ConstGetitemRewrite turns `getitem v[i]` into `static_getitem v[<const>]`
// when the index is a known constant.
type ConstGetitemRewrite struct{}

// NewConstGetitemRewrite creates the rule; it matches the Factory signature
func NewConstGetitemRewrite() Rule { return &ConstGetitemRewrite{} }

func (r *ConstGetitemRewrite) Name() string { return ConstGetitemRewriteName }

func (r *ConstGetitemRewrite) Match(ctx *Context, block *ir.Block) (Plan, bool) {
	getitems := make(map[*ir.Assign]*ir.StaticGetItemExpr)

	for _, inst := range ir.FindInsts[*ir.Assign](block) {
		expr, ok := inst.Value.(*ir.GetItemExpr)
		if !ok {
			continue
		}
		index, ok := ctx.Oracle.InferConstant(expr.Index)
		if !ok || !isLiteralIndex(index) {
			continue
		}
		getitems[inst] = &ir.StaticGetItemExpr{
			Value:    expr.Value,
			Index:    index,
			IndexVar: expr.Index,
			Loc:      expr.Loc,
		}
	}

	if len(getitems) == 0 {
		return nil, false
	}
	return &getitemPlan{block: block, getitems: getitems}, true
}

type getitemPlan struct {
	block    *ir.Block
	getitems map[*ir.Assign]*ir.StaticGetItemExpr
}

func (p *getitemPlan) Apply() *ir.Block {
	out := p.block.EmptyCopy()

	for _, inst := range p.block.Body {
		assign, ok := inst.(*ir.Assign)
		static, matched := p.getitems[assign]
		if !ok || !matched {
			out.Append(inst)
			continue
		}
		out.Append(&ir.Assign{Target: assign.Target, Value: static, Loc: assign.Loc})
	}

	return out
}

// isLiteralIndex reports whether index can be spelled as a literal in a
// static_getitem. Builtin functions have no literal form.
func isLiteralIndex(index ir.Constant) bool {
	switch index.Kind() {
	case ir.IntConstant, ir.DecimalConstant, ir.StringConstant, ir.BoolConstant, ir.NoneConstant:
		return true
	}
	return false
}
