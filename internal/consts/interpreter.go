// Package consts resolves IR value references to compile-time constants.
package consts

import (
	"github.com/tliron/commonlog"

	"peep/internal/ir"
)

var log = commonlog.GetLogger("peep.consts")

// Interpreter answers constant queries about the values of one function.
// A name resolves only when it has exactly one definition and that
// definition is itself constant.
type Interpreter struct {
	fn      *ir.Function
	globals map[string]ir.Constant
	defs    map[string][]ir.Value // rebuilt lazily, nil when stale
}

// New creates an interpreter over fn
func New(fn *ir.Function) *Interpreter {
	return &Interpreter{
		fn:      fn,
		globals: make(map[string]ir.Constant),
	}
}

// SetGlobal binds a module-level global to a constant. Module globals
// shadow builtins of the same name.
func (in *Interpreter) SetGlobal(name string, value ir.Constant) {
	in.globals[name] = value
}

// SetGlobals binds every global in globals
func (in *Interpreter) SetGlobals(globals map[string]ir.Constant) {
	for name, value := range globals {
		in.globals[name] = value
	}
}

// Function returns the function being interpreted
func (in *Interpreter) Function() *ir.Function { return in.fn }

// BlockRewritten keeps the interpreter's view of the function current when
// a rewrite replaces a block.
func (in *Interpreter) BlockRewritten(old, replacement *ir.Block) {
	if !in.fn.ReplaceBlock(old, replacement) {
		log.Debugf("block %s is not part of function %s", old.Label, in.fn.Name)
	}
	in.defs = nil
}

// InferConstant resolves v to a constant, reporting false on a miss
func (in *Interpreter) InferConstant(v *ir.Var) (ir.Constant, bool) {
	if v == nil {
		return ir.Constant{}, false
	}
	return in.inferName(v.Name, make(map[string]bool))
}

func (in *Interpreter) definitions() map[string][]ir.Value {
	if in.defs != nil {
		return in.defs
	}

	in.defs = make(map[string][]ir.Value)
	for _, block := range in.fn.Blocks {
		for _, assign := range ir.FindInsts[*ir.Assign](block) {
			name := assign.Target.Name
			in.defs[name] = append(in.defs[name], assign.Value)
		}
	}
	return in.defs
}

func (in *Interpreter) inferName(name string, visiting map[string]bool) (ir.Constant, bool) {
	if visiting[name] {
		return ir.Constant{}, false
	}
	visiting[name] = true
	defer delete(visiting, name)

	defs := in.definitions()[name]
	if len(defs) != 1 {
		return ir.Constant{}, false
	}
	return in.inferValue(defs[0], visiting)
}

func (in *Interpreter) inferValue(value ir.Value, visiting map[string]bool) (ir.Constant, bool) {
	switch v := value.(type) {
	case *ir.Const:
		return v.Value, true
	case *ir.Var:
		return in.inferName(v.Name, visiting)
	case *ir.Global:
		if c, ok := in.globals[v.Name]; ok {
			return c, true
		}
		return ir.LookupBuiltin(v.Name)
	case *ir.BinOpExpr:
		left, ok := in.inferName(v.Left.Name, visiting)
		if !ok {
			return ir.Constant{}, false
		}
		right, ok := in.inferName(v.Right.Name, visiting)
		if !ok {
			return ir.Constant{}, false
		}
		return computeBinaryOp(v.Op, left, right)
	case *ir.StaticGetItemExpr:
		target, ok := in.inferName(v.Value.Name, visiting)
		if !ok {
			return ir.Constant{}, false
		}
		return indexConstant(target, v.Index)
	}

	// arguments, calls and dynamic indexing are not known statically
	return ir.Constant{}, false
}
