// Package rewrite runs staged, block-local rewrite rules over the IR.
//
// A Rule inspects a block in Match and, when it finds work, returns a Plan.
// Applying the plan yields a new block; the block that was matched is never
// modified. The Driver repeats match/apply per rule until the rule stops
// matching, then hands the block to the next rule registered for the stage.
package rewrite

import (
	"peep/internal/ir"
)

// Oracle resolves value references to compile-time constants. A miss is an
// expected outcome and is reported through the boolean, not an error.
type Oracle interface {
	InferConstant(v *ir.Var) (ir.Constant, bool)
}

// BlockObserver is implemented by oracles that index block contents and
// need to learn when the driver swaps a block for its rewritten version.
type BlockObserver interface {
	BlockRewritten(old, replacement *ir.Block)
}

// TypeMap and CallTypes are produced by type inference in later stages.
// The rewrite engine passes them through without looking inside.
type (
	TypeMap   map[string]any
	CallTypes map[ir.Value]any
)

// Context is the ambient state handed to every Match call
type Context struct {
	Oracle    Oracle
	TypeMap   TypeMap
	CallTypes CallTypes
}

// NewContext creates a rewrite context around an oracle
func NewContext(oracle Oracle) *Context {
	return &Context{
		Oracle:    oracle,
		TypeMap:   make(TypeMap),
		CallTypes: make(CallTypes),
	}
}

// Rule is a pattern-triggered local transformation over a block
type Rule interface {
	Name() string
	// Match scans block without modifying it. It returns a plan and true
	// when at least one candidate was found.
	Match(ctx *Context, block *ir.Block) (Plan, bool)
}

// Plan is the work recorded by one successful Match
type Plan interface {
	// Apply builds and returns the rewritten block
	Apply() *ir.Block
}

// Factory creates a fresh rule instance
type Factory func() Rule
