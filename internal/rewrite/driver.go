package rewrite

import (
	"fmt"

	"github.com/tliron/commonlog"

	"peep/internal/ir"
)

var log = commonlog.GetLogger("peep.rewrite")

// DefaultMaxCycles bounds the match/apply cycles of one rule on one block
const DefaultMaxCycles = 1000

// Config controls the pass driver
type Config struct {
	// MaxCycles is the number of productive cycles a single rule may run
	// on a single block before the driver gives up. Zero means the default.
	MaxCycles int
}

// DefaultConfig returns the driver defaults
func DefaultConfig() Config {
	return Config{MaxCycles: DefaultMaxCycles}
}

// CycleLimitError reports a rule that kept matching past MaxCycles
type CycleLimitError struct {
	Stage  string
	Rule   string
	Block  string
	Cycles int
	Loc    ir.Loc
}

func (e *CycleLimitError) Error() string {
	return fmt.Sprintf("rule %s did not reach a fixpoint on block %s after %d cycles (stage %s)",
		e.Rule, e.Block, e.Cycles, e.Stage)
}

// RuleError wraps a failure raised inside a rule
type RuleError struct {
	Stage string
	Rule  string
	Block string
	Loc   ir.Loc
	Cause any
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s failed on block %s (stage %s): %v", e.Rule, e.Block, e.Stage, e.Cause)
}

// Unwrap exposes the cause when the rule panicked with an error
func (e *RuleError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// Report counts productive cycles per rule
type Report struct {
	Stage   string
	Applied map[string]int
	Order   []string
}

func newReport(stage string) *Report {
	return &Report{Stage: stage, Applied: make(map[string]int)}
}

func (r *Report) record(rule string) {
	if _, ok := r.Applied[rule]; !ok {
		r.Order = append(r.Order, rule)
	}
	r.Applied[rule]++
}

// Total returns the number of productive cycles across all rules
func (r *Report) Total() int {
	total := 0
	for _, n := range r.Applied {
		total += n
	}
	return total
}

// Driver runs the rules of a stage to fixpoint
type Driver struct {
	registry *Registry
	config   Config
}

// NewDriver creates a pass driver reading rules from registry
func NewDriver(registry *Registry, config Config) *Driver {
	if config.MaxCycles <= 0 {
		config.MaxCycles = DefaultMaxCycles
	}
	return &Driver{registry: registry, config: config}
}

// RunBlock rewrites block with every rule of stage and returns the result.
// The input block is left untouched.
func (d *Driver) RunBlock(stage string, ctx *Context, block *ir.Block) (*ir.Block, error) {
	return d.runBlock(stage, ctx, block, newReport(stage))
}

// RunFunction rewrites every block of fn in place of the original blocks
func (d *Driver) RunFunction(stage string, ctx *Context, fn *ir.Function) (*Report, error) {
	report := newReport(stage)

	if !d.registry.HasStage(stage) {
		log.Debugf("stage %s has no rules, function %s unchanged", stage, fn.Name)
		return report, nil
	}

	for i := range fn.Blocks {
		original := fn.Blocks[i]
		rewritten, err := d.runBlock(stage, ctx, original, report)
		if err != nil {
			return report, fmt.Errorf("function %s: %w", fn.Name, err)
		}
		fn.Blocks[i] = rewritten
	}

	log.Infof("stage %s on function %s: %d rewrites", stage, fn.Name, report.Total())
	return report, nil
}

func (d *Driver) runBlock(stage string, ctx *Context, block *ir.Block, report *Report) (*ir.Block, error) {
	for _, entry := range d.registry.RulesFor(stage) {
		var err error
		block, err = d.runRule(stage, entry, ctx, block, report)
		if err != nil {
			return block, err
		}
	}
	return block, nil
}

// runRule drives one rule to fixpoint on block
func (d *Driver) runRule(stage string, entry RuleEntry, ctx *Context, block *ir.Block, report *Report) (out *ir.Block, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("rule %s panicked on block %s: %v", entry.Name, block.Label, r)
			out, err = block, &RuleError{Stage: stage, Rule: entry.Name, Block: block.Label, Loc: block.Loc, Cause: r}
		}
	}()

	cycles := 0
	rule := entry.Factory()
	for {
		plan, ok := rule.Match(ctx, block)
		if !ok {
			return block, nil
		}

		if cycles == d.config.MaxCycles {
			log.Errorf("rule %s exceeded %d cycles on block %s", entry.Name, d.config.MaxCycles, block.Label)
			return block, &CycleLimitError{
				Stage:  stage,
				Rule:   entry.Name,
				Block:  block.Label,
				Cycles: cycles,
				Loc:    block.Loc,
			}
		}

		rewritten := plan.Apply()
		cycles++
		report.record(entry.Name)
		log.Debugf("rule %s rewrote block %s (cycle %d)", entry.Name, block.Label, cycles)

		if observer, ok := ctx.Oracle.(BlockObserver); ok {
			observer.BlockRewritten(block, rewritten)
		}
		block = rewritten

		// fresh instance: nothing carries over between cycles
		rule = entry.Factory()
	}
}
