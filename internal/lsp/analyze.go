package lsp

import (
	"peep/internal/consts"
	"peep/internal/errors"
	"peep/internal/ir"
	"peep/internal/irtext"
	"peep/internal/rewrite"
)

// Analysis is the result of checking one document
type Analysis struct {
	Functions   []*ir.Function
	Diagnostics []errors.CompilerError
}

// Analyze parses source, runs the rewrite stage over every function and
// collects diagnostics and rewrite hints.
func Analyze(driver *rewrite.Driver, stage, path, source string) *Analysis {
	functions, textErrs := irtext.ParseSource(path, source)

	result := &Analysis{Functions: functions}
	for _, e := range textErrs {
		result.Diagnostics = append(result.Diagnostics, errors.FromText(e))
	}
	if len(textErrs) > 0 {
		return result
	}

	for _, fn := range functions {
		// annotated copies replace print nodes, so compare by location
		existing := make(map[ir.Loc]bool)
		for _, block := range fn.Blocks {
			for _, node := range ir.FindInsts[*ir.Print](block) {
				existing[node.Loc] = true
			}
		}

		ctx := rewrite.NewContext(consts.New(fn))
		if _, err := driver.RunFunction(stage, ctx, fn); err != nil {
			if diag, ok := errors.FromRewrite(err); ok {
				result.Diagnostics = append(result.Diagnostics, diag)
			} else {
				log.Errorf("rewrite of %s failed: %v", fn.Name, err)
			}
			continue
		}

		for _, block := range fn.Blocks {
			for _, node := range ir.FindInsts[*ir.Print](block) {
				if !existing[node.Loc] {
					result.Diagnostics = append(result.Diagnostics, errors.PrintLowered(node))
				}
				if len(node.Consts) > 0 {
					result.Diagnostics = append(result.Diagnostics, errors.ConstantArguments(node))
				}
			}
		}
	}

	return result
}
