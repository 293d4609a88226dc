package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"peep/internal/ir"
	"peep/internal/rewrite"
)

// formatReport lists rewrite counts per function in source order. Functions
// without a report are skipped.
func formatReport(functions []*ir.Function, reports map[string]*rewrite.Report) string {
	var out strings.Builder
	bold := color.New(color.Bold).SprintFunc()

	for _, fn := range functions {
		report, ok := reports[fn.Name]
		if !ok {
			continue
		}
		fmt.Fprintf(&out, "%s %s (stage %s): %d rewrites\n", bold("report"), fn.Name, report.Stage, report.Total())
		for _, name := range report.Order {
			fmt.Fprintf(&out, "  %-24s %d\n", name, report.Applied[name])
		}
	}
	return out.String()
}
