package main

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peep/internal/ir"
	"peep/internal/rewrite"
)

func TestFormatReportSkipsFailedFunctions(t *testing.T) {
	functions := []*ir.Function{{Name: "first"}, {Name: "broken"}, {Name: "last"}}
	reports := map[string]*rewrite.Report{
		"first": {Stage: "s", Applied: map[string]int{"print-call": 2}, Order: []string{"print-call"}},
		"last":  {Stage: "s", Applied: map[string]int{}},
	}

	out := formatReport(functions, reports)

	assert.Equal(t, "report first (stage s): 2 rewrites\n"+
		"  print-call               2\n"+
		"report last (stage s): 0 rewrites\n", out)
	assert.NotContains(t, out, "broken")
}

func TestGlobalFlags(t *testing.T) {
	globals := make(globalFlags)
	fs := flag.NewFlagSet("peep", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(globals, "global", "")

	require.NoError(t, fs.Parse([]string{"-global", "N=3", "-global", `S="x"`}))
	assert.Equal(t, ir.Int(3), globals["N"])
	assert.Equal(t, ir.String("x"), globals["S"])
	assert.Equal(t, `N=3,S="x"`, globals.String())

	assert.Error(t, fs.Parse([]string{"-global", "N=4"}), "rebinding a global")
	assert.Error(t, fs.Parse([]string{"-global", "bad"}))
}
