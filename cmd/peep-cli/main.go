// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"peep/internal/consts"
	"peep/internal/errors"
	"peep/internal/ir"
	"peep/internal/irtext"
	"peep/internal/rewrite"
)

func main() {
	stage := flag.String("stage", rewrite.StageBeforeInference, "rewrite stage to run")
	maxCycles := flag.Int("max-cycles", rewrite.DefaultMaxCycles, "productive cycles allowed per rule and block")
	verbose := flag.Int("v", 0, "log verbosity (0 quiet, 1 info, 2 debug)")
	showReport := flag.Bool("report", false, "print the number of rewrites per rule")
	globals := make(globalFlags)
	flag.Var(globals, "global", "bind a module global, NAME=LITERAL (repeatable)")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage: peep [flags] <file.pir>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	commonlog.Configure(*verbose, nil)

	startTime := time.Now()
	path := flag.Arg(0)

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		os.Exit(1)
	}

	errorReporter := errors.NewErrorReporter(path, string(source))

	var diagnostics []errors.CompilerError
	functions, textErrors := irtext.ParseSource(path, string(source))
	for _, err := range textErrors {
		diagnostics = append(diagnostics, errors.FromText(err))
	}

	registry := rewrite.DefaultRegistry()
	driver := rewrite.NewDriver(registry, rewrite.Config{MaxCycles: *maxCycles})

	reports := make(map[string]*rewrite.Report)
	if len(textErrors) == 0 {
		if !registry.HasStage(*stage) {
			diagnostics = append(diagnostics, errors.UnknownStage(*stage, registry.Stages()))
		}

		for _, fn := range functions {
			oracle := consts.New(fn)
			oracle.SetGlobals(globals)

			report, err := driver.RunFunction(*stage, rewrite.NewContext(oracle), fn)
			if err != nil {
				diag, ok := errors.FromRewrite(err)
				if !ok {
					fmt.Fprintf(os.Stderr, "%v\n", err)
					os.Exit(1)
				}
				diagnostics = append(diagnostics, diag)
				continue
			}
			reports[fn.Name] = report
		}
	}

	fmt.Print(errorReporter.FormatAll(diagnostics))
	hasErrors := errors.HasErrors(diagnostics)

	// Calculate processing time
	duration := time.Since(startTime)
	formattedDuration := formatDuration(duration)

	// Only print the rewritten IR and success message if no errors
	if !hasErrors {
		for _, fn := range functions {
			fmt.Print(ir.PrintFunction(fn))
		}
		if *showReport {
			fmt.Print(formatReport(functions, reports))
		}
		color.Green("Successfully rewrote %s in %s", path, formattedDuration)
	} else {
		color.Red("Rewrite failed after %s", formattedDuration)
		os.Exit(1)
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
