package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"peep/internal/ir"
)

// ErrorLevel represents the severity of a diagnostic
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// CompilerError is a structured diagnostic with suggestions and context
type CompilerError struct {
	Level       ErrorLevel
	Code        string       // E0100, H0001, ...
	Message     string       // Primary message
	Position    ir.Loc       // Zero line when the diagnostic has no source location
	Length      int          // Length of the underlined region
	Suggestions []Suggestion // Suggested fixes
	Notes       []string     // Additional context notes
	HelpText    string
}

// Suggestion is a suggested fix
type Suggestion struct {
	Message     string
	Replacement string // optional
}

// ErrorReporter renders diagnostics against the source they refer to
type ErrorReporter struct {
	filename string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// levelStyle holds the colors used for one diagnostic level
type levelStyle struct {
	header func(...interface{}) string
	marker string
}

var levelStyles = map[ErrorLevel]levelStyle{
	Error:   {color.New(color.FgRed, color.Bold).SprintFunc(), "^"},
	Warning: {color.New(color.FgYellow, color.Bold).SprintFunc(), "^"},
	Note:    {color.New(color.FgBlue, color.Bold).SprintFunc(), "-"},
	Help:    {color.New(color.FgGreen, color.Bold).SprintFunc(), "-"},
}

func styleFor(level ErrorLevel) levelStyle {
	if style, ok := levelStyles[level]; ok {
		return style
	}
	return levelStyles[Error]
}

// FormatError formats a diagnostic with Rust-like styling and suggestions:
//
//	error[E0102]: unknown block 'nowhere'
//	   --> test.pir:3:3
//	    │
//	  2 │ entry:
//	  3 │   jump nowhere
//	    │   ^^^^^^^^^^^^
//	    │ help: ...
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var out strings.Builder

	style := styleFor(err.Level)
	dim := color.New(color.Faint).SprintFunc()

	// Header: error[E0100]: message
	if err.Code != "" {
		fmt.Fprintf(&out, "%s[%s]: %s\n", style.header(string(err.Level)), err.Code, err.Message)
	} else {
		fmt.Fprintf(&out, "%s: %s\n", style.header(string(err.Level)), err.Message)
	}

	width := lineNumberWidth(err.Position.Line)
	gutter := strings.Repeat(" ", width)

	if err.Position.Line > 0 {
		fmt.Fprintf(&out, "%s %s %s:%d:%d\n", gutter, dim("-->"), er.filename, err.Position.Line, err.Position.Column)
		fmt.Fprintf(&out, "%s %s\n", gutter, dim("│"))
		er.writeSource(&out, err, style, width)
	} else {
		fmt.Fprintf(&out, "%s %s %s\n", gutter, dim("-->"), er.filename)
	}

	writeSuggestions(&out, err.Suggestions, gutter, dim)

	noteColor := color.New(color.FgBlue).SprintFunc()
	for _, note := range err.Notes {
		fmt.Fprintf(&out, "%s %s %s %s\n", gutter, dim("│"), noteColor("note:"), note)
	}

	if err.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(&out, "%s %s %s %s\n", gutter, dim("│"), helpColor("help:"), err.HelpText)
	}

	out.WriteString("\n")
	return out.String()
}

// FormatAll formats diagnostics in order followed by a summary line
func (er *ErrorReporter) FormatAll(errs []CompilerError) string {
	var out strings.Builder
	for _, err := range errs {
		out.WriteString(er.FormatError(err))
	}
	if summary := Summary(errs); summary != "" {
		out.WriteString(summary)
		out.WriteString("\n")
	}
	return out.String()
}

// Summary counts errors and warnings, e.g. "2 errors, 1 warning".
// Notes and hints are not counted.
func Summary(errs []CompilerError) string {
	var errorCount, warningCount int
	for _, err := range errs {
		switch err.Level {
		case Error:
			errorCount++
		case Warning:
			warningCount++
		}
	}

	var parts []string
	if errorCount > 0 {
		parts = append(parts, plural(errorCount, "error"))
	}
	if warningCount > 0 {
		parts = append(parts, plural(warningCount, "warning"))
	}
	return strings.Join(parts, ", ")
}

// HasErrors reports whether any diagnostic is at error level
func HasErrors(errs []CompilerError) bool {
	for _, err := range errs {
		if err.Level == Error {
			return true
		}
	}
	return false
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// writeSource prints the offending line with one line of context either side
func (er *ErrorReporter) writeSource(out *strings.Builder, err CompilerError, style levelStyle, width int) {
	dim := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	line := err.Position.Line

	if line > 1 && line-1 <= len(er.lines) {
		fmt.Fprintf(out, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, line-1)), dim("│"), er.lines[line-2])
	}

	if line > len(er.lines) {
		return
	}

	fmt.Fprintf(out, "%s %s %s\n", bold(fmt.Sprintf("%*d", width, line)), dim("│"), er.lines[line-1])

	spaces := strings.Repeat(" ", max(0, err.Position.Column-1))
	marker := strings.Repeat(style.marker, max(1, err.Length))
	fmt.Fprintf(out, "%s %s %s%s\n", strings.Repeat(" ", width), dim("│"), spaces, style.header(marker))

	if line < len(er.lines) && strings.TrimSpace(er.lines[line]) != "" {
		fmt.Fprintf(out, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, line+1)), dim("│"), er.lines[line])
	}
}

func writeSuggestions(out *strings.Builder, suggestions []Suggestion, gutter string, dim func(...interface{}) string) {
	if len(suggestions) == 0 {
		return
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", gutter, dim("│"))
	for i, suggestion := range suggestions {
		if i == 0 {
			fmt.Fprintf(out, "%s %s %s: %s\n", gutter, cyan("help"), cyan("try"), suggestion.Message)
		} else {
			fmt.Fprintf(out, "%s %s %s\n", gutter, cyan("    "), suggestion.Message)
		}

		if suggestion.Replacement != "" {
			replacement := strings.ReplaceAll(suggestion.Replacement, "\n", fmt.Sprintf("\n%s %s ", gutter, dim("│")))
			fmt.Fprintf(out, "%s %s %s\n", gutter, cyan("│"), cyan(replacement))
		}
	}
}

// lineNumberWidth is the gutter width, at least 3 for visual alignment
func lineNumberWidth(line int) int {
	return max(3, len(fmt.Sprintf("%d", line)))
}
