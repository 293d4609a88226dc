package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"peep/internal/ir"
	"peep/internal/irtext"
	"peep/internal/rewrite"
)

// DiagnosticBuilder provides a fluent interface for creating diagnostics with suggestions
type DiagnosticBuilder struct {
	err CompilerError
}

// NewDiagnostic creates a new diagnostic builder at the given level
func NewDiagnostic(level ErrorLevel, code, message string, pos ir.Loc) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		err: CompilerError{
			Level:    level,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	if length > 0 {
		b.err.Length = length
	}
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithNote adds a note to the error
func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed diagnostic
func (b *DiagnosticBuilder) Build() CompilerError {
	return b.err
}

var textCodes = map[irtext.ErrorKind]string{
	irtext.SyntaxError:         ErrorSyntax,
	irtext.DuplicateLabel:      ErrorDuplicateLabel,
	irtext.UnknownTarget:       ErrorUnknownTarget,
	irtext.DuplicateKeyword:    ErrorDuplicateKeyword,
	irtext.MisplacedTerminator: ErrorMisplacedTerminator,
	irtext.InvalidLiteral:      ErrorInvalidLiteral,
	irtext.InvalidArgument:     ErrorInvalidArgument,
}

// FromText converts a textual IR error into a diagnostic
func FromText(err irtext.Error) CompilerError {
	code, ok := textCodes[err.Kind]
	if !ok {
		code = ErrorSyntax
	}

	builder := NewDiagnostic(Error, code, err.Message, err.Loc).WithLength(err.Length)
	switch err.Kind {
	case irtext.UnknownTarget:
		builder = builder.WithHelp("jump and branch targets must name a block of the same function")
	case irtext.MisplacedTerminator:
		builder = builder.WithSuggestion("move the instructions after the terminator into a new block")
	}
	return builder.Build()
}

// FromRewrite converts an error returned by the pass driver into a
// diagnostic. The boolean is false for errors the engine does not own.
func FromRewrite(err error) (CompilerError, bool) {
	var cycle *rewrite.CycleLimitError
	if stderrors.As(err, &cycle) {
		return NewDiagnostic(Error, ErrorCycleLimit, cycle.Error(), cycle.Loc).
			WithLength(len(cycle.Block)).
			WithNote(fmt.Sprintf("rule '%s' matched its own output on every cycle", cycle.Rule)).
			WithHelp("a rule must never re-match the pattern it just rewrote").
			Build(), true
	}

	var failure *rewrite.RuleError
	if stderrors.As(err, &failure) {
		return NewDiagnostic(Error, ErrorRuleFailure, failure.Error(), failure.Loc).
			WithLength(len(failure.Block)).
			WithNote("compilation of this function was abandoned").
			Build(), true
	}

	return CompilerError{}, false
}

// UnknownStage warns about a stage with no registered rules
func UnknownStage(stage string, known []string) CompilerError {
	builder := NewDiagnostic(Warning, WarningUnknownStage, fmt.Sprintf("no rules registered for stage '%s'", stage), ir.Loc{})

	similar := findSimilarNames(stage, known)
	switch {
	case len(similar) == 1:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	case len(similar) > 1:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '")))
	case len(known) > 0:
		builder = builder.WithNote("known stages: " + strings.Join(known, ", "))
	}

	return builder.Build()
}

// PrintLowered is a hint attached to a print node created from a call
func PrintLowered(node *ir.Print) CompilerError {
	return NewDiagnostic(Help, HintPrintLowered, "print call lowered to a print node", node.Loc).
		WithLength(len("print")).
		Build()
}

// ConstantArguments is a hint listing the constant arguments of a print node
func ConstantArguments(node *ir.Print) CompilerError {
	return NewDiagnostic(Note, HintConstantArguments,
		fmt.Sprintf("constant print arguments %s", ir.ConstsString(node.Consts)), node.Loc).
		WithLength(len("print")).
		Build()
}

func findSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Create matrix
	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}

	// Initialize first row and column
	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	// Fill the matrix
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}
