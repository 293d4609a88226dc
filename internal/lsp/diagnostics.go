package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"peep/internal/errors"
)

const diagnosticSource = "peep"

// ConvertDiagnostics transforms compiler diagnostics into LSP diagnostics for IDE display.
func ConvertDiagnostics(diags []errors.CompilerError) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(diags))

	for _, d := range diags {
		line := uint32(max(0, d.Position.Line-1))     // Convert to 0-based indexing
		column := uint32(max(0, d.Position.Column-1)) // Convert to 0-based indexing

		diagnostic := protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: column},
				End:   protocol.Position{Line: line, Character: column + uint32(max(1, d.Length))},
			},
			Severity: ptrSeverity(severity(d.Level)),
			Code:     &protocol.IntegerOrString{Value: d.Code},
			Source:   ptrString(diagnosticSource),
			Message:  d.Message,
		}
		if d.HelpText != "" {
			diagnostic.Message += "\nhelp: " + d.HelpText
		}
		diagnostics = append(diagnostics, diagnostic)
	}

	return diagnostics
}

func severity(level errors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note:
		return protocol.DiagnosticSeverityInformation
	case errors.Help:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
