package errors

// Error codes for the peep toolchain
// These codes are used in diagnostics printed by the CLI and published
// by the language server.
//
// Error code ranges:
// E0100-E0199: Textual IR errors
// E0900-E0999: Rewrite engine errors
// H0001-H0099: Rewrite hints

const (
	// E0100: Syntax errors in textual IR
	ErrorSyntax = "E0100"

	// E0101: A block label is defined twice in one function
	ErrorDuplicateLabel = "E0101"

	// E0102: A jump or branch names a block that does not exist
	ErrorUnknownTarget = "E0102"

	// E0103: A keyword argument is passed twice
	ErrorDuplicateKeyword = "E0103"

	// E0104: A terminator appears before the end of a block
	ErrorMisplacedTerminator = "E0104"

	// E0105: A literal cannot be represented
	ErrorInvalidLiteral = "E0105"

	// E0106: Malformed call or argument reference
	ErrorInvalidArgument = "E0106"

	// E0900: A rule kept matching and never reached a fixpoint
	ErrorCycleLimit = "E0900"

	// E0901: A rule failed while rewriting
	ErrorRuleFailure = "E0901"

	// E0902: No rules are registered for the requested stage
	WarningUnknownStage = "E0902"

	// H0001: Print call lowered to a print node
	HintPrintLowered = "H0001"

	// H0002: Print arguments known at compile time
	HintConstantArguments = "H0002"
)
