package irtext

import (
	"fmt"

	"peep/internal/ir"
)

// ErrorKind categorizes problems found while reading textual IR
type ErrorKind string

const (
	SyntaxError         ErrorKind = "syntax"
	DuplicateLabel      ErrorKind = "duplicate-label"
	UnknownTarget       ErrorKind = "unknown-target"
	DuplicateKeyword    ErrorKind = "duplicate-keyword"
	MisplacedTerminator ErrorKind = "misplaced-terminator"
	InvalidLiteral      ErrorKind = "invalid-literal"
	InvalidArgument     ErrorKind = "invalid-argument"
)

// Error is a located problem in a textual IR file
type Error struct {
	Kind    ErrorKind
	Message string
	Loc     ir.Loc
	Length  int
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Message)
}
