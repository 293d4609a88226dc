// Package irtext reads the textual IR format:
//
//	func main(x) {
//	entry:
//	  $0 = global print
//	  $1 = const 1
//	  r = call $0($1, x)
//	  return r
//	}
//
// Comments start with ';' and run to the end of the line.
package irtext

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2"

	"peep/internal/ir"
)

var (
	buildOnce sync.Once
	irParser  *participle.Parser[File]
	buildErr  error

	literalOnce     sync.Once
	literalParser   *participle.Parser[Literal]
	literalBuildErr error
)

var identPattern = regexp.MustCompile(`^[$a-zA-Z_][$a-zA-Z0-9_.]*$`)

func buildParser() (*participle.Parser[File], error) {
	buildOnce.Do(func() {
		irParser, buildErr = participle.Build[File](
			participle.Lexer(IRLexer),
			participle.Elide("Whitespace", "Comment"),
			participle.Unquote("String"),
			participle.UseLookahead(4),
		)
	})
	return irParser, buildErr
}

func buildLiteralParser() (*participle.Parser[Literal], error) {
	literalOnce.Do(func() {
		literalParser, literalBuildErr = participle.Build[Literal](
			participle.Lexer(IRLexer),
			participle.Elide("Whitespace", "Comment"),
			participle.Unquote("String"),
			participle.UseLookahead(4),
		)
	})
	return literalParser, literalBuildErr
}

// ParseLiteral reads a single constant literal as written after `const`:
// 1, -2.5, "text", None, True or False.
func ParseLiteral(text string) (ir.Constant, error) {
	parser, err := buildLiteralParser()
	if err != nil {
		return ir.Constant{}, fmt.Errorf("failed to build parser: %w", err)
	}

	lit, err := parser.ParseString("", text)
	if err != nil {
		return ir.Constant{}, fmt.Errorf("invalid literal %q: %w", text, err)
	}

	b := newBuilder("")
	value, ok := b.literal(lit)
	if !ok {
		return ir.Constant{}, b.errors[0]
	}
	return value, nil
}

// ParseBinding reads NAME=LITERAL, the form used to bind module globals
// on the command line.
func ParseBinding(text string) (string, ir.Constant, error) {
	name, literal, found := strings.Cut(text, "=")
	name = strings.TrimSpace(name)
	if !found {
		return "", ir.Constant{}, fmt.Errorf("binding %q: expected NAME=LITERAL", text)
	}
	if !identPattern.MatchString(name) {
		return "", ir.Constant{}, fmt.Errorf("binding %q: invalid name %q", text, name)
	}

	value, err := ParseLiteral(literal)
	if err != nil {
		return "", ir.Constant{}, fmt.Errorf("binding %s: %w", name, err)
	}
	return name, value, nil
}

// ParseFile reads and parses a textual IR file
func ParseFile(path string) ([]*ir.Function, []Error, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	functions, errs := ParseSource(path, string(source))
	return functions, errs, nil
}

// ParseSource parses source and lowers it to IR functions. Syntax errors
// stop at the first one; structural errors are collected per function.
func ParseSource(filename, source string) ([]*ir.Function, []Error) {
	parser, err := buildParser()
	if err != nil {
		return nil, []Error{{Kind: SyntaxError, Message: fmt.Sprintf("failed to build parser: %v", err)}}
	}

	file, err := parser.ParseString(filename, source)
	if err != nil {
		return nil, []Error{syntaxError(filename, err)}
	}

	b := newBuilder(filename)
	functions := b.build(file)
	return functions, b.errors
}

func syntaxError(filename string, err error) Error {
	var pe participle.Error
	if !errors.As(err, &pe) {
		return Error{Kind: SyntaxError, Message: err.Error(), Loc: ir.Loc{Filename: filename, Line: 1, Column: 1}}
	}

	pos := pe.Position()
	return Error{
		Kind:    SyntaxError,
		Message: pe.Message(),
		Loc:     ir.Loc{Filename: filename, Line: pos.Line, Column: pos.Column},
		Length:  1,
	}
}
