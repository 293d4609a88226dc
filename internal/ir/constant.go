package ir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ConstantKind categorizes compile-time constants
type ConstantKind int

const (
	NoneConstant ConstantKind = iota
	IntConstant
	DecimalConstant
	StringConstant
	BoolConstant
	BuiltinConstant
)

func (k ConstantKind) String() string {
	switch k {
	case NoneConstant:
		return "none"
	case IntConstant:
		return "int"
	case DecimalConstant:
		return "decimal"
	case StringConstant:
		return "string"
	case BoolConstant:
		return "bool"
	case BuiltinConstant:
		return "builtin"
	default:
		return fmt.Sprintf("ConstantKind(%d)", int(k))
	}
}

// Constant is an immutable compile-time value. The zero value is None.
type Constant struct {
	kind ConstantKind
	i    int64
	d    decimal.Decimal
	s    string // string payload or builtin name
	b    bool
}

// None returns the absence-of-value constant
func None() Constant { return Constant{} }

// Int returns an exact integer constant
func Int(v int64) Constant { return Constant{kind: IntConstant, i: v} }

// Decimal returns an exact decimal constant
func Decimal(v decimal.Decimal) Constant { return Constant{kind: DecimalConstant, d: v} }

// String returns a string constant
func String(v string) Constant { return Constant{kind: StringConstant, s: v} }

// Bool returns a boolean constant
func Bool(v bool) Constant { return Constant{kind: BoolConstant, b: v} }

// BuiltinFunc returns a constant naming a builtin function
func BuiltinFunc(name string) Constant { return Constant{kind: BuiltinConstant, s: name} }

func (c Constant) Kind() ConstantKind            { return c.kind }
func (c Constant) IsNone() bool                  { return c.kind == NoneConstant }
func (c Constant) IntValue() int64               { return c.i }
func (c Constant) DecimalValue() decimal.Decimal { return c.d }
func (c Constant) StringValue() string           { return c.s }
func (c Constant) BoolValue() bool               { return c.b }

// IsBuiltin reports whether c is the builtin function called name
func (c Constant) IsBuiltin(name string) bool {
	return c.kind == BuiltinConstant && c.s == name
}

// Equal compares kind and payload; decimals compare numerically
func (c Constant) Equal(other Constant) bool {
	if c.kind != other.kind {
		return false
	}
	switch c.kind {
	case NoneConstant:
		return true
	case IntConstant:
		return c.i == other.i
	case DecimalConstant:
		return c.d.Equal(other.d)
	case StringConstant, BuiltinConstant:
		return c.s == other.s
	case BoolConstant:
		return c.b == other.b
	}
	return false
}

// String renders the constant the way the textual IR spells it
func (c Constant) String() string {
	switch c.kind {
	case IntConstant:
		return strconv.FormatInt(c.i, 10)
	case DecimalConstant:
		s := c.d.String()
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	case StringConstant:
		return strconv.Quote(c.s)
	case BoolConstant:
		if c.b {
			return "True"
		}
		return "False"
	case BuiltinConstant:
		return "<builtin " + c.s + ">"
	default:
		return "None"
	}
}
