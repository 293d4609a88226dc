package consts

import (
	"math"

	"github.com/shopspring/decimal"

	"peep/internal/ir"
)

// computeBinaryOp folds op over two constants. The boolean is false when the
// operation cannot be evaluated at compile time.
func computeBinaryOp(op string, left, right ir.Constant) (ir.Constant, bool) {
	lk, rk := left.Kind(), right.Kind()

	// Handle integer arithmetic
	if lk == ir.IntConstant && rk == ir.IntConstant {
		return foldInt(op, left.IntValue(), right.IntValue())
	}

	// Mixed int/decimal promotes to decimal
	if isNumeric(lk) && isNumeric(rk) {
		return foldDecimal(op, toDecimal(left), toDecimal(right))
	}

	if lk == ir.StringConstant && rk == ir.StringConstant {
		l, r := left.StringValue(), right.StringValue()
		switch op {
		case "+":
			return ir.String(l + r), true
		case "==":
			return ir.Bool(l == r), true
		case "!=":
			return ir.Bool(l != r), true
		}
		return ir.Constant{}, false
	}

	// Handle boolean operations
	if lk == ir.BoolConstant && rk == ir.BoolConstant {
		l, r := left.BoolValue(), right.BoolValue()
		switch op {
		case "&":
			return ir.Bool(l && r), true
		case "|":
			return ir.Bool(l || r), true
		case "==":
			return ir.Bool(l == r), true
		case "!=":
			return ir.Bool(l != r), true
		}
	}

	return ir.Constant{}, false
}

func foldInt(op string, l, r int64) (ir.Constant, bool) {
	switch op {
	case "+":
		if (r > 0 && l > math.MaxInt64-r) || (r < 0 && l < math.MinInt64-r) {
			return ir.Constant{}, false
		}
		return ir.Int(l + r), true
	case "-":
		if (r < 0 && l > math.MaxInt64+r) || (r > 0 && l < math.MinInt64+r) {
			return ir.Constant{}, false
		}
		return ir.Int(l - r), true
	case "*":
		if l != 0 && r != 0 {
			p := l * r
			if p/r != l || (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
				return ir.Constant{}, false
			}
			return ir.Int(p), true
		}
		return ir.Int(0), true
	case "/":
		return foldDecimal(op, decimal.NewFromInt(l), decimal.NewFromInt(r))
	case "//":
		if r == 0 || (l == math.MinInt64 && r == -1) {
			return ir.Constant{}, false
		}
		q := l / r
		if (l%r != 0) && ((l < 0) != (r < 0)) {
			q--
		}
		return ir.Int(q), true
	case "%":
		if r == 0 {
			return ir.Constant{}, false
		}
		m := l % r
		if m != 0 && ((m < 0) != (r < 0)) {
			m += r
		}
		return ir.Int(m), true
	case "==":
		return ir.Bool(l == r), true
	case "!=":
		return ir.Bool(l != r), true
	case "<":
		return ir.Bool(l < r), true
	case "<=":
		return ir.Bool(l <= r), true
	case ">":
		return ir.Bool(l > r), true
	case ">=":
		return ir.Bool(l >= r), true
	}
	return ir.Constant{}, false
}

func foldDecimal(op string, l, r decimal.Decimal) (ir.Constant, bool) {
	switch op {
	case "+":
		return ir.Decimal(l.Add(r)), true
	case "-":
		return ir.Decimal(l.Sub(r)), true
	case "*":
		return ir.Decimal(l.Mul(r)), true
	case "/":
		if r.IsZero() {
			return ir.Constant{}, false
		}
		// a rounded quotient is not a compile-time constant
		q := l.Div(r)
		if !q.Mul(r).Equal(l) {
			return ir.Constant{}, false
		}
		return ir.Decimal(q), true
	case "==":
		return ir.Bool(l.Equal(r)), true
	case "!=":
		return ir.Bool(!l.Equal(r)), true
	case "<":
		return ir.Bool(l.LessThan(r)), true
	case "<=":
		return ir.Bool(l.LessThanOrEqual(r)), true
	case ">":
		return ir.Bool(l.GreaterThan(r)), true
	case ">=":
		return ir.Bool(l.GreaterThanOrEqual(r)), true
	}
	return ir.Constant{}, false
}

// indexConstant evaluates target[index] for constant strings
func indexConstant(target, index ir.Constant) (ir.Constant, bool) {
	if target.Kind() != ir.StringConstant || index.Kind() != ir.IntConstant {
		return ir.Constant{}, false
	}

	runes := []rune(target.StringValue())
	i := index.IntValue()
	if i < 0 {
		i += int64(len(runes))
	}
	if i < 0 || i >= int64(len(runes)) {
		return ir.Constant{}, false
	}
	return ir.String(string(runes[i])), true
}

func isNumeric(k ir.ConstantKind) bool {
	return k == ir.IntConstant || k == ir.DecimalConstant
}

func toDecimal(c ir.Constant) decimal.Decimal {
	if c.Kind() == ir.IntConstant {
		return decimal.NewFromInt(c.IntValue())
	}
	return c.DecimalValue()
}
