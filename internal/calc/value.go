package calc

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// maxIntBits bounds integer results so a single ** cannot exhaust memory.
const maxIntBits = 1 << 16

// Value is an arbitrary-precision integer or a float64.
type Value struct {
	isInt bool
	i     *big.Int
	f     float64
}

func IntValue(i *big.Int) Value { return Value{isInt: true, i: i} }

func Int64Value(n int64) Value { return IntValue(big.NewInt(n)) }

func FloatValue(f float64) Value { return Value{f: f} }

func (v Value) IsInt() bool { return v.isInt }

// Float converts v to float64. Integers too large for a float64 yield ±Inf.
func (v Value) Float() float64 {
	if !v.isInt {
		return v.f
	}
	f, _ := new(big.Float).SetInt(v.i).Float64()
	return f
}

// String renders v the way an interactive calculator echoes results:
// integers as plain digits, floats in shortest round-trip form with a
// trailing ".0" for integral values.
func (v Value) String() string {
	if v.isInt {
		return v.i.String()
	}
	return FormatFloat(v.f)
}

// FormatFloat formats f in shortest round-trip form, switching to exponent
// notation when the decimal exponent is below -4 or at least 16.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	e := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return e
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

func (v Value) isZero() bool {
	if v.isInt {
		return v.i.Sign() == 0
	}
	return v.f == 0
}

// floatOperand converts an integer operand for mixed arithmetic.
func floatOperand(v Value) (float64, error) {
	f := v.Float()
	if v.isInt && math.IsInf(f, 0) {
		return 0, &Error{Kind: ErrOverflow, Detail: "integer too large to convert to float"}
	}
	return f, nil
}

func checkIntSize(i *big.Int) (Value, error) {
	if i.BitLen() > maxIntBits {
		return Value{}, &Error{Kind: ErrOverflow, Detail: "integer result too large"}
	}
	return IntValue(i), nil
}

func neg(v Value) Value {
	if v.isInt {
		return IntValue(new(big.Int).Neg(v.i))
	}
	return FloatValue(-v.f)
}

func add(a, b Value) (Value, error) {
	if a.isInt && b.isInt {
		return checkIntSize(new(big.Int).Add(a.i, b.i))
	}
	return floatBinary(a, b, func(x, y float64) (float64, error) { return x + y, nil })
}

func sub(a, b Value) (Value, error) {
	if a.isInt && b.isInt {
		return checkIntSize(new(big.Int).Sub(a.i, b.i))
	}
	return floatBinary(a, b, func(x, y float64) (float64, error) { return x - y, nil })
}

func mul(a, b Value) (Value, error) {
	if a.isInt && b.isInt {
		return checkIntSize(new(big.Int).Mul(a.i, b.i))
	}
	return floatBinary(a, b, func(x, y float64) (float64, error) { return x * y, nil })
}

// div is true division: the result is always a float.
func div(a, b Value) (Value, error) {
	if b.isZero() {
		return Value{}, &Error{Kind: ErrDivisionByZero, Detail: "division by zero"}
	}
	if a.isInt && b.isInt {
		// Exact quotient rounded once.
		q, _ := new(big.Rat).SetFrac(a.i, b.i).Float64()
		if math.IsInf(q, 0) {
			return Value{}, &Error{Kind: ErrOverflow, Detail: "integer division result too large for a float"}
		}
		return FloatValue(q), nil
	}
	return floatBinary(a, b, func(x, y float64) (float64, error) { return x / y, nil })
}

func floorDiv(a, b Value) (Value, error) {
	if b.isZero() {
		return Value{}, &Error{Kind: ErrDivisionByZero, Detail: "integer division or modulo by zero"}
	}
	if a.isInt && b.isInt {
		q, _ := floorDivModInt(a.i, b.i)
		return IntValue(q), nil
	}
	return floatBinary(a, b, func(x, y float64) (float64, error) {
		q, _ := floorDivModFloat(x, y)
		return q, nil
	})
}

func mod(a, b Value) (Value, error) {
	if b.isZero() {
		return Value{}, &Error{Kind: ErrDivisionByZero, Detail: "integer division or modulo by zero"}
	}
	if a.isInt && b.isInt {
		_, r := floorDivModInt(a.i, b.i)
		return IntValue(r), nil
	}
	return floatBinary(a, b, func(x, y float64) (float64, error) {
		_, r := floorDivModFloat(x, y)
		return r, nil
	})
}

func pow(a, b Value) (Value, error) {
	if a.isInt && b.isInt && b.i.Sign() >= 0 {
		// |a| <= 1 never grows, whatever the exponent.
		if a.i.CmpAbs(big.NewInt(1)) > 0 {
			if !b.i.IsInt64() || b.i.Int64() > maxIntBits || int64(a.i.BitLen()-1)*b.i.Int64() > maxIntBits {
				return Value{}, &Error{Kind: ErrOverflow, Detail: "integer result too large"}
			}
		}
		return IntValue(new(big.Int).Exp(a.i, b.i, nil)), nil
	}
	return floatBinary(a, b, floatPow)
}

func floatPow(x, y float64) (float64, error) {
	if x == 0 && y < 0 {
		return 0, &Error{Kind: ErrDivisionByZero, Detail: "zero raised to a negative power"}
	}
	if x < 0 && y != math.Trunc(y) && !math.IsInf(y, 0) {
		return 0, unsupportedErr("negative number raised to a fractional power has a complex result")
	}
	r := math.Pow(x, y)
	if math.IsInf(r, 0) && !math.IsInf(x, 0) && !math.IsInf(y, 0) {
		return 0, &Error{Kind: ErrOverflow, Detail: "float power overflow"}
	}
	return r, nil
}

func floatBinary(a, b Value, op func(x, y float64) (float64, error)) (Value, error) {
	x, err := floatOperand(a)
	if err != nil {
		return Value{}, err
	}
	y, err := floatOperand(b)
	if err != nil {
		return Value{}, err
	}
	r, err := op(x, y)
	if err != nil {
		return Value{}, err
	}
	return FloatValue(r), nil
}

// floorDivModInt returns the quotient rounded toward negative infinity and
// the remainder carrying the divisor's sign.
func floorDivModInt(a, b *big.Int) (*big.Int, *big.Int) {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 && r.Sign() != b.Sign() {
		q.Sub(q, big.NewInt(1))
		r.Add(r, b)
	}
	return q, r
}

// floorDivModFloat derives the quotient from fmod so that q*y + m == x holds
// as closely as float64 allows, including signed zeros.
func floorDivModFloat(x, y float64) (float64, float64) {
	m := math.Mod(x, y)
	d := (x - m) / y
	if m != 0 {
		if (y < 0) != (m < 0) {
			m += y
			d -= 1
		}
	} else {
		m = math.Copysign(0, y)
	}
	var q float64
	if d != 0 {
		q = math.Floor(d)
		if d-q > 0.5 {
			q += 1
		}
	} else {
		q = math.Copysign(0, x/y)
	}
	return q, m
}
