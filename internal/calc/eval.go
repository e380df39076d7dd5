package calc

import (
	"fmt"
	"math"
	"strings"
)

// ArithmeticNote is the note shown for any expression Evaluate rejects.
const ArithmeticNote = "I can only handle basic arithmetic (e.g., 2+3*4, (1+2)**3)."

// Result is a successful evaluation.
type Result struct {
	Expr  string
	Value Value
}

// Float returns the numeric result as a float64.
func (r Result) Float() float64 {
	return r.Value.Float()
}

// Steps is the two-line Markdown trace: the echoed expression and the result.
func (r Result) Steps() string {
	return strings.Join([]string{
		fmt.Sprintf(`- **Expression:** \(%s\)`, r.Expr),
		fmt.Sprintf(`- **Result:** \(%s\)`, r.Value),
	}, "\n")
}

// Evaluate parses and evaluates expr. The result must fit a float64; larger
// integers are reported as ErrOverflow. Errors are *Error values whose Note
// is ArithmeticNote.
func Evaluate(expr string) (Result, error) {
	n, err := Parse(expr)
	if err == nil {
		var v Value
		if v, err = Eval(n); err == nil {
			if v.IsInt() && math.IsInf(v.Float(), 0) {
				err = &Error{Kind: ErrOverflow, Detail: "integer result too large to convert to float"}
			} else {
				return Result{Expr: expr, Value: v}, nil
			}
		}
	}
	if ce, ok := err.(*Error); ok {
		ce.Note = ArithmeticNote
	}
	return Result{}, err
}

// Eval evaluates a tree bottom-up.
func Eval(n Node) (Value, error) {
	switch n := n.(type) {
	case *Number:
		return n.Value, nil
	case *Unary:
		if n.Op != OpNeg {
			return Value{}, unsupportedErr("unary operator %s", n.Op)
		}
		v, err := Eval(n.Operand)
		if err != nil {
			return Value{}, err
		}
		return neg(v), nil
	case *Binary:
		left, err := Eval(n.Left)
		if err != nil {
			return Value{}, err
		}
		right, err := Eval(n.Right)
		if err != nil {
			return Value{}, err
		}
		return applyBinary(n.Op, left, right)
	case nil:
		return Value{}, syntaxErr("empty expression")
	}
	return Value{}, unsupportedErr("node %T", n)
}

func applyBinary(op Op, a, b Value) (Value, error) {
	switch op {
	case OpAdd:
		return add(a, b)
	case OpSub:
		return sub(a, b)
	case OpMul:
		return mul(a, b)
	case OpDiv:
		return div(a, b)
	case OpFloorDiv:
		return floorDiv(a, b)
	case OpMod:
		return mod(a, b)
	case OpPow:
		return pow(a, b)
	}
	return Value{}, unsupportedErr("binary operator %s", op)
}
