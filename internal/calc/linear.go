package calc

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"
)

// Notes shown for SolveLinear failures.
const (
	NoteMissingEquals = "Please provide an equation like 2x+3=11."
	NoteNotLinear     = "I can only solve simple linear equations like 2x+3=11."
	NoteRightSide     = "Right-hand side should be a number."
	NoteZeroCoeff     = "Coefficient of x cannot be zero for a linear equation."
)

// leftSide matches "ax+b" with an optional signed integer coefficient and an
// optional signed integer constant.
var leftSide = regexp.MustCompile(`^([+-]?\d*)x([+-]\d+)?$`)

// rightSide is a decimal integer literal; underscores may separate digits.
var rightSide = regexp.MustCompile(`^[+-]?\d+(_\d+)*$`)

// Solution is a solved a*x + b = c.
type Solution struct {
	Equation string
	A, B, C  *big.Int
	X        float64
}

// Steps is the four-line Markdown derivation.
func (s Solution) Steps() string {
	x := FormatFloat(s.X)
	return strings.Join([]string{
		`- **Given:** \(` + strings.ReplaceAll(s.Equation, "^", "**") + `\)`,
		`- **Rearrange:** \(ax + b = c \Rightarrow x = \frac{c - b}{a}\)`,
		fmt.Sprintf(`- **Compute:** \(\frac{%s - %s}{%s} = %s\)`, s.C, s.B, s.A, x),
		fmt.Sprintf(`- **Solution:** \(x = %s\)`, x),
	}, "\n")
}

func parseInt(s string) (*big.Int, bool) {
	return new(big.Int).SetString(strings.TrimPrefix(s, "+"), 10)
}

// SolveLinear solves equations of the form "ax+b=c" for x. Only integer
// coefficients on the left and a bare integer on the right are accepted.
// Integers are unbounded; x is the correctly rounded float64 of (c-b)/a.
func SolveLinear(equation string) (Solution, error) {
	eq := strings.ReplaceAll(equation, " ", "")
	left, right, ok := strings.Cut(eq, "=")
	if !ok {
		return Solution{}, &Error{Kind: ErrFormat, Detail: "missing '='", Note: NoteMissingEquals}
	}

	m := leftSide.FindStringSubmatch(left)
	if m == nil {
		return Solution{}, &Error{Kind: ErrFormat, Detail: fmt.Sprintf("left side %q is not ax+b", left), Note: NoteNotLinear}
	}

	var a *big.Int
	switch m[1] {
	case "", "+":
		a = big.NewInt(1)
	case "-":
		a = big.NewInt(-1)
	default:
		n, ok := parseInt(m[1])
		if !ok {
			return Solution{}, &Error{Kind: ErrFormat, Detail: fmt.Sprintf("coefficient %q", m[1]), Note: NoteNotLinear}
		}
		a = n
	}

	b := new(big.Int)
	if m[2] != "" {
		n, ok := parseInt(m[2])
		if !ok {
			return Solution{}, &Error{Kind: ErrFormat, Detail: fmt.Sprintf("constant %q", m[2]), Note: NoteNotLinear}
		}
		b = n
	}

	if !rightSide.MatchString(right) {
		return Solution{}, &Error{Kind: ErrFormat, Detail: fmt.Sprintf("right side %q", right), Note: NoteRightSide}
	}
	c, ok := parseInt(strings.ReplaceAll(right, "_", ""))
	if !ok {
		return Solution{}, &Error{Kind: ErrFormat, Detail: fmt.Sprintf("right side %q", right), Note: NoteRightSide}
	}

	if a.Sign() == 0 {
		return Solution{}, &Error{Kind: ErrDivisionByZero, Detail: "coefficient of x is zero", Note: NoteZeroCoeff}
	}

	x, _ := new(big.Rat).SetFrac(new(big.Int).Sub(c, b), a).Float64()
	if math.IsInf(x, 0) {
		return Solution{}, &Error{Kind: ErrOverflow, Detail: "solution too large for a float", Note: NoteNotLinear}
	}

	return Solution{
		Equation: eq,
		A:        a,
		B:        b,
		C:        c,
		X:        x,
	}, nil
}
