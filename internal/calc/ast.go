package calc

import "fmt"

// Node is an expression tree node. The set of implementations is closed:
// *Number, *Binary and *Unary.
type Node interface {
	node()
	String() string
}

// Op is an arithmetic operator from the allow-list.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpNeg
)

var opSymbols = [...]string{
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpFloorDiv: "//",
	OpMod:      "%",
	OpPow:      "**",
	OpNeg:      "-",
}

func (o Op) String() string {
	if int(o) < len(opSymbols) {
		return opSymbols[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

var binaryOps = map[TokenType]Op{
	TokPlus:     OpAdd,
	TokMinus:    OpSub,
	TokStar:     OpMul,
	TokSlash:    OpDiv,
	TokFloorDiv: OpFloorDiv,
	TokPercent:  OpMod,
	TokPow:      OpPow,
}

// Number is an integer or float literal.
type Number struct {
	Value Value
}

func (n *Number) node() {}

func (n *Number) String() string { return n.Value.String() }

// Binary applies Op to Left and Right.
type Binary struct {
	Op    Op
	Left  Node
	Right Node
}

func (n *Binary) node() {}

func (n *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}

// Unary applies Op (negation only) to Operand.
type Unary struct {
	Op      Op
	Operand Node
}

func (n *Unary) node() {}

func (n *Unary) String() string {
	return fmt.Sprintf("(%s%s)", n.Op, n.Operand)
}
