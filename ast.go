package trinity

// Node is an expression tree node. The set of implementations is closed:
// NumberLit, Ident, VectorLit, MatrixLit, Assign, BinaryOp, UnaryOp,
// Upgrade, Downgrade and Call. Trees are immutable once built; every node
// remembers the source position of its first token for error reporting.
type Node interface {
	// Pos returns the 1-based line and 0-based column of the node's
	// first token.
	Pos() (line, col int)
	node()
}

type pos struct {
	Line int
	Col  int
}

func (p pos) Pos() (int, int) { return p.Line, p.Col }

// NumberLit is a numeric literal.
type NumberLit struct {
	pos
	Value float64
}

// Ident is a variable reference, resolved against the environment at
// evaluation time (late binding).
type Ident struct {
	pos
	Name string
}

// VectorLit is a single-column bracket literal: every row held exactly one
// element. Element count is unconstrained here; the evaluator enforces 2/3.
type VectorLit struct {
	pos
	Elems []Node
}

// MatrixLit is a bracket literal where some row held more than one element.
// Rows are rectangular by construction (the parser rejects ragged literals).
type MatrixLit struct {
	pos
	Rows [][]Node
}

// Assign binds the evaluated expression to a name. Assignment is itself an
// expression: it yields the assigned value.
type Assign struct {
	pos
	Name string
	Expr Node
}

// BinaryOp is one of "+", "-", "*", "/". Juxtaposition ("A v") parses as "*".
type BinaryOp struct {
	pos
	Op    string
	Left  Node
	Right Node
}

// UnaryOp is prefix negation ("-").
type UnaryOp struct {
	pos
	Op      string
	Operand Node
}

// Upgrade is the postfix "!" operator (2D → 3D identity augmentation).
type Upgrade struct {
	pos
	Operand Node
}

// Downgrade is the postfix "?" operator (validated 3D → 2D narrowing).
type Downgrade struct {
	pos
	Operand Node
}

// Call invokes a built-in constructor such as rot(45) or rot3(0, 0, 90).
type Call struct {
	pos
	Name string
	Args []Node
}

func (*NumberLit) node() {}
func (*Ident) node()     {}
func (*VectorLit) node() {}
func (*MatrixLit) node() {}
func (*Assign) node()    {}
func (*BinaryOp) node()  {}
func (*UnaryOp) node()   {}
func (*Upgrade) node()   {}
func (*Downgrade) node() {}
func (*Call) node()      {}
