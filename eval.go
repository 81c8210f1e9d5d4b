// eval.go — post-order tree-walking evaluator.
//
// Evaluation is synchronous and single-threaded: children evaluate before
// their parent combines them through the value algebra in value.go.
// Identifiers bind late — the environment is consulted at evaluation time,
// so a name reflects the session state at the moment of evaluation, not at
// parse time. The evaluator never panics; every failure is a *EvalError.
// NaN and infinity flow through as ordinary IEEE-754 values.
package trinity

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// EvalErrorKind discriminates the closed set of evaluation failures.
type EvalErrorKind int

const (
	EvalUndefinedVariable EvalErrorKind = iota
	EvalTypeMismatch
	EvalDimensionMismatch
	EvalInvalidUpgrade
	EvalInvalidDowngrade
	EvalDivisionByZero
	EvalInvalidCall
	EvalNamingConvention
)

// EvalError is an evaluation failure with a 1-based line and 0-based column.
type EvalError struct {
	Kind EvalErrorKind
	Line int
	Col  int
	Msg  string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("EVAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Evaluate walks the expression tree against env, producing a Value or a
// *EvalError. Assignment nodes mutate env in place; everything else only
// reads it.
func Evaluate(ast Node, env *Env) (Value, error) {
	v, err := eval(ast, env)
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

// at pins an algebra error (which carries no position) to the node that
// triggered it. Errors that already have a position keep it.
func at(err *EvalError, n Node) *EvalError {
	if err != nil && err.Line == 0 {
		err.Line, err.Col = n.Pos()
	}
	return err
}

func eval(n Node, env *Env) (Value, *EvalError) {
	switch n := n.(type) {
	case *NumberLit:
		return ScalarVal(n.Value), nil

	case *Ident:
		v, ok := env.Get(n.Name)
		if !ok {
			return Value{}, at(&EvalError{
				Kind: EvalUndefinedVariable,
				Msg:  fmt.Sprintf("undefined variable: %s", n.Name),
			}, n)
		}
		return v, nil

	case *VectorLit:
		return evalVectorLit(n, env)

	case *MatrixLit:
		return evalMatrixLit(n, env)

	case *Assign:
		v, err := eval(n.Expr, env)
		if err != nil {
			return Value{}, err
		}
		if cerr := CheckNameConvention(n.Name, v); cerr != nil {
			return Value{}, at(cerr, n)
		}
		env.Set(n.Name, v)
		return v, nil

	case *UnaryOp:
		v, err := eval(n.Operand, env)
		if err != nil {
			return Value{}, err
		}
		return scale(v, -1), nil

	case *BinaryOp:
		l, err := eval(n.Left, env)
		if err != nil {
			return Value{}, err
		}
		r, err := eval(n.Right, env)
		if err != nil {
			return Value{}, err
		}
		var out Value
		var aerr *EvalError
		switch n.Op {
		case "+":
			out, aerr = addValues(l, r)
		case "-":
			out, aerr = subValues(l, r)
		case "*":
			out, aerr = mulValues(l, r)
		case "/":
			out, aerr = divValues(l, r)
		default:
			aerr = &EvalError{Kind: EvalTypeMismatch, Msg: fmt.Sprintf("unknown operator %q", n.Op)}
		}
		if aerr != nil {
			return Value{}, at(aerr, n)
		}
		return out, nil

	case *Upgrade:
		v, err := eval(n.Operand, env)
		if err != nil {
			return Value{}, err
		}
		out, aerr := upgradeValue(v)
		if aerr != nil {
			return Value{}, at(aerr, n)
		}
		return out, nil

	case *Downgrade:
		v, err := eval(n.Operand, env)
		if err != nil {
			return Value{}, err
		}
		out, aerr := downgradeValue(v)
		if aerr != nil {
			return Value{}, at(aerr, n)
		}
		return out, nil

	case *Call:
		return evalCall(n, env)

	default:
		// The node set is closed; this is unreachable for trees built by
		// Parse, but a foreign Node implementation must not crash us.
		line, col := n.Pos()
		return Value{}, &EvalError{
			Kind: EvalTypeMismatch,
			Line: line,
			Col:  col,
			Msg:  "unsupported expression node",
		}
	}
}

func evalVectorLit(n *VectorLit, env *Env) (Value, *EvalError) {
	if len(n.Elems) != 2 && len(n.Elems) != 3 {
		return Value{}, at(&EvalError{
			Kind: EvalDimensionMismatch,
			Msg:  fmt.Sprintf("vectors must have 2 or 3 components, got %d", len(n.Elems)),
		}, n)
	}
	var comps [3]float64
	for i, el := range n.Elems {
		v, err := eval(el, env)
		if err != nil {
			return Value{}, err
		}
		if v.Tag != TagScalar {
			return Value{}, at(&EvalError{
				Kind: EvalTypeMismatch,
				Msg:  fmt.Sprintf("vector components must be scalars, got %s", v.Tag),
			}, el)
		}
		comps[i] = v.Scalar
	}
	if len(n.Elems) == 2 {
		return Vec2Val(comps[0], comps[1]), nil
	}
	return Vec3Val(comps[0], comps[1], comps[2]), nil
}

func evalMatrixLit(n *MatrixLit, env *Env) (Value, *EvalError) {
	rows := len(n.Rows)
	cols := len(n.Rows[0]) // rectangular by construction
	if !(rows == 2 && cols == 2) && !(rows == 3 && cols == 3) {
		return Value{}, at(&EvalError{
			Kind: EvalDimensionMismatch,
			Msg:  fmt.Sprintf("matrices must be 2x2 or 3x3, got %dx%d", rows, cols),
		}, n)
	}
	var m [3][3]float64
	for i, row := range n.Rows {
		for j, el := range row {
			v, err := eval(el, env)
			if err != nil {
				return Value{}, err
			}
			if v.Tag != TagScalar {
				return Value{}, at(&EvalError{
					Kind: EvalTypeMismatch,
					Msg:  fmt.Sprintf("matrix entries must be scalars, got %s", v.Tag),
				}, el)
			}
			m[i][j] = v.Scalar
		}
	}
	if rows == 2 {
		return Mat2Val([2][2]float64{{m[0][0], m[0][1]}, {m[1][0], m[1][1]}}), nil
	}
	return Mat3Val(m), nil
}

// CheckNameConvention enforces the lexical binding rule: uppercase-leading
// names hold matrices, lowercase-leading names hold vectors or scalars.
// It returns nil when name and value agree.
func CheckNameConvention(name string, v Value) *EvalError {
	r, _ := utf8.DecodeRuneInString(name)
	if unicode.IsUpper(r) {
		if !v.IsMatrix() {
			return &EvalError{
				Kind: EvalNamingConvention,
				Msg:  fmt.Sprintf("uppercase name %q must be bound to a matrix, not a %s", name, v.Tag),
			}
		}
		return nil
	}
	if v.IsMatrix() {
		return &EvalError{
			Kind: EvalNamingConvention,
			Msg:  fmt.Sprintf("lowercase name %q must be bound to a vector or scalar, not a %s", name, v.Tag),
		}
	}
	return nil
}

// ───────────────────────────────── built-ins ────────────────────────────────

func evalCall(n *Call, env *Env) (Value, *EvalError) {
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := eval(a, env)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}

	switch n.Name {
	case "rot":
		if err := needScalarArgs(n, args, 1, "rot(degrees)"); err != nil {
			return Value{}, err
		}
		return Mat2Val(rotationMat2(args[0].Scalar)), nil

	case "rot3":
		if err := needScalarArgs(n, args, 3, "rot3(xdeg, ydeg, zdeg)"); err != nil {
			return Value{}, err
		}
		return Mat3Val(rotationMat3(args[0].Scalar, args[1].Scalar, args[2].Scalar)), nil

	default:
		return Value{}, at(&EvalError{
			Kind: EvalInvalidCall,
			Msg:  fmt.Sprintf("unknown function %q", n.Name),
		}, n)
	}
}

func needScalarArgs(n *Call, args []Value, arity int, signature string) *EvalError {
	if len(args) != arity {
		return at(&EvalError{
			Kind: EvalInvalidCall,
			Msg:  fmt.Sprintf("%s takes %d argument(s), got %d", signature, arity, len(args)),
		}, n)
	}
	for i, a := range args {
		if a.Tag != TagScalar {
			return at(&EvalError{
				Kind: EvalInvalidCall,
				Msg:  fmt.Sprintf("argument %d of %s must be a scalar, got %s", i+1, signature, a.Tag),
			}, n)
		}
	}
	return nil
}
