// printer.go — render ASTs back to surface syntax and Values for display.
//
// FormatNode is the inverse of Parse up to whitespace: re-parsing its
// output yields a structurally identical tree. Parentheses are inserted
// only where precedence demands them, and right operands of equal
// precedence keep their grouping so that associativity survives the
// round trip.
package trinity

import (
	"strconv"
	"strings"
)

// FormatNode renders an expression tree in surface syntax.
func FormatNode(n Node) string {
	return formatNode(n)
}

// FormatValue renders a Value in surface syntax: scalars as plain numbers,
// vectors as single-column literals, matrices row by row.
func FormatValue(v Value) string {
	switch v.Tag {
	case TagScalar:
		return fmtFloat(v.Scalar)
	case TagVec2:
		return "[" + fmtFloat(v.Vec2[0]) + "; " + fmtFloat(v.Vec2[1]) + "]"
	case TagVec3:
		return "[" + fmtFloat(v.Vec3[0]) + "; " + fmtFloat(v.Vec3[1]) + "; " + fmtFloat(v.Vec3[2]) + "]"
	case TagMat2:
		rows := make([]string, 2)
		for i, row := range v.Mat2 {
			rows[i] = fmtFloat(row[0]) + " " + fmtFloat(row[1])
		}
		return "[" + strings.Join(rows, "; ") + "]"
	case TagMat3:
		rows := make([]string, 3)
		for i, row := range v.Mat3 {
			rows[i] = fmtFloat(row[0]) + " " + fmtFloat(row[1]) + " " + fmtFloat(row[2])
		}
		return "[" + strings.Join(rows, "; ") + "]"
	default:
		return "<unknown>"
	}
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Precedence levels used for minimal parenthesization.
const (
	precAssign = iota + 1
	precAdd
	precMul
	precUnary
	precPostfix
	precPrimary
)

func nodePrec(n Node) int {
	switch n := n.(type) {
	case *Assign:
		return precAssign
	case *BinaryOp:
		if n.Op == "+" || n.Op == "-" {
			return precAdd
		}
		return precMul
	case *UnaryOp:
		return precUnary
	case *Upgrade, *Downgrade:
		return precPostfix
	default:
		return precPrimary
	}
}

// wrapBelow formats child, parenthesizing it when its precedence is below
// min.
func wrapBelow(child Node, min int) string {
	s := formatNode(child)
	if nodePrec(child) < min {
		s = "(" + s + ")"
	}
	return s
}

func formatNode(n Node) string {
	switch n := n.(type) {
	case *NumberLit:
		return fmtFloat(n.Value)

	case *Ident:
		return n.Name

	case *VectorLit:
		parts := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			parts[i] = formatNode(el)
		}
		return "[" + strings.Join(parts, "; ") + "]"

	case *MatrixLit:
		rows := make([]string, len(n.Rows))
		for i, row := range n.Rows {
			cells := make([]string, len(row))
			for j, el := range row {
				cells[j] = formatElement(el)
			}
			rows[i] = strings.Join(cells, " ")
		}
		return "[" + strings.Join(rows, "; ") + "]"

	case *Assign:
		return n.Name + " = " + formatNode(n.Expr)

	case *BinaryOp:
		my := nodePrec(n)
		left := wrapBelow(n.Left, my)
		// Equal precedence on the right keeps explicit grouping, so
		// "a - (b - c)" does not collapse into "a - b - c".
		right := wrapBelow(n.Right, my+1)
		return left + " " + n.Op + " " + right

	case *UnaryOp:
		return "-" + wrapBelow(n.Operand, precUnary)

	case *Upgrade:
		return wrapBelow(n.Operand, precPostfix) + "!"

	case *Downgrade:
		return wrapBelow(n.Operand, precPostfix) + "?"

	case *Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = formatNode(a)
		}
		return n.Name + "(" + strings.Join(args, ", ") + ")"

	default:
		return "<node>"
	}
}

// formatElement renders a matrix-row element so that whitespace-based
// element splitting survives: a negated element is glued ("-1") while a
// binary minus keeps spaces around it ("1 - 2").
func formatElement(el Node) string {
	if u, ok := el.(*UnaryOp); ok {
		return "-" + wrapBelow(u.Operand, precUnary)
	}
	return formatNode(el)
}
