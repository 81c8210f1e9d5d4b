// value.go — the closed runtime value model and its algebra.
//
// A Value is one of five variants: scalar, 2D/3D vector, 2D/3D matrix. The
// variants are fixed-size numeric arrays behind a tag, so every arithmetic
// and conversion rule below is an exhaustive switch over tag pairs and no
// operation can panic. Matrices are row-major.
package trinity

import (
	"fmt"
	"math"
)

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	TagScalar ValueTag = iota
	TagVec2
	TagVec3
	TagMat2
	TagMat3
)

func (t ValueTag) String() string {
	switch t {
	case TagScalar:
		return "scalar"
	case TagVec2:
		return "vector2"
	case TagVec3:
		return "vector3"
	case TagMat2:
		return "matrix2"
	case TagMat3:
		return "matrix3"
	default:
		return "unknown"
	}
}

// Value is the evaluator's runtime type. The tag determines which field is
// meaningful; the others stay zero. Values are plain data and are copied
// freely — they are never shared by reference across evaluations.
type Value struct {
	Tag    ValueTag
	Scalar float64
	Vec2   [2]float64
	Vec3   [3]float64
	Mat2   [2][2]float64 // [row][col]
	Mat3   [3][3]float64 // [row][col]
}

func ScalarVal(x float64) Value     { return Value{Tag: TagScalar, Scalar: x} }
func Vec2Val(x, y float64) Value    { return Value{Tag: TagVec2, Vec2: [2]float64{x, y}} }
func Vec3Val(x, y, z float64) Value { return Value{Tag: TagVec3, Vec3: [3]float64{x, y, z}} }
func Mat2Val(m [2][2]float64) Value { return Value{Tag: TagMat2, Mat2: m} }
func Mat3Val(m [3][3]float64) Value { return Value{Tag: TagMat3, Mat3: m} }

// IsMatrix reports whether the value is a 2D or 3D matrix. The naming
// convention check is built on this split.
func (v Value) IsMatrix() bool { return v.Tag == TagMat2 || v.Tag == TagMat3 }

// String renders the value in surface syntax (same as FormatValue).
func (v Value) String() string { return FormatValue(v) }

// ─────────────────────────────── add / subtract ─────────────────────────────

// addValues is element-wise addition between values of identical variant.
func addValues(a, b Value) (Value, *EvalError) {
	return combineSameTag(a, b, "add", func(x, y float64) float64 { return x + y })
}

// subValues is element-wise subtraction between values of identical variant.
func subValues(a, b Value) (Value, *EvalError) {
	return combineSameTag(a, b, "subtract", func(x, y float64) float64 { return x - y })
}

func combineSameTag(a, b Value, verb string, f func(x, y float64) float64) (Value, *EvalError) {
	if a.Tag != b.Tag {
		return Value{}, &EvalError{
			Kind: EvalTypeMismatch,
			Msg:  fmt.Sprintf("cannot %s %s and %s", verb, a.Tag, b.Tag),
		}
	}
	out := Value{Tag: a.Tag}
	switch a.Tag {
	case TagScalar:
		out.Scalar = f(a.Scalar, b.Scalar)
	case TagVec2:
		for i := range out.Vec2 {
			out.Vec2[i] = f(a.Vec2[i], b.Vec2[i])
		}
	case TagVec3:
		for i := range out.Vec3 {
			out.Vec3[i] = f(a.Vec3[i], b.Vec3[i])
		}
	case TagMat2:
		for i := range out.Mat2 {
			for j := range out.Mat2[i] {
				out.Mat2[i][j] = f(a.Mat2[i][j], b.Mat2[i][j])
			}
		}
	case TagMat3:
		for i := range out.Mat3 {
			for j := range out.Mat3[i] {
				out.Mat3[i][j] = f(a.Mat3[i][j], b.Mat3[i][j])
			}
		}
	}
	return out, nil
}

// ───────────────────────────────── multiply ─────────────────────────────────

// mulValues implements the multiplication table: scalars scale anything,
// same-dimension matrices compose, and a matrix applies to a vector of its
// own dimension. Everything else is a dimension mismatch.
func mulValues(a, b Value) (Value, *EvalError) {
	switch {
	case a.Tag == TagScalar:
		return scale(b, a.Scalar), nil
	case b.Tag == TagScalar:
		return scale(a, b.Scalar), nil
	case a.Tag == TagMat2 && b.Tag == TagMat2:
		return Mat2Val(mul2(a.Mat2, b.Mat2)), nil
	case a.Tag == TagMat3 && b.Tag == TagMat3:
		return Mat3Val(mul3(a.Mat3, b.Mat3)), nil
	case a.Tag == TagMat2 && b.Tag == TagVec2:
		return Vec2Val(
			a.Mat2[0][0]*b.Vec2[0]+a.Mat2[0][1]*b.Vec2[1],
			a.Mat2[1][0]*b.Vec2[0]+a.Mat2[1][1]*b.Vec2[1],
		), nil
	case a.Tag == TagMat3 && b.Tag == TagVec3:
		var out [3]float64
		for i := 0; i < 3; i++ {
			out[i] = a.Mat3[i][0]*b.Vec3[0] + a.Mat3[i][1]*b.Vec3[1] + a.Mat3[i][2]*b.Vec3[2]
		}
		return Value{Tag: TagVec3, Vec3: out}, nil
	default:
		return Value{}, &EvalError{
			Kind: EvalDimensionMismatch,
			Msg:  fmt.Sprintf("cannot multiply %s by %s", a.Tag, b.Tag),
		}
	}
}

func scale(v Value, k float64) Value {
	out := v
	switch v.Tag {
	case TagScalar:
		out.Scalar = v.Scalar * k
	case TagVec2:
		for i := range out.Vec2 {
			out.Vec2[i] = v.Vec2[i] * k
		}
	case TagVec3:
		for i := range out.Vec3 {
			out.Vec3[i] = v.Vec3[i] * k
		}
	case TagMat2:
		for i := range out.Mat2 {
			for j := range out.Mat2[i] {
				out.Mat2[i][j] = v.Mat2[i][j] * k
			}
		}
	case TagMat3:
		for i := range out.Mat3 {
			for j := range out.Mat3[i] {
				out.Mat3[i][j] = v.Mat3[i][j] * k
			}
		}
	}
	return out
}

func mul2(a, b [2][2]float64) [2][2]float64 {
	var out [2][2]float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j]
		}
	}
	return out
}

func mul3(a, b [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j]
		}
	}
	return out
}

// ────────────────────────────────── divide ──────────────────────────────────

// divValues defines scalar/scalar and aggregate/scalar division. Dividing by
// an exact-zero scalar is an error rather than producing infinities.
func divValues(a, b Value) (Value, *EvalError) {
	if b.Tag != TagScalar {
		return Value{}, &EvalError{
			Kind: EvalTypeMismatch,
			Msg:  fmt.Sprintf("cannot divide %s by %s; the divisor must be a scalar", a.Tag, b.Tag),
		}
	}
	if b.Scalar == 0 {
		return Value{}, &EvalError{Kind: EvalDivisionByZero, Msg: "division by zero"}
	}
	return scale(a, 1/b.Scalar), nil
}

// ──────────────────────────── upgrade / downgrade ───────────────────────────

// upgradeValue embeds a 2D value into 3D: matrices get an identity-augmented
// third row and column, vectors a zero third component.
func upgradeValue(v Value) (Value, *EvalError) {
	switch v.Tag {
	case TagVec2:
		return Vec3Val(v.Vec2[0], v.Vec2[1], 0), nil
	case TagMat2:
		return Mat3Val([3][3]float64{
			{v.Mat2[0][0], v.Mat2[0][1], 0},
			{v.Mat2[1][0], v.Mat2[1][1], 0},
			{0, 0, 1},
		}), nil
	case TagScalar:
		return Value{}, &EvalError{Kind: EvalInvalidUpgrade, Msg: "cannot upgrade a scalar"}
	default:
		return Value{}, &EvalError{
			Kind: EvalInvalidUpgrade,
			Msg:  fmt.Sprintf("cannot upgrade %s; it is already 3-dimensional", v.Tag),
		}
	}
}

// downgradeValue narrows a 3D value back to 2D. It is a validated narrowing,
// never a projection: the removed dimension must carry exactly the identity
// augmentation produced by an upgrade.
func downgradeValue(v Value) (Value, *EvalError) {
	switch v.Tag {
	case TagVec3:
		if v.Vec3[2] != 0 {
			return Value{}, &EvalError{
				Kind: EvalInvalidDowngrade,
				Msg:  fmt.Sprintf("cannot downgrade vector3 with third component %s; it must be exactly 0", fmtFloat(v.Vec3[2])),
			}
		}
		return Vec2Val(v.Vec3[0], v.Vec3[1]), nil
	case TagMat3:
		m := v.Mat3
		if m[2][0] != 0 || m[2][1] != 0 || m[2][2] != 1 || m[0][2] != 0 || m[1][2] != 0 {
			return Value{}, &EvalError{
				Kind: EvalInvalidDowngrade,
				Msg:  "cannot downgrade matrix3; its third row and column must be exactly [0 0 1]",
			}
		}
		return Mat2Val([2][2]float64{
			{m[0][0], m[0][1]},
			{m[1][0], m[1][1]},
		}), nil
	default:
		return Value{}, &EvalError{
			Kind: EvalInvalidDowngrade,
			Msg:  fmt.Sprintf("cannot downgrade %s; only 3-dimensional values downgrade", v.Tag),
		}
	}
}

// ───────────────────────────── rotation builders ────────────────────────────

// rotationMat2 builds the 2D rotation matrix for an angle in degrees,
// counter-clockwise positive.
func rotationMat2(deg float64) [2][2]float64 {
	rad := deg * math.Pi / 180
	s, c := math.Sincos(rad)
	return [2][2]float64{
		{c, -s},
		{s, c},
	}
}

// rotationMat3 composes per-axis rotations (degrees) in X·Y·Z order.
func rotationMat3(xdeg, ydeg, zdeg float64) [3][3]float64 {
	sx, cx := math.Sincos(xdeg * math.Pi / 180)
	sy, cy := math.Sincos(ydeg * math.Pi / 180)
	sz, cz := math.Sincos(zdeg * math.Pi / 180)

	rx := [3][3]float64{
		{1, 0, 0},
		{0, cx, -sx},
		{0, sx, cx},
	}
	ry := [3][3]float64{
		{cy, 0, sy},
		{0, 1, 0},
		{-sy, 0, cy},
	}
	rz := [3][3]float64{
		{cz, -sz, 0},
		{sz, cz, 0},
		{0, 0, 1},
	}
	return mul3(rx, mul3(ry, rz))
}
