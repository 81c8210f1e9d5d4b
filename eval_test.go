// eval_test.go
package trinity

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func run(t *testing.T, env *Env, src string) Value {
	t.Helper()
	n, err := ParseSource(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	v, err := Evaluate(n, env)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return v
}

func wantEvalErr(t *testing.T, env *Env, src string, kind EvalErrorKind) *EvalError {
	t.Helper()
	n, err := ParseSource(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	_, err = Evaluate(n, env)
	if err == nil {
		t.Fatalf("expected eval error for %q, got none", src)
	}
	var ee *EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *EvalError for %q, got %T: %v", src, err, err)
	}
	if ee.Kind != kind {
		t.Fatalf("wrong error kind for %q: want %v, got %v (%s)", src, kind, ee.Kind, ee.Msg)
	}
	return ee
}

func approxEq(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	close := func(x, y float64) bool { return math.Abs(x-y) < eps }
	switch a.Tag {
	case TagScalar:
		return close(a.Scalar, b.Scalar)
	case TagVec2:
		return close(a.Vec2[0], b.Vec2[0]) && close(a.Vec2[1], b.Vec2[1])
	case TagVec3:
		for i := range a.Vec3 {
			if !close(a.Vec3[i], b.Vec3[i]) {
				return false
			}
		}
		return true
	case TagMat2:
		for i := range a.Mat2 {
			for j := range a.Mat2[i] {
				if !close(a.Mat2[i][j], b.Mat2[i][j]) {
					return false
				}
			}
		}
		return true
	case TagMat3:
		for i := range a.Mat3 {
			for j := range a.Mat3[i] {
				if !close(a.Mat3[i][j], b.Mat3[i][j]) {
					return false
				}
			}
		}
		return true
	}
	return false
}

func wantApprox(t *testing.T, env *Env, src string, want Value) {
	t.Helper()
	got := run(t, env, src)
	if !approxEq(got, want) {
		t.Fatalf("eval %q:\nwant %s\ngot  %s", src, FormatValue(want), FormatValue(got))
	}
}

func Test_Eval_ScalarArithmetic(t *testing.T) {
	env := NewEnv()
	wantApprox(t, env, `(1 + 2) * 3 / 2`, ScalarVal(4.5))
	wantApprox(t, env, `-2 + 3`, ScalarVal(1))
	wantApprox(t, env, `1 - 2 - 3`, ScalarVal(-4))
}

func Test_Eval_MatrixAppliedToVector(t *testing.T) {
	env := NewEnv()
	run(t, env, `A = [0 -1; 1 0]`)
	wantApprox(t, env, `A [1; 0]`, Vec2Val(0, 1))
	wantApprox(t, env, `A * [1; 0]`, Vec2Val(0, 1))
}

func Test_Eval_RotationBuiltin(t *testing.T) {
	env := NewEnv()
	wantApprox(t, env, `rot(90) [1; 0]`, Vec2Val(0, 1))
	wantApprox(t, env, `rot(45)`, Mat2Val(rotationMat2(45)))
	// A full turn is the identity.
	wantApprox(t, env, `rot(360)`, Mat2Val([2][2]float64{{1, 0}, {0, 1}}))
}

func Test_Eval_Rot3Builtin(t *testing.T) {
	env := NewEnv()
	// Rotation about Z alone matches the 2D rotation embedded in 3D.
	wantApprox(t, env, `rot3(0, 0, 90) [1; 0; 0]`, Vec3Val(0, 1, 0))
	wantApprox(t, env, `rot3(0, 0, 30)`, Mat3Val(rotationMat3(0, 0, 30)))
}

func Test_Eval_CallErrors(t *testing.T) {
	env := NewEnv()
	wantEvalErr(t, env, `rot(1, 2)`, EvalInvalidCall)
	wantEvalErr(t, env, `rot([1; 2])`, EvalInvalidCall)
	wantEvalErr(t, env, `rot3(1)`, EvalInvalidCall)
	wantEvalErr(t, env, `spin(90)`, EvalInvalidCall)
}

func Test_Eval_Upgrade(t *testing.T) {
	env := NewEnv()
	wantApprox(t, env, `[1; 2]!`, Vec3Val(1, 2, 0))
	wantApprox(t, env, `[1 0; 0 1]!`, Mat3Val([3][3]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}))
	wantApprox(t, env, `[1 2; 3 4]!`, Mat3Val([3][3]float64{
		{1, 2, 0},
		{3, 4, 0},
		{0, 0, 1},
	}))
	wantEvalErr(t, env, `3!`, EvalInvalidUpgrade)
	wantEvalErr(t, env, `[1; 2; 3]!`, EvalInvalidUpgrade)
	wantEvalErr(t, env, `[1 0 0; 0 1 0; 0 0 1]!`, EvalInvalidUpgrade)
}

func Test_Eval_Downgrade(t *testing.T) {
	env := NewEnv()
	wantApprox(t, env, `[1; 2; 0]?`, Vec2Val(1, 2))
	wantApprox(t, env, `[1 2 0; 3 4 0; 0 0 1]?`, Mat2Val([2][2]float64{{1, 2}, {3, 4}}))

	// Downgrade is a validated narrowing, never a projection.
	wantEvalErr(t, env, `[1; 2; 1]?`, EvalInvalidDowngrade)
	wantEvalErr(t, env, `[1 2 0; 3 4 0; 1 0 1]?`, EvalInvalidDowngrade)
	wantEvalErr(t, env, `[1 2 5; 3 4 0; 0 0 1]?`, EvalInvalidDowngrade)
	wantEvalErr(t, env, `3?`, EvalInvalidDowngrade)
	wantEvalErr(t, env, `[1; 2]?`, EvalInvalidDowngrade)
}

func Test_Eval_UpgradeRoundTrip(t *testing.T) {
	env := NewEnv()
	run(t, env, `A = [3 1; 0 2]`)
	run(t, env, `v = [5; 7]`)
	direct := run(t, env, `A v`)
	lifted := run(t, env, `(A! (v!))?`)
	if !approxEq(direct, lifted) {
		t.Fatalf("lifting through 3D changed the result: %s vs %s", FormatValue(direct), FormatValue(lifted))
	}
}

func Test_Eval_DowngradeUpgradeRoundTrip(t *testing.T) {
	env := NewEnv()
	run(t, env, `M = [1 2 0; 3 4 0; 0 0 1]`)
	back := run(t, env, `(M?)!`)
	orig, _ := env.Get("M")
	if !approxEq(back, orig) {
		t.Fatalf("(M?)! changed the matrix: %s vs %s", FormatValue(back), FormatValue(orig))
	}
}

func Test_Eval_MatrixProduct_OrderMatters(t *testing.T) {
	env := NewEnv()
	run(t, env, `A = [1 1; 0 1]`)
	run(t, env, `B = [1 0; 1 1]`)
	ab := run(t, env, `A * B`)
	ba := run(t, env, `B * A`)
	if approxEq(ab, ba) {
		t.Fatalf("opposite shears should not commute: %s", FormatValue(ab))
	}
}

func Test_Eval_MatrixProduct_Associative(t *testing.T) {
	env := NewEnv()
	run(t, env, `A = rot(30)`)
	run(t, env, `B = [2 0; 0 3]`)
	run(t, env, `v = [1; 1]`)
	left := run(t, env, `(A * B) v`)
	right := run(t, env, `A (B v)`)
	if !approxEq(left, right) {
		t.Fatalf("(A*B)v != A(Bv): %s vs %s", FormatValue(left), FormatValue(right))
	}
}

func Test_Eval_NamingConvention(t *testing.T) {
	env := NewEnv()
	run(t, env, `A = [1 0; 0 1]`)
	run(t, env, `v = [1; 2]`)
	run(t, env, `theta = 45`)

	wantEvalErr(t, env, `A = 3`, EvalNamingConvention)
	wantEvalErr(t, env, `A = [1; 2]`, EvalNamingConvention)
	wantEvalErr(t, env, `v = [1 0; 0 1]`, EvalNamingConvention)
	wantEvalErr(t, env, `M = rot(90)?`, EvalInvalidDowngrade)

	// A failed assignment must not clobber the old binding.
	got, ok := env.Get("A")
	if !ok || got.Tag != TagMat2 {
		t.Fatalf("binding A lost after failed reassignment")
	}
}

func Test_Eval_NamingConvention_UnderscoreIsLowercase(t *testing.T) {
	env := NewEnv()
	run(t, env, `_tmp = 3`)
	wantEvalErr(t, env, `_tmp = [1 0; 0 1]`, EvalNamingConvention)
}

func Test_Eval_Rebinding_ChangesVariant(t *testing.T) {
	env := NewEnv()
	run(t, env, `v = [1; 2]`)
	run(t, env, `v = 5`) // vector to scalar is fine, convention still holds
	got, _ := env.Get("v")
	if got.Tag != TagScalar || got.Scalar != 5 {
		t.Fatalf("rebinding: want scalar 5, got %s", FormatValue(got))
	}
}

func Test_Eval_LateBinding(t *testing.T) {
	env := NewEnv()
	wantEvalErr(t, env, `A v`, EvalUndefinedVariable)
	run(t, env, `A = rot(180)`)
	wantEvalErr(t, env, `A v`, EvalUndefinedVariable)
	run(t, env, `v = [1; 0]`)
	wantApprox(t, env, `A v`, Vec2Val(-1, 0))

	// The same source re-evaluates against the current bindings.
	run(t, env, `v = [0; 1]`)
	wantApprox(t, env, `A v`, Vec2Val(0, -1))
}

func Test_Eval_TypeErrors(t *testing.T) {
	env := NewEnv()
	wantEvalErr(t, env, `[1; 2] + 3`, EvalTypeMismatch)
	wantEvalErr(t, env, `[1; 2] + [1; 2; 3]`, EvalTypeMismatch)
	wantEvalErr(t, env, `[1; 2] * [1; 2]`, EvalDimensionMismatch)
	wantEvalErr(t, env, `[1 0; 0 1] [1; 2; 3]`, EvalDimensionMismatch)
	wantEvalErr(t, env, `3 / [1; 2]`, EvalTypeMismatch)
	wantEvalErr(t, env, `1 / 0`, EvalDivisionByZero)
	wantEvalErr(t, env, `1 / (2 - 2)`, EvalDivisionByZero)
}

func Test_Eval_LiteralShapes(t *testing.T) {
	env := NewEnv()
	wantEvalErr(t, env, `[1; 2; 3; 4]`, EvalDimensionMismatch)
	wantEvalErr(t, env, `[1 2 3; 4 5 6]`, EvalDimensionMismatch)
	wantEvalErr(t, env, `[1 2; 3 4; 5 6]`, EvalDimensionMismatch)
	wantEvalErr(t, env, `[[1; 2]; 3]`, EvalTypeMismatch)
	wantEvalErr(t, env, `[rot(90) 1; 2 3]`, EvalTypeMismatch)
}

func Test_Eval_LiteralElements_AreExpressions(t *testing.T) {
	env := NewEnv()
	run(t, env, `theta = 3`)
	wantApprox(t, env, `[theta + 1; 2 * theta]`, Vec2Val(4, 6))
	wantApprox(t, env, `[0 -1; 1 0]`, Mat2Val([2][2]float64{{0, -1}, {1, 0}}))
	wantApprox(t, env, `[1 - 2; 3]`, Vec2Val(-1, 3))
}

func Test_Eval_UnaryMinus_OnAggregates(t *testing.T) {
	env := NewEnv()
	wantApprox(t, env, `-[1; 2]`, Vec2Val(-1, -2))
	wantApprox(t, env, `-[1 0; 0 1]`, Mat2Val([2][2]float64{{-1, 0}, {0, -1}}))
}

func Test_Eval_ScalarScaling(t *testing.T) {
	env := NewEnv()
	wantApprox(t, env, `2 [1; 2]`, Vec2Val(2, 4))
	wantApprox(t, env, `[1; 2] * 2`, Vec2Val(2, 4))
	wantApprox(t, env, `[2; 4] / 2`, Vec2Val(1, 2))
	wantApprox(t, env, `3 [1 0; 0 1]`, Mat2Val([2][2]float64{{3, 0}, {0, 3}}))
}

func Test_Eval_AssignmentYieldsValue(t *testing.T) {
	env := NewEnv()
	got := run(t, env, `v = [1; 2]`)
	if !approxEq(got, Vec2Val(1, 2)) {
		t.Fatalf("assignment should evaluate to the bound value, got %s", FormatValue(got))
	}
}

func Test_Eval_ErrorPosition_PinnedToNode(t *testing.T) {
	env := NewEnv()
	ee := wantEvalErr(t, env, `[1; 2] + undefined_name`, EvalUndefinedVariable)
	if ee.Line != 1 || ee.Col != 9 {
		t.Fatalf("error position: want 1:9, got %d:%d", ee.Line, ee.Col)
	}
}
