// env_test.go
package trinity

import (
	"reflect"
	"testing"
)

func Test_Env_SetGetDelete(t *testing.T) {
	env := NewEnv()
	if _, ok := env.Get("v"); ok {
		t.Fatalf("fresh env must be empty")
	}
	env.Set("v", Vec2Val(1, 2))
	got, ok := env.Get("v")
	if !ok || got.Tag != TagVec2 {
		t.Fatalf("Get after Set: %v %v", got, ok)
	}
	env.Delete("v")
	if _, ok := env.Get("v"); ok {
		t.Fatalf("Get after Delete should miss")
	}
}

func Test_Env_OverwriteAcrossVariants(t *testing.T) {
	env := NewEnv()
	env.Set("x", ScalarVal(1))
	env.Set("x", Mat2Val([2][2]float64{{1, 0}, {0, 1}}))
	got, _ := env.Get("x")
	if got.Tag != TagMat2 {
		t.Fatalf("overwrite should replace the variant, got %s", got.Tag)
	}
}

func Test_Env_NamesSorted(t *testing.T) {
	env := NewEnv()
	env.Set("b", ScalarVal(1))
	env.Set("A", ScalarVal(2))
	env.Set("c", ScalarVal(3))
	if got := env.Names(); !reflect.DeepEqual(got, []string{"A", "b", "c"}) {
		t.Fatalf("Names: want [A b c], got %v", got)
	}
	if env.Len() != 3 {
		t.Fatalf("Len: want 3, got %d", env.Len())
	}
}

func Test_Env_Reset(t *testing.T) {
	env := NewEnv()
	env.Set("x", ScalarVal(1))
	env.Reset()
	if env.Len() != 0 {
		t.Fatalf("Reset should drop all bindings, %d left", env.Len())
	}
}

func Test_Env_BypassesNamingConvention(t *testing.T) {
	// Hosts restoring a session write verbatim; only assignment expressions
	// are convention-checked.
	env := NewEnv()
	env.Set("lowercase", Mat2Val([2][2]float64{{1, 0}, {0, 1}}))
	if _, ok := env.Get("lowercase"); !ok {
		t.Fatalf("direct Set must not be convention-checked")
	}
}
