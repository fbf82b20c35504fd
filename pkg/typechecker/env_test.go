package typechecker

import (
	"strings"
	"testing"

	"l5/checker-go/pkg/types"
)

func TestApplyEmptyEnv(t *testing.T) {
	_, err := MakeEmptyTEnv().Apply("x")
	if err == nil || !strings.Contains(err.Error(), "unbound variable x") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestApplyNearestFrameWins(t *testing.T) {
	outer := MakeEmptyTEnv().Extend([]string{"x"}, []types.TExp{types.NumTExp{}})
	inner := outer.Extend([]string{"x"}, []types.TExp{types.BoolTExp{}})

	got, err := inner.Apply("x")
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !types.Equals(got, types.BoolTExp{}) {
		t.Fatalf("inner frame must shadow, got %s", types.Format(got))
	}

	got, err = outer.Apply("x")
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !types.Equals(got, types.NumTExp{}) {
		t.Fatalf("outer frame must be untouched, got %s", types.Format(got))
	}
}

func TestApplyFirstOccurrenceInFrame(t *testing.T) {
	env := MakeEmptyTEnv().Extend(
		[]string{"x", "x"},
		[]types.TExp{types.NumTExp{}, types.BoolTExp{}})
	got, err := env.Apply("x")
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !types.Equals(got, types.NumTExp{}) {
		t.Fatalf("first occurrence must win, got %s", types.Format(got))
	}
}

func TestCombineEmptySides(t *testing.T) {
	env := MakeEmptyTEnv().Extend([]string{"x"}, []types.TExp{types.NumTExp{}})

	got, err := Combine(MakeEmptyTEnv(), env)
	if err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}
	if got != env {
		t.Fatalf("combining with an empty left side must return the right side")
	}

	got, err = Combine(env, MakeEmptyTEnv())
	if err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}
	if got != env {
		t.Fatalf("combining with an empty right side must return the left side")
	}
}

func TestCombineFirstSideWins(t *testing.T) {
	a := MakeEmptyTEnv().Extend(
		[]string{"x"}, []types.TExp{types.NumTExp{}})
	b := MakeEmptyTEnv().Extend(
		[]string{"x", "y"},
		[]types.TExp{types.BoolTExp{}, types.StrTExp{}})

	combined, err := Combine(a, b)
	if err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}

	got, err := combined.Apply("x")
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !types.Equals(got, types.NumTExp{}) {
		t.Fatalf("x must keep its binding from the first side, got %s", types.Format(got))
	}

	got, err = combined.Apply("y")
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !types.Equals(got, types.StrTExp{}) {
		t.Fatalf("y must come from the second side, got %s", types.Format(got))
	}
}

func TestCombineIsAsymmetric(t *testing.T) {
	a := MakeEmptyTEnv().Extend([]string{"x"}, []types.TExp{types.NumTExp{}})
	b := MakeEmptyTEnv().Extend([]string{"x"}, []types.TExp{types.BoolTExp{}})

	left, err := Combine(a, b)
	if err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}
	right, err := Combine(b, a)
	if err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}

	lt, _ := left.Apply("x")
	rt, _ := right.Apply("x")
	if !types.Equals(lt, types.NumTExp{}) || !types.Equals(rt, types.BoolTExp{}) {
		t.Fatalf("Combine order must decide the binding: got %s and %s",
			types.Format(lt), types.Format(rt))
	}
}

func TestCombineRejectsSelfReference(t *testing.T) {
	a := MakeEmptyTEnv().Extend([]string{"y"}, []types.TExp{types.NumTExp{}})
	b := MakeEmptyTEnv().Extend(
		[]string{"f"},
		[]types.TExp{types.ProcTExp{
			Params: []types.TExp{types.NumTExp{}},
			Return: types.TVar{Name: "f"},
		}})

	_, err := Combine(a, b)
	if err == nil || !strings.Contains(err.Error(), "self-referential type for f") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSessionKeepsDefines(t *testing.T) {
	s := NewSession()

	got, err := s.TypeOfSource("(define (x : number) 5)")
	if err != nil {
		t.Fatalf("TypeOfSource returned error: %v", err)
	}
	if got != "void" {
		t.Fatalf("define type = %q, want void", got)
	}

	got, err = s.TypeOfSource("(+ x 1)")
	if err != nil {
		t.Fatalf("TypeOfSource returned error: %v", err)
	}
	if got != "number" {
		t.Fatalf("session must remember x, got %q", got)
	}

	// A failed check must leave the environment untouched.
	if _, err := s.TypeOfSource("(define (y : number) #t)"); err == nil {
		t.Fatalf("expected mismatch for y")
	}
	if _, err := s.TypeOfSource("y"); err == nil {
		t.Fatalf("failed define must not bind y")
	}

	// A re-declared name keeps its first type.
	if _, err := s.TypeOfSource("(define (x : boolean) #t)"); err != nil {
		t.Fatalf("TypeOfSource returned error: %v", err)
	}
	got, err = s.TypeOfSource("x")
	if err != nil {
		t.Fatalf("TypeOfSource returned error: %v", err)
	}
	if got != "number" {
		t.Fatalf("re-declared x must keep number, got %q", got)
	}
}
