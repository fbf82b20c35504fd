package typechecker

import (
	"l5/checker-go/pkg/ast"
	"l5/checker-go/pkg/sexp"
	"l5/checker-go/pkg/types"
)

// CheckExpressionType parses one expression from source text and types it
// against an empty environment, returning the rendered type expression.
func CheckExpressionType(src string) (string, error) {
	exp, err := ast.ParseExpressionText(src)
	if err != nil {
		return "", err
	}
	t, err := New().TypeOf(exp, MakeEmptyTEnv())
	if err != nil {
		return "", err
	}
	return types.Format(t), nil
}

// CheckProgramType parses a top-level (L5 ...) program from source text
// and types its sequence against an empty environment.
func CheckProgramType(src string) (string, error) {
	program, err := ast.ParseProgramText(src)
	if err != nil {
		return "", err
	}
	t, err := New().TypeOfProgram(program)
	if err != nil {
		return "", err
	}
	return types.Format(t), nil
}

// CheckSourceType types source text, treating it as a program when it is
// an (L5 ...) form and as a single expression otherwise.
func CheckSourceType(src string) (string, error) {
	v, err := sexp.Read(src)
	if err != nil {
		return "", err
	}
	if isProgramForm(v) {
		program, err := ast.ParseProgram(v)
		if err != nil {
			return "", err
		}
		t, err := New().TypeOfProgram(program)
		if err != nil {
			return "", err
		}
		return types.Format(t), nil
	}
	exp, err := ast.ParseExpression(v)
	if err != nil {
		return "", err
	}
	t, err := New().TypeOf(exp, MakeEmptyTEnv())
	if err != nil {
		return "", err
	}
	return types.Format(t), nil
}

func isProgramForm(v sexp.Value) bool {
	pair, ok := v.(sexp.Pair)
	if !ok {
		return false
	}
	head, ok := pair.Car.(sexp.Symbol)
	return ok && head.Name == "L5"
}
