package typechecker

import (
	"l5/checker-go/pkg/ast"
	"l5/checker-go/pkg/types"
)

// Session is a persistent top-level environment for interactive use.
// Defines typed through a session stay visible to later inputs, the way
// a define inside a program extends the remainder of its sequence.
type Session struct {
	checker *Checker
	env     *TEnv
}

func NewSession() *Session {
	return &Session{
		checker: New(),
		env:     MakeEmptyTEnv(),
	}
}

// TypeOfSource types one expression from source text against the session
// environment. A failed check leaves the environment untouched.
func (s *Session) TypeOfSource(src string) (string, error) {
	exp, err := ast.ParseExpressionText(src)
	if err != nil {
		return "", err
	}
	t, err := s.checker.TypeOf(exp, s.env)
	if err != nil {
		return "", err
	}
	if def, ok := exp.(*ast.DefineExp); ok {
		extended, err := Combine(s.env, MakeEmptyTEnv().Extend(
			[]string{def.Var.Name}, []types.TExp{def.Var.Type}))
		if err != nil {
			return "", err
		}
		s.env = extended
	}
	return types.Format(t), nil
}
