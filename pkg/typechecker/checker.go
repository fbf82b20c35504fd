package typechecker

import (
	"errors"
	"fmt"

	"l5/checker-go/pkg/ast"
	"l5/checker-go/pkg/sexp"
	"l5/checker-go/pkg/types"
)

// Checker computes the type expression of L5 AST nodes. Checking is a
// single synchronous recursive descent; the first constraint violation
// aborts the whole check. A Checker only carries the counter used to
// mint fresh type-variable names, so a new instance per top-level check
// keeps results deterministic run to run.
type Checker struct {
	fresh int
}

func New() *Checker {
	return &Checker{}
}

func (c *Checker) freshTVar() types.TVar {
	c.fresh++
	return types.TVar{Name: fmt.Sprintf("T%d", c.fresh)}
}

// checkEqualType succeeds iff actual and expected are structurally equal.
// The failure message quotes both types and the sub-expression that
// produced the mismatch.
func checkEqualType(actual, expected types.TExp, context ast.Expression) error {
	if types.Equals(actual, expected) {
		return nil
	}
	return fmt.Errorf("Incompatible types: %s and %s in %s",
		types.Format(actual), types.Format(expected), ast.Unparse(context))
}

// TypeOf computes the type of an expression in the given environment.
func (c *Checker) TypeOf(e ast.Expression, env *TEnv) (types.TExp, error) {
	switch exp := e.(type) {
	case *ast.NumLit:
		return types.NumTExp{}, nil
	case *ast.BoolLit:
		return types.BoolTExp{}, nil
	case *ast.StrLit:
		return types.StrTExp{}, nil
	case *ast.PrimOp:
		return c.primType(exp.Op)
	case *ast.VarRef:
		return env.Apply(exp.Name)
	case *ast.IfExp:
		return c.typeofIf(exp, env)
	case *ast.ProcExp:
		return c.typeofProc(exp, env)
	case *ast.AppExp:
		return c.typeofApp(exp, env)
	case *ast.LetExp:
		return c.typeofLet(exp, env)
	case *ast.LetrecExp:
		return c.typeofLetrec(exp, env)
	case *ast.DefineExp:
		return c.typeofDefine(exp, env)
	case *ast.LitExp:
		return typeofLiteral(exp.Val), nil
	default:
		return nil, fmt.Errorf("unexpected expression kind %T", e)
	}
}

// TypeOfProgram types a program's top-level sequence against the empty
// environment.
func (c *Checker) TypeOfProgram(p *ast.Program) (types.TExp, error) {
	return c.typeofSequence(p.Exps, MakeEmptyTEnv())
}

func (c *Checker) typeofIf(exp *ast.IfExp, env *TEnv) (types.TExp, error) {
	testType, err := c.TypeOf(exp.Test, env)
	if err != nil {
		return nil, err
	}
	if err := checkEqualType(testType, types.BoolTExp{}, exp); err != nil {
		return nil, err
	}
	thenType, err := c.TypeOf(exp.Then, env)
	if err != nil {
		return nil, err
	}
	altType, err := c.TypeOf(exp.Alt, env)
	if err != nil {
		return nil, err
	}
	if err := checkEqualType(thenType, altType, exp); err != nil {
		return nil, err
	}
	return thenType, nil
}

func (c *Checker) typeofProc(exp *ast.ProcExp, env *TEnv) (types.TExp, error) {
	paramNames, paramTypes := splitDecls(exp.Params)
	bodyType, err := c.typeofSequence(exp.Body, env.Extend(paramNames, paramTypes))
	if err != nil {
		return nil, err
	}
	if err := checkEqualType(bodyType, exp.Return, exp); err != nil {
		return nil, err
	}
	return types.ProcTExp{Params: paramTypes, Return: exp.Return}, nil
}

func (c *Checker) typeofApp(exp *ast.AppExp, env *TEnv) (types.TExp, error) {
	// car, cdr and cons get bespoke shape rules: their pair structure
	// cannot be expressed by the structural matching of the generic rule.
	if op, ok := exp.Rator.(*ast.PrimOp); ok {
		switch op.Op {
		case "car", "cdr":
			return c.typeofPairAccess(op.Op, exp, env)
		case "cons":
			return c.typeofCons(exp, env)
		}
	}

	ratorType, err := c.TypeOf(exp.Rator, env)
	if err != nil {
		return nil, err
	}
	proc, ok := ratorType.(types.ProcTExp)
	if !ok {
		return nil, fmt.Errorf("applying a non-procedure of type %s in %s",
			types.Format(ratorType), ast.Unparse(exp))
	}
	if len(exp.Rands) != len(proc.Params) {
		return nil, fmt.Errorf("wrong number of arguments: expected %d, got %d in %s",
			len(proc.Params), len(exp.Rands), ast.Unparse(exp))
	}
	for i, rand := range exp.Rands {
		randType, err := c.TypeOf(rand, env)
		if err != nil {
			return nil, err
		}
		if err := checkEqualType(randType, proc.Params[i], exp); err != nil {
			return nil, err
		}
	}
	return proc.Return, nil
}

func (c *Checker) typeofPairAccess(op string, exp *ast.AppExp, env *TEnv) (types.TExp, error) {
	if len(exp.Rands) != 1 {
		return nil, fmt.Errorf("%s expects one argument in %s", op, ast.Unparse(exp))
	}
	argType, err := c.TypeOf(exp.Rands[0], env)
	if err != nil {
		return nil, err
	}
	pair, ok := argType.(types.PairTExp)
	if !ok {
		return nil, fmt.Errorf("%s expected a pair, got %s in %s",
			op, types.Format(argType), ast.Unparse(exp))
	}
	if op == "car" {
		return pair.First, nil
	}
	return pair.Second, nil
}

func (c *Checker) typeofCons(exp *ast.AppExp, env *TEnv) (types.TExp, error) {
	if len(exp.Rands) != 2 {
		return nil, fmt.Errorf("cons expects two arguments in %s", ast.Unparse(exp))
	}
	firstType, err := c.TypeOf(exp.Rands[0], env)
	if err != nil {
		return nil, err
	}
	secondType, err := c.TypeOf(exp.Rands[1], env)
	if err != nil {
		return nil, err
	}
	return types.PairTExp{First: firstType, Second: secondType}, nil
}

// typeofLet checks each binding's value in the outer environment; the
// bindings do not see each other or themselves. The body is typed with
// all bindings visible at once.
func (c *Checker) typeofLet(exp *ast.LetExp, env *TEnv) (types.TExp, error) {
	names := make([]string, 0, len(exp.Bindings))
	declared := make([]types.TExp, 0, len(exp.Bindings))
	for _, binding := range exp.Bindings {
		valType, err := c.TypeOf(binding.Val, env)
		if err != nil {
			return nil, err
		}
		if err := checkEqualType(valType, binding.Var.Type, exp); err != nil {
			return nil, err
		}
		names = append(names, binding.Var.Name)
		declared = append(declared, binding.Var.Type)
	}
	return c.typeofSequence(exp.Body, env.Extend(names, declared))
}

// typeofLetrec binds every name to the procedure type implied by its own
// annotations before checking any body, so the bound procedures can refer
// to themselves and to one another.
func (c *Checker) typeofLetrec(exp *ast.LetrecExp, env *TEnv) (types.TExp, error) {
	procs := make([]*ast.ProcExp, 0, len(exp.Bindings))
	names := make([]string, 0, len(exp.Bindings))
	procTypes := make([]types.TExp, 0, len(exp.Bindings))
	for _, binding := range exp.Bindings {
		proc, ok := binding.Val.(*ast.ProcExp)
		if !ok {
			return nil, fmt.Errorf("letrec binding for %s must be a procedure in %s",
				binding.Var.Name, ast.Unparse(exp))
		}
		_, paramTypes := splitDecls(proc.Params)
		procs = append(procs, proc)
		names = append(names, binding.Var.Name)
		procTypes = append(procTypes, types.ProcTExp{Params: paramTypes, Return: proc.Return})
	}

	outer := env.Extend(names, procTypes)
	for _, proc := range procs {
		paramNames, paramTypes := splitDecls(proc.Params)
		bodyType, err := c.typeofSequence(proc.Body, outer.Extend(paramNames, paramTypes))
		if err != nil {
			return nil, err
		}
		if err := checkEqualType(bodyType, proc.Return, exp); err != nil {
			return nil, err
		}
	}
	return c.typeofSequence(exp.Body, outer)
}

// typeofDefine checks the value against the declared type. The define's
// own binding is not visible to its value; recursion goes through letrec.
// Define is a statement, so its type is void.
func (c *Checker) typeofDefine(exp *ast.DefineExp, env *TEnv) (types.TExp, error) {
	valType, err := c.TypeOf(exp.Val, env)
	if err != nil {
		return nil, err
	}
	if err := checkEqualType(valType, exp.Var.Type, exp); err != nil {
		return nil, err
	}
	return types.VoidTExp{}, nil
}

// typeofSequence types an ordered sequence of forms left to right. A
// define extends the environment seen by the remaining forms; any other
// non-final form is typed and its type discarded. The sequence's type is
// the type of its last form.
func (c *Checker) typeofSequence(exps []ast.Expression, env *TEnv) (types.TExp, error) {
	if len(exps) == 0 {
		return nil, errors.New("empty expression sequence")
	}
	for {
		last := len(exps) == 1
		if def, ok := exps[0].(*ast.DefineExp); ok {
			defType, err := c.TypeOf(def, env)
			if err != nil {
				return nil, err
			}
			if last {
				return defType, nil
			}
			extended, err := Combine(env, MakeEmptyTEnv().Extend(
				[]string{def.Var.Name}, []types.TExp{def.Var.Type}))
			if err != nil {
				return nil, err
			}
			env = extended
			exps = exps[1:]
			continue
		}
		t, err := c.TypeOf(exps[0], env)
		if err != nil {
			return nil, err
		}
		if last {
			return t, nil
		}
		exps = exps[1:]
	}
}

// typeofLiteral types a quoted datum. A quoted atom is opaque data and
// gets the fixed "literal" type variable, even when it happens to be a
// number; only inside a compound cell do components classify structurally,
// so '(4 . 7) is (Pair number number) while '5 stays literal.
func typeofLiteral(v sexp.Value) types.TExp {
	switch val := v.(type) {
	case sexp.Empty:
		return types.EmptyTExp{}
	case sexp.Pair:
		return types.PairTExp{
			First:  classifyLiteral(val.Car),
			Second: classifyLiteral(val.Cdr),
		}
	default:
		return types.TVar{Name: "literal"}
	}
}

// classifyLiteral maps literal components onto type expressions:
// numbers, booleans and strings keep their primitive types, symbols share
// the "literal" type variable, and cells recurse pairwise.
func classifyLiteral(v sexp.Value) types.TExp {
	switch val := v.(type) {
	case sexp.Number:
		return types.NumTExp{}
	case sexp.Boolean:
		return types.BoolTExp{}
	case sexp.String:
		return types.StrTExp{}
	case sexp.Empty:
		return types.EmptyTExp{}
	case sexp.Pair:
		return types.PairTExp{
			First:  classifyLiteral(val.Car),
			Second: classifyLiteral(val.Cdr),
		}
	default:
		return types.TVar{Name: "literal"}
	}
}

func splitDecls(decls []ast.VarDecl) ([]string, []types.TExp) {
	names := make([]string, len(decls))
	texps := make([]types.TExp, len(decls))
	for i, d := range decls {
		names[i] = d.Name
		texps[i] = d.Type
	}
	return names, texps
}
