package ast

import (
	"fmt"

	"l5/checker-go/pkg/sexp"
	"l5/checker-go/pkg/types"
)

// ParseProgram converts a read (L5 ...) form into a Program.
func ParseProgram(v sexp.Value) (*Program, error) {
	elems, ok := sexp.Elements(v)
	if !ok || len(elems) == 0 {
		return nil, fmt.Errorf("parse: program must be a (L5 ...) form, got %s", sexp.Format(v))
	}
	head, isSym := elems[0].(sexp.Symbol)
	if !isSym || head.Name != "L5" {
		return nil, fmt.Errorf("parse: program must start with L5, got %s", sexp.Format(elems[0]))
	}
	exps := make([]Expression, 0, len(elems)-1)
	for _, form := range elems[1:] {
		exp, err := parseExp(form, true)
		if err != nil {
			return nil, err
		}
		exps = append(exps, exp)
	}
	return &Program{Exps: exps}, nil
}

// ParseExpression converts a read datum into an expression. Defines are
// accepted here so a lone top-level define can be checked on its own.
func ParseExpression(v sexp.Value) (Expression, error) {
	return parseExp(v, true)
}

// ParseProgramText reads and parses a full program from source text.
func ParseProgramText(src string) (*Program, error) {
	v, err := sexp.Read(src)
	if err != nil {
		return nil, err
	}
	return ParseProgram(v)
}

// ParseExpressionText reads and parses a single expression from source text.
func ParseExpressionText(src string) (Expression, error) {
	v, err := sexp.Read(src)
	if err != nil {
		return nil, err
	}
	return ParseExpression(v)
}

func parseExp(v sexp.Value, topLevel bool) (Expression, error) {
	switch val := v.(type) {
	case sexp.Number:
		return &NumLit{Val: val.Val}, nil
	case sexp.Boolean:
		return &BoolLit{Val: val.Val}, nil
	case sexp.String:
		return &StrLit{Val: val.Val}, nil
	case sexp.Symbol:
		if IsPrimitiveOp(val.Name) {
			return &PrimOp{Op: val.Name}, nil
		}
		return &VarRef{Name: val.Name}, nil
	case sexp.Empty:
		return nil, fmt.Errorf("parse: unexpected ()")
	case sexp.Pair:
		elems, ok := sexp.Elements(v)
		if !ok {
			return nil, fmt.Errorf("parse: dotted form outside quote: %s", sexp.Format(v))
		}
		if head, isSym := elems[0].(sexp.Symbol); isSym {
			switch head.Name {
			case "quote":
				return parseQuote(elems, v)
			case "if":
				return parseIf(elems, v)
			case "lambda":
				return parseLambda(elems, v)
			case "let":
				return parseLet(elems, v, false)
			case "letrec":
				return parseLet(elems, v, true)
			case "define":
				if !topLevel {
					return nil, fmt.Errorf("parse: define is only allowed at the top level: %s", sexp.Format(v))
				}
				return parseDefine(elems, v)
			}
		}
		return parseApp(elems)
	default:
		return nil, fmt.Errorf("parse: unexpected form %s", sexp.Format(v))
	}
}

func parseQuote(elems []sexp.Value, src sexp.Value) (Expression, error) {
	if len(elems) != 2 {
		return nil, fmt.Errorf("parse: quote expects one datum in %s", sexp.Format(src))
	}
	return &LitExp{Val: elems[1]}, nil
}

func parseIf(elems []sexp.Value, src sexp.Value) (Expression, error) {
	if len(elems) != 4 {
		return nil, fmt.Errorf("parse: if expects test, then and else in %s", sexp.Format(src))
	}
	test, err := parseExp(elems[1], false)
	if err != nil {
		return nil, err
	}
	then, err := parseExp(elems[2], false)
	if err != nil {
		return nil, err
	}
	alt, err := parseExp(elems[3], false)
	if err != nil {
		return nil, err
	}
	return &IfExp{Test: test, Then: then, Alt: alt}, nil
}

// parseLambda handles (lambda ((x : T) ...) : Tret body ...).
func parseLambda(elems []sexp.Value, src sexp.Value) (Expression, error) {
	if len(elems) < 5 {
		return nil, fmt.Errorf("parse: malformed lambda %s", sexp.Format(src))
	}
	params, err := parseVarDecls(elems[1])
	if err != nil {
		return nil, err
	}
	if colon, isSym := elems[2].(sexp.Symbol); !isSym || colon.Name != ":" {
		return nil, fmt.Errorf("parse: lambda requires a return type annotation in %s", sexp.Format(src))
	}
	ret, err := types.Parse(elems[3])
	if err != nil {
		return nil, err
	}
	body, err := parseBody(elems[4:])
	if err != nil {
		return nil, err
	}
	return &ProcExp{Params: params, Return: ret, Body: body}, nil
}

// parseLet handles (let (((x : T) val) ...) body ...) and letrec alike.
func parseLet(elems []sexp.Value, src sexp.Value, recursive bool) (Expression, error) {
	if len(elems) < 3 {
		return nil, fmt.Errorf("parse: malformed binding form %s", sexp.Format(src))
	}
	bindingForms, ok := sexp.Elements(elems[1])
	if !ok {
		return nil, fmt.Errorf("parse: malformed bindings in %s", sexp.Format(src))
	}
	bindings := make([]Binding, 0, len(bindingForms))
	for _, form := range bindingForms {
		parts, ok := sexp.Elements(form)
		if !ok || len(parts) != 2 {
			return nil, fmt.Errorf("parse: binding must be ((name : type) value), got %s", sexp.Format(form))
		}
		decl, err := parseVarDecl(parts[0])
		if err != nil {
			return nil, err
		}
		val, err := parseExp(parts[1], false)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, Binding{Var: decl, Val: val})
	}
	body, err := parseBody(elems[2:])
	if err != nil {
		return nil, err
	}
	if recursive {
		return &LetrecExp{Bindings: bindings, Body: body}, nil
	}
	return &LetExp{Bindings: bindings, Body: body}, nil
}

func parseDefine(elems []sexp.Value, src sexp.Value) (Expression, error) {
	if len(elems) != 3 {
		return nil, fmt.Errorf("parse: define expects (define (name : type) value), got %s", sexp.Format(src))
	}
	decl, err := parseVarDecl(elems[1])
	if err != nil {
		return nil, err
	}
	val, err := parseExp(elems[2], false)
	if err != nil {
		return nil, err
	}
	return &DefineExp{Var: decl, Val: val}, nil
}

func parseApp(elems []sexp.Value) (Expression, error) {
	rator, err := parseExp(elems[0], false)
	if err != nil {
		return nil, err
	}
	rands := make([]Expression, 0, len(elems)-1)
	for _, e := range elems[1:] {
		rand, err := parseExp(e, false)
		if err != nil {
			return nil, err
		}
		rands = append(rands, rand)
	}
	return &AppExp{Rator: rator, Rands: rands}, nil
}

func parseBody(forms []sexp.Value) ([]Expression, error) {
	body := make([]Expression, 0, len(forms))
	for _, form := range forms {
		exp, err := parseExp(form, false)
		if err != nil {
			return nil, err
		}
		body = append(body, exp)
	}
	return body, nil
}

// parseVarDecl handles the (name : type) annotation triple.
func parseVarDecl(v sexp.Value) (VarDecl, error) {
	parts, ok := sexp.Elements(v)
	if !ok || len(parts) != 3 {
		return VarDecl{}, fmt.Errorf("parse: expected (name : type), got %s", sexp.Format(v))
	}
	name, isSym := parts[0].(sexp.Symbol)
	if !isSym {
		return VarDecl{}, fmt.Errorf("parse: variable name must be a symbol in %s", sexp.Format(v))
	}
	if colon, ok := parts[1].(sexp.Symbol); !ok || colon.Name != ":" {
		return VarDecl{}, fmt.Errorf("parse: expected : in %s", sexp.Format(v))
	}
	te, err := types.Parse(parts[2])
	if err != nil {
		return VarDecl{}, err
	}
	return VarDecl{Name: name.Name, Type: te}, nil
}

func parseVarDecls(v sexp.Value) ([]VarDecl, error) {
	forms, ok := sexp.Elements(v)
	if !ok {
		return nil, fmt.Errorf("parse: malformed parameter list %s", sexp.Format(v))
	}
	decls := make([]VarDecl, 0, len(forms))
	for _, form := range forms {
		decl, err := parseVarDecl(form)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}
