package ast

import (
	"l5/checker-go/pkg/sexp"
	"l5/checker-go/pkg/types"
)

// Expression is an L5 AST node. The variant set is closed; nodes are
// built once by the parser and never mutated.
type Expression interface {
	expr()
}

// Program is the (L5 ...) top-level wrapper around an ordered sequence
// of definitions and expressions.
type Program struct {
	Exps []Expression
}

type NumLit struct {
	Val float64
}

type BoolLit struct {
	Val bool
}

type StrLit struct {
	Val string
}

// PrimOp is a reference to one of the built-in operators.
type PrimOp struct {
	Op string
}

type VarRef struct {
	Name string
}

type IfExp struct {
	Test Expression
	Then Expression
	Alt  Expression
}

// VarDecl is a variable name with its declared type annotation, as it
// appears in parameter lists, bindings, and defines.
type VarDecl struct {
	Name string
	Type types.TExp
}

type ProcExp struct {
	Params []VarDecl
	Return types.TExp
	Body   []Expression
}

type AppExp struct {
	Rator Expression
	Rands []Expression
}

type Binding struct {
	Var VarDecl
	Val Expression
}

type LetExp struct {
	Bindings []Binding
	Body     []Expression
}

// LetrecExp is the recursive binding form; every bound value must be a
// procedure expression.
type LetrecExp struct {
	Bindings []Binding
	Body     []Expression
}

type DefineExp struct {
	Var VarDecl
	Val Expression
}

// LitExp is a quoted literal carrying the classified literal value.
type LitExp struct {
	Val sexp.Value
}

func (*NumLit) expr()    {}
func (*BoolLit) expr()   {}
func (*StrLit) expr()    {}
func (*PrimOp) expr()    {}
func (*VarRef) expr()    {}
func (*IfExp) expr()     {}
func (*ProcExp) expr()   {}
func (*AppExp) expr()    {}
func (*LetExp) expr()    {}
func (*LetrecExp) expr() {}
func (*DefineExp) expr() {}
func (*LitExp) expr()    {}

var primitiveOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true,
	">": true, "<": true, "=": true,
	"and": true, "or": true, "not": true,
	"number?": true, "boolean?": true, "string?": true,
	"list?": true, "pair?": true, "symbol?": true,
	"eq?": true, "string=?": true,
	"display": true, "newline": true,
	"cons": true, "car": true, "cdr": true,
}

// IsPrimitiveOp reports whether name refers to a built-in operator.
func IsPrimitiveOp(name string) bool {
	return primitiveOps[name]
}
