package ast

import (
	"strconv"
	"strings"

	"l5/checker-go/pkg/sexp"
	"l5/checker-go/pkg/types"
)

// Unparse renders an expression back to its surface text. It is used by
// the checker when building diagnostics, so mismatch messages can quote
// the offending sub-expression.
func Unparse(e Expression) string {
	var b strings.Builder
	unparseInto(&b, e)
	return b.String()
}

// UnparseProgram renders a full (L5 ...) program.
func UnparseProgram(p *Program) string {
	var b strings.Builder
	b.WriteString("(L5")
	for _, exp := range p.Exps {
		b.WriteByte(' ')
		unparseInto(&b, exp)
	}
	b.WriteByte(')')
	return b.String()
}

func unparseInto(b *strings.Builder, e Expression) {
	switch exp := e.(type) {
	case *NumLit:
		b.WriteString(strconv.FormatFloat(exp.Val, 'g', -1, 64))
	case *BoolLit:
		if exp.Val {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case *StrLit:
		b.WriteString(strconv.Quote(exp.Val))
	case *PrimOp:
		b.WriteString(exp.Op)
	case *VarRef:
		b.WriteString(exp.Name)
	case *IfExp:
		b.WriteString("(if ")
		unparseInto(b, exp.Test)
		b.WriteByte(' ')
		unparseInto(b, exp.Then)
		b.WriteByte(' ')
		unparseInto(b, exp.Alt)
		b.WriteByte(')')
	case *ProcExp:
		b.WriteString("(lambda (")
		for i, p := range exp.Params {
			if i > 0 {
				b.WriteByte(' ')
			}
			unparseDecl(b, p)
		}
		b.WriteString(") : ")
		b.WriteString(types.Format(exp.Return))
		unparseBody(b, exp.Body)
		b.WriteByte(')')
	case *AppExp:
		b.WriteByte('(')
		unparseInto(b, exp.Rator)
		for _, rand := range exp.Rands {
			b.WriteByte(' ')
			unparseInto(b, rand)
		}
		b.WriteByte(')')
	case *LetExp:
		unparseLet(b, "let", exp.Bindings, exp.Body)
	case *LetrecExp:
		unparseLet(b, "letrec", exp.Bindings, exp.Body)
	case *DefineExp:
		b.WriteString("(define ")
		unparseDecl(b, exp.Var)
		b.WriteByte(' ')
		unparseInto(b, exp.Val)
		b.WriteByte(')')
	case *LitExp:
		b.WriteByte('\'')
		b.WriteString(sexp.Format(exp.Val))
	}
}

func unparseDecl(b *strings.Builder, decl VarDecl) {
	b.WriteByte('(')
	b.WriteString(decl.Name)
	b.WriteString(" : ")
	b.WriteString(types.Format(decl.Type))
	b.WriteByte(')')
}

func unparseBody(b *strings.Builder, body []Expression) {
	for _, exp := range body {
		b.WriteByte(' ')
		unparseInto(b, exp)
	}
}

func unparseLet(b *strings.Builder, keyword string, bindings []Binding, body []Expression) {
	b.WriteByte('(')
	b.WriteString(keyword)
	b.WriteString(" (")
	for i, binding := range bindings {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('(')
		unparseDecl(b, binding.Var)
		b.WriteByte(' ')
		unparseInto(b, binding.Val)
		b.WriteByte(')')
	}
	b.WriteByte(')')
	unparseBody(b, body)
	b.WriteByte(')')
}
