package ast

import (
	"strings"
	"testing"

	"l5/checker-go/pkg/types"
)

func TestParseDefine(t *testing.T) {
	exp, err := ParseExpressionText("(define (x : number) 5)")
	if err != nil {
		t.Fatalf("ParseExpressionText returned error: %v", err)
	}
	def, ok := exp.(*DefineExp)
	if !ok {
		t.Fatalf("expected define, got %T", exp)
	}
	if def.Var.Name != "x" {
		t.Fatalf("unexpected name %q", def.Var.Name)
	}
	if !types.Equals(def.Var.Type, types.NumTExp{}) {
		t.Fatalf("unexpected declared type %s", types.Format(def.Var.Type))
	}
	if _, ok := def.Val.(*NumLit); !ok {
		t.Fatalf("expected number literal value, got %T", def.Val)
	}
}

func TestParseLambda(t *testing.T) {
	exp, err := ParseExpressionText("(lambda ((x : number) (y : boolean)) : number (if y x 0))")
	if err != nil {
		t.Fatalf("ParseExpressionText returned error: %v", err)
	}
	proc, ok := exp.(*ProcExp)
	if !ok {
		t.Fatalf("expected lambda, got %T", exp)
	}
	if len(proc.Params) != 2 || proc.Params[0].Name != "x" || proc.Params[1].Name != "y" {
		t.Fatalf("unexpected params %#v", proc.Params)
	}
	if !types.Equals(proc.Return, types.NumTExp{}) {
		t.Fatalf("unexpected return annotation %s", types.Format(proc.Return))
	}
	if len(proc.Body) != 1 {
		t.Fatalf("expected single body form, got %d", len(proc.Body))
	}
}

func TestParseLambdaRequiresReturnAnnotation(t *testing.T) {
	_, err := ParseExpressionText("(lambda ((x : number)) x)")
	if err == nil {
		t.Fatalf("expected error for missing return annotation")
	}
}

func TestParseLetBindings(t *testing.T) {
	exp, err := ParseExpressionText("(let (((a : number) 1) ((b : boolean) #t)) (if b a 0))")
	if err != nil {
		t.Fatalf("ParseExpressionText returned error: %v", err)
	}
	let, ok := exp.(*LetExp)
	if !ok {
		t.Fatalf("expected let, got %T", exp)
	}
	if len(let.Bindings) != 2 || let.Bindings[1].Var.Name != "b" {
		t.Fatalf("unexpected bindings %#v", let.Bindings)
	}
}

func TestParseLetrec(t *testing.T) {
	exp, err := ParseExpressionText("(letrec (((f : (number -> number)) (lambda ((n : number)) : number (f n)))) (f 2))")
	if err != nil {
		t.Fatalf("ParseExpressionText returned error: %v", err)
	}
	if _, ok := exp.(*LetrecExp); !ok {
		t.Fatalf("expected letrec, got %T", exp)
	}
}

func TestParseRejectsDefineInBody(t *testing.T) {
	_, err := ParseExpressionText("(lambda ((x : number)) : number (define (y : number) 1) x)")
	if err == nil || !strings.Contains(err.Error(), "top level") {
		t.Fatalf("expected define-in-body rejection, got %v", err)
	}
}

func TestParseQuoteSugar(t *testing.T) {
	exp, err := ParseExpressionText("'(4 . 7)")
	if err != nil {
		t.Fatalf("ParseExpressionText returned error: %v", err)
	}
	if _, ok := exp.(*LitExp); !ok {
		t.Fatalf("expected quoted literal, got %T", exp)
	}
}

func TestParsePrimitiveVsVariable(t *testing.T) {
	exp, err := ParseExpressionText("(+ x 1)")
	if err != nil {
		t.Fatalf("ParseExpressionText returned error: %v", err)
	}
	app, ok := exp.(*AppExp)
	if !ok {
		t.Fatalf("expected application, got %T", exp)
	}
	if _, ok := app.Rator.(*PrimOp); !ok {
		t.Fatalf("expected primitive rator, got %T", app.Rator)
	}
	if _, ok := app.Rands[0].(*VarRef); !ok {
		t.Fatalf("expected variable rand, got %T", app.Rands[0])
	}
}

func TestParseProgram(t *testing.T) {
	program, err := ParseProgramText("(L5 (define (x : number) 5) (+ x 1))")
	if err != nil {
		t.Fatalf("ParseProgramText returned error: %v", err)
	}
	if len(program.Exps) != 2 {
		t.Fatalf("expected 2 top-level forms, got %d", len(program.Exps))
	}
	if _, ok := program.Exps[0].(*DefineExp); !ok {
		t.Fatalf("expected leading define, got %T", program.Exps[0])
	}
}

func TestParseProgramRequiresWrapper(t *testing.T) {
	_, err := ParseProgramText("(define (x : number) 5)")
	if err == nil || !strings.Contains(err.Error(), "L5") {
		t.Fatalf("expected wrapper error, got %v", err)
	}
}

func TestUnparseRoundTrip(t *testing.T) {
	sources := []string{
		"(if (> 1 2) #t #f)",
		"(lambda ((x : number)) : number (+ x 1))",
		"(let (((a : number) 1)) a)",
		"(letrec (((f : (number -> number)) (lambda ((n : number)) : number (f n)))) (f 2))",
		"(define (p : (Pair number boolean)) (cons 5 #t))",
		"'(4 . 7)",
		"(display \"hi\")",
	}
	for _, src := range sources {
		exp, err := ParseExpressionText(src)
		if err != nil {
			t.Fatalf("ParseExpressionText(%q) returned error: %v", src, err)
		}
		if got := Unparse(exp); got != src {
			t.Fatalf("Unparse(parse(%q)) = %q", src, got)
		}
	}
}
