package types

import (
	"strings"
	"testing"
)

func TestParseFormatRoundTrip(t *testing.T) {
	sources := []string{
		"number",
		"boolean",
		"string",
		"void",
		"Empty",
		"T",
		"T1",
		"(number -> boolean)",
		"(number * number -> number)",
		"(Empty -> void)",
		"(Pair number boolean)",
		"(Pair (Pair number number) string)",
		"((number -> number) * number -> number)",
		"(T1 * T2 -> (Pair T1 T2))",
	}
	for _, src := range sources {
		te, err := ParseText(src)
		if err != nil {
			t.Fatalf("ParseText(%q) returned error: %v", src, err)
		}
		if got := Format(te); got != src {
			t.Fatalf("Format(ParseText(%q)) = %q", src, got)
		}
	}
}

func TestParseNullaryProc(t *testing.T) {
	te, err := ParseText("(Empty -> void)")
	if err != nil {
		t.Fatalf("ParseText returned error: %v", err)
	}
	proc, ok := te.(ProcTExp)
	if !ok {
		t.Fatalf("expected procedure type, got %#v", te)
	}
	if len(proc.Params) != 0 {
		t.Fatalf("expected no parameters, got %d", len(proc.Params))
	}
}

func TestEqualsStructural(t *testing.T) {
	left, err := ParseText("(number * boolean -> (Pair number T))")
	if err != nil {
		t.Fatalf("ParseText returned error: %v", err)
	}
	right := ProcTExp{
		Params: []TExp{NumTExp{}, BoolTExp{}},
		Return: PairTExp{First: NumTExp{}, Second: TVar{Name: "T"}},
	}
	if !Equals(left, right) {
		t.Fatalf("expected %s to equal constructed twin", Format(left))
	}
}

func TestEqualsMismatch(t *testing.T) {
	cases := [][2]string{
		{"number", "boolean"},
		{"T1", "T2"},
		{"(number -> number)", "(number * number -> number)"},
		{"(number * boolean -> number)", "(boolean * number -> number)"},
		{"(Pair number boolean)", "(Pair boolean number)"},
		{"Empty", "void"},
	}
	for _, tc := range cases {
		left, err := ParseText(tc[0])
		if err != nil {
			t.Fatalf("ParseText(%q) returned error: %v", tc[0], err)
		}
		right, err := ParseText(tc[1])
		if err != nil {
			t.Fatalf("ParseText(%q) returned error: %v", tc[1], err)
		}
		if Equals(left, right) {
			t.Fatalf("expected %q and %q to differ", tc[0], tc[1])
		}
	}
}

func TestEqualsIndependentOfConstruction(t *testing.T) {
	parsed, err := ParseText("(Pair number number)")
	if err != nil {
		t.Fatalf("ParseText returned error: %v", err)
	}
	built := PairTExp{First: NumTExp{}, Second: NumTExp{}}
	if !Equals(parsed, built) || !Equals(built, parsed) {
		t.Fatalf("structural equality must not depend on construction path")
	}
}

func TestContainsTVar(t *testing.T) {
	te, err := ParseText("(T1 * (Pair T2 number) -> T3)")
	if err != nil {
		t.Fatalf("ParseText returned error: %v", err)
	}
	for _, name := range []string{"T1", "T2", "T3"} {
		if !ContainsTVar(te, name) {
			t.Fatalf("expected %s to contain %s", Format(te), name)
		}
	}
	if ContainsTVar(te, "T4") {
		t.Fatalf("did not expect %s to contain T4", Format(te))
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src     string
		wantMsg string
	}{
		{"(number boolean)", "missing ->"},
		{"(Pair number)", "two components"},
		{"(number * -> number)", "misplaced *"},
		{"(number -> number -> number)", "exactly one return type"},
		{"( -> number)", "no parameter types"},
	}
	for _, tc := range cases {
		_, err := ParseText(tc.src)
		if err == nil {
			t.Fatalf("ParseText(%q) succeeded, want error", tc.src)
		}
		if !strings.Contains(err.Error(), tc.wantMsg) {
			t.Fatalf("ParseText(%q) error %q does not mention %q", tc.src, err, tc.wantMsg)
		}
	}
}
