package types

import "strings"

// TExp is a type expression: the closed set of type shapes the checker
// works with. TExps are immutable values; they are freely shared and
// compared only by deep structural equality.
type TExp interface {
	texp()
}

type NumTExp struct{}

type BoolTExp struct{}

type StrTExp struct{}

type VoidTExp struct{}

// EmptyTExp is the zero-parameter marker. It stands in for the absent
// parameter list of nullary procedures and is the type of the quoted
// empty list.
type EmptyTExp struct{}

// TVar is a named placeholder type. Two TVars are equal iff their names
// are textually equal; nothing is ever solved for or substituted.
type TVar struct {
	Name string
}

type ProcTExp struct {
	Params []TExp
	Return TExp
}

type PairTExp struct {
	First  TExp
	Second TExp
}

func (NumTExp) texp()   {}
func (BoolTExp) texp()  {}
func (StrTExp) texp()   {}
func (VoidTExp) texp()  {}
func (EmptyTExp) texp() {}
func (TVar) texp()      {}
func (ProcTExp) texp()  {}
func (PairTExp) texp()  {}

// Equals is deep structural equality over the TExp variant tree. It is
// order-sensitive for procedure parameter lists and pair components.
func Equals(a, b TExp) bool {
	switch left := a.(type) {
	case NumTExp:
		_, ok := b.(NumTExp)
		return ok
	case BoolTExp:
		_, ok := b.(BoolTExp)
		return ok
	case StrTExp:
		_, ok := b.(StrTExp)
		return ok
	case VoidTExp:
		_, ok := b.(VoidTExp)
		return ok
	case EmptyTExp:
		_, ok := b.(EmptyTExp)
		return ok
	case TVar:
		right, ok := b.(TVar)
		return ok && left.Name == right.Name
	case ProcTExp:
		right, ok := b.(ProcTExp)
		if !ok || len(left.Params) != len(right.Params) {
			return false
		}
		for i := range left.Params {
			if !Equals(left.Params[i], right.Params[i]) {
				return false
			}
		}
		return Equals(left.Return, right.Return)
	case PairTExp:
		right, ok := b.(PairTExp)
		return ok && Equals(left.First, right.First) && Equals(left.Second, right.Second)
	default:
		return false
	}
}

// ContainsTVar reports whether t syntactically contains a type variable
// with the given name.
func ContainsTVar(t TExp, name string) bool {
	switch te := t.(type) {
	case TVar:
		return te.Name == name
	case ProcTExp:
		for _, p := range te.Params {
			if ContainsTVar(p, name) {
				return true
			}
		}
		return ContainsTVar(te.Return, name)
	case PairTExp:
		return ContainsTVar(te.First, name) || ContainsTVar(te.Second, name)
	default:
		return false
	}
}

// Format renders a TExp in the surface annotation syntax. Output
// round-trips through Parse.
func Format(t TExp) string {
	switch te := t.(type) {
	case NumTExp:
		return "number"
	case BoolTExp:
		return "boolean"
	case StrTExp:
		return "string"
	case VoidTExp:
		return "void"
	case EmptyTExp:
		return "Empty"
	case TVar:
		return te.Name
	case ProcTExp:
		var b strings.Builder
		b.WriteByte('(')
		if len(te.Params) == 0 {
			b.WriteString("Empty")
		} else {
			for i, p := range te.Params {
				if i > 0 {
					b.WriteString(" * ")
				}
				b.WriteString(Format(p))
			}
		}
		b.WriteString(" -> ")
		b.WriteString(Format(te.Return))
		b.WriteByte(')')
		return b.String()
	case PairTExp:
		return "(Pair " + Format(te.First) + " " + Format(te.Second) + ")"
	default:
		return "unknown"
	}
}
