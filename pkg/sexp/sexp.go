package sexp

import (
	"strconv"
	"strings"
)

// Value is the symbolic-expression tree produced by the reader. It doubles
// as the runtime representation of quoted literal data: numbers, booleans,
// strings, symbols, the empty list, and pairs.
type Value interface {
	value()
}

type Number struct {
	Val float64
}

type Boolean struct {
	Val bool
}

type String struct {
	Val string
}

type Symbol struct {
	Name string
}

// Empty is the empty list '().
type Empty struct{}

// Pair is a binary compound cell. Proper lists are chains of Pairs ending
// in Empty; dotted literals end in any other value.
type Pair struct {
	Car Value
	Cdr Value
}

func (Number) value()  {}
func (Boolean) value() {}
func (String) value()  {}
func (Symbol) value()  {}
func (Empty) value()   {}
func (Pair) value()    {}

// List builds a proper list from the given elements.
func List(elems ...Value) Value {
	var out Value = Empty{}
	for i := len(elems) - 1; i >= 0; i-- {
		out = Pair{Car: elems[i], Cdr: out}
	}
	return out
}

// Elements flattens a proper list into a slice. The second result is false
// when v is not a proper list (dotted tail or non-list value).
func Elements(v Value) ([]Value, bool) {
	var out []Value
	for {
		switch cell := v.(type) {
		case Empty:
			return out, true
		case Pair:
			out = append(out, cell.Car)
			v = cell.Cdr
		default:
			return out, false
		}
	}
}

// Format renders a value back to its surface text.
func Format(v Value) string {
	var b strings.Builder
	formatInto(&b, v)
	return b.String()
}

func formatInto(b *strings.Builder, v Value) {
	switch val := v.(type) {
	case Number:
		b.WriteString(strconv.FormatFloat(val.Val, 'g', -1, 64))
	case Boolean:
		if val.Val {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case String:
		b.WriteString(strconv.Quote(val.Val))
	case Symbol:
		b.WriteString(val.Name)
	case Empty:
		b.WriteString("()")
	case Pair:
		b.WriteByte('(')
		formatInto(b, val.Car)
		rest := val.Cdr
		for {
			switch tail := rest.(type) {
			case Pair:
				b.WriteByte(' ')
				formatInto(b, tail.Car)
				rest = tail.Cdr
				continue
			case Empty:
				b.WriteByte(')')
				return
			default:
				b.WriteString(" . ")
				formatInto(b, tail)
				b.WriteByte(')')
				return
			}
		}
	}
}
