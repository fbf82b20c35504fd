package types

import (
	"fmt"

	"l5/checker-go/pkg/sexp"
)

// Parse converts a surface type annotation, already read into a symbolic
// expression, into a TExp. Accepted forms:
//
//	number boolean string void Empty
//	<identifier>              a type variable, uppercase-leading by convention
//	(T1 * T2 * ... -> R)      procedure type; (Empty -> R) for no parameters
//	(Pair T1 T2)              pair type
func Parse(v sexp.Value) (TExp, error) {
	switch val := v.(type) {
	case sexp.Symbol:
		return parseAtomic(val.Name), nil
	case sexp.Pair:
		elems, ok := sexp.Elements(v)
		if !ok {
			return nil, fmt.Errorf("invalid type annotation %s", sexp.Format(v))
		}
		if head, isSym := elems[0].(sexp.Symbol); isSym && head.Name == "Pair" {
			return parsePair(elems, v)
		}
		return parseProc(elems, v)
	default:
		return nil, fmt.Errorf("invalid type annotation %s", sexp.Format(v))
	}
}

// ParseText reads and parses a type annotation from source text.
func ParseText(src string) (TExp, error) {
	v, err := sexp.Read(src)
	if err != nil {
		return nil, err
	}
	return Parse(v)
}

func parseAtomic(name string) TExp {
	switch name {
	case "number":
		return NumTExp{}
	case "boolean":
		return BoolTExp{}
	case "string":
		return StrTExp{}
	case "void":
		return VoidTExp{}
	case "Empty":
		return EmptyTExp{}
	default:
		return TVar{Name: name}
	}
}

func parsePair(elems []sexp.Value, src sexp.Value) (TExp, error) {
	if len(elems) != 3 {
		return nil, fmt.Errorf("Pair type expects two components in %s", sexp.Format(src))
	}
	first, err := Parse(elems[1])
	if err != nil {
		return nil, err
	}
	second, err := Parse(elems[2])
	if err != nil {
		return nil, err
	}
	return PairTExp{First: first, Second: second}, nil
}

func parseProc(elems []sexp.Value, src sexp.Value) (TExp, error) {
	arrow := -1
	for i, e := range elems {
		if sym, ok := e.(sexp.Symbol); ok && sym.Name == "->" {
			arrow = i
			break
		}
	}
	if arrow < 0 {
		return nil, fmt.Errorf("procedure type missing -> in %s", sexp.Format(src))
	}
	if arrow != len(elems)-2 {
		return nil, fmt.Errorf("procedure type needs exactly one return type in %s", sexp.Format(src))
	}

	var params []TExp
	expectType := true
	for _, e := range elems[:arrow] {
		if sym, ok := e.(sexp.Symbol); ok && sym.Name == "*" {
			if expectType {
				return nil, fmt.Errorf("misplaced * in %s", sexp.Format(src))
			}
			expectType = true
			continue
		}
		if !expectType {
			return nil, fmt.Errorf("missing * between parameter types in %s", sexp.Format(src))
		}
		p, err := Parse(e)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
		expectType = false
	}
	if expectType {
		if len(params) == 0 {
			return nil, fmt.Errorf("procedure type has no parameter types in %s", sexp.Format(src))
		}
		return nil, fmt.Errorf("misplaced * in %s", sexp.Format(src))
	}

	// (Empty -> R) denotes a nullary procedure.
	if len(params) == 1 {
		if _, isEmpty := params[0].(EmptyTExp); isEmpty {
			params = nil
		}
	}

	ret, err := Parse(elems[arrow+1])
	if err != nil {
		return nil, err
	}
	return ProcTExp{Params: params, Return: ret}, nil
}
