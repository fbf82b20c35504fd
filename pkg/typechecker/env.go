package typechecker

import (
	"fmt"

	"l5/checker-go/pkg/types"
)

// TEnv is a chain of immutable frames mapping variable names to type
// expressions. A nil *TEnv is the terminal (empty) environment. Each
// frame owns its parallel name/type slices; extension shares the tail
// and never mutates an existing frame.
type TEnv struct {
	vars      []string
	texps     []types.TExp
	enclosing *TEnv
}

// MakeEmptyTEnv returns the terminal environment.
func MakeEmptyTEnv() *TEnv {
	return nil
}

// Extend returns a fresh frame binding vars[i] to texps[i], chained onto
// e. The slices must have equal length; that is the caller's contract.
func (e *TEnv) Extend(vars []string, texps []types.TExp) *TEnv {
	return &TEnv{vars: vars, texps: texps, enclosing: e}
}

// Apply resolves name in the nearest frame that binds it, searching
// outward. Within a frame the first occurrence wins.
func (e *TEnv) Apply(name string) (types.TExp, error) {
	for frame := e; frame != nil; frame = frame.enclosing {
		for i, v := range frame.vars {
			if v == name {
				return frame.texps[i], nil
			}
		}
	}
	return nil, fmt.Errorf("unbound variable %s", name)
}

// Combine folds b's bindings into a. Bindings already resolvable in a
// are dropped from b's contribution (first side wins; re-declared names
// neither shadow nor error). A binding in b whose type expression
// mentions its own name as a type variable is rejected outright.
func Combine(a, b *TEnv) (*TEnv, error) {
	if a == nil {
		return b, nil
	}
	if b == nil {
		return a, nil
	}

	seen := make(map[string]bool)
	var vars []string
	var texps []types.TExp
	for frame := b; frame != nil; frame = frame.enclosing {
		for i, name := range frame.vars {
			if seen[name] {
				continue
			}
			seen[name] = true
			if types.ContainsTVar(frame.texps[i], name) {
				return nil, fmt.Errorf("self-referential type for %s: %s", name, types.Format(frame.texps[i]))
			}
			if _, err := a.Apply(name); err == nil {
				continue
			}
			vars = append(vars, name)
			texps = append(texps, frame.texps[i])
		}
	}
	return a.Extend(vars, texps), nil
}
