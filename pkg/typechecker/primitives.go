package typechecker

import (
	"fmt"

	"l5/checker-go/pkg/types"
)

// primType returns the procedure type of a built-in operator. Polymorphic
// signatures mint fresh type-variable names per reference; type variables
// are matched by name, so reusing one name across two references could
// capture unrelated uses.
func (c *Checker) primType(op string) (types.TExp, error) {
	num := types.NumTExp{}
	boolean := types.BoolTExp{}

	switch op {
	case "+", "-", "*", "/":
		return types.ProcTExp{Params: []types.TExp{num, num}, Return: num}, nil
	case ">", "<", "=":
		return types.ProcTExp{Params: []types.TExp{num, num}, Return: boolean}, nil
	case "and", "or":
		return types.ProcTExp{Params: []types.TExp{boolean, boolean}, Return: boolean}, nil
	case "not":
		return types.ProcTExp{Params: []types.TExp{boolean}, Return: boolean}, nil
	case "number?", "boolean?", "string?", "list?", "pair?", "symbol?":
		return types.ProcTExp{Params: []types.TExp{c.freshTVar()}, Return: boolean}, nil
	case "eq?", "string=?":
		return types.ProcTExp{Params: []types.TExp{c.freshTVar(), c.freshTVar()}, Return: boolean}, nil
	case "display":
		return types.ProcTExp{Params: []types.TExp{c.freshTVar()}, Return: types.VoidTExp{}}, nil
	case "newline":
		return types.ProcTExp{Params: nil, Return: types.VoidTExp{}}, nil
	case "cons":
		t1 := c.freshTVar()
		t2 := c.freshTVar()
		return types.ProcTExp{
			Params: []types.TExp{t1, t2},
			Return: types.PairTExp{First: t1, Second: t2},
		}, nil
	case "car":
		t1 := c.freshTVar()
		t2 := c.freshTVar()
		return types.ProcTExp{
			Params: []types.TExp{types.PairTExp{First: t1, Second: t2}},
			Return: t1,
		}, nil
	case "cdr":
		t1 := c.freshTVar()
		t2 := c.freshTVar()
		return types.ProcTExp{
			Params: []types.TExp{types.PairTExp{First: t1, Second: t2}},
			Return: t2,
		}, nil
	default:
		return nil, fmt.Errorf("primitive operator %s is not supported", op)
	}
}
