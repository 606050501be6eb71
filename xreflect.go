package marshal

// Utilities that complement the std reflect package for tests: Dict, Set
// and FrozenSet wrap an internal hash table, so reflect.DeepEqual does not
// reliably consider two of them equal even when their logical contents
// match. deepEqual recurses through every container type instead.

import (
	"bytes"
	"math/big"
	"reflect"
)

func deepEqual(a, b any) bool {
	switch av := a.(type) {
	case *Dict:
		bv, ok := b.(*Dict)
		return ok && dictEqual(av, bv)
	case *Set:
		bv, ok := b.(*Set)
		return ok && setEqual(av, bv)
	case *FrozenSet:
		bv, ok := b.(*FrozenSet)
		return ok && frozenSetEqual(av, bv)
	case *List:
		bv, ok := b.(*List)
		return ok && listEqual(av, bv)
	case Tuple:
		bv, ok := b.(Tuple)
		return ok && tupleEqual(av, bv)
	case *Code:
		bv, ok := b.(*Code)
		return ok && codeEqual(av, bv)
	case *big.Int:
		bv, ok := b.(*big.Int)
		return ok && av.Cmp(bv) == 0
	default:
		return reflect.DeepEqual(a, b)
	}
}

// dictEqual compares two dicts key-by-key: for each key of a it walks b
// for a key of the same dynamic type that equal() accepts, the same way
// the teacher's helper did for its Dict, and compares the two values with
// deepEqual.
func dictEqual(a, b *Dict) bool {
	if a.Len() != b.Len() {
		return false
	}
	eq := true
	a.Iter(func(ka HashableValue, va Value) bool {
		found := false
		b.Iter(func(kb HashableValue, vb Value) bool {
			if reflect.TypeOf(ka) == reflect.TypeOf(kb) && equal(ka, kb) {
				found = deepEqual(va, vb)
				return false
			}
			return true
		})
		if !found {
			eq = false
			return false
		}
		return true
	})
	return eq
}

func setEqual(a, b *Set) bool {
	if a.Len() != b.Len() {
		return false
	}
	eq := true
	a.Iter(func(v HashableValue) bool {
		if !b.Contains(v) {
			eq = false
			return false
		}
		return true
	})
	return eq
}

func frozenSetEqual(a, b *FrozenSet) bool {
	return a.equalSet(b)
}

func listEqual(a, b *List) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !deepEqual(a.At(i), b.At(i)) {
			return false
		}
	}
	return true
}

func tupleEqual(a, b Tuple) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !deepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func codeEqual(a, b *Code) bool {
	return a.ArgCount == b.ArgCount &&
		a.PosOnlyArgCount == b.PosOnlyArgCount &&
		a.KwOnlyArgCount == b.KwOnlyArgCount &&
		a.NLocals == b.NLocals &&
		a.StackSize == b.StackSize &&
		a.Flags == b.Flags &&
		bytes.Equal(a.Code, b.Code) &&
		tupleEqual(a.Consts, b.Consts) &&
		stringSliceEqual(a.Names, b.Names) &&
		stringSliceEqual(a.VarNames, b.VarNames) &&
		stringSliceEqual(a.FreeVars, b.FreeVars) &&
		stringSliceEqual(a.CellVars, b.CellVars) &&
		a.Filename == b.Filename &&
		a.Name == b.Name &&
		a.FirstLineNo == b.FirstLineNo &&
		bytes.Equal(a.LNotab, b.LNotab)
}
