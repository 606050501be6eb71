package marshal

import (
	"fmt"
	"strings"
	"sync"
)

// Value is the dynamic type of every decoded marshal object. Go has no
// closed sum types, so — exactly like the teacher's pickle decoder, which
// pushes plain interface{} values onto its stack — Value is just an alias
// for any; the set of concrete types that ever appear in it is closed by
// convention, not by the compiler:
//
//	None, StopIteration, Ellipsis   (singleton structs)
//	bool                            (Bool)
//	*big.Int                        (Long)
//	float64                         (Float)
//	complex128                      (Complex)
//	Bytes                           (immutable byte string)
//	string                          (String)
//	Tuple                           (immutable ordered sequence)
//	*List                           (mutable ordered sequence, shared)
//	*Dict                           (mutable mapping, shared)
//	*Set                            (mutable set, shared)
//	*FrozenSet                      (immutable set, shared)
//	*Code                           (compiled code record)
type Value = any

// HashableValue is the restricted subset of Value permitted as a Dict key
// or Set/FrozenSet element: None, StopIteration, Ellipsis, bool, *big.Int,
// float64, complex128, string, Tuple (recursively hashable), *FrozenSet
// (recursively hashable). See ToHashable.
type HashableValue = any

// None represents Python's None.
type None struct{}

// StopIteration represents Python's StopIteration singleton as decoded
// from a marshal stream (not the exception machinery around it).
type StopIteration struct{}

// Ellipsis represents Python's Ellipsis (the "..." singleton).
type Ellipsis struct{}

// Bytes is an immutable byte string — Python's bytes object.
type Bytes []byte

// Tuple is an immutable ordered sequence of Value.
type Tuple []Value

// List is Python's list: a mutable, ordered, reference-counted-in-spirit
// sequence. Its zero value is an empty, usable list; List is safe for
// concurrent read access and single-writer mutation via its methods,
// matching spec.md §5's "read-locking discipline" requirement for
// containers the reference table and the returned tree may alias.
type List struct {
	mu    sync.RWMutex
	items []Value
}

// NewList returns a new list containing items. The slice is taken by
// reference's worth of semantics are not relied upon by callers: List
// copies nothing extra, but ownership of items passes to the List.
func NewList(items []Value) *List {
	return &List{items: items}
}

// Len returns the number of elements in the list.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// At returns the element at index i.
func (l *List) At(i int) Value {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.items[i]
}

// Append adds v to the end of the list.
func (l *List) Append(v Value) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, v)
}

// Set replaces the element at index i.
func (l *List) Set(i int, v Value) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items[i] = v
}

// Slice returns a snapshot copy of the list's elements.
func (l *List) Slice() []Value {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Value, len(l.items))
	copy(out, l.items)
	return out
}

// String renders a plain Go debug form, the analogue of Dict/Set/
// FrozenSet's String methods (hashable.go) — not CPython repr syntax.
func (l *List) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range l.items {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", v)
	}
	b.WriteByte(']')
	return b.String()
}
