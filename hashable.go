package marshal

// Python-style hashable-keyed containers (Dict, Set, FrozenSet), grounded
// on the teacher's dict.go: the same pairing of github.com/aristanetworks/gomap
// (an open-addressing map parameterized over caller-supplied hash/equal)
// with hash/maphash for string hashing, narrowed from teacher's open `any`
// key space down to this package's closed HashableValue union.

import (
	"fmt"
	"hash/maphash"
	"math"
	"math/big"
	"strings"
	"sync"

	"github.com/aristanetworks/gomap"
)

// ToHashable converts a Value into a HashableValue, recursing through
// Tuple. A *FrozenSet is accepted as-is without visiting its elements.
// Any other variant fails with UnhashableError carrying the offending value.
func ToHashable(v Value) (HashableValue, error) {
	switch x := v.(type) {
	case None, StopIteration, Ellipsis, bool, *big.Int, float64, complex128, string:
		return x, nil
	case Tuple:
		out := make(Tuple, len(x))
		for i, elem := range x {
			h, err := ToHashable(elem)
			if err != nil {
				return nil, err
			}
			out[i] = h
		}
		return out, nil
	case *FrozenSet:
		return x, nil
	default:
		return nil, &UnhashableError{Offender: v}
	}
}

// hash returns a hash of x consistent with equal: equal(a,b) implies
// hash(a) == hash(b). Mirrors the shape of the teacher's hash() in
// dict.go, narrowed to HashableValue's closed variant set.
func hash(seed maphash.Seed, x HashableValue) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)

	switch v := x.(type) {
	case None:
		h.WriteByte('N')
	case StopIteration:
		h.WriteByte('S')
	case Ellipsis:
		h.WriteByte('.')
	case bool:
		h.WriteByte('b')
		if v {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}
	case *big.Int:
		h.WriteByte('L')
		h.Write(v.Bytes())
		if v.Sign() < 0 {
			h.WriteByte('-')
		}
	case float64:
		h.WriteByte('f')
		hashFloat(&h, v)
	case complex128:
		h.WriteByte('x')
		hashFloat(&h, real(v))
		hashFloat(&h, imag(v))
	case string:
		h.WriteByte('s')
		h.WriteString(v)
	case Tuple:
		h.WriteByte('t')
		for _, elem := range v {
			writeUint64(&h, hash(seed, elem))
		}
	case *FrozenSet:
		h.WriteByte('F')
		writeUint64(&h, v.hash(seed))
	default:
		panic(fmt.Sprintf("marshal: hash: unreachable HashableValue type %T", x))
	}
	return h.Sum64()
}

// hashFloat implements spec.md §3's float hashing rule: NaN hashes to a
// fixed sentinel and +0.0/-0.0 hash identically; every other value hashes
// from its IEEE-754 bit pattern.
func hashFloat(h *maphash.Hash, f float64) {
	switch {
	case math.IsNaN(f):
		h.WriteByte(0)
	case f == 0:
		h.WriteByte(1)
	default:
		writeUint64(h, math.Float64bits(f))
	}
}

func writeUint64(h *maphash.Hash, u uint64) {
	var b [8]byte
	for i := range b {
		b[i] = byte(u >> (8 * i))
	}
	h.Write(b[:])
}

// equal implements the equality spec.md §3 requires for HashableValue:
// same-variant structural equality, with NaN comparing equal to itself
// and to any other NaN, and +0.0 equal to -0.0.
func equal(a, b HashableValue) bool {
	switch av := a.(type) {
	case None:
		_, ok := b.(None)
		return ok
	case StopIteration:
		_, ok := b.(StopIteration)
		return ok
	case Ellipsis:
		_, ok := b.(Ellipsis)
		return ok
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case *big.Int:
		bv, ok := b.(*big.Int)
		return ok && av.Cmp(bv) == 0
	case float64:
		bv, ok := b.(float64)
		return ok && floatEqual(av, bv)
	case complex128:
		bv, ok := b.(complex128)
		return ok && floatEqual(real(av), real(bv)) && floatEqual(imag(av), imag(bv))
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case Tuple:
		bv, ok := b.(Tuple)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *FrozenSet:
		bv, ok := b.(*FrozenSet)
		return ok && av.equalSet(bv)
	default:
		return false
	}
}

func floatEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b // true for +0.0 == -0.0 under IEEE-754 already
}

// Dict is Python's dict: a mutable mapping from HashableValue to Value,
// shared the way spec.md §5 requires (the reference table and the
// returned tree may alias the same handle).
type Dict struct {
	mu sync.RWMutex
	m  *gomap.Map[HashableValue, Value]
}

// NewDict returns a new, empty dict.
func NewDict() *Dict {
	return NewDictWithSizeHint(0)
}

// NewDictWithSizeHint returns a new, empty dict preallocated for size
// entries.
func NewDictWithSizeHint(size int) *Dict {
	return &Dict{m: gomap.NewHint[HashableValue, Value](size, equal, hash)}
}

// Get returns the value associated with an entry equal to key, and whether
// one was found. Panics if key's type is not one of HashableValue's
// variants (see ToHashable) — same contract as the teacher's Dict.Get.
func (d *Dict) Get(key HashableValue) (Value, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.m.Get(key)
}

// Set associates key with value, replacing any previous entry for an
// equal key. Panics if key's type is not one of HashableValue's variants;
// callers constructing keys from a decoded Value should go through
// ToHashable first, which reports that case as an error instead.
func (d *Dict) Set(key HashableValue, value Value) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.m.Set(key, value)
}

// Len returns the number of entries in the dict.
func (d *Dict) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.m.Len()
}

// Iter calls yield for every (key, value) pair, in arbitrary order,
// stopping early if yield returns false.
func (d *Dict) Iter(yield func(HashableValue, Value) bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	it := d.m.Iter()
	for it.Next() {
		if !yield(it.Key(), it.Elem()) {
			return
		}
	}
}

func (d *Dict) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	d.Iter(func(k HashableValue, v Value) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%v: %v", k, v)
		return true
	})
	b.WriteByte('}')
	return b.String()
}

// Set is Python's set: a mutable collection of HashableValue, shared.
type Set struct {
	mu sync.RWMutex
	m  *gomap.Map[HashableValue, struct{}]
}

// NewEmptySet returns a new, empty set. Decoder creates sets with this
// constructor before populating them, per spec.md §4.4's self-reference
// contract for the Set tag.
func NewEmptySet() *Set {
	return &Set{m: gomap.NewHint[HashableValue, struct{}](0, equal, hash)}
}

// Add inserts v into the set. Panics if v's type is not one of
// HashableValue's variants; callers adding a decoded Value should go
// through ToHashable first, which reports that case as an error instead.
func (s *Set) Add(v HashableValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Set(v, struct{}{})
}

// Contains reports whether v is a member of the set.
func (s *Set) Contains(v HashableValue) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.m.Get(v)
	return ok
}

// Len returns the number of elements in the set.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Len()
}

// Iter calls yield for every element, in arbitrary order, stopping early
// if yield returns false.
func (s *Set) Iter(yield func(HashableValue) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it := s.m.Iter()
	for it.Next() {
		if !yield(it.Key()) {
			return
		}
	}
}

func (s *Set) String() string {
	return setString(func(yield func(HashableValue) bool) { s.Iter(yield) })
}

// FrozenSet is Python's frozenset: an immutable collection of
// HashableValue, itself usable as a HashableValue (e.g. as a dict key, or
// nested inside a tuple).
type FrozenSet struct {
	m *gomap.Map[HashableValue, struct{}]
}

// NewFrozenSet returns a FrozenSet containing elems.
func NewFrozenSet(elems []HashableValue) *FrozenSet {
	m := gomap.NewHint[HashableValue, struct{}](len(elems), equal, hash)
	for _, e := range elems {
		m.Set(e, struct{}{})
	}
	return &FrozenSet{m: m}
}

// Contains reports whether v is a member of the frozen set.
func (f *FrozenSet) Contains(v HashableValue) bool {
	_, ok := f.m.Get(v)
	return ok
}

// Len returns the number of elements in the frozen set.
func (f *FrozenSet) Len() int {
	return f.m.Len()
}

// Iter calls yield for every element, in arbitrary order, stopping early
// if yield returns false.
func (f *FrozenSet) Iter(yield func(HashableValue) bool) {
	it := f.m.Iter()
	for it.Next() {
		if !yield(it.Key()) {
			return
		}
	}
}

func (f *FrozenSet) String() string {
	return "frozenset(" + setString(f.Iter) + ")"
}

// hash implements spec.md §4.3/§9's frozenset hashing rule: XOR of child
// hashes, so that it is order-insensitive (matches the original source's
// HashableHashSet and collides more than a mix-based hash would — accepted
// per spec.md §9 because hashable sets as dict keys are rare in practice).
func (f *FrozenSet) hash(seed maphash.Seed) uint64 {
	var xor uint64
	f.Iter(func(v HashableValue) bool {
		xor ^= hash(seed, v)
		return true
	})
	return xor
}

// equalSet reports whether f and g contain the same elements, order
// irrelevant.
func (f *FrozenSet) equalSet(g *FrozenSet) bool {
	if f.Len() != g.Len() {
		return false
	}
	allFound := true
	f.Iter(func(v HashableValue) bool {
		if !g.Contains(v) {
			allFound = false
			return false
		}
		return true
	})
	return allFound
}

func setString(iter func(yield func(HashableValue) bool)) string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	iter(func(v HashableValue) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%v", v)
		return true
	})
	b.WriteByte('}')
	return b.String()
}
