package marshal

import (
	"hash/maphash"
	"math"
	"testing"
)

var hashableTestSeed = maphash.MakeSeed()

func TestToHashableRejectsList(t *testing.T) {
	_, err := ToHashable(NewList(nil))
	if _, ok := err.(*UnhashableError); !ok {
		t.Fatalf("got %v, want *UnhashableError", err)
	}
}

func TestToHashableRecursesTuple(t *testing.T) {
	_, err := ToHashable(Tuple{"a", NewList(nil)})
	if _, ok := err.(*UnhashableError); !ok {
		t.Fatalf("got %v, want *UnhashableError for tuple containing a list", err)
	}
}

func TestFloatHashNaN(t *testing.T) {
	nan := math.NaN()
	if hash(hashableTestSeed, nan) != hash(hashableTestSeed, math.NaN()) {
		t.Error("two distinct NaN values must hash identically")
	}
	if !equal(nan, math.NaN()) {
		t.Error("NaN must compare equal to NaN for hashing purposes")
	}
}

func TestFloatHashZero(t *testing.T) {
	if hash(hashableTestSeed, 0.0) != hash(hashableTestSeed, math.Copysign(0, -1)) {
		t.Error("+0.0 and -0.0 must hash identically")
	}
	if !equal(0.0, math.Copysign(0, -1)) {
		t.Error("+0.0 must compare equal to -0.0")
	}
}

func TestDictSetGet(t *testing.T) {
	d := NewDict()
	d.Set("k", "v")
	v, ok := d.Get("k")
	if !ok || v != "v" {
		t.Fatalf("got (%v, %v), want (v, true)", v, ok)
	}
	if _, ok := d.Get("missing"); ok {
		t.Fatal("expected no entry for missing key")
	}
}

func TestSetAddContains(t *testing.T) {
	s := NewEmptySet()
	s.Add("a")
	s.Add("b")
	if s.Len() != 2 {
		t.Fatalf("got len %d, want 2", s.Len())
	}
	if !s.Contains("a") || !s.Contains("b") {
		t.Fatal("expected both elements present")
	}
	if s.Contains("c") {
		t.Fatal("did not expect c present")
	}
}

func TestFrozenSetOrderInsensitiveHash(t *testing.T) {
	a := NewFrozenSet([]HashableValue{"x", "y"})
	b := NewFrozenSet([]HashableValue{"y", "x"})
	if hash(hashableTestSeed, a) != hash(hashableTestSeed, b) {
		t.Error("frozenset hash must not depend on insertion order")
	}
	if !equal(a, b) {
		t.Error("frozensets with the same elements must compare equal")
	}
}

func TestFrozenSetAsDictKey(t *testing.T) {
	key, err := ToHashable(NewFrozenSet([]HashableValue{"a"}))
	if err != nil {
		t.Fatalf("frozenset must be hashable: %v", err)
	}
	d := NewDict()
	d.Set(key, "nested")
	if v, ok := d.Get(NewFrozenSet([]HashableValue{"a"})); !ok || v != "nested" {
		t.Fatalf("got (%v, %v), want (nested, true)", v, ok)
	}
}
