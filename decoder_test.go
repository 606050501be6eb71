package marshal

import (
	"bytes"
	"io"
	"math/big"
	"testing"
)

func TestDecodeInt64Pattern(t *testing.T) {
	in := []byte("I\xfe\xdc\xba\x98\x76\x54\x32\x10")
	v, err := DecodeBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	n, ok := AsLong(v)
	if !ok {
		t.Fatalf("got %T, want *big.Int", v)
	}
	want, _ := new(big.Int).SetString("1032547698badcfe", 16)
	if n.Cmp(want) != 0 {
		t.Errorf("got %x, want %x", n, want)
	}
}

func TestDecodeShortAscii(t *testing.T) {
	in := []byte("\xda\x03abc")
	v, err := DecodeBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := AsString(v); !ok || s != "abc" {
		t.Fatalf("got (%v, %v), want (abc, true)", v, ok)
	}
}

func TestDecodeUTF8Long(t *testing.T) {
	in := []byte("u\r\x00\x00\x00Andr\xc3\xa8 Previn")
	v, err := DecodeBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := AsString(v); !ok || s != "Andrè Previn" {
		t.Fatalf("got (%q, %v)", s, ok)
	}
}

// TestDecodeRecursionCeiling exercises the same pattern as the 1,048,576
// repeat scenario (a self-similar chain of 1-tuples) with just enough
// repeats to exceed maxDepth; the decoder must fail at the same fixed
// ceiling regardless of how much more input follows.
func TestDecodeRecursionCeiling(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < maxDepth+10; i++ {
		buf.WriteString(")\x01")
	}
	buf.WriteByte('N')
	_, err := DecodeBytes(buf.Bytes())
	if err != ErrRecursionLimitExceeded {
		t.Fatalf("got %v, want ErrRecursionLimitExceeded", err)
	}
}

func TestDecodeLongMinInt32DigitCountDoesNotPanic(t *testing.T) {
	// digit count word 0x80000000 == math.MinInt32: negating it in a
	// signed 32-bit type overflows back to itself, so a naive decoder
	// passes a negative length to make() and panics instead of erroring.
	in := []byte("l\x00\x00\x00\x80")
	_, err := DecodeBytes(in)
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
}

func TestDecodeUnnormalizedLong(t *testing.T) {
	in := []byte("l\x02\x00\x00\x00\x00\x00\x00\x00")
	_, err := DecodeBytes(in)
	if err != ErrUnnormalizedLong {
		t.Fatalf("got %v, want ErrUnnormalizedLong", err)
	}
}

func TestDecodeRefOrdering(t *testing.T) {
	in := []byte("\xdb\x02\x00\x00\x00\xda\x01ar\x01\x00\x00\x00")
	v, err := DecodeBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	list, ok := AsList(v)
	if !ok || list.Len() != 2 {
		t.Fatalf("got %v, want a 2-element list", v)
	}
	if s0, _ := AsString(list.At(0)); s0 != "a" {
		t.Errorf("element 0: got %v, want a", list.At(0))
	}
	if s1, _ := AsString(list.At(1)); s1 != "a" {
		t.Errorf("element 1: got %v, want a (resolved via Ref(1))", list.At(1))
	}
}

// TestDecodeFlaggedSingletonDoesNotShiftRefTable verifies spec.md §4.4's
// rule that a singleton's reference flag is a no-op: a flagged None ahead
// of a string must not occupy a reference-table slot, or the trailing
// Ref(1) below would resolve to the None instead of the string.
func TestDecodeFlaggedSingletonDoesNotShiftRefTable(t *testing.T) {
	// A 3-tuple reserves ref slot 0 for itself, then reads a flagged None
	// (must NOT take a slot), then a flagged "a" (must take slot 1), then
	// a Ref(1) that must resolve to "a" rather than to the None.
	in := []byte{
		')' | flagRef, 3,
		tagNone | flagRef,
		tagShortAscii | flagRef, 1, 'a',
		tagRef, 1, 0, 0, 0,
	}
	v, err := DecodeBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	tup, ok := AsTuple(v)
	if !ok || len(tup) != 3 {
		t.Fatalf("got %v, want a 3-element tuple", v)
	}
	if _, ok := tup[0].(None); !ok {
		t.Errorf("element 0: got %T, want None", tup[0])
	}
	if s, ok := AsString(tup[1]); !ok || s != "a" {
		t.Errorf("element 1: got %v, want \"a\"", tup[1])
	}
	if s, ok := AsString(tup[2]); !ok || s != "a" {
		t.Errorf("element 2 (Ref(1)): got %v, want \"a\" (would be None if None had taken slot 1)", tup[2])
	}
}

func TestDecodeDictWithTupleKey(t *testing.T) {
	in := []byte("{\xa9\x02\xda\x01a\xda\x01b\xda\x01c0")
	v, err := DecodeBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	dict, ok := AsDict(v)
	if !ok || dict.Len() != 1 {
		t.Fatalf("got %v, want a 1-entry dict", v)
	}
	key, err := ToHashable(Tuple{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	val, ok := dict.Get(key)
	if !ok {
		t.Fatal("expected an entry for key (\"a\",\"b\")")
	}
	if s, _ := AsString(val); s != "c" {
		t.Errorf("got %v, want c", val)
	}
}

func TestDecodeBareNull(t *testing.T) {
	_, err := DecodeBytes([]byte("0"))
	if err != ErrUnexpectedNull {
		t.Fatalf("got %v, want ErrUnexpectedNull", err)
	}
}

func TestDecodeTruncatedFloat(t *testing.T) {
	_, err := DecodeBytes([]byte("f"))
	if err != io.EOF {
		t.Fatalf("got %v, want io.EOF", err)
	}
}

func TestDecodeInvalidType(t *testing.T) {
	_, err := DecodeBytes([]byte("?"))
	ite, ok := err.(*InvalidTypeError)
	if !ok {
		t.Fatalf("got %v, want *InvalidTypeError", err)
	}
	if ite.Tag != '?' {
		t.Errorf("got Tag=%q, want '?'", ite.Tag)
	}
}

func TestDecodeDictNullTerminatesOnValueSlot(t *testing.T) {
	// A dict whose single key is immediately followed by a bare Null in
	// value position: per spec, this terminates the dict (key is
	// discarded) rather than erroring, matching the original decoder.
	in := []byte("{\xda\x01a0")
	v, err := DecodeBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	dict, ok := AsDict(v)
	if !ok || dict.Len() != 0 {
		t.Fatalf("got %v, want an empty dict", v)
	}
}

func TestDecodeSetSelfReferenceIsUnhashable(t *testing.T) {
	// '<' | flagRef, count=1, element = Ref(0) pointing back at the set
	// itself. The set is published into the reference table before its
	// elements are read (so the Ref resolves at all), but a Set can never
	// legally contain itself as an element: *Set is not a HashableValue,
	// exactly as a real set can't hold itself in Python either.
	in := []byte{'<' | flagRef, 1, 0, 0, 0, tagRef, 0, 0, 0, 0}
	_, err := DecodeBytes(in)
	if _, ok := err.(*UnhashableError); !ok {
		t.Fatalf("got %v, want *UnhashableError", err)
	}
}

func TestDecodeMultipleObjects(t *testing.T) {
	r := bytes.NewReader([]byte("NN"))
	dec := NewDecoder(r)
	for i := 0; i < 2; i++ {
		v, err := dec.Decode()
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := v.(None); !ok {
			t.Fatalf("object %d: got %T, want None", i, v)
		}
	}
}

func TestDecodeIsDeterministic(t *testing.T) {
	in := []byte("{\xa9\x02\xda\x01a\xda\x01b\xda\x01c0")
	v1, err := DecodeBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	v2, err := DecodeBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	if !deepEqual(v1, v2) {
		t.Errorf("decoding the same bytes twice produced different trees: %v vs %v", v1, v2)
	}
}
