package marshal

import "math/big"

// Typed accessors for Value, in the spirit of the teacher's AsInt64/
// AsBytes/AsString: each reports ok=false instead of panicking when v
// holds a different variant, so callers can walk a decoded tree without a
// type switch at every step.

// AsLong reports whether v is a Long and returns it.
func AsLong(v Value) (*big.Int, bool) {
	n, ok := v.(*big.Int)
	return n, ok
}

// AsFloat reports whether v is a Float and returns it.
func AsFloat(v Value) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

// AsComplex reports whether v is a Complex and returns it.
func AsComplex(v Value) (complex128, bool) {
	c, ok := v.(complex128)
	return c, ok
}

// AsBytes reports whether v is a byte string and returns it.
func AsBytes(v Value) (Bytes, bool) {
	b, ok := v.(Bytes)
	return b, ok
}

// AsString reports whether v is a String and returns it.
func AsString(v Value) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsTuple reports whether v is a Tuple and returns it.
func AsTuple(v Value) (Tuple, bool) {
	t, ok := v.(Tuple)
	return t, ok
}

// AsList reports whether v is a List and returns it.
func AsList(v Value) (*List, bool) {
	l, ok := v.(*List)
	return l, ok
}

// AsDict reports whether v is a Dict and returns it.
func AsDict(v Value) (*Dict, bool) {
	d, ok := v.(*Dict)
	return d, ok
}

// AsSet reports whether v is a Set and returns it.
func AsSet(v Value) (*Set, bool) {
	s, ok := v.(*Set)
	return s, ok
}

// AsFrozenSet reports whether v is a FrozenSet and returns it.
func AsFrozenSet(v Value) (*FrozenSet, bool) {
	f, ok := v.(*FrozenSet)
	return f, ok
}

// AsCode reports whether v is a Code record and returns it.
func AsCode(v Value) (*Code, bool) {
	c, ok := v.(*Code)
	return c, ok
}

// The strict asXxx helpers below back decoder.go's reads of a code
// object's fields, where the wire format promises a specific variant and a
// mismatch is a real decoding error (ValueTypeError), not a caller query.

func asBytes(v Value) (Bytes, error) {
	if b, ok := v.(Bytes); ok {
		return b, nil
	}
	return nil, &ValueTypeError{Offender: v, Want: "bytes"}
}

func asString(v Value) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", &ValueTypeError{Offender: v, Want: "string"}
}

func asTuple(v Value) (Tuple, error) {
	if t, ok := v.(Tuple); ok {
		return t, nil
	}
	return nil, &ValueTypeError{Offender: v, Want: "tuple"}
}
