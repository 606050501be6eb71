// Package marshal decodes the binary object-serialization format used
// internally by CPython — the format written by the compiler into .pyc
// files and produced by the standard library's marshal module.
//
// Use Decoder to decode a stream of marshalled bytes, for example:
//
//	d := marshal.NewDecoder(r)
//	obj, err := d.Decode() // obj is marshal.Value: the decoded object graph
//
// Or, for an in-memory buffer:
//
//	obj, err := marshal.DecodeBytes(data)
//
// The following table summarizes how CPython's marshalled types map onto
// Go:
//
//	Python          Go
//	------          --
//
//	None          ↔  marshal.None
//	StopIteration ↔  marshal.StopIteration
//	Ellipsis      ↔  marshal.Ellipsis
//	bool          ↔  bool
//	int / long    ↔  *big.Int
//	float         ↔  float64
//	complex       ↔  complex128
//	bytes         ↔  marshal.Bytes
//	str           ↔  string
//	tuple         ↔  marshal.Tuple
//	list          ↔  *marshal.List
//	dict          ↔  *marshal.Dict
//	set           ↔  *marshal.Set
//	frozenset     ↔  *marshal.FrozenSet
//	code object   ↔  *marshal.Code
//
// Decoding is read-only: this package never writes the marshal format, and
// it never executes the bytecode held by a decoded code object. A
// malformed or adversarial stream cannot make the decoder run arbitrary
// code, allocate unboundedly more memory than the input implies, or
// recurse without limit — see the error kinds in errors.go.
//
// # Code objects and references
//
// Code objects nest: a module's code object holds, among its consts, the
// code objects for every function and class body defined in it. Because
// the same string or code object is frequently repeated (module names,
// __name__, common constants), the stream carries back-references: a tag
// may ask to be remembered in a reference table, and a later tag may point
// back at it instead of repeating the payload. Decoder resolves these
// transparently; see decoder.go for the ordering contract.
//
// This package deliberately stops at decoding the object graph embedded in
// a marshal stream. Stripping the four-word .pyc header (magic number,
// flags, timestamp, source size) before feeding the remainder to Decoder,
// and pretty-printing the resulting Value tree in a syntax that matches
// CPython's repr() byte-for-byte, are both jobs for a caller-side tool and
// are not implemented here.
package marshal
