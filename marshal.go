package marshal

import (
	"bytes"
	"io"
)

// Options configures a Decoder for a specific CPython version's wire
// format.
type Options struct {
	// HasPosOnlyArgCount selects whether a Code record carries a
	// posonlyargcount field (CPython >= 3.8). Defaults to true; pass
	// false to read streams produced by CPython 3.0-3.7.
	HasPosOnlyArgCount bool
}

// DefaultOptions targets current CPython (3.8+).
var DefaultOptions = Options{HasPosOnlyArgCount: true}

// Decode reads and returns exactly one marshal object from r, using
// DefaultOptions.
func Decode(r io.Reader) (Value, error) {
	return NewDecoder(r).Decode()
}

// DecodeWithOptions reads and returns exactly one marshal object from r,
// using opt.
func DecodeWithOptions(r io.Reader, opt Options) (Value, error) {
	return NewDecoderWithOptions(r, opt).Decode()
}

// DecodeBytes reads and returns exactly one marshal object from b, using
// DefaultOptions.
func DecodeBytes(b []byte) (Value, error) {
	return Decode(bytes.NewReader(b))
}
