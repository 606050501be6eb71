package marshal

import (
	"errors"
	"fmt"
)

// Sentinel errors. Mirrors the teacher's errNotImplemented/errNoMarker/
// errStackUnderflow style: plain values for conditions that carry no
// extra data.
var (
	ErrRecursionLimitExceeded = errors.New("marshal: recursion limit exceeded")
	ErrUnnormalizedLong       = errors.New("marshal: unnormalized long")
	ErrUnexpectedNull         = errors.New("marshal: unexpected null")
	ErrInvalidRef             = errors.New("marshal: invalid reference")

	// errUTF8Invalid is wrapped in an *EncodingError with position context
	// by readUTF8 before it reaches the caller; see reader.go.
	errUTF8Invalid = errors.New("marshal: invalid UTF-8")
)

// InvalidTypeError is returned when a tag byte's 7-bit type code does not
// match any known tag, or matches the reserved-but-rejected "Unknown" tag.
type InvalidTypeError struct {
	Tag byte
	Pos int64
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("marshal: invalid type %#02x (%q) at position %d", e.Tag, rune(e.Tag), e.Pos)
}

// EncodingError is returned when a length-prefixed string fails a decoding
// validation (currently only UTF-8 validity). Pos is the byte offset at
// which the string began.
type EncodingError struct {
	Err error
	Pos int64
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("marshal: %v at position %d", e.Err, e.Pos)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// DigitOutOfRangeError is returned when a pylong digit is >= 2^15.
type DigitOutOfRangeError struct {
	Digit uint16
}

func (e *DigitOutOfRangeError) Error() string {
	return fmt.Sprintf("marshal: long digit out of range: %d", e.Digit)
}

// UnhashableError is returned when a Value that is not a member of
// HashableValue is used as a dict key or set element.
type UnhashableError struct {
	Offender Value
}

func (e *UnhashableError) Error() string {
	return fmt.Sprintf("marshal: unhashable type: %T", e.Offender)
}

// ValueTypeError is returned when a code object's field holds a payload of
// the wrong variant (e.g. names is not a tuple of strings).
type ValueTypeError struct {
	Offender Value
	Want     string
}

func (e *ValueTypeError) Error() string {
	return fmt.Sprintf("marshal: expected %s, got %T", e.Want, e.Offender)
}
