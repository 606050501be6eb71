package marshal

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"
)

// byteSource wraps an io.Reader with the little-endian fixed-width and
// length-prefixed primitives the unmarshal engine needs. It tracks the
// number of bytes consumed so error messages can report a position, the
// way the teacher's OpcodeError carries Pos. These primitives never
// interpret tags — that is decoder.go's job.
type byteSource struct {
	r   io.Reader
	pos int64
}

func newByteSource(r io.Reader) *byteSource {
	return &byteSource{r: r}
}

func (s *byteSource) readN(buf []byte) error {
	n, err := io.ReadFull(s.r, buf)
	s.pos += int64(n)
	// io.ReadFull already reports a clean io.EOF when nothing was read and
	// io.ErrUnexpectedEOF on a short read; any other error (a timeout, a
	// cancelled context, ...) is the underlying reader's own and must
	// reach the caller unchanged, not be papered over.
	return err
}

func (s *byteSource) readByte() (byte, error) {
	var b [1]byte
	if err := s.readN(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *byteSource) readUint16() (uint16, error) {
	var b [2]byte
	if err := s.readN(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func (s *byteSource) readUint32() (uint32, error) {
	var b [4]byte
	if err := s.readN(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func (s *byteSource) readUint64() (uint64, error) {
	var b [8]byte
	if err := s.readN(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func (s *byteSource) readFloat64() (float64, error) {
	bits, err := s.readUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// readChunk bounds a single allocation a length-prefixed read will make
// before any of the corresponding bytes are known to exist in the stream.
// readBytes grows its buffer in increments of readChunk rather than
// allocating n bytes up front, so a forged length far larger than the
// remaining input fails with an I/O error after the underlying reader is
// actually exhausted, instead of allocating gigabytes for a few bytes of
// stream.
const readChunk = 1 << 16

// readBytes reads n raw bytes. A negative n (the marshal format stores
// lengths as signed 32-bit integers) is rejected before an allocation is
// attempted.
func (s *byteSource) readBytes(n int32) ([]byte, error) {
	if n < 0 {
		return nil, io.ErrUnexpectedEOF
	}
	remaining := int(n)
	buf := make([]byte, 0, min(remaining, readChunk))
	for remaining > 0 {
		step := remaining
		if step > readChunk {
			step = readChunk
		}
		start := len(buf)
		buf = append(buf, make([]byte, step)...)
		if err := s.readN(buf[start:]); err != nil {
			return nil, err
		}
		remaining -= step
	}
	return buf, nil
}

// readUTF8 reads n bytes and validates them as UTF-8, per spec.md §4.1:
// "UTF-8 validation failure is reported as an Encoding error."
func (s *byteSource) readUTF8(n int32) (string, error) {
	start := s.pos
	buf, err := s.readBytes(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", &EncodingError{Err: errUTF8Invalid, Pos: start}
	}
	return string(buf), nil
}
