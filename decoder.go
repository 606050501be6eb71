package marshal

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
)

// maxDepth bounds the nesting depth readValue will recurse to before
// giving up with ErrRecursionLimitExceeded. A fixed ceiling, not a
// configurable policy knob: it exists only to turn a crafted or corrupt
// stream's unbounded recursion into an error instead of a stack overflow.
const maxDepth = 900

// Decoder reads a sequence of marshal records from an underlying byte
// stream, resolving back-references against a table of previously-decoded
// values. Its shape mirrors the teacher's pickle Decoder (a reader plus a
// running table of remembered values), narrowed to marshal's tag-dispatch
// format and its recursive-descent (rather than stack-machine) structure.
type Decoder struct {
	src   *byteSource
	opt   Options
	refs  []Value
	depth int
}

// NewDecoder returns a Decoder reading from r with default options.
func NewDecoder(r io.Reader) *Decoder {
	return NewDecoderWithOptions(r, DefaultOptions)
}

// NewDecoderWithOptions returns a Decoder reading from r with opt.
func NewDecoderWithOptions(r io.Reader, opt Options) *Decoder {
	return &Decoder{src: newByteSource(r), opt: opt}
}

// Decode reads and returns exactly one marshal object from the stream,
// the way Python's marshal.load reads exactly one top-level object. Per
// spec.md §3, the reference table lives only for the duration of one
// Decode call: a Ref that would have resolved in a prior call is invalid
// in the next one, so the table is cleared before reading begins.
func (d *Decoder) Decode() (Value, error) {
	d.refs = nil
	return d.readObject()
}

func (d *Decoder) readObject() (Value, error) {
	b, err := d.src.readByte()
	if err != nil {
		return nil, err
	}
	return d.readValue(b)
}

// readValue dispatches on an already-read tag byte b. It is split out from
// readObject so tagDict's loop can read a byte, recognize the terminator,
// and hand the byte to readValue only when it turns out not to be one.
func (d *Decoder) readValue(b byte) (Value, error) {
	pos := d.src.pos - 1
	flag := b&flagRef != 0
	tag := b &^ flagRef

	d.depth++
	if d.depth > maxDepth {
		d.depth--
		return nil, ErrRecursionLimitExceeded
	}
	defer func() { d.depth-- }()

	switch tag {
	case tagNull:
		return nil, ErrUnexpectedNull

	// Singletons never participate in the reference table, even when
	// their flag bit is set: the flag is a historical no-op for them (see
	// spec.md §4.4). Routing these through leaf would shift every later
	// reference index by one whenever a flagged singleton appears.
	case tagNone:
		return None{}, nil
	case tagStopIter:
		return StopIteration{}, nil
	case tagEllipsis:
		return Ellipsis{}, nil
	case tagFalse:
		return false, nil
	case tagTrue:
		return true, nil

	case tagInt:
		return d.readInt(flag)
	case tagInt64:
		return d.readInt64(flag)
	case tagLong:
		return d.readLong(flag)

	case tagFloat:
		return d.readTextFloat(flag)
	case tagBinaryFloat:
		return d.readBinaryFloat(flag)
	case tagComplex:
		return d.readTextComplex(flag)
	case tagBinaryComplex:
		return d.readBinaryComplex(flag)

	case tagString:
		return d.readByteString(flag)
	case tagAscii, tagAsciiInterned:
		return d.readLongString(flag)
	case tagShortAscii, tagShortAsciiInterned:
		return d.readShortString(flag)
	case tagUnicode, tagInterned:
		return d.readLongString(flag)

	case tagSmallTuple:
		return d.readSmallTuple(flag)
	case tagTuple:
		return d.readTuple(flag)
	case tagList:
		return d.readList(flag)
	case tagDict:
		return d.readDict(flag)
	case tagSet:
		return d.readSet(flag)
	case tagFrozenSet:
		return d.readFrozenSet(flag)
	case tagCode:
		return d.readCode(flag)

	case tagRef:
		return d.readRef()

	default:
		return nil, &InvalidTypeError{Tag: b, Pos: pos}
	}
}

// leaf appends v to the reference table when flag is set, matching
// spec.md's rule that scalar ("leaf") tags publish themselves only after
// they're fully decoded — they never need a placeholder, since nothing can
// reference a leaf before its single read completes.
func (d *Decoder) leaf(flag bool, v Value) Value {
	if flag {
		d.refs = append(d.refs, v)
	}
	return v
}

// reserve appends a None placeholder when flag is set and returns its
// index (or -1 if flag is false), for composites that must publish a slot
// before reading their children so the slot order follows the order the
// tags were encountered. Singletons never enter the table, so a None in a
// slot always marks a placeholder that is not yet filled; readRef rejects
// a reference to one with ErrInvalidRef, as CPython's own marshal.c does.
func (d *Decoder) reserve(flag bool) int {
	if !flag {
		return -1
	}
	idx := len(d.refs)
	d.refs = append(d.refs, None{})
	return idx
}

func (d *Decoder) fill(idx int, v Value) {
	if idx >= 0 {
		d.refs[idx] = v
	}
}

func (d *Decoder) readRef() (Value, error) {
	u, err := d.src.readUint32()
	if err != nil {
		return nil, err
	}
	i := int(int32(u))
	if i < 0 || i >= len(d.refs) {
		return nil, ErrInvalidRef
	}
	if _, ok := d.refs[i].(None); ok {
		return nil, ErrInvalidRef
	}
	return d.refs[i], nil
}

// --- numeric ---

func (d *Decoder) readInt(flag bool) (Value, error) {
	u, err := d.src.readUint32()
	if err != nil {
		return nil, err
	}
	return d.leaf(flag, big.NewInt(int64(int32(u)))), nil
}

func (d *Decoder) readInt64(flag bool) (Value, error) {
	u, err := d.src.readUint64()
	if err != nil {
		return nil, err
	}
	return d.leaf(flag, big.NewInt(int64(u))), nil
}

func (d *Decoder) readLong(flag bool) (Value, error) {
	u, err := d.src.readUint32()
	if err != nil {
		return nil, err
	}
	count := int32(u)
	neg := count < 0
	// count's magnitude as an unsigned value. Negating count in its own
	// signed type overflows (wraps, no panic) when count is
	// math.MinInt32, leaving it negative — reinterpreting the wrapped bits
	// as uint32 recovers the correct magnitude (0x80000000), the same
	// trick as the original decoder's wrapping_abs() as u32.
	mag := count
	if neg {
		mag = -mag
	}
	digitCount := uint32(mag)

	digits := make([]uint16, 0, prealloc(digitCount))
	for i := uint32(0); i < digitCount; i++ {
		dv, err := d.src.readUint16()
		if err != nil {
			return nil, err
		}
		digits = append(digits, dv)
	}
	n, err := longFromDigits(digits, neg)
	if err != nil {
		return nil, err
	}
	return d.leaf(flag, n), nil
}

// maxPrealloc bounds how large a slice readLong/readTuple/readList/
// readFrozenSet will allocate up front from an attacker-controlled element
// count before any element has actually been read. Further growth happens
// incrementally via append, so a forged huge count with little actual
// input behind it fails with an I/O error instead of allocating memory
// proportional to the forged count.
const maxPrealloc = 1 << 16

func prealloc(n uint32) int {
	if n > maxPrealloc {
		return maxPrealloc
	}
	return int(n)
}

func (d *Decoder) readTextFloat(flag bool) (Value, error) {
	n, err := d.src.readByte()
	if err != nil {
		return nil, err
	}
	buf, err := d.src.readBytes(int32(n))
	if err != nil {
		return nil, err
	}
	f, err := strconv.ParseFloat(string(buf), 64)
	if err != nil {
		return nil, err
	}
	return d.leaf(flag, f), nil
}

func (d *Decoder) readBinaryFloat(flag bool) (Value, error) {
	f, err := d.src.readFloat64()
	if err != nil {
		return nil, err
	}
	return d.leaf(flag, f), nil
}

func (d *Decoder) readTextComplex(flag bool) (Value, error) {
	re, err := d.readTextFloatValue()
	if err != nil {
		return nil, err
	}
	im, err := d.readTextFloatValue()
	if err != nil {
		return nil, err
	}
	return d.leaf(flag, complex(re, im)), nil
}

func (d *Decoder) readTextFloatValue() (float64, error) {
	n, err := d.src.readByte()
	if err != nil {
		return 0, err
	}
	buf, err := d.src.readBytes(int32(n))
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(string(buf), 64)
}

func (d *Decoder) readBinaryComplex(flag bool) (Value, error) {
	re, err := d.src.readFloat64()
	if err != nil {
		return nil, err
	}
	im, err := d.src.readFloat64()
	if err != nil {
		return nil, err
	}
	return d.leaf(flag, complex(re, im)), nil
}

// --- strings ---

func (d *Decoder) readByteString(flag bool) (Value, error) {
	n, err := d.src.readUint32()
	if err != nil {
		return nil, err
	}
	buf, err := d.src.readBytes(int32(n))
	if err != nil {
		return nil, err
	}
	return d.leaf(flag, Bytes(buf)), nil
}

func (d *Decoder) readLongString(flag bool) (Value, error) {
	n, err := d.src.readUint32()
	if err != nil {
		return nil, err
	}
	s, err := d.src.readUTF8(int32(n))
	if err != nil {
		return nil, err
	}
	return d.leaf(flag, s), nil
}

func (d *Decoder) readShortString(flag bool) (Value, error) {
	n, err := d.src.readByte()
	if err != nil {
		return nil, err
	}
	s, err := d.src.readUTF8(int32(n))
	if err != nil {
		return nil, err
	}
	return d.leaf(flag, s), nil
}

// --- containers ---

func (d *Decoder) readSmallTuple(flag bool) (Value, error) {
	n, err := d.src.readByte()
	if err != nil {
		return nil, err
	}
	idx := d.reserve(flag)
	items := make(Tuple, n)
	for i := range items {
		items[i], err = d.readObject()
		if err != nil {
			return nil, err
		}
	}
	d.fill(idx, items)
	return items, nil
}

func (d *Decoder) readTuple(flag bool) (Value, error) {
	n, err := d.src.readUint32()
	if err != nil {
		return nil, err
	}
	idx := d.reserve(flag)
	items := make(Tuple, 0, prealloc(n))
	for i := uint32(0); i < n; i++ {
		v, err := d.readObject()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	d.fill(idx, items)
	return items, nil
}

func (d *Decoder) readList(flag bool) (Value, error) {
	n, err := d.src.readUint32()
	if err != nil {
		return nil, err
	}
	idx := d.reserve(flag)
	items := make([]Value, 0, prealloc(n))
	for i := uint32(0); i < n; i++ {
		v, err := d.readObject()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	list := NewList(items)
	d.fill(idx, list)
	return list, nil
}

func (d *Decoder) readDict(flag bool) (Value, error) {
	idx := d.reserve(flag)
	dict := NewDict()
	for {
		b, err := d.src.readByte()
		if err != nil {
			return nil, err
		}
		if b&^flagRef == tagNull {
			break
		}
		key, err := d.readValue(b)
		if err != nil {
			return nil, err
		}
		hkey, err := ToHashable(key)
		if err != nil {
			return nil, err
		}
		vb, err := d.src.readByte()
		if err != nil {
			return nil, err
		}
		if vb&^flagRef == tagNull {
			// Null in value position also terminates the dict, matching
			// the original decoder's loop exactly.
			break
		}
		val, err := d.readValue(vb)
		if err != nil {
			return nil, err
		}
		dict.Set(hkey, val)
	}
	d.fill(idx, dict)
	return dict, nil
}

// readSet publishes the (empty) set into the reference table before
// reading its elements, unlike every other composite: this is how a set
// containing a reference to itself resolves, per spec.md's reference
// ordering contract.
func (d *Decoder) readSet(flag bool) (Value, error) {
	n, err := d.src.readUint32()
	if err != nil {
		return nil, err
	}
	s := NewEmptySet()
	if flag {
		d.refs = append(d.refs, s)
	}
	for i := uint32(0); i < n; i++ {
		elem, err := d.readObject()
		if err != nil {
			return nil, err
		}
		h, err := ToHashable(elem)
		if err != nil {
			return nil, err
		}
		s.Add(h)
	}
	return s, nil
}

func (d *Decoder) readFrozenSet(flag bool) (Value, error) {
	n, err := d.src.readUint32()
	if err != nil {
		return nil, err
	}
	idx := d.reserve(flag)
	elems := make([]HashableValue, 0, prealloc(n))
	for i := uint32(0); i < n; i++ {
		elem, err := d.readObject()
		if err != nil {
			return nil, err
		}
		h, err := ToHashable(elem)
		if err != nil {
			return nil, err
		}
		elems = append(elems, h)
	}
	fs := NewFrozenSet(elems)
	d.fill(idx, fs)
	return fs, nil
}

func (d *Decoder) readCode(flag bool) (Value, error) {
	idx := d.reserve(flag)

	argCount, err := d.src.readUint32()
	if err != nil {
		return nil, err
	}

	var posOnlyArgCount uint32
	if d.opt.HasPosOnlyArgCount {
		posOnlyArgCount, err = d.src.readUint32()
		if err != nil {
			return nil, err
		}
	}

	kwOnlyArgCount, err := d.src.readUint32()
	if err != nil {
		return nil, err
	}
	nLocals, err := d.src.readUint32()
	if err != nil {
		return nil, err
	}
	stackSize, err := d.src.readUint32()
	if err != nil {
		return nil, err
	}
	rawFlags, err := d.src.readUint32()
	if err != nil {
		return nil, err
	}

	codeObj, err := d.readObject()
	if err != nil {
		return nil, err
	}
	codeBytes, err := asBytes(codeObj)
	if err != nil {
		return nil, err
	}

	consts, err := d.readObject()
	if err != nil {
		return nil, err
	}
	constsTuple, err := asTuple(consts)
	if err != nil {
		return nil, err
	}

	names, err := d.readStringTuple()
	if err != nil {
		return nil, err
	}
	varNames, err := d.readStringTuple()
	if err != nil {
		return nil, err
	}
	freeVars, err := d.readStringTuple()
	if err != nil {
		return nil, err
	}
	cellVars, err := d.readStringTuple()
	if err != nil {
		return nil, err
	}

	filenameObj, err := d.readObject()
	if err != nil {
		return nil, err
	}
	filename, err := asString(filenameObj)
	if err != nil {
		return nil, err
	}

	nameObj, err := d.readObject()
	if err != nil {
		return nil, err
	}
	name, err := asString(nameObj)
	if err != nil {
		return nil, err
	}

	firstLineNo, err := d.src.readUint32()
	if err != nil {
		return nil, err
	}

	lnotabObj, err := d.readObject()
	if err != nil {
		return nil, err
	}
	lnotab, err := asBytes(lnotabObj)
	if err != nil {
		return nil, err
	}

	code := &Code{
		ArgCount:        argCount,
		PosOnlyArgCount: posOnlyArgCount,
		KwOnlyArgCount:  kwOnlyArgCount,
		NLocals:         nLocals,
		StackSize:       stackSize,
		Flags:           maskKnown(rawFlags),
		Code:            codeBytes,
		Consts:          constsTuple,
		Names:           names,
		VarNames:        varNames,
		FreeVars:        freeVars,
		CellVars:        cellVars,
		Filename:        filename,
		Name:            name,
		FirstLineNo:     firstLineNo,
		LNotab:          lnotab,
	}
	d.fill(idx, code)
	return code, nil
}

// readStringTuple reads one object, expected to be a Tuple of strings (the
// wire shape CPython uses for a code object's names/varnames/freevars/
// cellvars fields), and returns its contents as a []string.
func (d *Decoder) readStringTuple() ([]string, error) {
	obj, err := d.readObject()
	if err != nil {
		return nil, err
	}
	tup, err := asTuple(obj)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(tup))
	for i, v := range tup {
		s, err := asString(v)
		if err != nil {
			return nil, fmt.Errorf("marshal: code field entry %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}
