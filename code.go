package marshal

import "fmt"

// Code is a compiled Python code object, the payload of the Code tag.
// Field names and types follow spec.md §3 directly; posonlyargcount is
// only present in a stream when the decoder's Options.HasPosOnlyArgCount
// is true (see marshal.go).
type Code struct {
	ArgCount         uint32
	PosOnlyArgCount  uint32
	KwOnlyArgCount   uint32
	NLocals          uint32
	StackSize        uint32
	Flags            CodeFlags
	Code             Bytes
	Consts           Tuple
	Names            []string
	VarNames         []string
	FreeVars         []string
	CellVars         []string
	Filename         string
	Name             string
	FirstLineNo      uint32
	LNotab           Bytes
}

// String renders a one-line debug summary: "<code name at filename:line>".
// This mirrors the original implementation's python_code_repr, not
// CPython's own repr formatting, which callers are expected to build
// themselves from the exposed fields if they need an exact match.
func (c *Code) String() string {
	return fmt.Sprintf("<code %s at %s:%d>", c.Name, c.Filename, c.FirstLineNo)
}
