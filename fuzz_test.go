package marshal

import "testing"

// FuzzDecode replaces the teacher's old `+build gofuzz` harness (which
// round-tripped encode→decode) with a native go test fuzzer. There is no
// encoder in this package, so the only property worth fuzzing is that
// Decode never panics and never hangs on arbitrary input — it must always
// either return a value or a well-formed error.
func FuzzDecode(f *testing.F) {
	seeds := [][]byte{
		[]byte("N"),
		[]byte("I\xfe\xdc\xba\x98\x76\x54\x32\x10"),
		[]byte("\xda\x03abc"),
		[]byte("u\r\x00\x00\x00Andr\xc3\xa8 Previn"),
		[]byte("l\x02\x00\x00\x00\x00\x00\x00\x00"),
		[]byte("\xdb\x02\x00\x00\x00\xda\x01ar\x01\x00\x00\x00"),
		[]byte("{\xa9\x02\xda\x01a\xda\x01b\xda\x01c0"),
		[]byte("0"),
		[]byte("f"),
		[]byte("?"),
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, in []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Decode panicked on %x: %v", in, r)
			}
		}()
		DecodeBytes(in)
	})
}
