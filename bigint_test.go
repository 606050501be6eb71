package marshal

import (
	"math/big"
	"testing"
)

func TestLongFromDigitsZero(t *testing.T) {
	n, err := longFromDigits(nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if n.Sign() != 0 {
		t.Fatalf("got %v, want 0", n)
	}
}

func TestLongFromDigits(t *testing.T) {
	tests := []struct {
		name   string
		digits []uint16
		neg    bool
		want   string
	}{
		{"single small digit", []uint16{42}, false, "42"},
		{"single small digit negative", []uint16{42}, true, "-42"},
		{"two digits", []uint16{0x1234, 0x2}, false, "70196"},
		{"three digits spanning 32-bit limb", []uint16{0x7fff, 0x7fff, 0x3}, false, "4294967295"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := longFromDigits(tt.digits, tt.neg)
			if err != nil {
				t.Fatal(err)
			}
			want, ok := new(big.Int).SetString(tt.want, 10)
			if !ok {
				t.Fatalf("bad test fixture %q", tt.want)
			}
			if got.Cmp(want) != 0 {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestLongFromDigitsOutOfRange(t *testing.T) {
	_, err := longFromDigits([]uint16{1 << 15}, false)
	if _, ok := err.(*DigitOutOfRangeError); !ok {
		t.Fatalf("got %v, want *DigitOutOfRangeError", err)
	}
}

func TestLongFromDigitsUnnormalized(t *testing.T) {
	_, err := longFromDigits([]uint16{1, 0}, false)
	if err != ErrUnnormalizedLong {
		t.Fatalf("got %v, want ErrUnnormalizedLong", err)
	}
}
