package marshal

import "math/big"

// digitBits is the width of a single CPython pylong digit.
const digitBits = 15

// longFromDigits reconstructs a *big.Int from CPython's internal pylong
// digit representation: digits is little-endian (least-significant digit
// first), each digit holding up to digitBits bits, and neg selects the
// sign. An empty digits slice denotes zero.
//
// Ported from _PyLong_AsByteArray's digit-packing loop
// (Objects/longobject.c), by way of original_source/src/utils.rs's
// biguint_from_pylong_digits: it accumulates a shifting 64-bit window,
// packing digitBits bits per digit except for the final digit, which
// contributes only as many bits as its highest set bit needs — a pylong is
// normalized so its top digit is never zero, so "bits needed" is well
// defined. 32-bit limbs are flushed out of the window as it fills.
func longFromDigits(digits []uint16, neg bool) (*big.Int, error) {
	if len(digits) == 0 {
		return big.NewInt(0), nil
	}

	for _, d := range digits {
		if d >= 1<<digitBits {
			return nil, &DigitOutOfRangeError{Digit: d}
		}
	}
	if digits[len(digits)-1] == 0 {
		return nil, ErrUnnormalizedLong
	}

	var limbs []uint32
	var accum uint64
	var accumBits uint

	for i, d := range digits {
		accum |= uint64(d) << accumBits
		if i == len(digits)-1 {
			accumBits += bitsNeeded(d)
		} else {
			accumBits += digitBits
		}

		for accumBits >= 32 {
			limbs = append(limbs, uint32(accum))
			accum >>= 32
			accumBits -= 32
		}
	}
	if accumBits > 0 {
		limbs = append(limbs, uint32(accum))
	}

	mag := limbsToBigInt(limbs)
	if neg {
		mag.Neg(mag)
	}
	return mag, nil
}

// bitsNeeded returns how many bits of d (1..16) are significant, i.e. the
// position of d's highest set bit plus one. d must be non-zero.
func bitsNeeded(d uint16) uint {
	n := uint(0)
	for d != 0 {
		n++
		d >>= 1
	}
	return n
}

// limbsToBigInt assembles little-endian 32-bit limbs into a non-negative
// *big.Int.
func limbsToBigInt(limbs []uint32) *big.Int {
	// math/big wants big-endian bytes; limbs are little-endian 32-bit
	// words, so walk them back to front.
	buf := make([]byte, 4*len(limbs))
	for i, w := range limbs {
		off := 4 * (len(limbs) - 1 - i)
		buf[off+0] = byte(w >> 24)
		buf[off+1] = byte(w >> 16)
		buf[off+2] = byte(w >> 8)
		buf[off+3] = byte(w)
	}
	return new(big.Int).SetBytes(buf)
}
