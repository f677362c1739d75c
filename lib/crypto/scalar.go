package crypto

import "filippo.io/edwards25519"

// 256 bit little-endian scalar helpers used by child key derivation
// Values are kept as byte arrays: the derived kL is not reduced mod ℓ between levels

// add28Mul8() returns x + 8*y[0:28], dropping any carry out of the top byte
func add28Mul8(x, y []byte) (out [32]byte) {
	var carry uint16
	for i := 0; i < 28; i++ {
		r := uint16(x[i]) + uint16(y[i])<<3 + carry
		out[i] = byte(r)
		carry = r >> 8
	}
	for i := 28; i < 32; i++ {
		r := uint16(x[i]) + carry
		out[i] = byte(r)
		carry = r >> 8
	}
	return
}

// add256() returns x + y mod 2^256
func add256(x, y []byte) (out [32]byte) {
	var carry uint16
	for i := 0; i < 32; i++ {
		r := uint16(x[i]) + uint16(y[i]) + carry
		out[i] = byte(r)
		carry = r >> 8
	}
	return
}

// clampScalar() applies the ed25519-bip32 master key bit rules to kL in place:
// the 3 lowest bits are cleared (cofactor), the 3 highest are set to 010
func clampScalar(kL []byte) {
	kL[0] &= 0b1111_1000
	kL[31] &= 0b0001_1111
	kL[31] |= 0b0100_0000
}

// reduceScalar() interprets up to 64 little endian bytes as an integer mod ℓ
func reduceScalar(b []byte) *edwards25519.Scalar {
	var wide [64]byte
	copy(wide[:], b)
	s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		// unreachable: the input is always 64 bytes
		panic(err)
	}
	return s
}

// scalarMultBase() returns the encoding of (b mod ℓ)·B
func scalarMultBase(b []byte) [32]byte {
	var out [32]byte
	copy(out[:], new(edwards25519.Point).ScalarBaseMult(reduceScalar(b)).Bytes())
	return out
}
