package address

import (
	"fmt"

	"github.com/canopy-network/cardano/lib"
)

// a uint64 needs at most 10 groups of 7 bits
const maxVarintSize = 10

// Pointer locates a stake registration certificate on chain
type Pointer struct {
	Slot      uint64 `json:"slot"`
	TxIndex   uint64 `json:"txIndex"`
	CertIndex uint64 `json:"certIndex"`
}

func (p Pointer) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.Slot, p.TxIndex, p.CertIndex)
}

// Bytes() encodes the three fields back to back as varints
func (p Pointer) Bytes() []byte {
	out := make([]byte, 0, 3*maxVarintSize)
	out = appendVarint(out, p.Slot)
	out = appendVarint(out, p.TxIndex)
	return appendVarint(out, p.CertIndex)
}

// DecodePointer() reads exactly three varints; trailing bytes are an error
func DecodePointer(bz []byte) (p Pointer, err lib.ErrorI) {
	var n, read int
	for _, field := range []*uint64{&p.Slot, &p.TxIndex, &p.CertIndex} {
		if *field, n, err = readVarint(bz[read:]); err != nil {
			return Pointer{}, err
		}
		read += n
	}
	if read != len(bz) {
		return Pointer{}, lib.ErrMalformedPointer(fmt.Sprintf("%d trailing bytes", len(bz)-read))
	}
	return
}

// appendVarint() writes v in base 128, most significant group first,
// with the continuation bit set on every byte except the last
func appendVarint(out []byte, v uint64) []byte {
	var groups [maxVarintSize]byte
	i := len(groups) - 1
	groups[i] = byte(v & 0x7F)
	for v >>= 7; v != 0; v >>= 7 {
		i--
		groups[i] = byte(v&0x7F) | 0x80
	}
	return append(out, groups[i:]...)
}

// readVarint() is the inverse of appendVarint, returning the value and the bytes consumed
func readVarint(bz []byte) (v uint64, n int, err lib.ErrorI) {
	for n < len(bz) {
		b := bz[n]
		// a leading zero group has a shorter encoding
		if n == 0 && b == 0x80 {
			return 0, 0, lib.ErrMalformedPointer("non minimal varint")
		}
		n++
		if v > (1<<64-1)>>7 {
			return 0, 0, lib.ErrMalformedPointer("value exceeds 64 bits")
		}
		v = v<<7 | uint64(b&0x7F)
		if b&0x80 == 0 {
			return v, n, nil
		}
	}
	return 0, 0, lib.ErrMalformedPointer("truncated varint")
}
