package tx

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/crypto"
)

// Hash identifies a transaction: blake2b-256 of the serialized body
type Hash [crypto.HashSize]byte

// TxHash() hashes the serialized transaction body
func TxHash(body []byte) (h Hash) {
	copy(h[:], crypto.Hash(body))
	return
}

// NewHash() copies a 32 byte transaction hash
func NewHash(bz []byte) (h Hash, err lib.ErrorI) {
	if len(bz) != crypto.HashSize {
		return h, lib.ErrInvalidTxHash(len(bz))
	}
	copy(h[:], bz)
	return
}

// NewHashFromString() decodes a hex transaction hash
func NewHashFromString(s string) (Hash, lib.ErrorI) {
	bz, err := lib.StringToBytes(s)
	if err != nil {
		return Hash{}, err
	}
	return NewHash(bz)
}

func (h Hash) Bytes() []byte  { return bytes.Clone(h[:]) }
func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// MarshalCBOR() encodes the hash as a byte string rather than an array of ints
func (h Hash) MarshalCBOR() ([]byte, error) {
	bz, err := lib.Marshal(h[:])
	if err != nil {
		return nil, err
	}
	return bz, nil
}

// UnmarshalCBOR() implements cbor.Unmarshaler for Hash
func (h *Hash) UnmarshalCBOR(b []byte) error {
	var bz []byte
	if err := lib.Unmarshal(b, &bz); err != nil {
		return err
	}
	got, err := NewHash(bz)
	if err != nil {
		return err
	}
	*h = got
	return nil
}

// MarshalJSON() implements the json.Marshaller interface for Hash
func (h Hash) MarshalJSON() ([]byte, error) { return json.Marshal(h.String()) }

// UnmarshalJSON() implements the json.Unmarshaler interface for Hash
func (h *Hash) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	got, err := NewHashFromString(s)
	if err != nil {
		return err
	}
	*h = got
	return nil
}
