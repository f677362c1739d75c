package crypto

import (
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/canopy-network/cardano/lib"
)

// Bech32Encode() encodes raw bytes under a human readable prefix
// Addresses and extended keys exceed the 90 character limit of BIP-173, so no length limit is applied
func Bech32Encode(hrp string, data []byte) (string, lib.ErrorI) {
	conv, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", lib.ErrBech32(err)
	}
	s, err := bech32.Encode(hrp, conv)
	if err != nil {
		return "", lib.ErrBech32(err)
	}
	return s, nil
}

// Bech32Decode() returns the prefix and the raw bytes of a bech32 string
func Bech32Decode(s string) (hrp string, data []byte, e lib.ErrorI) {
	hrp, conv, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return "", nil, lib.ErrBech32(err)
	}
	if data, err = bech32.ConvertBits(conv, 5, 8, false); err != nil {
		return "", nil, lib.ErrBech32(err)
	}
	return
}

// Bech32DecodeWithPrefix() decodes and enforces the expected prefix
func Bech32DecodeWithPrefix(expected, s string) ([]byte, lib.ErrorI) {
	hrp, data, err := Bech32Decode(s)
	if err != nil {
		return nil, err
	}
	if hrp != expected {
		return nil, lib.ErrWrongBech32Prefix(expected, hrp)
	}
	return data, nil
}

// mustBech32() is used for keys whose encoding can't fail
func mustBech32(hrp string, data []byte) string {
	s, err := Bech32Encode(hrp, data)
	if err != nil {
		panic(err)
	}
	return s
}
