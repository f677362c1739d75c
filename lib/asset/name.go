package asset

import (
	"bytes"
	"encoding/hex"
	"unicode"
	"unicode/utf8"

	"github.com/canopy-network/cardano/lib"
)

const (
	PolicyIDSize     = 28
	MaxAssetNameSize = 32
)

// PolicyID is the script hash of the minting policy
type PolicyID [PolicyIDSize]byte

// NewPolicyID() copies a 28 byte hash
func NewPolicyID(bz []byte) (p PolicyID, err lib.ErrorI) {
	if len(bz) != PolicyIDSize {
		return p, lib.ErrInvalidPolicyID(len(bz))
	}
	copy(p[:], bz)
	return
}

// NewPolicyIDFromString() decodes a hex policy id
func NewPolicyIDFromString(s string) (PolicyID, lib.ErrorI) {
	bz, err := lib.StringToBytes(s)
	if err != nil {
		return PolicyID{}, err
	}
	return NewPolicyID(bz)
}

func (p PolicyID) Bytes() []byte  { return bytes.Clone(p[:]) }
func (p PolicyID) String() string { return hex.EncodeToString(p[:]) }

// Compare() orders policy ids byte-lexicographically
func (p PolicyID) Compare(o PolicyID) int { return bytes.Compare(p[:], o[:]) }

// MarshalText() lets policy ids key json objects
func (p PolicyID) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText() implements encoding.TextUnmarshaler for PolicyID
func (p *PolicyID) UnmarshalText(text []byte) error {
	id, err := NewPolicyIDFromString(string(text))
	if err != nil {
		return err
	}
	*p = id
	return nil
}

// AssetName is up to 32 raw bytes; the zero value is the empty name
type AssetName struct{ name string }

// NewAssetName() enforces the length limit
func NewAssetName(bz []byte) (AssetName, lib.ErrorI) {
	if len(bz) > MaxAssetNameSize {
		return AssetName{}, lib.ErrInvalidAssetName(len(bz))
	}
	return AssetName{name: string(bz)}, nil
}

// NewAssetNameFromString() uses the utf-8 bytes of s as the name
func NewAssetNameFromString(s string) (AssetName, lib.ErrorI) { return NewAssetName([]byte(s)) }

// NewAssetNameFromHex() decodes a hex encoded name
func NewAssetNameFromHex(s string) (AssetName, lib.ErrorI) {
	bz, err := lib.StringToBytes(s)
	if err != nil {
		return AssetName{}, err
	}
	return NewAssetName(bz)
}

func (a AssetName) Bytes() []byte { return []byte(a.name) }
func (a AssetName) Len() int      { return len(a.name) }

// String() is the hex form
func (a AssetName) String() string { return hex.EncodeToString([]byte(a.name)) }

// Display() returns the name as text when it is printable utf-8, hex otherwise
func (a AssetName) Display() string {
	if !utf8.ValidString(a.name) {
		return a.String()
	}
	for _, r := range a.name {
		if !unicode.IsPrint(r) {
			return a.String()
		}
	}
	return a.name
}

// Compare() orders names byte-lexicographically, a prefix sorts first
func (a AssetName) Compare(o AssetName) int {
	switch {
	case a.name < o.name:
		return -1
	case a.name > o.name:
		return 1
	default:
		return 0
	}
}

// MarshalText() lets asset names key json objects
func (a AssetName) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText() implements encoding.TextUnmarshaler for AssetName
func (a *AssetName) UnmarshalText(text []byte) error {
	name, err := NewAssetNameFromHex(string(text))
	if err != nil {
		return err
	}
	*a = name
	return nil
}
