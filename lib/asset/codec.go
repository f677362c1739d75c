package asset

import (
	"bytes"
	"encoding/json"

	"github.com/Salvionied/cbor/v2"
	"github.com/canopy-network/cardano/lib"
)

/*
	Canonical form: a definite length cbor map of policy id -> (definite length map of asset name -> uint),
	policies and names in ascending raw byte order. Deterministic cbor modes sort keys by their encoded
	bytes, which for byte strings puts shorter names first, so map heads are written here and only the
	keys and quantities go through the encoder.
*/

const cborMajorMap = 5 << 5

// CanonicalBytes() serializes in canonical order regardless of insertion order
func (ma *MultiAsset) CanonicalBytes() ([]byte, lib.ErrorI) {
	policies := ma.Policies()
	out := lib.AppendCBORHead(nil, cborMajorMap, uint64(len(policies)))
	for _, policy := range policies {
		key, err := lib.Marshal(policy[:])
		if err != nil {
			return nil, err
		}
		names := ma.AssetNames(policy)
		out = append(out, key...)
		out = lib.AppendCBORHead(out, cborMajorMap, uint64(len(names)))
		for _, name := range names {
			k, e := lib.Marshal(name.Bytes())
			if e != nil {
				return nil, e
			}
			v, e := lib.Marshal(ma.Get(policy, name))
			if e != nil {
				return nil, e
			}
			out = append(append(out, k...), v...)
		}
	}
	return out, nil
}

// FromCanonicalBytes() parses canonical bytes, rejecting duplicate keys, bad sizes, zero quantities and non canonical ordering
func FromCanonicalBytes(bz []byte) (*MultiAsset, lib.ErrorI) {
	raw := make(map[cbor.ByteString]map[cbor.ByteString]uint64)
	if err := lib.Unmarshal(bz, &raw); err != nil {
		return nil, lib.ErrInvalidMultiAsset(err)
	}
	ma, err := fromRaw(raw)
	if err != nil {
		return nil, err
	}
	canonical, err := ma.CanonicalBytes()
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(canonical, bz) {
		return nil, lib.ErrNonCanonicalAssets()
	}
	return ma, nil
}

func fromRaw(raw map[cbor.ByteString]map[cbor.ByteString]uint64) (*MultiAsset, lib.ErrorI) {
	ma := NewMultiAsset()
	for p, assets := range raw {
		policy, err := NewPolicyID([]byte(p))
		if err != nil {
			return nil, err
		}
		for n, q := range assets {
			name, e := NewAssetName([]byte(n))
			if e != nil {
				return nil, e
			}
			if q == 0 {
				return nil, lib.ErrZeroQuantityEntry(policy.String(), name.String())
			}
			ma.Set(policy, name, q)
		}
	}
	return ma, nil
}

// MarshalCBOR() implements cbor.Marshaler with the canonical form
func (ma *MultiAsset) MarshalCBOR() ([]byte, error) {
	bz, err := ma.CanonicalBytes()
	if err != nil {
		return nil, err
	}
	return bz, nil
}

// UnmarshalCBOR() implements cbor.Unmarshaler
// Embedded multi assets are accepted in any key order, only standalone bytes are checked for canonical form
func (ma *MultiAsset) UnmarshalCBOR(bz []byte) error {
	raw := make(map[cbor.ByteString]map[cbor.ByteString]uint64)
	if err := lib.Unmarshal(bz, &raw); err != nil {
		return lib.ErrInvalidMultiAsset(err)
	}
	got, err := fromRaw(raw)
	if err != nil {
		return err
	}
	*ma = *got
	return nil
}

// MarshalJSON() encodes {"<policy hex>": {"<name hex>": quantity}}
func (ma *MultiAsset) MarshalJSON() ([]byte, error) {
	m := ma.entries()
	if m == nil {
		m = map[PolicyID]map[AssetName]uint64{}
	}
	return json.Marshal(m)
}

// UnmarshalJSON() implements json.Unmarshaler
func (ma *MultiAsset) UnmarshalJSON(bz []byte) error {
	m := make(map[PolicyID]map[AssetName]uint64)
	if err := json.Unmarshal(bz, &m); err != nil {
		return err
	}
	out := NewMultiAsset()
	for policy, assets := range m {
		for name, q := range assets {
			if q == 0 {
				return lib.ErrZeroQuantityEntry(policy.String(), name.String())
			}
			out.Set(policy, name, q)
		}
	}
	*ma = *out
	return nil
}
