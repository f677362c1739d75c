package asset

import (
	"encoding/json"
	"errors"
	"math/bits"

	"github.com/Salvionied/cbor/v2"
	"github.com/canopy-network/cardano/lib"
)

// Value is an amount of lovelace plus native assets
type Value struct {
	Coin   uint64
	Assets *MultiAsset
}

// cbor form when assets are present: [coin, multiasset]
type valueCBOR struct {
	_      struct{} `cbor:",toarray"`
	Coin   uint64
	Assets cbor.RawMessage
}

// NewValue() is a coin only value
func NewValue(coin uint64) Value { return Value{Coin: coin, Assets: NewMultiAsset()} }

// NewValueWithAssets() copies the assets
func NewValueWithAssets(coin uint64, assets *MultiAsset) Value {
	return Value{Coin: coin, Assets: assets.Clone()}
}

// Add() sums coin and assets
func (v Value) Add(o Value) (Value, lib.ErrorI) {
	coin, carry := bits.Add64(v.Coin, o.Coin, 0)
	if carry != 0 {
		return Value{}, lib.ErrCoinOverflow()
	}
	assets, err := Add(v.Assets, o.Assets)
	if err != nil {
		return Value{}, err
	}
	return Value{Coin: coin, Assets: assets}, nil
}

// Sub() subtracts coin and assets, rejecting any negative result
func (v Value) Sub(o Value) (Value, lib.ErrorI) {
	coin, borrow := bits.Sub64(v.Coin, o.Coin, 0)
	if borrow != 0 {
		return Value{}, lib.ErrCoinUnderflow()
	}
	assets, err := Sub(v.Assets, o.Assets)
	if err != nil {
		return Value{}, err
	}
	return Value{Coin: coin, Assets: assets}, nil
}

// IsCoinOnly() is true without native assets
func (v Value) IsCoinOnly() bool { return v.Assets.IsEmpty() }

// Equals() compares coin and assets
func (v Value) Equals(o Value) bool { return v.Coin == o.Coin && v.Assets.Equals(o.Assets) }

// MarshalCBOR() encodes a coin only value as a uint, otherwise as [coin, multiasset]
func (v Value) MarshalCBOR() ([]byte, error) {
	if v.IsCoinOnly() {
		return marshal(v.Coin)
	}
	assets, err := v.Assets.CanonicalBytes()
	if err != nil {
		return nil, err
	}
	return marshal(valueCBOR{Coin: v.Coin, Assets: assets})
}

// UnmarshalCBOR() accepts both forms
func (v *Value) UnmarshalCBOR(bz []byte) error {
	if len(bz) == 0 {
		return lib.ErrInvalidValue(errors.New("empty"))
	}
	switch bz[0] >> 5 {
	case 0: // unsigned integer
		var coin uint64
		if err := lib.Unmarshal(bz, &coin); err != nil {
			return lib.ErrInvalidValue(err)
		}
		*v = NewValue(coin)
		return nil
	case 4: // array
		raw := new(valueCBOR)
		if err := lib.Unmarshal(bz, raw); err != nil {
			return lib.ErrInvalidValue(err)
		}
		assets := NewMultiAsset()
		if err := assets.UnmarshalCBOR(raw.Assets); err != nil {
			return err
		}
		*v = Value{Coin: raw.Coin, Assets: assets}
		return nil
	default:
		return lib.ErrInvalidValue(errors.New("expected uint or array"))
	}
}

type valueJSON struct {
	Coin   uint64      `json:"coin"`
	Assets *MultiAsset `json:"assets,omitempty"`
}

// MarshalJSON() implements the json.Marshaller interface for Value
func (v Value) MarshalJSON() ([]byte, error) {
	j := valueJSON{Coin: v.Coin}
	if !v.IsCoinOnly() {
		j.Assets = v.Assets
	}
	return json.Marshal(j)
}

// UnmarshalJSON() implements the json.Unmarshaler interface for Value
func (v *Value) UnmarshalJSON(bz []byte) error {
	j := new(valueJSON)
	if err := json.Unmarshal(bz, j); err != nil {
		return err
	}
	if j.Assets == nil {
		j.Assets = NewMultiAsset()
	}
	*v = Value{Coin: j.Coin, Assets: j.Assets}
	return nil
}

func marshal(v any) ([]byte, error) {
	bz, err := lib.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bz, nil
}
