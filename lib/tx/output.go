package tx

import (
	"encoding/json"
	"errors"

	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/address"
	"github.com/canopy-network/cardano/lib/asset"
)

// Output is a transaction output: an address and the value locked at it
type Output struct {
	Address address.Address
	Amount  asset.Value
}

// legacy (pre babbage) array form: [address bytes, value]
type outputCBOR struct {
	_       struct{} `cbor:",toarray"`
	Address []byte
	Amount  asset.Value
}

// NewOutput() builds an output, rejecting a missing address
func NewOutput(addr address.Address, amount asset.Value) (*Output, lib.ErrorI) {
	if addr == nil {
		return nil, lib.ErrInvalidOutput(errors.New("missing address"))
	}
	if amount.Assets == nil {
		amount.Assets = asset.NewMultiAsset()
	}
	return &Output{Address: addr, Amount: amount}, nil
}

// Bytes() returns the cbor encoding of the output
func (o *Output) Bytes() ([]byte, lib.ErrorI) { return lib.Marshal(o) }

// NewOutputFromBytes() decodes a cbor output
func NewOutputFromBytes(bz []byte) (*Output, lib.ErrorI) {
	o := new(Output)
	if err := lib.Unmarshal(bz, o); err != nil {
		return nil, err
	}
	return o, nil
}

// MarshalCBOR() implements cbor.Marshaler for Output
func (o *Output) MarshalCBOR() ([]byte, error) {
	if o.Address == nil {
		return nil, lib.ErrInvalidOutput(errors.New("missing address"))
	}
	bz, err := lib.Marshal(outputCBOR{Address: o.Address.Bytes(), Amount: o.Amount})
	if err != nil {
		return nil, err
	}
	return bz, nil
}

// UnmarshalCBOR() implements cbor.Unmarshaler for Output
func (o *Output) UnmarshalCBOR(bz []byte) error {
	raw := new(outputCBOR)
	if err := lib.Unmarshal(bz, raw); err != nil {
		return lib.ErrInvalidOutput(err)
	}
	addr, err := address.Decode(raw.Address)
	if err != nil {
		return err
	}
	*o = Output{Address: addr, Amount: raw.Amount}
	return nil
}

type outputJSON struct {
	Address string      `json:"address"`
	Amount  asset.Value `json:"amount"`
}

// MarshalJSON() implements the json.Marshaller interface for Output
func (o Output) MarshalJSON() ([]byte, error) {
	var addr string
	if o.Address != nil {
		addr = o.Address.String()
	}
	return json.Marshal(outputJSON{Address: addr, Amount: o.Amount})
}

// UnmarshalJSON() implements the json.Unmarshaler interface for Output
func (o *Output) UnmarshalJSON(bz []byte) error {
	j := new(outputJSON)
	if err := json.Unmarshal(bz, j); err != nil {
		return err
	}
	addr, err := address.FromString(j.Address)
	if err != nil {
		return err
	}
	*o = Output{Address: addr, Amount: j.Amount}
	return nil
}
