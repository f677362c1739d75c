package address

import (
	"bytes"
	"encoding/json"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/crypto"
)

/*
	Shelley address layout:

	header (type << 4 | network) || payment hash (28) || stake hash (28) | pointer varints | nothing

	Reward addresses carry their stake credential in the payment position. Byron addresses are
	cbor and only share the header nibble by coincidence of their first byte (0x82).
*/

// bech32 prefixes (CIP-5)
const (
	MainnetPrefix      = "addr"
	TestnetPrefix      = "addr_test"
	MainnetStakePrefix = "stake"
	TestnetStakePrefix = "stake_test"
	MainnetNetworkID   = 1
)

// Address is one of *BaseAddress, *PointerAddress, *EnterpriseAddress, *RewardAddress or *ByronAddress
type Address interface {
	// Type() is the header type nibble
	Type() AddressType
	// NetworkID() is the header network nibble (derived from the protocol magic for byron)
	NetworkID() uint8
	// Bytes() is the exact wire encoding
	Bytes() []byte
	// String() is bech32 for shelley addresses and base58 for byron
	String() string
	// Equals() compares wire encodings
	Equals(Address) bool
	// PaymentCredential() is the credential that must authorize spending, if any
	PaymentCredential() (Credential, bool)
	// StakeCredential() is the delegation credential, if present inline
	StakeCredential() (Credential, bool)
	json.Marshaler
	sealed()
}

// StakePart is the optional tail of a shelley address: a Credential or a Pointer
type StakePart interface{ stakePart() }

func (Credential) stakePart() {}
func (Pointer) stakePart()    {}

var (
	_ Address = &BaseAddress{}
	_ Address = &PointerAddress{}
	_ Address = &EnterpriseAddress{}
	_ Address = &RewardAddress{}
	_ Address = &ByronAddress{}
)

// BaseAddress pays to a payment credential and delegates to a stake credential
type BaseAddress struct {
	Network uint8
	Payment Credential
	Stake   Credential
}

// PointerAddress delegates through the location of a stake registration certificate
type PointerAddress struct {
	Network uint8
	Payment Credential
	Pointer Pointer
}

// EnterpriseAddress has no stake rights
type EnterpriseAddress struct {
	Network uint8
	Payment Credential
}

// RewardAddress is the account holding staking rewards for a stake credential
type RewardAddress struct {
	Network uint8
	Stake   Credential
}

// NewBaseAddress() validates the network and pairs the credentials
func NewBaseAddress(network uint8, payment, stake Credential) (*BaseAddress, lib.ErrorI) {
	if network > MaxNetworkID {
		return nil, lib.ErrInvalidNetworkID(network)
	}
	return &BaseAddress{Network: network, Payment: payment, Stake: stake}, nil
}

// NewPointerAddress() validates the network and pairs the credential with a pointer
func NewPointerAddress(network uint8, payment Credential, ptr Pointer) (*PointerAddress, lib.ErrorI) {
	if network > MaxNetworkID {
		return nil, lib.ErrInvalidNetworkID(network)
	}
	return &PointerAddress{Network: network, Payment: payment, Pointer: ptr}, nil
}

// NewEnterpriseAddress() validates the network
func NewEnterpriseAddress(network uint8, payment Credential) (*EnterpriseAddress, lib.ErrorI) {
	if network > MaxNetworkID {
		return nil, lib.ErrInvalidNetworkID(network)
	}
	return &EnterpriseAddress{Network: network, Payment: payment}, nil
}

// NewRewardAddress() validates the network
func NewRewardAddress(network uint8, stake Credential) (*RewardAddress, lib.ErrorI) {
	if network > MaxNetworkID {
		return nil, lib.ErrInvalidNetworkID(network)
	}
	return &RewardAddress{Network: network, Stake: stake}, nil
}

// Encode() builds the wire bytes for a shelley address type
// For reward types the credential is passed as payment and stake must be nil
func Encode(payment Credential, stake StakePart, t AddressType, network uint8) ([]byte, lib.ErrorI) {
	if network > MaxNetworkID {
		return nil, lib.ErrInvalidNetworkID(network)
	}
	if payment.Kind != t.PaymentKind() {
		return nil, lib.ErrCredentialMismatch(t)
	}
	var a Address
	switch {
	case t.IsBase():
		s, ok := stake.(Credential)
		if !ok || s.Kind != t.StakeKind() {
			return nil, lib.ErrCredentialMismatch(t)
		}
		a = &BaseAddress{Network: network, Payment: payment, Stake: s}
	case t.IsPointer():
		p, ok := stake.(Pointer)
		if !ok {
			return nil, lib.ErrCredentialMismatch(t)
		}
		a = &PointerAddress{Network: network, Payment: payment, Pointer: p}
	case t.IsEnterprise():
		if stake != nil {
			return nil, lib.ErrCredentialMismatch(t)
		}
		a = &EnterpriseAddress{Network: network, Payment: payment}
	case t.IsReward():
		if stake != nil {
			return nil, lib.ErrCredentialMismatch(t)
		}
		a = &RewardAddress{Network: network, Stake: payment}
	default:
		// byron addresses are built from keys, not credentials
		return nil, lib.ErrInvalidAddressHeader(t.header(network))
	}
	return a.Bytes(), nil
}

// Decode() parses wire bytes into one of the address variants
func Decode(bz []byte) (Address, lib.ErrorI) {
	if len(bz) < headerSize {
		return nil, lib.ErrInvalidAddressLength(headerSize, len(bz))
	}
	header := bz[0]
	t, ok := ParseAddressType(header >> 4)
	if !ok {
		return nil, lib.ErrInvalidAddressHeader(header)
	}
	network := header & MaxNetworkID
	body := bz[headerSize:]
	switch {
	case t.IsBase():
		if len(bz) != baseSize {
			return nil, lib.ErrInvalidAddressLength(baseSize, len(bz))
		}
		return &BaseAddress{
			Network: network,
			Payment: credentialAt(t.PaymentKind(), body[:HashSize]),
			Stake:   credentialAt(t.StakeKind(), body[HashSize:]),
		}, nil
	case t.IsPointer():
		if len(bz) <= enterpriseSize {
			return nil, lib.ErrInvalidAddressLength(minPointerSize, len(bz))
		}
		ptr, err := DecodePointer(body[HashSize:])
		if err != nil {
			return nil, err
		}
		return &PointerAddress{Network: network, Payment: credentialAt(t.PaymentKind(), body[:HashSize]), Pointer: ptr}, nil
	case t.IsEnterprise():
		if len(bz) != enterpriseSize {
			return nil, lib.ErrInvalidAddressLength(enterpriseSize, len(bz))
		}
		return &EnterpriseAddress{Network: network, Payment: credentialAt(t.PaymentKind(), body)}, nil
	case t.IsReward():
		if len(bz) != rewardSize {
			return nil, lib.ErrInvalidAddressLength(rewardSize, len(bz))
		}
		return &RewardAddress{Network: network, Stake: credentialAt(t.PaymentKind(), body)}, nil
	case t == Byron:
		a, err := DecodeByron(bz)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, lib.ErrInvalidAddressHeader(header)
	}
}

// FromString() parses bech32 (shelley) or base58 (byron) text
func FromString(s string) (Address, lib.ErrorI) {
	hrp, bz, err := crypto.Bech32Decode(s)
	if err != nil {
		raw := base58.Decode(s)
		if len(raw) == 0 {
			return nil, lib.ErrInvalidAddressString(s)
		}
		a, e := Decode(raw)
		if e != nil {
			return nil, e
		}
		if _, isByron := a.(*ByronAddress); !isByron {
			return nil, lib.ErrInvalidAddressString(s)
		}
		return a, nil
	}
	a, err := Decode(bz)
	if err != nil {
		return nil, err
	}
	if expected := bech32Prefix(a.Type(), a.NetworkID()); hrp != expected {
		return nil, lib.ErrWrongBech32Prefix(expected, hrp)
	}
	return a, nil
}

// FromBytes() is an alias of Decode
func FromBytes(bz []byte) (Address, lib.ErrorI) { return Decode(bz) }

func credentialAt(kind CredentialKind, hash []byte) (c Credential) {
	c.Kind = kind
	copy(c.Hash[:], hash)
	return
}

func bech32Prefix(t AddressType, network uint8) string {
	switch {
	case t.IsReward() && network == MainnetNetworkID:
		return MainnetStakePrefix
	case t.IsReward():
		return TestnetStakePrefix
	case network == MainnetNetworkID:
		return MainnetPrefix
	default:
		return TestnetPrefix
	}
}

func shelleyString(a Address) string {
	s, err := crypto.Bech32Encode(bech32Prefix(a.Type(), a.NetworkID()), a.Bytes())
	if err != nil {
		// bech32 only fails on invalid prefixes or 5 bit groups, neither can occur here
		panic(err)
	}
	return s
}

func equals(a, b Address) bool { return b != nil && bytes.Equal(a.Bytes(), b.Bytes()) }

func marshalString(a Address) ([]byte, error) { return json.Marshal(a.String()) }

// Base

func (a *BaseAddress) Type() AddressType { return BaseType(a.Payment.Kind, a.Stake.Kind) }
func (a *BaseAddress) NetworkID() uint8  { return a.Network }
func (a *BaseAddress) Bytes() []byte {
	out := make([]byte, 0, baseSize)
	out = append(out, a.Type().header(a.Network))
	out = append(out, a.Payment.Hash[:]...)
	return append(out, a.Stake.Hash[:]...)
}
func (a *BaseAddress) String() string                        { return shelleyString(a) }
func (a *BaseAddress) Equals(o Address) bool                 { return equals(a, o) }
func (a *BaseAddress) PaymentCredential() (Credential, bool) { return a.Payment, true }
func (a *BaseAddress) StakeCredential() (Credential, bool)   { return a.Stake, true }
func (a *BaseAddress) MarshalJSON() ([]byte, error)          { return marshalString(a) }
func (a *BaseAddress) sealed()                               {}

// RewardAddress() returns the account the base address delegates to
func (a *BaseAddress) RewardAddress() *RewardAddress {
	return &RewardAddress{Network: a.Network, Stake: a.Stake}
}

// Pointer

func (a *PointerAddress) Type() AddressType { return PointerType(a.Payment.Kind) }
func (a *PointerAddress) NetworkID() uint8  { return a.Network }
func (a *PointerAddress) Bytes() []byte {
	out := make([]byte, 0, minPointerSize+3*maxVarintSize)
	out = append(out, a.Type().header(a.Network))
	out = append(out, a.Payment.Hash[:]...)
	return append(out, a.Pointer.Bytes()...)
}
func (a *PointerAddress) String() string                        { return shelleyString(a) }
func (a *PointerAddress) Equals(o Address) bool                 { return equals(a, o) }
func (a *PointerAddress) PaymentCredential() (Credential, bool) { return a.Payment, true }
func (a *PointerAddress) StakeCredential() (Credential, bool)   { return Credential{}, false }
func (a *PointerAddress) MarshalJSON() ([]byte, error)          { return marshalString(a) }
func (a *PointerAddress) sealed()                               {}

// Enterprise

func (a *EnterpriseAddress) Type() AddressType { return EnterpriseType(a.Payment.Kind) }
func (a *EnterpriseAddress) NetworkID() uint8  { return a.Network }
func (a *EnterpriseAddress) Bytes() []byte {
	out := make([]byte, 0, enterpriseSize)
	out = append(out, a.Type().header(a.Network))
	return append(out, a.Payment.Hash[:]...)
}
func (a *EnterpriseAddress) String() string                        { return shelleyString(a) }
func (a *EnterpriseAddress) Equals(o Address) bool                 { return equals(a, o) }
func (a *EnterpriseAddress) PaymentCredential() (Credential, bool) { return a.Payment, true }
func (a *EnterpriseAddress) StakeCredential() (Credential, bool)   { return Credential{}, false }
func (a *EnterpriseAddress) MarshalJSON() ([]byte, error)          { return marshalString(a) }
func (a *EnterpriseAddress) sealed()                               {}

// Reward

func (a *RewardAddress) Type() AddressType { return RewardType(a.Stake.Kind) }
func (a *RewardAddress) NetworkID() uint8  { return a.Network }
func (a *RewardAddress) Bytes() []byte {
	out := make([]byte, 0, rewardSize)
	out = append(out, a.Type().header(a.Network))
	return append(out, a.Stake.Hash[:]...)
}
func (a *RewardAddress) String() string                        { return shelleyString(a) }
func (a *RewardAddress) Equals(o Address) bool                 { return equals(a, o) }
func (a *RewardAddress) PaymentCredential() (Credential, bool) { return Credential{}, false }
func (a *RewardAddress) StakeCredential() (Credential, bool)   { return a.Stake, true }
func (a *RewardAddress) MarshalJSON() ([]byte, error)          { return marshalString(a) }
func (a *RewardAddress) sealed()                               {}
