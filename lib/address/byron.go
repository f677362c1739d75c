package address

import (
	"bytes"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/Salvionied/cbor/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/crypto"
	"golang.org/x/crypto/sha3"
)

/*
	Byron addresses are cbor:

	[ #6.24(bytes .cbor [root, attributes, type]), crc32(bytes) ]

	root = blake2b-224(sha3-256(cbor [type, spending data, attributes]))
	attributes = { ? 1: bytes .cbor bytes (encrypted derivation path), ? 2: bytes .cbor uint (protocol magic) }
*/

const (
	byronTagEncodedCBOR = 24
	attrDerivationPath  = 1
	attrProtocolMagic   = 2
)

// ByronAddrType is the kind of spending data committed to by the root
type ByronAddrType uint64

const (
	ByronPubKey ByronAddrType = 0
	ByronScript ByronAddrType = 1
	ByronRedeem ByronAddrType = 2
)

// ByronAttributes are the optional address attributes
type ByronAttributes struct {
	// DerivationPath is the encrypted HD payload of legacy daedalus wallets, kept opaque
	DerivationPath []byte
	// ProtocolMagic is absent on mainnet
	ProtocolMagic *uint32
}

// ByronAddress is a legacy bootstrap era address
type ByronAddress struct {
	Root       [HashSize]byte
	Attributes ByronAttributes
	AddrType   ByronAddrType
	raw        []byte
}

type byronEnvelope struct {
	_       struct{} `cbor:",toarray"`
	Payload cbor.Tag
	CRC     uint32
}

type byronPayload struct {
	_          struct{} `cbor:",toarray"`
	Root       []byte
	Attributes map[uint64][]byte
	AddrType   uint64
}

// NewIcarusAddress() builds the bootstrap address of an extended public key, as used by icarus style wallets
// The protocol magic attribute is only included off mainnet
func NewIcarusAddress(xpub *crypto.ExtendedPublicKey, network lib.NetworkInfo) (*ByronAddress, lib.ErrorI) {
	attrs := ByronAttributes{}
	if !network.IsMainnet() {
		magic := network.ProtocolMagic
		attrs.ProtocolMagic = &magic
	}
	encodedAttrs, err := attrs.encode()
	if err != nil {
		return nil, err
	}
	spendingData := []any{uint64(ByronPubKey), []any{uint64(0), xpub.Bytes()}, encodedAttrs}
	bz, err := lib.Marshal(spendingData)
	if err != nil {
		return nil, err
	}
	digest := sha3.Sum256(bz)
	a := &ByronAddress{Attributes: attrs, AddrType: ByronPubKey}
	copy(a.Root[:], crypto.ShortHash(digest[:]))
	if a.raw, err = a.encode(); err != nil {
		return nil, err
	}
	return a, nil
}

// DecodeByron() parses and checksums the cbor envelope
func DecodeByron(bz []byte) (*ByronAddress, lib.ErrorI) {
	env := new(byronEnvelope)
	if err := lib.Unmarshal(bz, env); err != nil {
		return nil, lib.ErrInvalidByronAddress(err)
	}
	payload, ok := env.Payload.Content.([]byte)
	if env.Payload.Number != byronTagEncodedCBOR || !ok {
		return nil, lib.ErrInvalidByronAddress(fmt.Errorf("expected tag 24 bytes, got tag %d", env.Payload.Number))
	}
	if sum := crc32.ChecksumIEEE(payload); sum != env.CRC {
		return nil, lib.ErrByronChecksum(env.CRC, sum)
	}
	p := new(byronPayload)
	if err := lib.Unmarshal(payload, p); err != nil {
		return nil, lib.ErrInvalidByronAddress(err)
	}
	switch ByronAddrType(p.AddrType) {
	case ByronPubKey, ByronScript, ByronRedeem:
	default:
		return nil, lib.ErrInvalidByronAddress(fmt.Errorf("unknown address type %d", p.AddrType))
	}
	if len(p.Root) != HashSize {
		return nil, lib.ErrInvalidHashLength(len(p.Root))
	}
	a := &ByronAddress{AddrType: ByronAddrType(p.AddrType), raw: bytes.Clone(bz)}
	copy(a.Root[:], p.Root)
	if v, found := p.Attributes[attrDerivationPath]; found {
		if err := lib.Unmarshal(v, &a.Attributes.DerivationPath); err != nil {
			return nil, lib.ErrInvalidByronAddress(err)
		}
	}
	if v, found := p.Attributes[attrProtocolMagic]; found {
		magic := new(uint32)
		if err := lib.Unmarshal(v, magic); err != nil {
			return nil, lib.ErrInvalidByronAddress(err)
		}
		a.Attributes.ProtocolMagic = magic
	}
	return a, nil
}

// NewByronAddressFromString() decodes base58 text
func NewByronAddressFromString(s string) (*ByronAddress, lib.ErrorI) {
	raw := base58.Decode(s)
	if len(raw) == 0 {
		return nil, lib.ErrInvalidByronAddress(errors.New("invalid base58"))
	}
	return DecodeByron(raw)
}

// ProtocolMagic() returns the network magic attribute if present
func (a *ByronAddress) ProtocolMagic() (uint32, bool) {
	if a.Attributes.ProtocolMagic == nil {
		return 0, false
	}
	return *a.Attributes.ProtocolMagic, true
}

// AttributesBytes() is the cbor attribute map, copied into bootstrap witnesses
func (a *ByronAddress) AttributesBytes() []byte {
	bz, err := a.Attributes.encode()
	if err != nil {
		panic(err)
	}
	return bz
}

func (a *ByronAddress) Type() AddressType { return Byron }

// NetworkID() maps a missing or mainnet magic to the mainnet id
func (a *ByronAddress) NetworkID() uint8 {
	if magic, ok := a.ProtocolMagic(); ok && magic != lib.Mainnet().ProtocolMagic {
		return lib.Testnet().NetworkID
	}
	return lib.Mainnet().NetworkID
}

func (a *ByronAddress) Bytes() []byte                         { return bytes.Clone(a.raw) }
func (a *ByronAddress) String() string                        { return base58.Encode(a.raw) }
func (a *ByronAddress) Equals(o Address) bool                 { return equals(a, o) }
func (a *ByronAddress) PaymentCredential() (Credential, bool) { return Credential{}, false }
func (a *ByronAddress) StakeCredential() (Credential, bool)   { return Credential{}, false }
func (a *ByronAddress) MarshalJSON() ([]byte, error)          { return marshalString(a) }
func (a *ByronAddress) sealed()                               {}

// encode() builds the envelope from the parsed fields
func (a *ByronAddress) encode() ([]byte, lib.ErrorI) {
	attrs, err := a.Attributes.encodeMap()
	if err != nil {
		return nil, err
	}
	payload, err := lib.Marshal(byronPayload{Root: a.Root[:], Attributes: attrs, AddrType: uint64(a.AddrType)})
	if err != nil {
		return nil, err
	}
	return lib.Marshal(byronEnvelope{
		Payload: cbor.Tag{Number: byronTagEncodedCBOR, Content: payload},
		CRC:     crc32.ChecksumIEEE(payload),
	})
}

// encodeMap() wraps each attribute value in its own cbor encoding
func (b ByronAttributes) encodeMap() (map[uint64][]byte, lib.ErrorI) {
	m := make(map[uint64][]byte)
	if b.DerivationPath != nil {
		v, err := lib.Marshal(b.DerivationPath)
		if err != nil {
			return nil, err
		}
		m[attrDerivationPath] = v
	}
	if b.ProtocolMagic != nil {
		v, err := lib.Marshal(*b.ProtocolMagic)
		if err != nil {
			return nil, err
		}
		m[attrProtocolMagic] = v
	}
	return m, nil
}

// encode() returns the attribute map as cbor.RawMessage ready to embed
func (b ByronAttributes) encode() (cbor.RawMessage, lib.ErrorI) {
	m, err := b.encodeMap()
	if err != nil {
		return nil, err
	}
	bz, err := lib.Marshal(m)
	if err != nil {
		return nil, err
	}
	return bz, nil
}
