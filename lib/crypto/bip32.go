package crypto

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"

	"filippo.io/edwards25519"
	"github.com/canopy-network/cardano/lib"
)

/*
	Hierarchical deterministic ed25519 keys (BIP32-Ed25519, V2 derivation as used by Icarus and
	every shelley era wallet). Private children may be hardened or soft; public children may only
	be soft, and for soft indices deriving privately then taking the public key gives the same
	result as deriving publicly from the parent public key.
*/

const (
	ChainCodeSize          = 32
	ExtendedPrivateKeySize = ExtendedSecretKeySize + ChainCodeSize // kL || kR || cc
	ExtendedPublicKeySize  = PublicKeySize + ChainCodeSize          // A || cc
	XPrvBech32Prefix       = "xprv"
	XPubBech32Prefix       = "xpub"
)

// hmac domain tags
const (
	tagHardenedZ byte = 0x00
	tagHardenedC byte = 0x01
	tagSoftZ     byte = 0x02
	tagSoftC     byte = 0x03
)

// ExtendedPrivateKey is a 64 byte extended secret plus a 32 byte chain code
type ExtendedPrivateKey struct {
	key       [ExtendedSecretKeySize]byte
	chainCode [ChainCodeSize]byte
}

// ExtendedPublicKey is a 32 byte curve point plus a 32 byte chain code
type ExtendedPublicKey struct {
	point     [PublicKeySize]byte
	chainCode [ChainCodeSize]byte
}

// NewExtendedPrivateKey() parses 96 bytes (kL || kR || cc) without modifying them
func NewExtendedPrivateKey(bz []byte) (*ExtendedPrivateKey, lib.ErrorI) {
	if len(bz) != ExtendedPrivateKeySize {
		return nil, lib.ErrInvalidLength("extended private key", ExtendedPrivateKeySize, len(bz))
	}
	if err := checkScalar(bz[:32]); err != nil {
		return nil, err
	}
	k := new(ExtendedPrivateKey)
	copy(k.key[:], bz[:ExtendedSecretKeySize])
	copy(k.chainCode[:], bz[ExtendedSecretKeySize:])
	return k, nil
}

// NewMasterKey() clamps caller provided 96 bytes of key material into a root key
func NewMasterKey(bz []byte) (*ExtendedPrivateKey, lib.ErrorI) {
	if len(bz) != ExtendedPrivateKeySize {
		return nil, lib.ErrInvalidLength("master key", ExtendedPrivateKeySize, len(bz))
	}
	k := new(ExtendedPrivateKey)
	copy(k.key[:], bz[:ExtendedSecretKeySize])
	copy(k.chainCode[:], bz[ExtendedSecretKeySize:])
	clampScalar(k.key[:32])
	return k, nil
}

// NewExtendedPrivateKeyFromString() decodes a hex xprv
func NewExtendedPrivateKeyFromString(hexString string) (*ExtendedPrivateKey, lib.ErrorI) {
	bz, err := lib.StringToBytes(hexString)
	if err != nil {
		return nil, err
	}
	return NewExtendedPrivateKey(bz)
}

// NewExtendedPrivateKeyFromBech32() decodes an xprv1... string
func NewExtendedPrivateKeyFromBech32(s string) (*ExtendedPrivateKey, lib.ErrorI) {
	bz, err := Bech32DecodeWithPrefix(XPrvBech32Prefix, s)
	if err != nil {
		return nil, err
	}
	return NewExtendedPrivateKey(bz)
}

// Derive() returns the child at index; indices >= 2^31 are hardened
func (k *ExtendedPrivateKey) Derive(index uint32) *ExtendedPrivateKey {
	var z, c []byte
	if IsHardened(index) {
		z, c = deriveHMACs(k.chainCode[:], tagHardenedZ, tagHardenedC, k.key[:], index)
	} else {
		pub := scalarMultBase(k.key[:32])
		z, c = deriveHMACs(k.chainCode[:], tagSoftZ, tagSoftC, pub[:], index)
	}
	left, right := add28Mul8(k.key[:32], z[:32]), add256(k.key[32:], z[32:])
	child := new(ExtendedPrivateKey)
	copy(child.key[:32], left[:])
	copy(child.key[32:], right[:])
	copy(child.chainCode[:], c[32:])
	return child
}

// DerivePath() applies Derive for each index of the path in order
func (k *ExtendedPrivateKey) DerivePath(path DerivationPath) *ExtendedPrivateKey {
	key := k
	for _, i := range path {
		key = key.Derive(i)
	}
	return key
}

// Public() returns the extended public key: (kL mod ℓ)·B with the same chain code
func (k *ExtendedPrivateKey) Public() *ExtendedPublicKey {
	return &ExtendedPublicKey{point: scalarMultBase(k.key[:32]), chainCode: k.chainCode}
}

// PublicKey() returns the 32 byte verification key
func (k *ExtendedPrivateKey) PublicKey() PublicKeyI { return k.Public().PublicKey() }

// SigningKey() drops the chain code, leaving the raw extended secret used for signatures
func (k *ExtendedPrivateKey) SigningKey() *ED25519ExtendedPrivateKey {
	return &ED25519ExtendedPrivateKey{key: k.key}
}

// Sign() signs msg with the extended secret
func (k *ExtendedPrivateKey) Sign(msg []byte) Signature {
	pub := scalarMultBase(k.key[:32])
	return signExtended(&k.key, pub[:], msg)
}

// ChainCode() returns a copy of the chain code
func (k *ExtendedPrivateKey) ChainCode() []byte { return bytes.Clone(k.chainCode[:]) }

// Bytes() returns kL || kR || cc
func (k *ExtendedPrivateKey) Bytes() []byte {
	out := make([]byte, 0, ExtendedPrivateKeySize)
	out = append(out, k.key[:]...)
	return append(out, k.chainCode[:]...)
}

func (k *ExtendedPrivateKey) String() string { return hex.EncodeToString(k.Bytes()) }

// Bech32() returns the xprv text form
func (k *ExtendedPrivateKey) Bech32() string { return mustBech32(XPrvBech32Prefix, k.Bytes()) }

// Equals() compares all 96 bytes
func (k *ExtendedPrivateKey) Equals(o *ExtendedPrivateKey) bool {
	return o != nil && k.key == o.key && k.chainCode == o.chainCode
}

// MarshalJSON() implements the json.Marshaller interface for ExtendedPrivateKey
func (k *ExtendedPrivateKey) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

// UnmarshalJSON() implements the json.Unmarshaler interface for ExtendedPrivateKey
func (k *ExtendedPrivateKey) UnmarshalJSON(b []byte) error {
	var hexString string
	if err := json.Unmarshal(b, &hexString); err != nil {
		return err
	}
	key, err := NewExtendedPrivateKeyFromString(hexString)
	if err != nil {
		return err
	}
	*k = *key
	return nil
}

// NewExtendedPublicKey() parses 64 bytes (A || cc); A must be a valid curve point
func NewExtendedPublicKey(bz []byte) (*ExtendedPublicKey, lib.ErrorI) {
	if len(bz) != ExtendedPublicKeySize {
		return nil, lib.ErrInvalidLength("extended public key", ExtendedPublicKeySize, len(bz))
	}
	if _, err := new(edwards25519.Point).SetBytes(bz[:PublicKeySize]); err != nil {
		return nil, lib.ErrInvalidPublicKey(err)
	}
	k := new(ExtendedPublicKey)
	copy(k.point[:], bz[:PublicKeySize])
	copy(k.chainCode[:], bz[PublicKeySize:])
	return k, nil
}

// NewExtendedPublicKeyFromString() decodes a hex xpub
func NewExtendedPublicKeyFromString(hexString string) (*ExtendedPublicKey, lib.ErrorI) {
	bz, err := lib.StringToBytes(hexString)
	if err != nil {
		return nil, err
	}
	return NewExtendedPublicKey(bz)
}

// NewExtendedPublicKeyFromBech32() decodes an xpub1... string
func NewExtendedPublicKeyFromBech32(s string) (*ExtendedPublicKey, lib.ErrorI) {
	bz, err := Bech32DecodeWithPrefix(XPubBech32Prefix, s)
	if err != nil {
		return nil, err
	}
	return NewExtendedPublicKey(bz)
}

// Derive() returns the soft child at index; hardened indices can't be derived without the secret
func (k *ExtendedPublicKey) Derive(index uint32) (*ExtendedPublicKey, lib.ErrorI) {
	if IsHardened(index) {
		return nil, lib.ErrInvalidDerivation(index)
	}
	parent, err := new(edwards25519.Point).SetBytes(k.point[:])
	if err != nil {
		return nil, lib.ErrInvalidPublicKey(err)
	}
	z, c := deriveHMACs(k.chainCode[:], tagSoftZ, tagSoftC, k.point[:], index)
	var zero [32]byte
	tweak := add28Mul8(zero[:], z[:32])
	delta := new(edwards25519.Point).ScalarBaseMult(reduceScalar(tweak[:]))
	child := new(ExtendedPublicKey)
	copy(child.point[:], new(edwards25519.Point).Add(parent, delta).Bytes())
	copy(child.chainCode[:], c[32:])
	return child, nil
}

// DerivePath() applies Derive for each index of the path in order
func (k *ExtendedPublicKey) DerivePath(path DerivationPath) (key *ExtendedPublicKey, err lib.ErrorI) {
	key = k
	for _, i := range path {
		if key, err = key.Derive(i); err != nil {
			return nil, err
		}
	}
	return
}

// PublicKey() returns the point without the chain code
func (k *ExtendedPublicKey) PublicKey() PublicKeyI {
	return &ED25519PublicKey{PublicKey: bytes.Clone(k.point[:])}
}

// Hash() returns the blake2b-224 key hash of the point
func (k *ExtendedPublicKey) Hash() []byte { return ShortHash(k.point[:]) }

// ChainCode() returns a copy of the chain code
func (k *ExtendedPublicKey) ChainCode() []byte { return bytes.Clone(k.chainCode[:]) }

// Bytes() returns A || cc
func (k *ExtendedPublicKey) Bytes() []byte {
	out := make([]byte, 0, ExtendedPublicKeySize)
	out = append(out, k.point[:]...)
	return append(out, k.chainCode[:]...)
}

func (k *ExtendedPublicKey) String() string { return hex.EncodeToString(k.Bytes()) }

// Bech32() returns the xpub text form
func (k *ExtendedPublicKey) Bech32() string { return mustBech32(XPubBech32Prefix, k.Bytes()) }

func (k *ExtendedPublicKey) Equals(o *ExtendedPublicKey) bool {
	return o != nil && k.point == o.point && k.chainCode == o.chainCode
}

// MarshalJSON() implements the json.Marshaller interface for ExtendedPublicKey
func (k *ExtendedPublicKey) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

// UnmarshalJSON() implements the json.Unmarshaler interface for ExtendedPublicKey
func (k *ExtendedPublicKey) UnmarshalJSON(b []byte) error {
	var hexString string
	if err := json.Unmarshal(b, &hexString); err != nil {
		return err
	}
	key, err := NewExtendedPublicKeyFromString(hexString)
	if err != nil {
		return err
	}
	*k = *key
	return nil
}

// deriveHMACs() computes Z = HMAC(cc, zTag || data || LE32(i)) and I = HMAC(cc, cTag || data || LE32(i))
func deriveHMACs(chainCode []byte, zTag, cTag byte, data []byte, index uint32) (z, c []byte) {
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], index)
	mac := hmac.New(sha512.New, chainCode)
	sum := func(tag byte) []byte {
		mac.Reset()
		mac.Write([]byte{tag})
		mac.Write(data)
		mac.Write(idx[:])
		return mac.Sum(nil)
	}
	return sum(zTag), sum(cTag)
}
