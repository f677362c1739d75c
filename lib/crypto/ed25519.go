package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"

	"filippo.io/edwards25519"
	"github.com/canopy-network/cardano/lib"
	oasisEd25519 "github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
)

const (
	PublicKeySize          = ed25519.PublicKeySize // 32 byte curve point
	SignatureSize          = ed25519.SignatureSize // R || S
	SeedSize               = ed25519.SeedSize      // normal private key
	ExtendedSecretKeySize  = 64                    // kL || kR
	PublicKeyBech32Prefix  = "ed25519_pk"
	PrivateKeyBech32Prefix = "ed25519_sk"
	ExtendedBech32Prefix   = "ed25519e_sk"
)

// verifyOptions is shared by single and batch verification so both accept exactly the same signatures:
// small order public keys and non canonical encodings are rejected and the cofactored equation is used
var verifyOptions = &oasisEd25519.Options{Verify: oasisEd25519.VerifyOptionsDefault}

// Signature is a 64 byte ed25519 signature
type Signature [SignatureSize]byte

// NewSignatureFromBytes() copies a 64 byte signature
func NewSignatureFromBytes(bz []byte) (s Signature, err lib.ErrorI) {
	if len(bz) != SignatureSize {
		return s, lib.ErrInvalidSignatureLength(len(bz))
	}
	copy(s[:], bz)
	return
}

// NewSignatureFromString() decodes a hex signature
func NewSignatureFromString(hexString string) (Signature, lib.ErrorI) {
	bz, err := lib.StringToBytes(hexString)
	if err != nil {
		return Signature{}, err
	}
	return NewSignatureFromBytes(bz)
}

func (s Signature) Bytes() []byte  { return bytes.Clone(s[:]) }
func (s Signature) String() string { return hex.EncodeToString(s[:]) }

// MarshalJSON() implements the json.Marshaller interface for Signature
func (s Signature) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// UnmarshalJSON() implements the json.Unmarshaler interface for Signature
func (s *Signature) UnmarshalJSON(b []byte) error {
	var hexString string
	if err := json.Unmarshal(b, &hexString); err != nil {
		return err
	}
	sig, err := NewSignatureFromString(hexString)
	if err != nil {
		return err
	}
	*s = sig
	return nil
}

// Verify() checks a signature of msg against a raw 32 byte public key
// Malformed inputs are errors; a well formed signature that doesn't match is (false, nil)
func Verify(publicKey, msg, sig []byte) (bool, lib.ErrorI) {
	if len(sig) != SignatureSize {
		return false, lib.ErrInvalidSignatureLength(len(sig))
	}
	if len(publicKey) != PublicKeySize {
		return false, lib.ErrInvalidPublicKeyLength(len(publicKey))
	}
	return oasisEd25519.VerifyWithOptions(publicKey, msg, sig, verifyOptions), nil
}

// Public Key Below

// ED25519PublicKey is the public key of a cryptographic key pair used in elliptic curve signing and verification, based on the Curve25519 elliptic curve
type ED25519PublicKey struct{ ed25519.PublicKey }

// ensure the ED25519PublicKey object satisfies the PublicKeyI interface
var _ PublicKeyI = &ED25519PublicKey{}

// NewPublicKeyFromBytes() validates the length and the curve point
func NewPublicKeyFromBytes(bz []byte) (*ED25519PublicKey, lib.ErrorI) {
	if len(bz) != PublicKeySize {
		return nil, lib.ErrInvalidPublicKeyLength(len(bz))
	}
	if _, err := new(edwards25519.Point).SetBytes(bz); err != nil {
		return nil, lib.ErrInvalidPublicKey(err)
	}
	return &ED25519PublicKey{PublicKey: bytes.Clone(bz)}, nil
}

// NewPublicKeyFromString() creates a public key from its hex string
func NewPublicKeyFromString(hexString string) (*ED25519PublicKey, lib.ErrorI) {
	bz, err := lib.StringToBytes(hexString)
	if err != nil {
		return nil, err
	}
	return NewPublicKeyFromBytes(bz)
}

// NewPublicKeyFromBech32() decodes an ed25519_pk string
func NewPublicKeyFromBech32(s string) (*ED25519PublicKey, lib.ErrorI) {
	bz, err := Bech32DecodeWithPrefix(PublicKeyBech32Prefix, s)
	if err != nil {
		return nil, err
	}
	return NewPublicKeyFromBytes(bz)
}

// Bytes() casts the public key to bytes
func (p *ED25519PublicKey) Bytes() []byte { return bytes.Clone(p.PublicKey) }

// Hash() returns the blake2b-224 digest of the key
func (p *ED25519PublicKey) Hash() []byte { return ShortHash(p.PublicKey) }

// String() returns the hex string representation of the public key
func (p *ED25519PublicKey) String() string { return hex.EncodeToString(p.PublicKey) }

// Bech32() returns the ed25519_pk text form
func (p *ED25519PublicKey) Bech32() string { return mustBech32(PublicKeyBech32Prefix, p.PublicKey) }

// VerifyBytes() validates a digital signature was signed by the paired private key given the message signed
func (p *ED25519PublicKey) VerifyBytes(msg []byte, sig []byte) bool {
	ok, err := Verify(p.PublicKey, msg, sig)
	return err == nil && ok
}

// Equals() compares two public key objects and returns if the two are equal
func (p *ED25519PublicKey) Equals(i PublicKeyI) bool {
	return i != nil && bytes.Equal(p.PublicKey, i.Bytes())
}

// MarshalJSON() implements the json.Marshaller interface for ED25519PublicKey
func (p *ED25519PublicKey) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }

// UnmarshalJSON() implements the json.Unmarshaler interface for ED25519PublicKey
func (p *ED25519PublicKey) UnmarshalJSON(b []byte) error {
	var hexString string
	if err := json.Unmarshal(b, &hexString); err != nil {
		return err
	}
	pk, err := NewPublicKeyFromString(hexString)
	if err != nil {
		return err
	}
	*p = *pk
	return nil
}

// Private Key Below

// ED25519PrivateKey is a normal (RFC 8032) private key, stored and serialized as its 32 byte seed
type ED25519PrivateKey struct{ ed25519.PrivateKey }

// ensure ED25519PrivateKey satisfies PrivateKeyI interface
var _ PrivateKeyI = &ED25519PrivateKey{}

// NewEd25519PrivateKey() generates a new normal private key from the system randomness
func NewEd25519PrivateKey() (*ED25519PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &ED25519PrivateKey{PrivateKey: priv}, nil
}

// NewPrivateKeyFromSeed() expands a 32 byte seed
func NewPrivateKeyFromSeed(seed []byte) (*ED25519PrivateKey, lib.ErrorI) {
	if len(seed) != SeedSize {
		return nil, lib.ErrInvalidLength("private key seed", SeedSize, len(seed))
	}
	return &ED25519PrivateKey{PrivateKey: ed25519.NewKeyFromSeed(seed)}, nil
}

// Bytes() returns the 32 byte seed
func (p *ED25519PrivateKey) Bytes() []byte { return bytes.Clone(p.PrivateKey.Seed()) }

// String() returns the hex string representation of the seed
func (p *ED25519PrivateKey) String() string { return hex.EncodeToString(p.PrivateKey.Seed()) }

// Bech32() returns the ed25519_sk text form
func (p *ED25519PrivateKey) Bech32() string {
	return mustBech32(PrivateKeyBech32Prefix, p.PrivateKey.Seed())
}

// Sign() returns the RFC 8032 signature of msg
func (p *ED25519PrivateKey) Sign(msg []byte) (s Signature) {
	copy(s[:], ed25519.Sign(p.PrivateKey, msg))
	return
}

// PublicKey() returns the public key that pairs with this private key object
func (p *ED25519PrivateKey) PublicKey() PublicKeyI {
	return &ED25519PublicKey{PublicKey: p.PrivateKey.Public().(ed25519.PublicKey)}
}

// Equals() compares two private key objects and returns true if they are equal
func (p *ED25519PrivateKey) Equals(key PrivateKeyI) bool {
	return key != nil && bytes.Equal(p.Bytes(), key.Bytes())
}

// MarshalJSON() implements the json.Marshaller interface for ED25519PrivateKey
func (p *ED25519PrivateKey) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }

// ED25519ExtendedPrivateKey is an expanded secret (kL || kR) without a chain code
// kL is the signing scalar and kR is the nonce prefix
type ED25519ExtendedPrivateKey struct {
	key [ExtendedSecretKeySize]byte
}

var _ PrivateKeyI = &ED25519ExtendedPrivateKey{}

// NewExtendedSecretKeyFromBytes() validates a 64 byte kL || kR
func NewExtendedSecretKeyFromBytes(bz []byte) (*ED25519ExtendedPrivateKey, lib.ErrorI) {
	if len(bz) != ExtendedSecretKeySize {
		return nil, lib.ErrInvalidLength("extended secret key", ExtendedSecretKeySize, len(bz))
	}
	if err := checkScalar(bz[:32]); err != nil {
		return nil, err
	}
	k := new(ED25519ExtendedPrivateKey)
	copy(k.key[:], bz)
	return k, nil
}

// NewPrivateKeyFromBytes() accepts either a 32 byte seed or a 64 byte extended secret
func NewPrivateKeyFromBytes(bz []byte) (PrivateKeyI, lib.ErrorI) {
	switch len(bz) {
	case SeedSize:
		return NewPrivateKeyFromSeed(bz)
	case ExtendedSecretKeySize:
		return NewExtendedSecretKeyFromBytes(bz)
	default:
		return nil, lib.ErrInvalidLength("private key", SeedSize, len(bz))
	}
}

// NewPrivateKeyFromString() decodes a hex seed or extended secret
func NewPrivateKeyFromString(hexString string) (PrivateKeyI, lib.ErrorI) {
	bz, err := lib.StringToBytes(hexString)
	if err != nil {
		return nil, err
	}
	return NewPrivateKeyFromBytes(bz)
}

// NewPrivateKeyFromBech32() decodes ed25519_sk or ed25519e_sk text
func NewPrivateKeyFromBech32(s string) (PrivateKeyI, lib.ErrorI) {
	hrp, bz, err := Bech32Decode(s)
	if err != nil {
		return nil, err
	}
	switch hrp {
	case PrivateKeyBech32Prefix:
		return NewPrivateKeyFromSeed(bz)
	case ExtendedBech32Prefix:
		return NewExtendedSecretKeyFromBytes(bz)
	default:
		return nil, lib.ErrWrongBech32Prefix(PrivateKeyBech32Prefix, hrp)
	}
}

func (p *ED25519ExtendedPrivateKey) Bytes() []byte  { return bytes.Clone(p.key[:]) }
func (p *ED25519ExtendedPrivateKey) String() string { return hex.EncodeToString(p.key[:]) }

// Bech32() returns the ed25519e_sk text form
func (p *ED25519ExtendedPrivateKey) Bech32() string { return mustBech32(ExtendedBech32Prefix, p.key[:]) }

// PublicKey() returns (kL mod ℓ)·B
func (p *ED25519ExtendedPrivateKey) PublicKey() PublicKeyI {
	pub := scalarMultBase(p.key[:32])
	return &ED25519PublicKey{PublicKey: pub[:]}
}

// Sign() signs with the expanded secret: the nonce comes from kR and the message only
func (p *ED25519ExtendedPrivateKey) Sign(msg []byte) Signature {
	pub := scalarMultBase(p.key[:32])
	return signExtended(&p.key, pub[:], msg)
}

func (p *ED25519ExtendedPrivateKey) Equals(key PrivateKeyI) bool {
	return key != nil && bytes.Equal(p.key[:], key.Bytes())
}

// MarshalJSON() implements the json.Marshaller interface for ED25519ExtendedPrivateKey
func (p *ED25519ExtendedPrivateKey) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }

// signExtended() is RFC 8032 signing with the hashing of the seed already done:
//
//	r = H(kR || M) mod ℓ, R = r·B, S = r + H(R || A || M)·kL mod ℓ
func signExtended(key *[ExtendedSecretKeySize]byte, pub, msg []byte) (sig Signature) {
	h := sha512.New()
	h.Write(key[32:])
	h.Write(msg)
	r := reduceScalar(h.Sum(nil))
	R := new(edwards25519.Point).ScalarBaseMult(r).Bytes()
	h.Reset()
	h.Write(R)
	h.Write(pub)
	h.Write(msg)
	k := reduceScalar(h.Sum(nil))
	S := edwards25519.NewScalar().MultiplyAdd(k, reduceScalar(key[:32]), r)
	copy(sig[:32], R)
	copy(sig[32:], S.Bytes())
	return
}

// checkScalar() rejects kL values that no derivation could have produced
func checkScalar(kL []byte) lib.ErrorI {
	if kL[0]&0b0000_0111 != 0 {
		return lib.ErrInvalidScalar("lowest 3 bits must be cleared")
	}
	if kL[31]&0b1000_0000 != 0 {
		return lib.ErrInvalidScalar("highest bit must be cleared")
	}
	return nil
}
