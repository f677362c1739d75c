package address

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/crypto"
)

const HashSize = crypto.ShortHashSize

// CredentialKind tags what a credential hash commits to
type CredentialKind uint8

const (
	KeyHash    CredentialKind = 0
	ScriptHash CredentialKind = 1
)

func (k CredentialKind) String() string {
	switch k {
	case KeyHash:
		return "key"
	case ScriptHash:
		return "script"
	default:
		return fmt.Sprintf("CredentialKind(%d)", uint8(k))
	}
}

// ScriptLanguage is the one byte prefix hashed in front of a script
type ScriptLanguage byte

const (
	NativeScript ScriptLanguage = 0
	PlutusV1     ScriptLanguage = 1
	PlutusV2     ScriptLanguage = 2
	PlutusV3     ScriptLanguage = 3
)

// Credential is either the hash of a verification key or the hash of a script
type Credential struct {
	Kind CredentialKind
	Hash [HashSize]byte
}

// cbor form: [kind, hash]
type credentialCBOR struct {
	_    struct{} `cbor:",toarray"`
	Kind uint8
	Hash []byte
}

// KeyHashCredential() commits to a verification key: blake2b-224(pub)
func KeyHashCredential(pub crypto.PublicKeyI) (c Credential) {
	c.Kind = KeyHash
	copy(c.Hash[:], pub.Hash())
	return
}

// NewKeyHashCredential() wraps an existing 28 byte key hash
func NewKeyHashCredential(hash []byte) (Credential, lib.ErrorI) {
	return newCredential(KeyHash, hash)
}

// ScriptHashCredential() wraps an existing 28 byte script hash
func ScriptHashCredential(hash []byte) (Credential, lib.ErrorI) {
	return newCredential(ScriptHash, hash)
}

// ScriptHashOf() hashes a serialized script under its language tag: blake2b-224(tag || script)
func ScriptHashOf(lang ScriptLanguage, script []byte) Credential {
	bz := make([]byte, 0, len(script)+1)
	bz = append(bz, byte(lang))
	bz = append(bz, script...)
	c := Credential{Kind: ScriptHash}
	copy(c.Hash[:], crypto.ShortHash(bz))
	return c
}

func newCredential(kind CredentialKind, hash []byte) (c Credential, err lib.ErrorI) {
	if len(hash) != HashSize {
		return c, lib.ErrInvalidHashLength(len(hash))
	}
	c.Kind = kind
	copy(c.Hash[:], hash)
	return
}

func (c Credential) IsScript() bool           { return c.Kind == ScriptHash }
func (c Credential) Bytes() []byte            { return append([]byte(nil), c.Hash[:]...) }
func (c Credential) String() string           { return c.Kind.String() + ":" + hex.EncodeToString(c.Hash[:]) }
func (c Credential) Equals(o Credential) bool { return c == o }

// MarshalCBOR() encodes the credential as [kind, hash]
func (c Credential) MarshalCBOR() ([]byte, error) {
	bz, err := lib.Marshal(credentialCBOR{Kind: uint8(c.Kind), Hash: c.Hash[:]})
	if err != nil {
		return nil, err
	}
	return bz, nil
}

// UnmarshalCBOR() decodes [kind, hash]
func (c *Credential) UnmarshalCBOR(bz []byte) error {
	v := new(credentialCBOR)
	if err := lib.Unmarshal(bz, v); err != nil {
		return err
	}
	if v.Kind > uint8(ScriptHash) {
		return lib.ErrInvalidCredential()
	}
	cred, err := newCredential(CredentialKind(v.Kind), v.Hash)
	if err != nil {
		return err
	}
	*c = cred
	return nil
}

type credentialJSON struct {
	Kind string       `json:"kind"`
	Hash lib.HexBytes `json:"hash"`
}

// MarshalJSON() implements the json.Marshaller interface for Credential
func (c Credential) MarshalJSON() ([]byte, error) {
	return json.Marshal(credentialJSON{Kind: c.Kind.String(), Hash: c.Hash[:]})
}

// UnmarshalJSON() implements the json.Unmarshaler interface for Credential
func (c *Credential) UnmarshalJSON(bz []byte) error {
	j := new(credentialJSON)
	if err := json.Unmarshal(bz, j); err != nil {
		return err
	}
	var kind CredentialKind
	switch j.Kind {
	case KeyHash.String():
		kind = KeyHash
	case ScriptHash.String():
		kind = ScriptHash
	default:
		return lib.ErrInvalidCredential()
	}
	cred, err := newCredential(kind, j.Hash)
	if err != nil {
		return err
	}
	*c = cred
	return nil
}
