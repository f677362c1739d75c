package crypto

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/canopy-network/cardano/lib"
)

// Sign() produces a deterministic signature of msg: RFC 8032 for seed keys, the expanded scheme for extended keys
func Sign(sk PrivateKeyI, msg []byte) Signature { return sk.Sign(msg) }

// PublicKeyFrom() returns the verification key of any private key kind
func PublicKeyFrom(sk PrivateKeyI) PublicKeyI { return sk.PublicKey() }

// PrivateKeyToFile() writes a private key to a file located at filepath
func PrivateKeyToFile(key PrivateKeyI, filepath string) lib.ErrorI {
	bz, err := json.MarshalIndent(key, "", "  ")
	if err != nil {
		return lib.ErrJSONMarshal(err)
	}
	if err = os.WriteFile(filepath, bz, 0600); err != nil {
		return lib.ErrWriteFile(err)
	}
	return nil
}

// NewPrivateKeyFromFile() reads a private key file; hex and bech32 contents are both accepted
func NewPrivateKeyFromFile(filepath string) (PrivateKeyI, lib.ErrorI) {
	bz, err := os.ReadFile(filepath)
	if err != nil {
		return nil, lib.ErrReadFile(err)
	}
	var s string
	if err = json.Unmarshal(bz, &s); err != nil {
		// plain text file
		s = strings.TrimSpace(string(bz))
	}
	if strings.HasPrefix(s, PrivateKeyBech32Prefix) || strings.HasPrefix(s, ExtendedBech32Prefix) {
		return NewPrivateKeyFromBech32(s)
	}
	return NewPrivateKeyFromString(s)
}

// ExtendedPrivateKeyToFile() writes a root or account key as a json hex string
func ExtendedPrivateKeyToFile(key *ExtendedPrivateKey, filepath string) lib.ErrorI {
	bz, err := json.MarshalIndent(key, "", "  ")
	if err != nil {
		return lib.ErrJSONMarshal(err)
	}
	if err = os.WriteFile(filepath, bz, 0600); err != nil {
		return lib.ErrWriteFile(err)
	}
	return nil
}

// NewExtendedPrivateKeyFromFile() reads a key written by ExtendedPrivateKeyToFile
func NewExtendedPrivateKeyFromFile(filepath string) (*ExtendedPrivateKey, lib.ErrorI) {
	bz, err := os.ReadFile(filepath)
	if err != nil {
		return nil, lib.ErrReadFile(err)
	}
	key := new(ExtendedPrivateKey)
	if err = json.Unmarshal(bz, key); err != nil {
		return nil, lib.ErrJSONUnmarshal(err)
	}
	return key, nil
}
