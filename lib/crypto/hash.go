package crypto

import (
	"encoding/hex"
	"hash"

	"golang.org/x/crypto/blake2b"
)

const (
	HashSize      = blake2b.Size256 // transaction and metadata hashes
	ShortHashSize = 28              // key and script hashes
)

/*
	Two blake2b widths are used on chain: 256 bits to identify transactions and 224 bits to
	identify keys, scripts and policies. Byron address roots additionally pass through sha3.
*/

// Hasher() returns a new 256 bit hasher
func Hasher() hash.Hash {
	h, _ := blake2b.New256(nil)
	return h
}

// Hash() executes blake2b-256 on input bytes
func Hash(msg []byte) []byte {
	h := blake2b.Sum256(msg)
	return h[:]
}

// ShortHash() executes blake2b-224 on input bytes
func ShortHash(msg []byte) []byte {
	// blake2b.New only errors on an invalid size or key
	h, _ := blake2b.New(ShortHashSize, nil)
	h.Write(msg)
	return h.Sum(nil)
}

// ShortHashString() returns the hex version of a short hash
func ShortHashString(msg []byte) string { return hex.EncodeToString(ShortHash(msg)) }

// HashString() returns the hex version of a hash
func HashString(msg []byte) string { return hex.EncodeToString(Hash(msg)) }
