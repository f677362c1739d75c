package crypto

import (
	"crypto/sha512"
	"errors"
	"strings"

	"github.com/canopy-network/cardano/lib"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

const (
	icarusIterations = 4096
	// entropy bounds for 12 to 24 word phrases
	minEntropySize = 16
	maxEntropySize = 32
)

// NewMnemonic() generates a new phrase with bits of entropy (128, 160, ..., 256)
func NewMnemonic(bits int) (string, lib.ErrorI) {
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", lib.ErrInvalidEntropy(bits / 8)
	}
	words, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", lib.ErrInvalidMnemonic(err)
	}
	return words, nil
}

// MasterKeyFromEntropy() stretches the entropy with the passphrase (Icarus scheme):
// PBKDF2-HMAC-SHA512(password = passphrase, salt = entropy, 4096 rounds, 96 bytes) then clamped
func MasterKeyFromEntropy(entropy, passphrase []byte) (*ExtendedPrivateKey, lib.ErrorI) {
	if n := len(entropy); n < minEntropySize || n > maxEntropySize || n%4 != 0 {
		return nil, lib.ErrInvalidEntropy(n)
	}
	return NewMasterKey(pbkdf2.Key(passphrase, entropy, icarusIterations, ExtendedPrivateKeySize, sha512.New))
}

// MasterKeyFromMnemonic() converts the phrase back to entropy and derives the root key
func MasterKeyFromMnemonic(words, passphrase string) (*ExtendedPrivateKey, lib.ErrorI) {
	entropy, err := EntropyFromMnemonic(words)
	if err != nil {
		return nil, err
	}
	return MasterKeyFromEntropy(entropy, []byte(norm.NFKD.String(passphrase)))
}

// EntropyFromMnemonic() validates the word list and checksum
func EntropyFromMnemonic(words string) ([]byte, lib.ErrorI) {
	normalized := strings.Join(strings.Fields(norm.NFKD.String(words)), " ")
	if normalized == "" {
		return nil, lib.ErrInvalidMnemonic(errors.New("empty mnemonic"))
	}
	entropy, err := bip39.EntropyFromMnemonic(normalized)
	if err != nil {
		return nil, lib.ErrInvalidMnemonic(err)
	}
	return entropy, nil
}
