package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/canopy-network/cardano/lib"
	"golang.org/x/crypto/argon2"
)

const (
	KeyStoreName = "keystore.json"
)

// Keystore represents a lightweight database of password encrypted root keys
// Entries are indexed by wallet id (hex of the root public key hash) and by nickname
type Keystore struct {
	ByID       map[string]*EncryptedPrivateKey `json:"byID"`
	ByNickname map[string]*EncryptedPrivateKey `json:"byNickname"`
}

// WalletID() identifies a root key without revealing its public key
func WalletID(root *ExtendedPublicKey) string { return hex.EncodeToString(root.Hash()) }

// NewKeystoreInMemory() creates a new in memory keystore
func NewKeystoreInMemory() *Keystore {
	return &Keystore{
		ByID:       make(map[string]*EncryptedPrivateKey),
		ByNickname: make(map[string]*EncryptedPrivateKey),
	}
}

// NewKeystoreFromFile() creates a new keystore object from a file
func NewKeystoreFromFile(dataDirPath string) (*Keystore, lib.ErrorI) {
	path := filepath.Join(dataDirPath, KeyStoreName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return NewKeystoreInMemory(), nil
	}
	ks := NewKeystoreInMemory()
	if err := lib.NewJSONFromFile(ks, dataDirPath, KeyStoreName); err != nil {
		return nil, err
	}
	return ks, nil
}

// Import() encrypts the root key with the password and stores it; returns the wallet id
func (ks *Keystore) Import(root *ExtendedPrivateKey, password, nickname string) (id string, err lib.ErrorI) {
	encrypted, err := EncryptPrivateKey(root, []byte(password))
	if err != nil {
		return
	}
	id = encrypted.ID
	encrypted.Nickname = nickname
	ks.ByID[id] = encrypted
	if nickname != "" {
		ks.ByNickname[nickname] = encrypted
	}
	return
}

// GetKey() decrypts the root key for a wallet id or nickname
func (ks *Keystore) GetKey(idOrNickname, password string) (*ExtendedPrivateKey, lib.ErrorI) {
	v, ok := ks.ByID[idOrNickname]
	if !ok {
		if v, ok = ks.ByNickname[idOrNickname]; !ok {
			return nil, lib.ErrKeyNotFound(idOrNickname)
		}
	}
	if password == "" {
		return nil, lib.ErrInvalidPassword(fmt.Errorf("empty password"))
	}
	return DecryptPrivateKey(v, []byte(password))
}

// GetPublic() returns the root public key without a password
func (ks *Keystore) GetPublic(idOrNickname string) (*ExtendedPublicKey, lib.ErrorI) {
	v, ok := ks.ByID[idOrNickname]
	if !ok {
		if v, ok = ks.ByNickname[idOrNickname]; !ok {
			return nil, lib.ErrKeyNotFound(idOrNickname)
		}
	}
	return NewExtendedPublicKeyFromString(v.PublicKey)
}

// List() returns the stored wallet ids in sorted order
func (ks *Keystore) List() (ids []string) {
	for id := range ks.ByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return
}

// DeleteKey() removes a wallet by id or nickname from both indices
func (ks *Keystore) DeleteKey(idOrNickname string) {
	v, ok := ks.ByID[idOrNickname]
	if !ok {
		if v, ok = ks.ByNickname[idOrNickname]; !ok {
			return
		}
	}
	delete(ks.ByID, v.ID)
	if v.Nickname != "" {
		delete(ks.ByNickname, v.Nickname)
	}
}

// SaveToFile() persists the keystore to a filepath
func (ks *Keystore) SaveToFile(dataDirPath string) lib.ErrorI {
	return lib.SaveJSONToFile(ks, dataDirPath, KeyStoreName)
}

// EncryptedPrivateKey represents an encrypted root key, including the root public key,
// salt used in key derivation, and the encrypted key itself
type EncryptedPrivateKey struct {
	ID        string `json:"id"`
	PublicKey string `json:"publicKey"`
	Salt      string `json:"salt"`
	Encrypted string `json:"encrypted"`
	Nickname  string `json:"nickname"`
}

// EncryptPrivateKey creates an encrypted private key by generating a random salt
// and deriving an encryption key with the KDF, and finally encrypting key using AES-GCM
func EncryptPrivateKey(root *ExtendedPrivateKey, password []byte) (*EncryptedPrivateKey, lib.ErrorI) {
	// generate random 16 bytes salt
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, lib.ErrInvalidPassword(err)
	}
	gcm, nonce, err := kdf(password, salt)
	if err != nil {
		return nil, lib.ErrInvalidPassword(err)
	}
	public := root.Public()
	return &EncryptedPrivateKey{
		ID:        WalletID(public),
		PublicKey: public.String(),
		Salt:      hex.EncodeToString(salt),
		Encrypted: hex.EncodeToString(gcm.Seal(nil, nonce, root.Bytes(), nil)),
	}, nil
}

// DecryptPrivateKey takes an EncryptedPrivateKey and decrypts it using the password
func DecryptPrivateKey(epk *EncryptedPrivateKey, password []byte) (*ExtendedPrivateKey, lib.ErrorI) {
	salt, err := hex.DecodeString(epk.Salt)
	if err != nil {
		return nil, lib.ErrStringToBytes(err)
	}
	encrypted, err := hex.DecodeString(epk.Encrypted)
	if err != nil {
		return nil, lib.ErrStringToBytes(err)
	}
	gcm, nonce, err := kdf(password, salt)
	if err != nil {
		return nil, lib.ErrInvalidPassword(err)
	}
	plainText, err := gcm.Open(nil, nonce, encrypted, nil)
	if err != nil {
		return nil, lib.ErrInvalidPassword(err)
	}
	return NewExtendedPrivateKey(plainText)
}

// kdf derives an AES-GCM encryption key and nonce from a password and salt using Argon2 key derivation
// The salt is fresh for every encryption so the derived nonce is never reused under a key
func kdf(password, salt []byte) (gcm cipher.AEAD, nonce []byte, err error) {
	key := argon2.Key(password, salt, 3, 32*1024, 4, 32)
	block, err := aes.NewCipher(key)
	if err != nil {
		return
	}
	if gcm, err = cipher.NewGCM(block); err != nil {
		return
	}
	return gcm, key[:12], nil
}
