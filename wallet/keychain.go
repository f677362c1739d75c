package wallet

import (
	"sort"
	"sync"

	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/crypto"
	"github.com/canopy-network/cardano/lib/tx"
)

// Keychain holds a root key and the accounts derived from it
type Keychain struct {
	root     *crypto.ExtendedPrivateKey
	accounts map[uint32]*Account
	mux      sync.RWMutex
	log      lib.LoggerI
}

// NewKeychain() restores the root key from a mnemonic and an optional passphrase
func NewKeychain(mnemonic, passphrase string, log lib.LoggerI) (*Keychain, lib.ErrorI) {
	root, err := crypto.MasterKeyFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	return NewKeychainFromRoot(root, log), nil
}

// NewKeychainFromKeystore() decrypts a root key held in the keystore
func NewKeychainFromKeystore(ks *crypto.Keystore, idOrNickname, password string, log lib.LoggerI) (*Keychain, lib.ErrorI) {
	root, err := ks.GetKey(idOrNickname, password)
	if err != nil {
		return nil, err
	}
	return NewKeychainFromRoot(root, log), nil
}

// NewKeychainFromRoot() wraps an existing root key
func NewKeychainFromRoot(root *crypto.ExtendedPrivateKey, log lib.LoggerI) *Keychain {
	if log == nil {
		log = lib.NewNullLogger()
	}
	return &Keychain{root: root, accounts: make(map[uint32]*Account), log: log}
}

// ID() is the wallet id of the root key
func (k *Keychain) ID() string { return crypto.WalletID(k.root.Public()) }

// AddAccount() derives m/1852'/1815'/index' and remembers the account
func (k *Keychain) AddAccount(index uint32) (*Account, lib.ErrorI) {
	if crypto.IsHardened(index) {
		return nil, lib.ErrInvalidDerivationPath(crypto.AccountPath(index).String())
	}
	k.mux.Lock()
	defer k.mux.Unlock()
	if a, ok := k.accounts[index]; ok {
		return a, nil
	}
	a := NewAccount(index, k.root.DerivePath(crypto.AccountPath(index)).Public())
	k.accounts[index] = a
	k.log.Debugf("Added account %d", index)
	return a, nil
}

// Account() returns a previously added account
func (k *Keychain) Account(index uint32) (*Account, lib.ErrorI) {
	k.mux.RLock()
	defer k.mux.RUnlock()
	a, ok := k.accounts[index]
	if !ok {
		return nil, lib.ErrAccountNotInCache(index)
	}
	return a, nil
}

// Accounts() returns the added accounts ordered by index
func (k *Keychain) Accounts() []*Account {
	k.mux.RLock()
	defer k.mux.RUnlock()
	out := make([]*Account, 0, len(k.accounts))
	for _, a := range k.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// SigningKey() derives the private key at a full path
func (k *Keychain) SigningKey(path crypto.DerivationPath) *crypto.ExtendedPrivateKey {
	return k.root.DerivePath(path)
}

// Sign() witnesses a transaction hash with the keys at each path
func (k *Keychain) Sign(txHash tx.Hash, paths ...crypto.DerivationPath) *tx.WitnessSet {
	ws := new(tx.WitnessSet)
	for _, path := range paths {
		ws.AddVkey(txHash, k.SigningKey(path).SigningKey())
	}
	return ws
}

// SignExtended() witnesses a transaction hash for the key paths of managed addresses
func (k *Keychain) SignExtended(txHash tx.Hash, addresses []ExtendedAddress) *tx.WitnessSet {
	paths := make([]crypto.DerivationPath, 0, len(addresses))
	for _, a := range addresses {
		paths = append(paths, a.Path)
	}
	return k.Sign(txHash, paths...)
}
