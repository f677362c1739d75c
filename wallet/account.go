package wallet

import (
	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/address"
	"github.com/canopy-network/cardano/lib/crypto"
)

// Account is a CIP-1852 account: the extended public key at m/1852'/1815'/index'
// Everything below the account level is soft derived, so an account never holds private material
type Account struct {
	Index     uint32                    `json:"index"`
	PublicKey *crypto.ExtendedPublicKey `json:"publicKey"`
}

// ExtendedAddress is an address paired with the full path of its payment key
type ExtendedAddress struct {
	Address address.Address       `json:"address"`
	Path    crypto.DerivationPath `json:"path"`
}

// NewAccount() wraps an account level extended public key, e.g. one exported from a hardware wallet
func NewAccount(index uint32, xpub *crypto.ExtendedPublicKey) *Account {
	return &Account{Index: index, PublicKey: xpub}
}

// Path() is the hardened account path
func (a *Account) Path() crypto.DerivationPath { return crypto.AccountPath(a.Index) }

// KeyPath() is the full path of an address key below the account
func (a *Account) KeyPath(role, index uint32) crypto.DerivationPath {
	return a.Path().Child(role).Child(index)
}

// Derive() returns the payment key at role/index and its full path
func (a *Account) Derive(index uint32, change bool) (*crypto.ExtendedPublicKey, crypto.DerivationPath, lib.ErrorI) {
	role := roleOf(change)
	key, err := a.PublicKey.DerivePath(crypto.DerivationPath{role, index})
	if err != nil {
		return nil, nil, err
	}
	return key, a.KeyPath(role, index), nil
}

// StakeKey() is the first staking key (role 2, index 0)
func (a *Account) StakeKey() (*crypto.ExtendedPublicKey, lib.ErrorI) {
	return a.PublicKey.DerivePath(crypto.DerivationPath{crypto.RoleStaking, 0})
}

// BaseAddress() pairs the payment key with the account stake key
func (a *Account) BaseAddress(index uint32, change bool, networkID uint8) (*ExtendedAddress, lib.ErrorI) {
	payment, path, err := a.Derive(index, change)
	if err != nil {
		return nil, err
	}
	stake, err := a.StakeKey()
	if err != nil {
		return nil, err
	}
	addr, err := address.NewBaseAddress(networkID,
		address.KeyHashCredential(payment.PublicKey()),
		address.KeyHashCredential(stake.PublicKey()))
	if err != nil {
		return nil, err
	}
	return &ExtendedAddress{Address: addr, Path: path}, nil
}

// EnterpriseAddress() is the payment key without delegation rights
func (a *Account) EnterpriseAddress(index uint32, change bool, networkID uint8) (*ExtendedAddress, lib.ErrorI) {
	payment, path, err := a.Derive(index, change)
	if err != nil {
		return nil, err
	}
	addr, err := address.NewEnterpriseAddress(networkID, address.KeyHashCredential(payment.PublicKey()))
	if err != nil {
		return nil, err
	}
	return &ExtendedAddress{Address: addr, Path: path}, nil
}

// RewardAddress() is the stake address of the account
func (a *Account) RewardAddress(networkID uint8) (*ExtendedAddress, lib.ErrorI) {
	stake, err := a.StakeKey()
	if err != nil {
		return nil, err
	}
	addr, err := address.NewRewardAddress(networkID, address.KeyHashCredential(stake.PublicKey()))
	if err != nil {
		return nil, err
	}
	return &ExtendedAddress{Address: addr, Path: a.KeyPath(crypto.RoleStaking, 0)}, nil
}

func roleOf(change bool) uint32 {
	if change {
		return crypto.RoleInternal
	}
	return crypto.RoleExternal
}
