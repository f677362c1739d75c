package boundary

import (
	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/address"
	"github.com/canopy-network/cardano/lib/asset"
	"github.com/canopy-network/cardano/lib/crypto"
)

/*
	Entry points for foreign callers. Keys and multi assets live in the arena and are addressed by
	handle; addresses, signatures and encodings cross as byte buffers. Every entry point runs under
	guard so a fault surfaces as an error instead of unwinding into the caller.
*/

// API is the set of entry points over one arena
type API struct {
	arena   *Arena
	cache   *crypto.SignatureCache
	metrics *lib.Metrics
	log     lib.LoggerI
}

// NewAPI() creates the entry points; cache and metrics may be nil
func NewAPI(arena *Arena, cache *crypto.SignatureCache, metrics *lib.Metrics, log lib.LoggerI) *API {
	if log == nil {
		log = lib.NewNullLogger()
	}
	return &API{arena: arena, cache: cache, metrics: metrics, log: log}
}

// Arena() exposes the handle arena, e.g. to free handles
func (p *API) Arena() *Arena { return p.arena }

// KEYS

// MasterKeyFromEntropy() stores an icarus root key
func (p *API) MasterKeyFromEntropy(entropy, passphrase []byte) (Handle, lib.ErrorI) {
	return call(p, "MasterKeyFromEntropy", func() (Handle, lib.ErrorI) {
		root, err := crypto.MasterKeyFromEntropy(entropy, passphrase)
		if err != nil {
			return 0, err
		}
		return p.arena.Put(root), nil
	})
}

// PrivateKeyFromBytes() stores a 96 byte extended private key
func (p *API) PrivateKeyFromBytes(bz []byte) (Handle, lib.ErrorI) {
	return call(p, "PrivateKeyFromBytes", func() (Handle, lib.ErrorI) {
		key, err := crypto.NewExtendedPrivateKey(bz)
		if err != nil {
			return 0, err
		}
		return p.arena.Put(key), nil
	})
}

// PublicKeyFromBytes() stores a 64 byte extended public key
func (p *API) PublicKeyFromBytes(bz []byte) (Handle, lib.ErrorI) {
	return call(p, "PublicKeyFromBytes", func() (Handle, lib.ErrorI) {
		key, err := crypto.NewExtendedPublicKey(bz)
		if err != nil {
			return 0, err
		}
		return p.arena.Put(key), nil
	})
}

// DerivePrivate() derives a child of an extended private key
func (p *API) DerivePrivate(h Handle, index uint32) (Handle, lib.ErrorI) {
	return call(p, "DerivePrivate", func() (Handle, lib.ErrorI) {
		key, err := Get[*crypto.ExtendedPrivateKey](p.arena, h)
		if err != nil {
			return 0, err
		}
		return p.arena.Put(key.Derive(index)), nil
	})
}

// DerivePublic() soft derives a child of an extended public key
func (p *API) DerivePublic(h Handle, index uint32) (Handle, lib.ErrorI) {
	return call(p, "DerivePublic", func() (Handle, lib.ErrorI) {
		key, err := Get[*crypto.ExtendedPublicKey](p.arena, h)
		if err != nil {
			return 0, err
		}
		child, err := key.Derive(index)
		if err != nil {
			return 0, err
		}
		return p.arena.Put(child), nil
	})
}

// ToPublic() stores the extended public key of an extended private key
func (p *API) ToPublic(h Handle) (Handle, lib.ErrorI) {
	return call(p, "ToPublic", func() (Handle, lib.ErrorI) {
		key, err := Get[*crypto.ExtendedPrivateKey](p.arena, h)
		if err != nil {
			return 0, err
		}
		return p.arena.Put(key.Public()), nil
	})
}

// KeyBytes() serializes either kind of extended key
func (p *API) KeyBytes(h Handle) ([]byte, lib.ErrorI) {
	return call(p, "KeyBytes", func() ([]byte, lib.ErrorI) {
		if key, err := Get[*crypto.ExtendedPrivateKey](p.arena, h); err == nil {
			return key.Bytes(), nil
		}
		key, err := Get[*crypto.ExtendedPublicKey](p.arena, h)
		if err != nil {
			return nil, err
		}
		return key.Bytes(), nil
	})
}

// SIGNATURES

// Sign() signs with an extended private key
func (p *API) Sign(h Handle, msg []byte) ([]byte, lib.ErrorI) {
	return call(p, "Sign", func() ([]byte, lib.ErrorI) {
		key, err := Get[*crypto.ExtendedPrivateKey](p.arena, h)
		if err != nil {
			return nil, err
		}
		sig := key.Sign(msg)
		return sig.Bytes(), nil
	})
}

// Verify() checks a single signature
func (p *API) Verify(publicKey, msg, sig []byte) (bool, lib.ErrorI) {
	return call(p, "Verify", func() (bool, lib.ErrorI) { return crypto.Verify(publicKey, msg, sig) })
}

// VerifyBatch() checks many signatures and returns the indices of the bad ones
func (p *API) VerifyBatch(publicKeys, msgs, sigs [][]byte) ([]int, lib.ErrorI) {
	return call(p, "VerifyBatch", func() ([]int, lib.ErrorI) {
		if len(publicKeys) != len(msgs) || len(msgs) != len(sigs) {
			return nil, lib.ErrInvalidArgument()
		}
		b := crypto.NewBatchVerifier(p.cache)
		for i := range publicKeys {
			b.Add(publicKeys[i], msgs[i], sigs[i])
		}
		return b.Verify(), nil
	})
}

// ADDRESSES

// BaseAddress() builds a key/key base address from two extended public key handles
func (p *API) BaseAddress(payment, stake Handle, networkID uint8) ([]byte, lib.ErrorI) {
	return call(p, "BaseAddress", func() ([]byte, lib.ErrorI) {
		pay, err := Get[*crypto.ExtendedPublicKey](p.arena, payment)
		if err != nil {
			return nil, err
		}
		stk, err := Get[*crypto.ExtendedPublicKey](p.arena, stake)
		if err != nil {
			return nil, err
		}
		addr, err := address.NewBaseAddress(networkID, address.KeyHashCredential(pay.PublicKey()), address.KeyHashCredential(stk.PublicKey()))
		if err != nil {
			return nil, err
		}
		return addr.Bytes(), nil
	})
}

// AddressToString() decodes wire bytes and renders bech32 or base58
func (p *API) AddressToString(bz []byte) (string, lib.ErrorI) {
	return call(p, "AddressToString", func() (string, lib.ErrorI) {
		addr, err := address.Decode(bz)
		if err != nil {
			return "", err
		}
		return addr.String(), nil
	})
}

// AddressFromString() parses bech32 or base58 into wire bytes
func (p *API) AddressFromString(s string) ([]byte, lib.ErrorI) {
	return call(p, "AddressFromString", func() ([]byte, lib.ErrorI) {
		addr, err := address.FromString(s)
		if err != nil {
			return nil, err
		}
		return addr.Bytes(), nil
	})
}

// ASSETS

// NewMultiAsset() stores an empty multi asset
func (p *API) NewMultiAsset() (Handle, lib.ErrorI) {
	return call(p, "NewMultiAsset", func() (Handle, lib.ErrorI) { return p.arena.Put(asset.NewMultiAsset()), nil })
}

// MultiAssetSet() sets a quantity; zero removes the entry
func (p *API) MultiAssetSet(h Handle, policy, name []byte, quantity uint64) lib.ErrorI {
	_, err := call(p, "MultiAssetSet", func() (struct{}, lib.ErrorI) {
		ma, err := Get[*asset.MultiAsset](p.arena, h)
		if err != nil {
			return struct{}{}, err
		}
		pid, err := asset.NewPolicyID(policy)
		if err != nil {
			return struct{}{}, err
		}
		n, err := asset.NewAssetName(name)
		if err != nil {
			return struct{}{}, err
		}
		ma.Set(pid, n, quantity)
		return struct{}{}, nil
	})
	return err
}

// MultiAssetGet() returns a quantity, 0 when absent
func (p *API) MultiAssetGet(h Handle, policy, name []byte) (uint64, lib.ErrorI) {
	return call(p, "MultiAssetGet", func() (uint64, lib.ErrorI) {
		ma, err := Get[*asset.MultiAsset](p.arena, h)
		if err != nil {
			return 0, err
		}
		pid, err := asset.NewPolicyID(policy)
		if err != nil {
			return 0, err
		}
		n, err := asset.NewAssetName(name)
		if err != nil {
			return 0, err
		}
		return ma.Get(pid, n), nil
	})
}

// MultiAssetAdd() stores a + b
func (p *API) MultiAssetAdd(a, b Handle) (Handle, lib.ErrorI) {
	return p.combine("MultiAssetAdd", a, b, asset.Add)
}

// MultiAssetSub() stores a - b
func (p *API) MultiAssetSub(a, b Handle) (Handle, lib.ErrorI) {
	return p.combine("MultiAssetSub", a, b, asset.Sub)
}

// MultiAssetBytes() returns the canonical encoding
func (p *API) MultiAssetBytes(h Handle) ([]byte, lib.ErrorI) {
	return call(p, "MultiAssetBytes", func() ([]byte, lib.ErrorI) {
		ma, err := Get[*asset.MultiAsset](p.arena, h)
		if err != nil {
			return nil, err
		}
		return ma.CanonicalBytes()
	})
}

// MultiAssetFromBytes() parses a canonical encoding
func (p *API) MultiAssetFromBytes(bz []byte) (Handle, lib.ErrorI) {
	return call(p, "MultiAssetFromBytes", func() (Handle, lib.ErrorI) {
		ma, err := asset.FromCanonicalBytes(bz)
		if err != nil {
			return 0, err
		}
		return p.arena.Put(ma), nil
	})
}

func (p *API) combine(name string, a, b Handle, op func(a, b *asset.MultiAsset) (*asset.MultiAsset, lib.ErrorI)) (Handle, lib.ErrorI) {
	return call(p, name, func() (Handle, lib.ErrorI) {
		x, err := Get[*asset.MultiAsset](p.arena, a)
		if err != nil {
			return 0, err
		}
		y, err := Get[*asset.MultiAsset](p.arena, b)
		if err != nil {
			return 0, err
		}
		out, err := op(x, y)
		if err != nil {
			return 0, err
		}
		return p.arena.Put(out), nil
	})
}

// NETWORK AND FEES

// NetworkInfo() resolves a built-in network name
func (p *API) NetworkInfo(name string) (networkID uint8, protocolMagic uint32, err lib.ErrorI) {
	info, err := call(p, "NetworkInfo", func() (lib.NetworkInfo, lib.ErrorI) { return lib.NetworkInfoByName(name) })
	return info.NetworkID, info.ProtocolMagic, err
}

// Fee() evaluates the linear fee for a transaction size
func (p *API) Fee(constant, coefficient, size uint64) (uint64, lib.ErrorI) {
	return call(p, "Fee", func() (uint64, lib.ErrorI) { return lib.NewLinearFee(constant, coefficient).Fee(size) })
}
