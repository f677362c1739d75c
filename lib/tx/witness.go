package tx

import (
	"bytes"
	"errors"

	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/address"
	"github.com/canopy-network/cardano/lib/crypto"
)

// VkeyWitness is a signature of the transaction hash by a shelley payment or stake key
type VkeyWitness struct {
	_         struct{} `cbor:",toarray"`
	Vkey      []byte   `json:"vkey"`
	Signature []byte   `json:"signature"`
}

// NewVkeyWitness() signs the transaction hash
func NewVkeyWitness(txHash Hash, sk crypto.PrivateKeyI) VkeyWitness {
	sig := sk.Sign(txHash[:])
	return VkeyWitness{Vkey: sk.PublicKey().Bytes(), Signature: sig.Bytes()}
}

// KeyHash() is the credential hash the witness satisfies
func (w VkeyWitness) KeyHash() []byte { return crypto.ShortHash(w.Vkey) }

// Verify() checks the signature over the transaction hash
func (w VkeyWitness) Verify(txHash Hash) (bool, lib.ErrorI) {
	return crypto.Verify(w.Vkey, txHash[:], w.Signature)
}

// BootstrapWitness authorizes spending from a byron address
// The verifier rebuilds the address root from the key, chain code and attributes
type BootstrapWitness struct {
	_          struct{} `cbor:",toarray"`
	Vkey       []byte   `json:"vkey"`
	Signature  []byte   `json:"signature"`
	ChainCode  []byte   `json:"chainCode"`
	Attributes []byte   `json:"attributes"`
}

// NewBootstrapWitness() signs the transaction hash with an extended key on behalf of a byron address
func NewBootstrapWitness(txHash Hash, xprv *crypto.ExtendedPrivateKey, addr address.Address) (*BootstrapWitness, lib.ErrorI) {
	byron, ok := addr.(*address.ByronAddress)
	if !ok || byron == nil {
		return nil, lib.ErrNotByronAddress()
	}
	sig := xprv.Sign(txHash[:])
	return &BootstrapWitness{
		Vkey:       xprv.PublicKey().Bytes(),
		Signature:  sig.Bytes(),
		ChainCode:  xprv.ChainCode(),
		Attributes: byron.AttributesBytes(),
	}, nil
}

// Verify() checks the signature over the transaction hash
func (w BootstrapWitness) Verify(txHash Hash) (bool, lib.ErrorI) {
	return crypto.Verify(w.Vkey, txHash[:], w.Signature)
}

// ExtendedPublicKey() rebuilds the signer's extended public key
func (w BootstrapWitness) ExtendedPublicKey() (*crypto.ExtendedPublicKey, lib.ErrorI) {
	if len(w.ChainCode) != crypto.ChainCodeSize {
		return nil, lib.ErrInvalidWitness(errors.New("chain code must be 32 bytes"))
	}
	return crypto.NewExtendedPublicKey(append(bytes.Clone(w.Vkey), w.ChainCode...))
}

// WitnessSet holds the witnesses of one transaction
type WitnessSet struct {
	VkeyWitnesses      []VkeyWitness      `cbor:"0,keyasint,omitempty" json:"vkeyWitnesses,omitempty"`
	BootstrapWitnesses []BootstrapWitness `cbor:"2,keyasint,omitempty" json:"bootstrapWitnesses,omitempty"`
}

// AddVkey() signs the hash and appends the witness
func (ws *WitnessSet) AddVkey(txHash Hash, sk crypto.PrivateKeyI) {
	ws.VkeyWitnesses = append(ws.VkeyWitnesses, NewVkeyWitness(txHash, sk))
}

// AddBootstrap() signs the hash and appends the witness
func (ws *WitnessSet) AddBootstrap(txHash Hash, xprv *crypto.ExtendedPrivateKey, addr address.Address) lib.ErrorI {
	w, err := NewBootstrapWitness(txHash, xprv, addr)
	if err != nil {
		return err
	}
	ws.BootstrapWitnesses = append(ws.BootstrapWitnesses, *w)
	return nil
}

// Len() is the total number of witnesses
func (ws *WitnessSet) Len() int { return len(ws.VkeyWitnesses) + len(ws.BootstrapWitnesses) }

// Verify() batch verifies every witness against the transaction hash
// Bad witnesses are reported by index, vkey witnesses first then bootstrap witnesses
func (ws *WitnessSet) Verify(txHash Hash, cache *crypto.SignatureCache) lib.ErrorI {
	b := crypto.NewBatchVerifier(cache)
	for _, w := range ws.VkeyWitnesses {
		b.Add(w.Vkey, txHash[:], w.Signature)
	}
	for _, w := range ws.BootstrapWitnesses {
		b.Add(w.Vkey, txHash[:], w.Signature)
	}
	return b.VerifyAll()
}

// Signers() returns the key hashes of the vkey witnesses
func (ws *WitnessSet) Signers() (hashes [][]byte) {
	for _, w := range ws.VkeyWitnesses {
		hashes = append(hashes, w.KeyHash())
	}
	return
}

// Bytes() returns the cbor encoding of the witness set
func (ws *WitnessSet) Bytes() ([]byte, lib.ErrorI) { return lib.Marshal(ws) }

// NewWitnessSetFromBytes() decodes a cbor witness set
func NewWitnessSetFromBytes(bz []byte) (*WitnessSet, lib.ErrorI) {
	ws := new(WitnessSet)
	if err := lib.Unmarshal(bz, ws); err != nil {
		return nil, lib.ErrInvalidWitness(err)
	}
	return ws, nil
}
