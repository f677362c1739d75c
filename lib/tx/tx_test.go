package tx

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/address"
	"github.com/canopy-network/cardano/lib/asset"
	"github.com/canopy-network/cardano/lib/crypto"
	"github.com/stretchr/testify/require"
)

func newRoot(t *testing.T) *crypto.ExtendedPrivateKey {
	entropy := make([]byte, 16)
	_, err := rand.Read(entropy)
	require.NoError(t, err)
	root, e := crypto.MasterKeyFromEntropy(entropy, nil)
	require.NoError(t, e)
	return root
}

func newBaseAddress(t *testing.T, root *crypto.ExtendedPrivateKey) *address.BaseAddress {
	account := root.DerivePath(crypto.AccountPath(0))
	payment := account.Derive(crypto.RoleExternal).Derive(0)
	stake := account.Derive(crypto.RoleStaking).Derive(0)
	addr, err := address.NewBaseAddress(1,
		address.KeyHashCredential(payment.PublicKey()),
		address.KeyHashCredential(stake.PublicKey()))
	require.NoError(t, err)
	return addr
}

func TestTxHash(t *testing.T) {
	h := TxHash([]byte("body"))
	require.Equal(t, crypto.Hash([]byte("body")), h.Bytes())
	got, err := NewHashFromString(h.String())
	require.NoError(t, err)
	require.Equal(t, h, got)
	_, err = NewHash(make([]byte, 31))
	require.Equal(t, lib.CodeInvalidTxHash, err.Code())
	// cbor is a 32 byte string
	bz, err := lib.Marshal(h)
	require.NoError(t, err)
	require.Equal(t, "5820", hex.EncodeToString(bz[:2]))
	var decoded Hash
	require.NoError(t, lib.Unmarshal(bz, &decoded))
	require.Equal(t, h, decoded)
}

func TestOutputRoundTrip(t *testing.T) {
	root := newRoot(t)
	byron, err := address.NewIcarusAddress(root.DerivePath(crypto.DerivationPath{crypto.Harden(44), crypto.Harden(1815), crypto.Harden(0), 0, 0}).Public(), lib.Mainnet())
	require.NoError(t, err)
	gold := asset.NewMultiAsset()
	var policy asset.PolicyID
	policy[27] = 1
	name, err := asset.NewAssetNameFromString("Gold")
	require.NoError(t, err)
	gold.Set(policy, name, 5)
	tests := []struct {
		name   string
		addr   address.Address
		amount asset.Value
	}{
		{name: "base coin only", addr: newBaseAddress(t, root), amount: asset.NewValue(1_500_000)},
		{name: "base with assets", addr: newBaseAddress(t, root), amount: asset.NewValueWithAssets(2_000_000, gold)},
		{name: "byron", addr: byron, amount: asset.NewValue(1)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, err := NewOutput(test.addr, test.amount)
			require.NoError(t, err)
			bz, err := out.Bytes()
			require.NoError(t, err)
			require.Equal(t, byte(0x82), bz[0])
			got, err := NewOutputFromBytes(bz)
			require.NoError(t, err)
			require.True(t, test.addr.Equals(got.Address))
			require.True(t, test.amount.Equals(got.Amount))
			// json
			j, err := lib.MarshalJSON(out)
			require.NoError(t, err)
			fromJSON := new(Output)
			require.NoError(t, lib.UnmarshalJSON(j, fromJSON))
			require.True(t, test.addr.Equals(fromJSON.Address))
			require.True(t, test.amount.Equals(fromJSON.Amount))
		})
	}
	_, err = NewOutput(nil, asset.NewValue(1))
	require.Equal(t, lib.CodeInvalidOutput, err.Code())
	// a bad address inside the output is an address error
	_, err = NewOutputFromBytes([]byte{0x82, 0x41, 0x90, 0x01})
	require.Error(t, err)
}

func TestVkeyWitness(t *testing.T) {
	root := newRoot(t)
	key := root.DerivePath(crypto.AccountPath(0).Child(0).Child(0))
	h := TxHash([]byte("tx body"))
	w := NewVkeyWitness(h, key.SigningKey())
	require.Equal(t, key.PublicKey().Bytes(), w.Vkey)
	require.Equal(t, key.PublicKey().Hash(), w.KeyHash())
	ok, err := w.Verify(h)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = w.Verify(TxHash([]byte("other body")))
	require.NoError(t, err)
	require.False(t, ok)
	// a normal ed25519 key signs the same way
	sk, e := crypto.NewEd25519PrivateKey()
	require.NoError(t, e)
	ok, err = NewVkeyWitness(h, sk).Verify(h)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestBootstrapWitness(t *testing.T) {
	root := newRoot(t)
	key := root.DerivePath(crypto.DerivationPath{crypto.Harden(44), crypto.Harden(1815), crypto.Harden(0), 0, 3})
	for _, network := range []lib.NetworkInfo{lib.Mainnet(), lib.Preprod()} {
		byron, err := address.NewIcarusAddress(key.Public(), network)
		require.NoError(t, err)
		h := TxHash([]byte("tx body"))
		w, err := NewBootstrapWitness(h, key, byron)
		require.NoError(t, err)
		ok, err := w.Verify(h)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, byron.AttributesBytes(), w.Attributes)
		// the witness carries enough to rebuild the address
		xpub, err := w.ExtendedPublicKey()
		require.NoError(t, err)
		rebuilt, err := address.NewIcarusAddress(xpub, network)
		require.NoError(t, err)
		require.True(t, byron.Equals(rebuilt))
	}
	_, err := NewBootstrapWitness(TxHash(nil), key, newBaseAddress(t, root))
	require.Equal(t, lib.CodeNotByronAddress, err.Code())
}

func TestWitnessSetVerify(t *testing.T) {
	root := newRoot(t)
	h := TxHash([]byte("tx body"))
	ws := new(WitnessSet)
	for i := uint32(0); i < 5; i++ {
		ws.AddVkey(h, root.DerivePath(crypto.AccountPath(0).Child(0).Child(i)).SigningKey())
	}
	key := root.DerivePath(crypto.DerivationPath{crypto.Harden(44), crypto.Harden(1815), crypto.Harden(0), 0, 0})
	byron, err := address.NewIcarusAddress(key.Public(), lib.Mainnet())
	require.NoError(t, err)
	require.NoError(t, ws.AddBootstrap(h, key, byron))
	require.Equal(t, 6, ws.Len())
	require.Len(t, ws.Signers(), 5)
	cache, e := crypto.NewSignatureCache(100)
	require.NoError(t, e)
	defer cache.Close()
	require.NoError(t, ws.Verify(h, cache))
	// cbor round trip keeps the witnesses verifiable
	bz, err := ws.Bytes()
	require.NoError(t, err)
	got, err := NewWitnessSetFromBytes(bz)
	require.NoError(t, err)
	require.Equal(t, ws, got)
	require.NoError(t, got.Verify(h, nil))
	// corrupt one vkey and the bootstrap witness
	got.VkeyWitnesses[2].Signature[0] ^= 0x01
	got.BootstrapWitnesses[0].Signature[10] ^= 0x01
	err = got.Verify(h, nil)
	require.Error(t, err)
	require.Equal(t, lib.CodeBadWitnessSignature, err.Code())
	require.Equal(t, lib.ErrBadWitnessSignature([]int{2, 5}).Error(), err.Error())
	// wrong hash fails everything
	require.Error(t, ws.Verify(TxHash([]byte("other")), nil))
}
