package crypto

import (
	"crypto/rand"
	"encoding/json"
	"testing"

	"github.com/canopy-network/cardano/lib"
	"github.com/stretchr/testify/require"
)

// randomRoot() returns a clamped root key from random material
func randomRoot(t *testing.T) *ExtendedPrivateKey {
	bz := make([]byte, ExtendedPrivateKeySize)
	_, err := rand.Read(bz)
	require.NoError(t, err)
	root, e := NewMasterKey(bz)
	require.NoError(t, e)
	return root
}

func TestNewMasterKeyClamps(t *testing.T) {
	bz := make([]byte, ExtendedPrivateKeySize)
	for i := range bz {
		bz[i] = 0xFF
	}
	root, err := NewMasterKey(bz)
	require.NoError(t, err)
	got := root.Bytes()
	require.Equal(t, byte(0xF8), got[0])
	require.Equal(t, byte(0x5F), got[31])
	// kR and chain code untouched
	require.Equal(t, bz[32:], got[32:])
	// clamped bytes are accepted by the strict parser
	parsed, err := NewExtendedPrivateKey(got)
	require.NoError(t, err)
	require.True(t, root.Equals(parsed))
	// unclamped bytes are not
	_, err = NewExtendedPrivateKey(bz)
	require.Equal(t, lib.CodeInvalidScalar, err.Code())
	_, err = NewMasterKey(bz[:64])
	require.Equal(t, lib.CodeInvalidLength, err.Code())
}

func TestSoftDerivationHomomorphism(t *testing.T) {
	for i := 0; i < 5; i++ {
		root := randomRoot(t)
		for _, index := range []uint32{0, 1, 2, 19, 1000, 1 << 20, HardenedOffset - 1} {
			private := root.Derive(index).Public()
			public, err := root.Public().Derive(index)
			require.NoError(t, err)
			require.True(t, private.Equals(public), "index %d", index)
		}
	}
}

func TestSoftDerivationDeepPath(t *testing.T) {
	root := randomRoot(t)
	account := root.DerivePath(AccountPath(0))
	path := DerivationPath{RoleExternal, 5}
	private := account.DerivePath(path).Public()
	public, err := account.Public().DerivePath(path)
	require.NoError(t, err)
	require.True(t, private.Equals(public))
	// the derived signing key pairs with the derived public key
	msg := []byte("deep")
	sig := account.DerivePath(path).Sign(msg)
	ok, err := Verify(public.PublicKey().Bytes(), msg, sig.Bytes())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestHardenedDerivation(t *testing.T) {
	root := randomRoot(t)
	tests := []struct {
		name  string
		index uint32
	}{
		{name: "first hardened", index: HardenedOffset},
		{name: "purpose", index: Harden(PurposeCIP1852)},
		{name: "last index", index: 1<<32 - 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := root.Public().Derive(test.index)
			require.Error(t, err)
			require.Equal(t, lib.CodeInvalidDerivation, err.Code())
			// private derivation works and differs from the soft child with the same low bits
			hard := root.Derive(test.index)
			soft := root.Derive(test.index - HardenedOffset)
			require.False(t, hard.Equals(soft))
			_, err = root.Public().DerivePath(DerivationPath{0, test.index})
			require.Equal(t, lib.CodeInvalidDerivation, err.Code())
		})
	}
}

func TestDerivationDeterministic(t *testing.T) {
	root := randomRoot(t)
	a, b := root.Derive(Harden(0)), root.Derive(Harden(0))
	require.True(t, a.Equals(b))
	require.False(t, a.Equals(root.Derive(Harden(1))))
	require.False(t, a.Equals(root))
	// children keep the scalar bit rules
	child := root.DerivePath(AccountPath(3)).Derive(0).Derive(0)
	bz := child.Bytes()
	require.Zero(t, bz[0]&0b111)
	_, err := NewExtendedPrivateKey(bz)
	require.NoError(t, err)
}

func TestExtendedKeyEncoding(t *testing.T) {
	root := randomRoot(t)
	public := root.Public()
	require.Len(t, root.Bytes(), ExtendedPrivateKeySize)
	require.Len(t, public.Bytes(), ExtendedPublicKeySize)
	require.Equal(t, root.ChainCode(), public.ChainCode())
	// hex
	gotPrivate, err := NewExtendedPrivateKeyFromString(root.String())
	require.NoError(t, err)
	require.True(t, root.Equals(gotPrivate))
	gotPublic, err := NewExtendedPublicKeyFromString(public.String())
	require.NoError(t, err)
	require.True(t, public.Equals(gotPublic))
	// bech32
	gotPrivate, err = NewExtendedPrivateKeyFromBech32(root.Bech32())
	require.NoError(t, err)
	require.True(t, root.Equals(gotPrivate))
	gotPublic, err = NewExtendedPublicKeyFromBech32(public.Bech32())
	require.NoError(t, err)
	require.True(t, public.Equals(gotPublic))
	_, err = NewExtendedPublicKeyFromBech32(root.Bech32())
	require.Equal(t, lib.CodeWrongBech32Prefix, err.Code())
	// json
	bz, e := json.Marshal(public)
	require.NoError(t, e)
	fromJSON := new(ExtendedPublicKey)
	require.NoError(t, json.Unmarshal(bz, fromJSON))
	require.True(t, public.Equals(fromJSON))
	bz, e = json.Marshal(root)
	require.NoError(t, e)
	fromJSONPrivate := new(ExtendedPrivateKey)
	require.NoError(t, json.Unmarshal(bz, fromJSONPrivate))
	require.True(t, root.Equals(fromJSONPrivate))
	// wrong sizes
	_, err = NewExtendedPublicKey(public.Bytes()[:63])
	require.Equal(t, lib.CodeInvalidLength, err.Code())
	_, err = NewExtendedPrivateKey(root.Bytes()[:64])
	require.Equal(t, lib.CodeInvalidLength, err.Code())
}

func TestExtendedPublicKeyRejectsBadPoint(t *testing.T) {
	// roughly half of all y coordinates have no x on the curve
	rejected := 0
	for y := byte(2); y < 64; y++ {
		bz := make([]byte, ExtendedPublicKeySize)
		bz[0] = y
		if _, err := NewExtendedPublicKey(bz); err != nil {
			require.Equal(t, lib.CodeInvalidPublicKey, err.Code())
			rejected++
		}
	}
	require.NotZero(t, rejected)
}

func TestKeyFiles(t *testing.T) {
	dir := t.TempDir()
	root := randomRoot(t)
	path := dir + "/root.json"
	require.NoError(t, ExtendedPrivateKeyToFile(root, path))
	got, err := NewExtendedPrivateKeyFromFile(path)
	require.NoError(t, err)
	require.True(t, root.Equals(got))

	sk := root.SigningKey()
	path = dir + "/sk.json"
	require.NoError(t, PrivateKeyToFile(sk, path))
	gotSk, err := NewPrivateKeyFromFile(path)
	require.NoError(t, err)
	require.True(t, sk.Equals(gotSk))
}

func TestDerivationVectors(t *testing.T) {
	// icarus root of entropy 46e62370a138a182a498b8e2885bc032379ddf38 with an empty passphrase
	root, err := NewExtendedPrivateKeyFromString("c065afd2832cd8b087c4d9ab7011f481ee1e0721e78ea5dd609f3ab3f156d245d176bd8fd4ec60b4731c3918a2a72a0226c0cd119ec35b47e4d55884667f552a23f7fdcd4a10c6cd2c7393ac61d877873e248f417634aa3d812af327ffe9d620")
	require.NoError(t, err)
	require.Equal(t, "757e95578798ef733ad93be322fb043053d56b445d3fe502bcf7cb4a6b0f0c6a23f7fdcd4a10c6cd2c7393ac61d877873e248f417634aa3d812af327ffe9d620", root.Public().String())
	account := root.DerivePath(AccountPath(0))
	require.Equal(t, "7f376415131590bf8cc88e8466fd24a6f95eebd6c2271d89cb51a81402618c9b332b13689518700be3c6d330d72490c42e8a98b7495889a27851e543319fb095", account.Public().String())
	tests := []struct {
		name    string
		path    DerivationPath
		xprv    string
		xpub    string
		pubOnly string
	}{
		{
			name: "first external",
			path: DerivationPath{RoleExternal, 0},
			xprv: "00df3ecf0e02979dd9ee569d09412c1f370f476054aaa1ef3cf5a08c0557d245a6ad0fe81ab55e36178f5866dc8f83cf57239fdeee35c737ef887964aae205002b2dd0a9b83141f6650c40abec9ed52ecaa6a567825cb2c7a14b9452bca0c020",
			xpub: "cc9809944150c00f3913cd2b103e9b42fe6243fc36a76f9eb800692e2bda3f2e2b2dd0a9b83141f6650c40abec9ed52ecaa6a567825cb2c7a14b9452bca0c020",
		},
		{
			name:    "first stake",
			path:    DerivationPath{RoleStaking, 0},
			pubOnly: "6162765320c93ad3c82cc28b9578be31a791f03a37dcae056343cc25bbcb3b31",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			key := account.DerivePath(test.path)
			if test.xprv != "" {
				require.Equal(t, test.xprv, key.String())
				require.Equal(t, test.xpub, key.Public().String())
			}
			if test.pubOnly != "" {
				require.Equal(t, test.pubOnly, key.PublicKey().String())
			}
			// the same key through soft derivation of the account public key
			public, e := account.Public().DerivePath(test.path)
			require.NoError(t, e)
			require.True(t, key.Public().Equals(public))
		})
	}
}
