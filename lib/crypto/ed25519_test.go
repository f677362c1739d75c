package crypto

import (
	"bytes"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/canopy-network/cardano/lib"
	"github.com/stretchr/testify/require"
)

// RFC 8032 section 7.1, test 1
const (
	rfcSeed      = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	rfcPublicKey = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
	rfcSignature = "e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b"
)

func TestED25519Vector(t *testing.T) {
	seed, err := hex.DecodeString(rfcSeed)
	require.NoError(t, err)
	sk, e := NewPrivateKeyFromSeed(seed)
	require.NoError(t, e)
	require.Equal(t, rfcPublicKey, sk.PublicKey().String())
	require.Equal(t, rfcSignature, sk.Sign(nil).String())
	ok, e := Verify(sk.PublicKey().Bytes(), nil, sk.Sign(nil).Bytes())
	require.NoError(t, e)
	require.True(t, ok)
}

func TestExtendedSignMatchesRFC8032(t *testing.T) {
	for i := 0; i < 50; i++ {
		seed := make([]byte, SeedSize)
		_, err := rand.Read(seed)
		require.NoError(t, err)
		// expand the seed the way RFC 8032 does and sign with the expanded secret
		h := sha512.Sum512(seed)
		h[0] &= 248
		h[31] &= 127
		h[31] |= 64
		extended, e := NewExtendedSecretKeyFromBytes(h[:])
		require.NoError(t, e)
		normal, e := NewPrivateKeyFromSeed(seed)
		require.NoError(t, e)
		msg := make([]byte, i)
		_, err = rand.Read(msg)
		require.NoError(t, err)
		require.True(t, normal.PublicKey().Equals(extended.PublicKey()))
		require.Equal(t, normal.Sign(msg), extended.Sign(msg))
	}
}

func TestSignAndVerify(t *testing.T) {
	root := randomRoot(t)
	keys := []PrivateKeyI{root.SigningKey(), root.Derive(Harden(7)).SigningKey(), root.Derive(3).SigningKey()}
	normal, err := NewEd25519PrivateKey()
	require.NoError(t, err)
	keys = append(keys, normal)
	for _, sk := range keys {
		msg := []byte("transaction body hash")
		sig := Sign(sk, msg)
		// deterministic
		require.Equal(t, sig, sk.Sign(msg))
		pub := PublicKeyFrom(sk)
		ok, e := Verify(pub.Bytes(), msg, sig.Bytes())
		require.NoError(t, e)
		require.True(t, ok)
		require.True(t, pub.VerifyBytes(msg, sig.Bytes()))
		// flipping any bit of the signature breaks it
		for _, bit := range []int{0, 7, 255, 256, 511} {
			bad := sig.Bytes()
			bad[bit/8] ^= 1 << (bit % 8)
			ok, e = Verify(pub.Bytes(), msg, bad)
			require.NoError(t, e)
			require.False(t, ok)
		}
		// flipping a bit of the message breaks it
		badMsg := []byte("transaction body hasH")
		ok, e = Verify(pub.Bytes(), badMsg, sig.Bytes())
		require.NoError(t, e)
		require.False(t, ok)
	}
}

func TestVerifyLengths(t *testing.T) {
	tests := []struct {
		name   string
		pubLen int
		sigLen int
		code   lib.ErrorCode
	}{
		{name: "short signature", pubLen: 32, sigLen: 63, code: lib.CodeInvalidSignatureLength},
		{name: "long signature", pubLen: 32, sigLen: 65, code: lib.CodeInvalidSignatureLength},
		{name: "short public key", pubLen: 31, sigLen: 64, code: lib.CodeInvalidPublicKeyLength},
		{name: "both wrong reports signature", pubLen: 0, sigLen: 0, code: lib.CodeInvalidSignatureLength},
		{name: "well formed mismatch", pubLen: 32, sigLen: 64},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ok, err := Verify(make([]byte, test.pubLen), []byte("msg"), make([]byte, test.sigLen))
			require.False(t, ok)
			if test.code == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Equal(t, test.code, err.Code())
			require.Equal(t, lib.CryptoModule, err.Module())
		})
	}
}

func TestPublicKeyParsing(t *testing.T) {
	sk, err := NewEd25519PrivateKey()
	require.NoError(t, err)
	pub := sk.PublicKey()
	// hex
	got, e := NewPublicKeyFromString(pub.String())
	require.NoError(t, e)
	require.True(t, pub.Equals(got))
	// bech32
	b32 := got.Bech32()
	require.Contains(t, b32, PublicKeyBech32Prefix+"1")
	got2, e := NewPublicKeyFromBech32(b32)
	require.NoError(t, e)
	require.True(t, pub.Equals(got2))
	// json
	bz, err := json.Marshal(got)
	require.NoError(t, err)
	got3 := new(ED25519PublicKey)
	require.NoError(t, json.Unmarshal(bz, got3))
	require.True(t, pub.Equals(got3))
	// key hash
	require.Equal(t, ShortHash(pub.Bytes()), pub.Hash())
	// wrong length
	_, e = NewPublicKeyFromBytes(make([]byte, 33))
	require.Equal(t, lib.CodeInvalidPublicKeyLength, e.Code())
}

func TestPrivateKeyParsing(t *testing.T) {
	normal, err := NewEd25519PrivateKey()
	require.NoError(t, err)
	extended := randomRoot(t).SigningKey()
	for _, sk := range []PrivateKeyI{normal, extended} {
		got, e := NewPrivateKeyFromString(sk.String())
		require.NoError(t, e)
		require.True(t, sk.Equals(got))
		require.True(t, sk.PublicKey().Equals(got.PublicKey()))
	}
	got, e := NewPrivateKeyFromBech32(normal.Bech32())
	require.NoError(t, e)
	require.True(t, normal.Equals(got))
	got, e = NewPrivateKeyFromBech32(extended.Bech32())
	require.NoError(t, e)
	require.True(t, extended.Equals(got))
	_, e = NewPrivateKeyFromBytes(make([]byte, 48))
	require.Equal(t, lib.CodeInvalidLength, e.Code())
	// unclamped scalar
	bad := extended.Bytes()
	bad[0] |= 1
	_, e = NewExtendedSecretKeyFromBytes(bad)
	require.Equal(t, lib.CodeInvalidScalar, e.Code())
}

func TestSignatureJSON(t *testing.T) {
	sk, err := NewEd25519PrivateKey()
	require.NoError(t, err)
	sig := sk.Sign([]byte("hello"))
	bz, err := json.Marshal(sig)
	require.NoError(t, err)
	var got Signature
	require.NoError(t, json.Unmarshal(bz, &got))
	require.Equal(t, sig, got)
	_, e := NewSignatureFromBytes(make([]byte, 10))
	require.Equal(t, lib.CodeInvalidSignatureLength, e.Code())
}

func TestVerifyMatchesBatch(t *testing.T) {
	pub, err := hex.DecodeString(rfcPublicKey)
	require.NoError(t, err)
	sig, err := hex.DecodeString(rfcSignature)
	require.NoError(t, err)
	// the identity point has small order
	identity := make([]byte, PublicKeySize)
	identity[0] = 1
	tests := []struct {
		name  string
		pub   []byte
		msg   []byte
		sig   []byte
		valid bool
	}{
		{name: "valid", pub: pub, msg: []byte{}, sig: sig, valid: true},
		{name: "small order key", pub: identity, msg: []byte("msg"), sig: append(identity, make([]byte, 32)...)},
		{name: "non canonical s", pub: pub, msg: []byte{}, sig: append(sig[:32:32], bytes.Repeat([]byte{0xff}, 32)...)},
		{name: "wrong message", pub: pub, msg: []byte("msg"), sig: sig},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ok, e := Verify(test.pub, test.msg, test.sig)
			require.NoError(t, e)
			require.Equal(t, test.valid, ok)
			b := NewBatchVerifier(nil)
			b.Add(test.pub, test.msg, test.sig)
			require.Equal(t, test.valid, len(b.Verify()) == 0)
		})
	}
}
