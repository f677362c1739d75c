package crypto

import (
	"crypto/rand"
	math "math/rand"
	"testing"

	"github.com/canopy-network/cardano/lib"
	"github.com/stretchr/testify/require"
)

func TestKeyBatchFuzz(t *testing.T) {
	cache, err := NewSignatureCache(10_000)
	require.NoError(t, err)
	defer cache.Close()
	root := randomRoot(t)
	for i := 0; i < 20; i++ {
		b := NewBatchVerifier(cache)
		var expectedBadIndices []int
		for j := 0; j < 50; j++ {
			var privateKey PrivateKeyI
			message := make([]byte, math.Intn(32)+1)
			_, err = rand.Read(message)
			require.NoError(t, err)
			switch math.Intn(2) {
			case 0:
				privateKey, err = NewEd25519PrivateKey()
				require.NoError(t, err)
			case 1:
				privateKey = root.Derive(uint32(j)).SigningKey()
			}
			signature := privateKey.Sign(message).Bytes()
			// 5% chance invalid
			if math.Intn(100) < 5 {
				expectedBadIndices = append(expectedBadIndices, j)
				_, err = rand.Read(signature)
				require.NoError(t, err)
			}
			b.Add(privateKey.PublicKey().Bytes(), message, signature)
		}
		require.Equal(t, expectedBadIndices, b.Verify())
	}
}

func TestKeyBatchMalformed(t *testing.T) {
	sk, err := NewEd25519PrivateKey()
	require.NoError(t, err)
	msg := []byte("msg")
	sig := sk.Sign(msg).Bytes()
	b := NewBatchVerifier(nil)
	b.Add(sk.PublicKey().Bytes(), msg, sig)
	b.Add(sk.PublicKey().Bytes()[:31], msg, sig)
	b.Add(sk.PublicKey().Bytes(), msg, sig[:63])
	b.Add(sk.PublicKey().Bytes(), []byte("other"), sig)
	require.Equal(t, 4, b.Len())
	require.Equal(t, []int{1, 2, 3}, b.Verify())
	verr := b.VerifyAll()
	require.Error(t, verr)
	require.Equal(t, lib.CodeBadWitnessSignature, verr.Code())
	// empty batch
	require.Empty(t, NewBatchVerifier(nil).Verify())
	require.NoError(t, NewBatchVerifier(nil).VerifyAll())
}

func TestSignatureCache(t *testing.T) {
	cache, err := NewSignatureCache(100)
	require.NoError(t, err)
	defer cache.Close()
	sk, err := NewEd25519PrivateKey()
	require.NoError(t, err)
	msg := []byte("cached")
	tuple := &BatchTuple{PublicKey: sk.PublicKey().Bytes(), Message: msg, Signature: sk.Sign(msg).Bytes()}
	require.False(t, cache.Contains(tuple))
	b := NewBatchVerifier(cache)
	b.Add(tuple.PublicKey, tuple.Message, tuple.Signature)
	require.Empty(t, b.Verify())
	cache.Wait()
	require.True(t, cache.Contains(tuple))
	// a nil cache is a no-op
	var none *SignatureCache
	none.Add(tuple)
	require.False(t, none.Contains(tuple))
}
