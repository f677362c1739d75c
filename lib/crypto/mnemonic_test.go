package crypto

import (
	"strings"
	"testing"

	"github.com/canopy-network/cardano/lib"
	"github.com/stretchr/testify/require"
)

const zeroMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestEntropyFromMnemonic(t *testing.T) {
	entropy, err := EntropyFromMnemonic(zeroMnemonic)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 16), entropy)
	// extra whitespace is ignored
	entropy, err = EntropyFromMnemonic("  " + strings.ReplaceAll(zeroMnemonic, " ", "   ") + "\n")
	require.NoError(t, err)
	require.Equal(t, make([]byte, 16), entropy)
	// bad checksum
	_, err = EntropyFromMnemonic(strings.Replace(zeroMnemonic, "about", "abandon", 1))
	require.Equal(t, lib.CodeInvalidMnemonic, err.Code())
	_, err = EntropyFromMnemonic("")
	require.Equal(t, lib.CodeInvalidMnemonic, err.Code())
}

func TestMasterKeyFromMnemonic(t *testing.T) {
	a, err := MasterKeyFromMnemonic(zeroMnemonic, "")
	require.NoError(t, err)
	b, err := MasterKeyFromMnemonic(zeroMnemonic, "")
	require.NoError(t, err)
	require.True(t, a.Equals(b))
	// the passphrase changes the root
	c, err := MasterKeyFromMnemonic(zeroMnemonic, "foo")
	require.NoError(t, err)
	require.False(t, a.Equals(c))
	// the root is clamped
	bz := a.Bytes()
	require.Zero(t, bz[0]&0b111)
	require.Equal(t, byte(0b010), bz[31]>>5)
	// same as going through the entropy directly
	d, err := MasterKeyFromEntropy(make([]byte, 16), nil)
	require.NoError(t, err)
	require.True(t, a.Equals(d))
}

func TestMasterKeyFromEntropySizes(t *testing.T) {
	for _, size := range []int{16, 20, 24, 28, 32} {
		_, err := MasterKeyFromEntropy(make([]byte, size), []byte("pass"))
		require.NoError(t, err, "size %d", size)
	}
	for _, size := range []int{0, 12, 17, 36} {
		_, err := MasterKeyFromEntropy(make([]byte, size), nil)
		require.Equal(t, lib.CodeInvalidEntropy, err.Code(), "size %d", size)
	}
}

func TestNewMnemonic(t *testing.T) {
	words, err := NewMnemonic(256)
	require.NoError(t, err)
	require.Len(t, strings.Fields(words), 24)
	entropy, err := EntropyFromMnemonic(words)
	require.NoError(t, err)
	require.Len(t, entropy, 32)
	_, err = NewMnemonic(100)
	require.Error(t, err)
}

func TestIcarusRootVectors(t *testing.T) {
	const (
		entropy  = "46e62370a138a182a498b8e2885bc032379ddf38"
		mnemonic = "eight country switch draw meat scout mystery blade tip drift useless good keep usage title"
	)
	tests := []struct {
		name       string
		passphrase string
		expected   string
	}{
		{
			name:     "no passphrase",
			expected: "c065afd2832cd8b087c4d9ab7011f481ee1e0721e78ea5dd609f3ab3f156d245d176bd8fd4ec60b4731c3918a2a72a0226c0cd119ec35b47e4d55884667f552a23f7fdcd4a10c6cd2c7393ac61d877873e248f417634aa3d812af327ffe9d620",
		},
		{
			name:       "passphrase",
			passphrase: "foo",
			expected:   "70531039904019351e1afb361cd1b312a4d0565d4ff9f8062d38acf4b15cce41d7b5738d9c893feea55512a3004acb0d222c35d3e3d5cde943a15a9824cbac59443cf67e589614076ba01e354b1a432e0e6db3b59e37fc56b5fb0222970a010e",
		},
	}
	ent, err := lib.StringToBytes(entropy)
	require.NoError(t, err)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			root, e := MasterKeyFromEntropy(ent, []byte(test.passphrase))
			require.NoError(t, e)
			require.Equal(t, test.expected, root.String())
			fromWords, e := MasterKeyFromMnemonic(mnemonic, test.passphrase)
			require.NoError(t, e)
			require.True(t, root.Equals(fromWords))
		})
	}
}
