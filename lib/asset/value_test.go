package asset

import (
	"encoding/hex"
	"math"
	"testing"

	"github.com/canopy-network/cardano/lib"
	"github.com/stretchr/testify/require"
)

func TestValueCBOR(t *testing.T) {
	gold := NewMultiAsset()
	gold.Set(policy(1), name(t, "Gold"), 5)
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{
			name:     "zero coin",
			value:    NewValue(0),
			expected: "00",
		},
		{
			name:     "coin only",
			value:    NewValue(1_000_000),
			expected: "1a000f4240",
		},
		{
			name:  "with assets",
			value: NewValueWithAssets(2, gold),
			expected: "82" + "02" +
				"a1" + "581c" + "00000000000000000000000000000000000000000000000000000001" +
				"a1" + "44476f6c64" + "05",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bz, err := lib.Marshal(test.value)
			require.NoError(t, err)
			require.Equal(t, test.expected, hex.EncodeToString(bz))
			got := Value{}
			require.NoError(t, lib.Unmarshal(bz, &got))
			require.True(t, test.value.Equals(got))
		})
	}
}

func TestValueUnmarshalRejects(t *testing.T) {
	for _, h := range []string{"40", "a0", "20"} {
		bz, err := hex.DecodeString(h)
		require.NoError(t, err)
		got := Value{}
		require.Error(t, lib.Unmarshal(bz, &got), h)
	}
}

func TestValueArithmetic(t *testing.T) {
	gold := NewMultiAsset()
	gold.Set(policy(1), name(t, "Gold"), 5)
	a := NewValueWithAssets(10, gold)
	b := NewValue(4)
	sum, err := a.Add(b)
	require.NoError(t, err)
	require.Equal(t, uint64(14), sum.Coin)
	require.Equal(t, uint64(5), sum.Assets.Get(policy(1), name(t, "Gold")))
	back, err := sum.Sub(b)
	require.NoError(t, err)
	require.True(t, a.Equals(back))
	// coin only after removing the assets
	rest, err := a.Sub(NewValueWithAssets(0, gold))
	require.NoError(t, err)
	require.True(t, rest.IsCoinOnly())
	// errors
	_, err = NewValue(math.MaxUint64).Add(NewValue(1))
	require.Equal(t, lib.CodeCoinOverflow, err.Code())
	_, err = NewValue(1).Sub(NewValue(2))
	require.Equal(t, lib.CodeCoinUnderflow, err.Code())
	_, err = NewValue(10).Sub(NewValueWithAssets(1, gold))
	require.Equal(t, lib.CodeQuantityUnderflow, err.Code())
}

func TestValueJSON(t *testing.T) {
	bz, err := lib.MarshalJSON(NewValue(7))
	require.NoError(t, err)
	require.JSONEq(t, `{"coin":7}`, string(bz))
	gold := NewMultiAsset()
	gold.Set(policy(1), name(t, "Gold"), 5)
	v := NewValueWithAssets(7, gold)
	bz, err = lib.MarshalJSON(v)
	require.NoError(t, err)
	got := Value{}
	require.NoError(t, lib.UnmarshalJSON(bz, &got))
	require.True(t, v.Equals(got))
}
