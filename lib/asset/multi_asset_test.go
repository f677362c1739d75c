package asset

import (
	"encoding/hex"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/canopy-network/cardano/lib"
	"github.com/stretchr/testify/require"
)

func policy(b ...byte) (p PolicyID) {
	copy(p[PolicyIDSize-len(b):], b)
	return
}

func name(t *testing.T, s string) AssetName {
	n, err := NewAssetNameFromString(s)
	require.NoError(t, err)
	return n
}

func TestGoldScenario(t *testing.T) {
	p := policy(0x01)
	gold := name(t, "Gold")
	a := NewMultiAsset()
	a.Set(p, gold, 5)
	b := NewMultiAsset()
	b.Set(p, gold, 3)
	sum, err := Add(a, b)
	require.NoError(t, err)
	require.Equal(t, uint64(8), sum.Get(p, gold))
	// operands untouched
	require.Equal(t, uint64(5), a.Get(p, gold))
	c := NewMultiAsset()
	c.Set(p, gold, 8)
	diff, err := Sub(sum, c)
	require.NoError(t, err)
	require.True(t, diff.IsEmpty())
	require.Empty(t, diff.Policies())
	require.Equal(t, uint64(0), diff.Get(p, gold))
	bz, err := diff.CanonicalBytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0xa0}, bz)
}

func TestGetAbsent(t *testing.T) {
	ma := NewMultiAsset()
	require.Zero(t, ma.Get(policy(9), name(t, "none")))
	var nilMap *MultiAsset
	require.Zero(t, nilMap.Get(policy(9), AssetName{}))
	require.True(t, nilMap.IsEmpty())
}

func TestSetZeroRemoves(t *testing.T) {
	ma := NewMultiAsset()
	ma.Set(policy(1), name(t, "a"), 1)
	ma.Set(policy(1), name(t, "b"), 2)
	ma.Set(policy(1), name(t, "a"), 0)
	require.Equal(t, 1, ma.Len())
	ma.Set(policy(1), name(t, "b"), 0)
	require.True(t, ma.IsEmpty())
	require.Empty(t, ma.Policies())
}

func TestAddOverflow(t *testing.T) {
	a, b := NewMultiAsset(), NewMultiAsset()
	a.Set(policy(1), name(t, "x"), math.MaxUint64)
	a.Set(policy(2), name(t, "y"), 1)
	b.Set(policy(1), name(t, "x"), 1)
	b.Set(policy(2), name(t, "y"), 1)
	_, err := Add(a, b)
	require.Error(t, err)
	require.Equal(t, lib.CodeQuantityOverflow, err.Code())
	// a failed merge leaves the receiver untouched
	before := a.Clone()
	require.Error(t, a.Merge(b))
	require.True(t, before.Equals(a))
}

func TestSubUnderflow(t *testing.T) {
	a, b := NewMultiAsset(), NewMultiAsset()
	a.Set(policy(1), name(t, "x"), 3)
	b.Set(policy(1), name(t, "x"), 4)
	_, err := Sub(a, b)
	require.Equal(t, lib.CodeQuantityUnderflow, err.Code())
	// subtracting an asset that isn't there
	c := NewMultiAsset()
	c.Set(policy(7), name(t, "x"), 1)
	_, err = a.Sub(c)
	require.Equal(t, lib.CodeQuantityUnderflow, err.Code())
}

func TestArithmeticInverse(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		a, b := NewMultiAsset(), NewMultiAsset()
		for j := 0; j < 20; j++ {
			p := policy(byte(r.Intn(4)))
			n, err := NewAssetName([]byte{byte(r.Intn(6))})
			require.NoError(t, err)
			a.Set(p, n, uint64(r.Intn(1000)))
			b.Set(p, n, uint64(r.Intn(1000)))
		}
		sum, err := a.Add(b)
		require.NoError(t, err)
		back, err := sum.Sub(b)
		require.NoError(t, err)
		require.True(t, a.Equals(back))
		x, err := a.CanonicalBytes()
		require.NoError(t, err)
		y, err := back.CanonicalBytes()
		require.NoError(t, err)
		require.Equal(t, x, y)
	}
}

func TestCanonicalOrderIndependence(t *testing.T) {
	type entry struct {
		p PolicyID
		n AssetName
		q uint64
	}
	long := name(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ012345")
	entries := []entry{
		{policy(2), name(t, "b"), 1},
		{policy(2), name(t, "a"), 2},
		{policy(1), name(t, "zz"), 3},
		{policy(1), AssetName{}, 4},
		{policy(0xFF, 0), name(t, "Gold"), 5},
		{policy(1), long, 6},
		{policy(1), name(t, "B"), 1 << 40},
	}
	var expected []byte
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 30; i++ {
		r.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
		ma := NewMultiAsset()
		for _, e := range entries {
			ma.Set(e.p, e.n, e.q)
		}
		bz, err := ma.CanonicalBytes()
		require.NoError(t, err)
		if expected == nil {
			expected = bz
		}
		require.Equal(t, expected, bz)
	}
	// policies ascend; within policy 1 names ascend in raw byte order: "", "ABC...", "B", "zz"
	ma, err := FromCanonicalBytes(expected)
	require.NoError(t, err)
	require.Equal(t, []PolicyID{policy(1), policy(2), policy(0xFF, 0)}, ma.Policies())
	require.Equal(t, []AssetName{{}, long, name(t, "B"), name(t, "zz")}, ma.AssetNames(policy(1)))
}

func TestCanonicalBytesLayout(t *testing.T) {
	ma := NewMultiAsset()
	ma.Set(policy(1), name(t, "Gold"), 5)
	bz, err := ma.CanonicalBytes()
	require.NoError(t, err)
	expected := "a1" + // map(1)
		"581c" + "00000000000000000000000000000000000000000000000000000001" + // bytes(28)
		"a1" + // map(1)
		"44" + hex.EncodeToString([]byte("Gold")) + // bytes(4)
		"05"
	require.Equal(t, expected, hex.EncodeToString(bz))
}

func TestFromCanonicalBytesErrors(t *testing.T) {
	p := "581c" + "00000000000000000000000000000000000000000000000000000001"
	tests := []struct {
		name string
		hex  string
		code lib.ErrorCode
	}{
		{name: "not a map", hex: "80", code: lib.CodeInvalidMultiAsset},
		{name: "short policy", hex: "a1" + "4101" + "a1" + "4100" + "01", code: lib.CodeInvalidPolicyID},
		{name: "zero quantity", hex: "a1" + p + "a1" + "4100" + "00", code: lib.CodeZeroQuantityEntry},
		{name: "duplicate names", hex: "a1" + p + "a2" + "4100" + "01" + "4100" + "02", code: lib.CodeInvalidMultiAsset},
		{name: "names out of order", hex: "a1" + p + "a2" + "4101" + "01" + "4100" + "02", code: lib.CodeNonCanonicalAssets},
		{name: "indefinite map", hex: "bf" + p + "a1" + "4100" + "01" + "ff", code: lib.CodeInvalidMultiAsset},
		{name: "long name", hex: "a1" + p + "a1" + "5821" + strings.Repeat("00", 33) + "01", code: lib.CodeInvalidAssetName},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bz, err := hex.DecodeString(test.hex)
			require.NoError(t, err)
			_, e := FromCanonicalBytes(bz)
			require.Error(t, e)
			require.Equal(t, test.code, e.Code())
		})
	}
}

func TestMultiAssetJSON(t *testing.T) {
	ma := NewMultiAsset()
	ma.Set(policy(1), name(t, "Gold"), 5)
	bz, err := lib.MarshalJSON(ma)
	require.NoError(t, err)
	require.JSONEq(t, `{"00000000000000000000000000000000000000000000000000000001":{"476f6c64":5}}`, string(bz))
	got := NewMultiAsset()
	require.NoError(t, lib.UnmarshalJSON(bz, got))
	require.True(t, ma.Equals(got))
}

func TestAssetName(t *testing.T) {
	_, err := NewAssetName(make([]byte, 33))
	require.Equal(t, lib.CodeInvalidAssetName, err.Code())
	n, err := NewAssetName(make([]byte, 32))
	require.NoError(t, err)
	require.Equal(t, 32, n.Len())
	require.Equal(t, "Gold", name(t, "Gold").Display())
	binary, err := NewAssetName([]byte{0x00, 0xFF})
	require.NoError(t, err)
	require.Equal(t, "00ff", binary.Display())
	fromHex, err := NewAssetNameFromHex("476f6c64")
	require.NoError(t, err)
	require.Equal(t, name(t, "Gold"), fromHex)
	_, err = NewPolicyID(make([]byte, 27))
	require.Equal(t, lib.CodeInvalidPolicyID, err.Code())
}
