package lib

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexBytesJSON(t *testing.T) {
	x := HexBytes{0xde, 0xad, 0xbe, 0xef}
	bz, err := json.Marshal(x)
	require.NoError(t, err)
	require.Equal(t, `"deadbeef"`, string(bz))
	var got HexBytes
	require.NoError(t, json.Unmarshal(bz, &got))
	require.Equal(t, x, got)
	require.Error(t, json.Unmarshal([]byte(`"zz"`), &got))
}

func TestStringToBytes(t *testing.T) {
	bz, err := StringToBytes("00ff")
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0xff}, bz)
	_, err = StringToBytes("xyz")
	require.Error(t, err)
	require.Equal(t, CodeStringToBytes, err.Code())
}

func TestCBORRoundTrip(t *testing.T) {
	type sample struct {
		_     struct{} `cbor:",toarray"`
		Coin  uint64
		Bytes []byte
	}
	in := sample{Coin: 1_000_000, Bytes: []byte{1, 2, 3}}
	bz, err := Marshal(in)
	require.NoError(t, err)
	// [1000000, h'010203']
	require.Equal(t, []byte{0x82, 0x1a, 0x00, 0x0f, 0x42, 0x40, 0x43, 0x01, 0x02, 0x03}, bz)
	var out sample
	require.NoError(t, Unmarshal(bz, &out))
	require.Equal(t, in, out)
}

func TestCatchPanic(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	l := NewLogger(LoggerConfig{Level: DebugLevel, Out: buf, NoColor: true})
	fn := func() (err ErrorI) {
		defer CatchPanic(l, &err)
		panic("boom")
	}
	err := fn()
	require.Error(t, err)
	require.Equal(t, CodePanic, err.Code())
	require.Equal(t, BoundaryModule, err.Module())
	require.Contains(t, buf.String(), "boom")
}

func TestErrorIs(t *testing.T) {
	err := ErrInvalidDerivation(1 << 31)
	require.True(t, errors.Is(err, NewError(CodeInvalidDerivation, CryptoModule, "")))
	require.False(t, errors.Is(err, NewError(CodeInvalidDerivation, AddressModule, "")))
	require.Contains(t, err.Error(), "hardened index")
}

func TestCBORHead(t *testing.T) {
	tests := []struct {
		name  string
		major byte
		n     uint64
		bz    []byte
	}{
		{name: "inline", major: 5 << 5, n: 3, bz: []byte{0xa3}},
		{name: "one byte", major: 4 << 5, n: 24, bz: []byte{0x98, 0x18}},
		{name: "two bytes", major: 2 << 5, n: 0x1234, bz: []byte{0x59, 0x12, 0x34}},
		{name: "four bytes", major: 0, n: 1 << 31, bz: []byte{0x1a, 0x80, 0, 0, 0}},
		{name: "eight bytes", major: 1 << 5, n: 1<<64 - 1, bz: []byte{0x3b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bz := AppendCBORHead(nil, test.major, test.n)
			require.Equal(t, test.bz, bz)
			major, n, size, err := ReadCBORHead(append(bz, 0x00))
			require.NoError(t, err)
			require.Equal(t, test.major, major)
			require.Equal(t, test.n, n)
			require.Equal(t, len(test.bz), size)
		})
	}
	for _, bad := range [][]byte{nil, {0x1f}, {0x9f}, {0x19, 0x01}} {
		_, _, _, err := ReadCBORHead(bad)
		require.Error(t, err)
	}
}
