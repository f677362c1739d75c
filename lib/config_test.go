package lib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	// calculate expected
	expected := Config{
		MainConfig:    DefaultMainConfig(),
		NetworkConfig: DefaultNetworkConfig(),
		FeeConfig:     DefaultFeeConfig(),
		WalletConfig:  DefaultWalletConfig(),
		MetricsConfig: DefaultMetricsConfig(),
	}
	// execute the function call
	got := DefaultConfig()
	// compare got vs expected
	diff := cmp.Diff(expected, got)
	require.Empty(t, diff, "config mismatch: %s", diff)
	// the default fee is the mainnet formula
	require.Equal(t, NewLinearFee(155381, 44), got.LinearFee())
	require.Equal(t, uint64(16384), got.MaxTxSize)
}

func TestFileConfig(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), ConfigFilePath)
	// define a variable to test upon
	config := DefaultConfig()
	config.LogLevel = "debug"
	config.NetworkConfig = NetworkConfig{NetworkID: 3, ProtocolMagic: 42}
	// write to file
	require.NoError(t, config.WriteToFile(filePath))
	// read from file
	got, err := NewConfigFromFile(filePath)
	require.NoError(t, err)
	// compare got vs expected
	require.Equal(t, config, got)
}

func TestConfigFillsBlanks(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), ConfigFilePath)
	require.NoError(t, os.WriteFile(filePath, []byte(`{"network":"preview"}`), 0600))
	got, err := NewConfigFromFile(filePath)
	require.NoError(t, err)
	require.Equal(t, DefaultFeeConfig(), got.FeeConfig)
	info, e := got.NetworkConfig.NetworkInfo()
	require.NoError(t, e)
	require.Equal(t, Preview(), info)
}

func TestNetworkConfigCustom(t *testing.T) {
	c := NetworkConfig{NetworkID: 7, ProtocolMagic: 9}
	info, err := c.NetworkInfo()
	require.NoError(t, err)
	require.Equal(t, NewNetworkInfo(7, 9), info)
	c = NetworkConfig{Name: "nowhere"}
	_, err = c.NetworkInfo()
	require.Error(t, err)
	require.Equal(t, CodeUnknownNetwork, err.Code())
}
