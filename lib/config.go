package lib

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/alecthomas/units"
)

/* This file implements logic for 'user controlled' configurations of the key, address and fee tooling */

const (
	// FILE NAMES in the 'data directory'
	ConfigFilePath = "config.json" // the file path for the configuration
	DataDirName    = ".cardano"    // the folder name of the default data directory
)

// Config is the structure of the user configuration options
type Config struct {
	MainConfig    // main options spanning over all modules
	NetworkConfig // which network addresses are built for
	FeeConfig     // linear fee parameters
	WalletConfig  // keychain and address manager options
	MetricsConfig // telemetry options
}

// DefaultConfig() returns a Config with developer set options
func DefaultConfig() Config {
	return Config{
		MainConfig:    DefaultMainConfig(),
		NetworkConfig: DefaultNetworkConfig(),
		FeeConfig:     DefaultFeeConfig(),
		WalletConfig:  DefaultWalletConfig(),
		MetricsConfig: DefaultMetricsConfig(),
	}
}

// MAIN CONFIG BELOW

type MainConfig struct {
	LogLevel    string `json:"logLevel"`    // any level includes the levels above it: debug < info < warning < error
	DataDirPath string `json:"dataDirPath"` // path of the designated folder where the tooling stores its files
}

// DefaultMainConfig() sets log level to 'info'
func DefaultMainConfig() MainConfig {
	return MainConfig{
		LogLevel:    "info",
		DataDirPath: DefaultDataDirPath(),
	}
}

// GetLogLevel() parses the log string in the config file into a LogLevel Enum
func (m *MainConfig) GetLogLevel() int32 { return ParseLogLevel(m.LogLevel) }

// DefaultDataDirPath() is $USERHOME/.cardano
func DefaultDataDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(home, DataDirName)
}

// NETWORK CONFIG BELOW

// NetworkConfig selects a built-in network by name, or a custom id / magic pair when Name is empty
type NetworkConfig struct {
	Name          string `json:"network"`       // mainnet, testnet, preprod or preview
	NetworkID     uint8  `json:"networkID"`     // custom network id (used when Name is empty)
	ProtocolMagic uint32 `json:"protocolMagic"` // custom protocol magic (used when Name is empty)
}

// DefaultNetworkConfig() targets mainnet
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{Name: MainnetName}
}

// NetworkInfo() resolves the configured network
func (n *NetworkConfig) NetworkInfo() (NetworkInfo, ErrorI) {
	if n.Name == "" {
		return NewNetworkInfo(n.NetworkID, n.ProtocolMagic), nil
	}
	return NetworkInfoByName(n.Name)
}

// FEE CONFIG BELOW

// FeeConfig holds the linear fee parameters and the maximum transaction size
type FeeConfig struct {
	Constant    uint64 `json:"minFeeB"`   // the constant part of the fee in lovelace
	Coefficient uint64 `json:"minFeeA"`   // lovelace per transaction byte
	MaxTxSize   uint64 `json:"maxTxSize"` // the largest transaction the fee is computed for
}

// DefaultFeeConfig() returns the mainnet protocol parameters
func DefaultFeeConfig() FeeConfig {
	return FeeConfig{
		Constant:    155381,
		Coefficient: 44,
		MaxTxSize:   uint64(16 * units.KiB), // 16 KiB max transaction size
	}
}

// LinearFee() converts the configuration into a fee formula
func (f *FeeConfig) LinearFee() LinearFee { return NewLinearFee(f.Constant, f.Coefficient) }

// WALLET CONFIG BELOW

// WalletConfig is the user configuration of the keychain and address manager
type WalletConfig struct {
	AddressCacheSize int `json:"addressCacheSize"` // how many derived keys are memoized
	GapLimit         int `json:"gapLimit"`         // how many unused addresses are derived ahead when scanning
}

// DefaultWalletConfig() returns the developer created wallet options
func DefaultWalletConfig() WalletConfig {
	return WalletConfig{
		AddressCacheSize: 1024,
		GapLimit:         20,
	}
}

// METRICS CONFIG BELOW

// MetricsConfig represents the configuration for the metrics server
type MetricsConfig struct {
	Enabled           bool   `json:"enabled"`           // if the metrics are enabled
	PrometheusAddress string `json:"prometheusAddress"` // the address of the server
}

// DefaultMetricsConfig() returns the default metrics configuration
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:           false,            // a one-shot command line has nothing to scrape
		PrometheusAddress: "127.0.0.1:9090", // the default prometheus address
	}
}

// WriteToFile() saves the Config object to a JSON file
func (c Config) WriteToFile(filepath string) error {
	// convert the config to indented 'pretty' json bytes
	jsonBytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	// write the config.json file to the data directory
	return os.WriteFile(filepath, jsonBytes, os.ModePerm)
}

// NewConfigFromFile() populates a Config object from a JSON file
func NewConfigFromFile(filepath string) (Config, error) {
	fileBytes, err := os.ReadFile(filepath)
	if err != nil {
		return Config{}, err
	}
	// define the default config to fill in any blanks in the file
	c := DefaultConfig()
	if err = json.Unmarshal(fileBytes, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
