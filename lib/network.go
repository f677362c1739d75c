package lib

import "sort"

const (
	MainnetName = "mainnet"
	TestnetName = "testnet"
	PreprodName = "preprod"
	PreviewName = "preview"
)

// NetworkInfo identifies a network by the id carried in address headers and the magic used in the handshake
type NetworkInfo struct {
	NetworkID     uint8  `json:"networkID"`
	ProtocolMagic uint32 `json:"protocolMagic"`
}

// NewNetworkInfo() builds a caller-defined network pair
func NewNetworkInfo(networkID uint8, protocolMagic uint32) NetworkInfo {
	return NetworkInfo{NetworkID: networkID, ProtocolMagic: protocolMagic}
}

func Mainnet() NetworkInfo { return NetworkInfo{NetworkID: 1, ProtocolMagic: 764824073} }
func Testnet() NetworkInfo { return NetworkInfo{NetworkID: 0, ProtocolMagic: 1097911063} }
func Preprod() NetworkInfo { return NetworkInfo{NetworkID: 0, ProtocolMagic: 1} }
func Preview() NetworkInfo { return NetworkInfo{NetworkID: 0, ProtocolMagic: 2} }

var knownNetworks = map[string]func() NetworkInfo{
	MainnetName: Mainnet,
	TestnetName: Testnet,
	PreprodName: Preprod,
	PreviewName: Preview,
}

// NetworkInfoByName() looks up a built-in network
func NetworkInfoByName(name string) (NetworkInfo, ErrorI) {
	fn, ok := knownNetworks[name]
	if !ok {
		return NetworkInfo{}, ErrUnknownNetwork(name)
	}
	return fn(), nil
}

// NetworkInfoByMagic() resolves a built-in network from its protocol magic
func NetworkInfoByMagic(magic uint32) (info NetworkInfo, name string, found bool) {
	for _, n := range NetworkNames() {
		if i := knownNetworks[n](); i.ProtocolMagic == magic {
			return i, n, true
		}
	}
	return NetworkInfo{}, "", false
}

// NetworkNames() returns the sorted names of the built-in networks
func NetworkNames() []string {
	names := make([]string, 0, len(knownNetworks))
	for n := range knownNetworks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsMainnet() reports whether the pair is the main network
func (n NetworkInfo) IsMainnet() bool { return n == Mainnet() }
