package cli

import (
	"encoding/hex"

	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/address"
	"github.com/canopy-network/cardano/lib/crypto"
	"github.com/canopy-network/cardano/wallet"
	"github.com/spf13/cobra"
)

var (
	index  uint32
	change bool
)

func init() {
	addressCmd.PersistentFlags().Uint32Var(&account, "account", 0, "account index")
	addressCmd.PersistentFlags().Uint32Var(&index, "index", 0, "address index")
	addressCmd.PersistentFlags().BoolVar(&change, "change", false, "derive a change (internal) address")
	addressCmd.AddCommand(addressBaseCmd)
	addressCmd.AddCommand(addressEnterpriseCmd)
	addressCmd.AddCommand(addressRewardCmd)
	addressCmd.AddCommand(addressInspectCmd)
	addressCmd.AddCommand(addressIcarusCmd)
}

// addressInfo is the printable breakdown of a decoded address
type addressInfo struct {
	Address string              `json:"address"`
	Hex     string              `json:"hex"`
	Type    string              `json:"type"`
	Network uint8               `json:"network"`
	Payment *address.Credential `json:"payment,omitempty"`
	Stake   *address.Credential `json:"stake,omitempty"`
	Pointer *address.Pointer    `json:"pointer,omitempty"`
	Magic   *uint32             `json:"protocolMagic,omitempty"`
}

var (
	addressCmd = &cobra.Command{
		Use:   "address",
		Short: "derive and inspect addresses",
	}

	addressBaseCmd = &cobra.Command{
		Use:   "base <id or nickname>",
		Short: "derive a base address (payment key + account stake key)",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a := getAccount(args[0])
			writeToConsole(a.BaseAddress(index, change, networkInfo().NetworkID))
		},
	}

	addressEnterpriseCmd = &cobra.Command{
		Use:   "enterprise <id or nickname>",
		Short: "derive an enterprise address (payment key only)",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a := getAccount(args[0])
			writeToConsole(a.EnterpriseAddress(index, change, networkInfo().NetworkID))
		},
	}

	addressRewardCmd = &cobra.Command{
		Use:   "reward <id or nickname>",
		Short: "derive the stake address of an account",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a := getAccount(args[0])
			writeToConsole(a.RewardAddress(networkInfo().NetworkID))
		},
	}

	addressInspectCmd = &cobra.Command{
		Use:   "inspect <bech32, base58 or hex address>",
		Short: "decode an address into its parts",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(inspectAddress(args[0]))
		},
	}

	addressIcarusCmd = &cobra.Command{
		Use:   "icarus <xpub bech32>",
		Short: "build the byron bootstrap address of an extended public key",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			xpub, err := crypto.NewExtendedPublicKeyFromBech32(args[0])
			if err != nil {
				l.Fatal(err.Error())
			}
			addr, err := address.NewIcarusAddress(xpub, networkInfo())
			if err != nil {
				l.Fatal(err.Error())
			}
			writeToConsole(addr.String(), nil)
		},
	}
)

// getAccount() decrypts the keystore entry and derives the configured account
func getAccount(idOrNickname string) *wallet.Account {
	a, err := getKeychain(idOrNickname).AddAccount(account)
	if err != nil {
		l.Fatal(err.Error())
	}
	return a
}

// inspectAddress() accepts the text forms first, then raw hex
func inspectAddress(s string) (*addressInfo, lib.ErrorI) {
	addr, err := address.FromString(s)
	if err != nil {
		bz, e := hex.DecodeString(s)
		if e != nil {
			return nil, err
		}
		if addr, err = address.Decode(bz); err != nil {
			return nil, err
		}
	}
	info := &addressInfo{
		Address: addr.String(),
		Hex:     hex.EncodeToString(addr.Bytes()),
		Type:    addr.Type().String(),
		Network: addr.NetworkID(),
	}
	if c, ok := addr.PaymentCredential(); ok {
		info.Payment = &c
	}
	if c, ok := addr.StakeCredential(); ok {
		info.Stake = &c
	}
	switch a := addr.(type) {
	case *address.PointerAddress:
		info.Pointer = &a.Pointer
	case *address.ByronAddress:
		if magic, ok := a.ProtocolMagic(); ok {
			info.Magic = &magic
		}
	}
	return info, nil
}
