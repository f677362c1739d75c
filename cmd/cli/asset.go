package cli

import (
	"encoding/hex"
	"strconv"

	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/asset"
	"github.com/spf13/cobra"
)

var txHex string

func init() {
	assetCmd.AddCommand(assetEncodeCmd)
	assetCmd.AddCommand(assetDecodeCmd)
	assetCmd.AddCommand(assetAddCmd)
	assetCmd.AddCommand(assetSubCmd)
	feeCmd.PersistentFlags().StringVar(&txHex, "tx", "", "hex encoded transaction; its size replaces the size argument")
}

var (
	assetCmd = &cobra.Command{
		Use:   "asset",
		Short: "encode, decode and combine multi assets ({\"<policy hex>\": {\"<name hex>\": quantity}})",
	}

	assetEncodeCmd = &cobra.Command{
		Use:   "encode <json>",
		Short: "print the canonical cbor of a multi asset",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			bz, err := argMultiAsset(args[0]).CanonicalBytes()
			if err != nil {
				l.Fatal(err.Error())
			}
			writeToConsole(hex.EncodeToString(bz), nil)
		},
	}

	assetDecodeCmd = &cobra.Command{
		Use:   "decode <cbor hex>",
		Short: "parse canonical multi asset cbor",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			bz, err := lib.StringToBytes(args[0])
			if err != nil {
				l.Fatal(err.Error())
			}
			writeToConsole(asset.FromCanonicalBytes(bz))
		},
	}

	assetAddCmd = &cobra.Command{
		Use:   "add <json> <json>",
		Short: "add two multi assets",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(asset.Add(argMultiAsset(args[0]), argMultiAsset(args[1])))
		},
	}

	assetSubCmd = &cobra.Command{
		Use:   "sub <json> <json>",
		Short: "subtract the second multi asset from the first",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(asset.Sub(argMultiAsset(args[0]), argMultiAsset(args[1])))
		},
	}

	feeCmd = &cobra.Command{
		Use:   "fee [size in bytes]",
		Short: "compute the linear fee with the configured parameters",
		Run: func(cmd *cobra.Command, args []string) {
			f := config.FeeConfig.LinearFee()
			if txHex != "" {
				bz, err := lib.StringToBytes(txHex)
				if err != nil {
					l.Fatal(err.Error())
				}
				writeToConsole(f.FeeForBytes(bz))
				return
			}
			size := config.MaxTxSize
			if len(args) != 0 {
				s, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					l.Fatal(err.Error())
				}
				size = s
			}
			if size > config.MaxTxSize {
				l.Warnf("Size %d exceeds the configured max tx size %d", size, config.MaxTxSize)
			}
			writeToConsole(f.Fee(size))
		},
	}

	networkCmd = &cobra.Command{
		Use:   "network [name]",
		Short: "show a built-in network, or all of them",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				all := make(map[string]lib.NetworkInfo)
				for _, n := range lib.NetworkNames() {
					all[n], _ = lib.NetworkInfoByName(n)
				}
				writeToConsole(all, nil)
				return
			}
			writeToConsole(lib.NetworkInfoByName(args[0]))
		},
	}
)

// argMultiAsset() parses a json multi asset argument
func argMultiAsset(arg string) *asset.MultiAsset {
	ma := asset.NewMultiAsset()
	if err := lib.UnmarshalJSON([]byte(arg), ma); err != nil {
		l.Fatal(err.Error())
	}
	return ma
}
