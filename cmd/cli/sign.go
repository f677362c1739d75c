package cli

import (
	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/crypto"
	"github.com/spf13/cobra"
)

var (
	signCmd = &cobra.Command{
		Use:   "sign <id or nickname> <path> <hex message>",
		Short: "sign a message with the key at a derivation path",
		Args:  cobra.MinimumNArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			path, err := crypto.ParseDerivationPath(args[1])
			if err != nil {
				l.Fatal(err.Error())
			}
			msg, err := lib.StringToBytes(args[2])
			if err != nil {
				l.Fatal(err.Error())
			}
			key := getKeychain(args[0]).SigningKey(path)
			writeToConsole(struct {
				PublicKey string           `json:"publicKey"`
				Signature crypto.Signature `json:"signature"`
			}{key.PublicKey().String(), key.Sign(msg)}, nil)
		},
	}

	verifyCmd = &cobra.Command{
		Use:   "verify <public key hex> <hex message> <signature hex>",
		Short: "verify an ed25519 signature",
		Args:  cobra.MinimumNArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			var bz [3][]byte
			for i := range bz {
				b, err := lib.StringToBytes(args[i])
				if err != nil {
					l.Fatal(err.Error())
				}
				bz[i] = b
			}
			ok, err := crypto.Verify(bz[0], bz[1], bz[2])
			if err != nil {
				l.Fatal(err.Error())
			}
			writeToConsole(validity(ok), nil)
		},
	}
)

func validity(ok bool) string {
	if ok {
		return "valid"
	}
	return "invalid"
}
