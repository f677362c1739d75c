package cli

import (
	"encoding/hex"
	"errors"
	"io"
	"os"

	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/crypto"
	"github.com/canopy-network/cardano/lib/tx"
	"github.com/spf13/cobra"
)

var bodyFile string

func init() {
	txHashCmd.Flags().StringVar(&bodyFile, "file", "", "read the raw transaction body from a file instead of a hex argument")
	txCmd.AddCommand(txHashCmd)
	txCmd.AddCommand(txMetadataHashCmd)
}

var (
	txCmd = &cobra.Command{
		Use:   "tx",
		Short: "transaction and metadata hashes",
	}

	txHashCmd = &cobra.Command{
		Use:   "hash [body hex]",
		Short: "print the id of a serialized transaction body",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(bodyHash(args, bodyFile))
		},
	}

	txMetadataHashCmd = &cobra.Command{
		Use:   "metadata-hash <metadata cbor hex>",
		Short: "validate transaction metadata and print its hash",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(metadataHash(args[0]))
		},
	}
)

// bodyHash() hashes a hex body argument or streams the body file at path
func bodyHash(args []string, path string) (string, error) {
	if path == "" {
		if len(args) == 0 {
			return "", errors.New("expected a hex body or --file")
		}
		bz, err := lib.StringToBytes(args[0])
		if err != nil {
			return "", err
		}
		return crypto.HashString(bz), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := crypto.Hasher()
	if _, err = io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func metadataHash(s string) (string, error) {
	bz, err := lib.StringToBytes(s)
	if err != nil {
		return "", err
	}
	md, err := tx.NewMetadataFromBytes(bz)
	if err != nil {
		return "", err
	}
	h, err := md.Hash()
	if err != nil {
		return "", err
	}
	return h.String(), nil
}
