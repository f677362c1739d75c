package cli

import (
	"strings"

	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/crypto"
	"github.com/canopy-network/cardano/wallet"
	"github.com/spf13/cobra"
)

var (
	words      int
	passphrase string
	account    uint32
)

func init() {
	keyNewCmd.PersistentFlags().IntVar(&words, "words", 24, "number of mnemonic words (12, 15, 18, 21 or 24)")
	keyCmd.PersistentFlags().StringVar(&passphrase, "passphrase", "", "optional mnemonic passphrase (second factor)")
	keyCmd.PersistentFlags().Uint32Var(&account, "account", 0, "account index")
	keyCmd.AddCommand(keyNewCmd)
	keyCmd.AddCommand(keyImportCmd)
	keyCmd.AddCommand(keyListCmd)
	keyCmd.AddCommand(keyGetCmd)
	keyCmd.AddCommand(keyDeleteCmd)
	keyCmd.AddCommand(keyDeriveCmd)
	keyCmd.AddCommand(keyHashCmd)
}

// keyInfo is the printable summary of a keystore entry
type keyInfo struct {
	ID          string `json:"id"`
	Nickname    string `json:"nickname,omitempty"`
	Mnemonic    string `json:"mnemonic,omitempty"`
	RootXPub    string `json:"rootXPub"`
	AccountXPub string `json:"accountXPub,omitempty"`
	AccountPath string `json:"accountPath,omitempty"`
}

var (
	keyCmd = &cobra.Command{
		Use:   "key",
		Short: "manage root keys in the local keystore",
	}

	keyNewCmd = &cobra.Command{
		Use:   "new",
		Short: "generate a mnemonic and store its root key",
		Run: func(cmd *cobra.Command, args []string) {
			mnemonic, err := crypto.NewMnemonic(words * 32 / 3)
			if err != nil {
				l.Fatal(err.Error())
			}
			info := importMnemonic(mnemonic)
			info.Mnemonic = mnemonic
			writeToConsole(info, nil)
		},
	}

	keyImportCmd = &cobra.Command{
		Use:   "import <mnemonic words>",
		Short: "store the root key of an existing mnemonic",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(importMnemonic(strings.Join(args, " ")), nil)
		},
	}

	keyListCmd = &cobra.Command{
		Use:   "list",
		Short: "list the keystore",
		Run: func(cmd *cobra.Command, args []string) {
			ks := loadKeystore()
			infos := make([]keyInfo, 0)
			for _, id := range ks.List() {
				root, err := ks.GetPublic(id)
				if err != nil {
					l.Fatal(err.Error())
				}
				infos = append(infos, keyInfo{ID: id, Nickname: ks.ByID[id].Nickname, RootXPub: root.Bech32()})
			}
			writeToConsole(infos, nil)
		},
	}

	keyGetCmd = &cobra.Command{
		Use:   "get <id or nickname>",
		Short: "decrypt a root key and print its account public key",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			k := getKeychain(args[0])
			a, err := k.AddAccount(account)
			if err != nil {
				l.Fatal(err.Error())
			}
			ks := loadKeystore()
			root, err := ks.GetPublic(args[0])
			if err != nil {
				l.Fatal(err.Error())
			}
			writeToConsole(keyInfo{
				ID:          k.ID(),
				Nickname:    ks.ByID[k.ID()].Nickname,
				RootXPub:    root.Bech32(),
				AccountXPub: a.PublicKey.Bech32(),
				AccountPath: a.Path().String(),
			}, nil)
		},
	}

	keyDeleteCmd = &cobra.Command{
		Use:   "delete <id or nickname>",
		Short: "delete a root key from the keystore",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ks := loadKeystore()
			ks.DeleteKey(args[0])
			saveKeystore(ks)
			writeToConsole("deleted "+args[0], nil)
		},
	}

	keyDeriveCmd = &cobra.Command{
		Use:   "derive <xprv or xpub bech32> <path>",
		Short: "derive a child key; public keys accept soft paths only",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			path, err := parseRelativePath(args[1])
			if err != nil {
				l.Fatal(err.Error())
			}
			if strings.HasPrefix(args[0], crypto.XPrvBech32Prefix+"1") {
				xprv, e := crypto.NewExtendedPrivateKeyFromBech32(args[0])
				if e != nil {
					l.Fatal(e.Error())
				}
				writeToConsole(xprv.DerivePath(path).Bech32(), nil)
				return
			}
			xpub, err := crypto.NewExtendedPublicKeyFromBech32(args[0])
			if err != nil {
				l.Fatal(err.Error())
			}
			child, err := xpub.DerivePath(path)
			if err != nil {
				l.Fatal(err.Error())
			}
			writeToConsole(child.Bech32(), nil)
		},
	}

	keyHashCmd = &cobra.Command{
		Use:   "hash <public key hex or bech32>",
		Short: "print the key hash used in credentials and witnesses",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(keyHash(args[0]))
		},
	}
)

// importMnemonic() encrypts the mnemonic's root key into the keystore
func importMnemonic(mnemonic string) keyInfo {
	root, err := crypto.MasterKeyFromMnemonic(mnemonic, passphrase)
	if err != nil {
		l.Fatal(err.Error())
	}
	ks := loadKeystore()
	id, err := ks.Import(root, getFirstPassword(), getNickname())
	if err != nil {
		l.Fatal(err.Error())
	}
	saveKeystore(ks)
	l.Infof("Imported key %s to keystore", id)
	return keyInfo{ID: id, Nickname: nick, RootXPub: root.Public().Bech32()}
}

// getKeychain() decrypts a keystore entry into a keychain
func getKeychain(idOrNickname string) *wallet.Keychain {
	k, err := wallet.NewKeychainFromKeystore(loadKeystore(), idOrNickname, getPassword(), l)
	if err != nil {
		l.Fatal(err.Error())
	}
	return k
}

// parseRelativePath() accepts "m/..." or a bare "0/1/2" path
func parseRelativePath(s string) (crypto.DerivationPath, lib.ErrorI) {
	if !strings.HasPrefix(s, "m") {
		s = "m/" + s
	}
	return crypto.ParseDerivationPath(s)
}

// keyHash() accepts a raw or extended public key in hex or any bech32 form (addr_vk, xpub, ...)
func keyHash(s string) (string, error) {
	bz, err := lib.StringToBytes(s)
	if err != nil {
		_, data, e := crypto.Bech32Decode(s)
		if e != nil {
			return "", e
		}
		bz = data
	}
	switch len(bz) {
	case crypto.ExtendedPublicKeySize:
		bz = bz[:crypto.PublicKeySize]
	case crypto.PublicKeySize:
	default:
		return "", lib.ErrInvalidPublicKeyLength(len(bz))
	}
	pub, err := crypto.NewPublicKeyFromBytes(bz)
	if err != nil {
		return "", err
	}
	return crypto.ShortHashString(pub.Bytes()), nil
}
