package cli

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/crypto"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const SoftwareVersion = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "cardano",
	Short: "keys, addresses and assets for cardano",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config = InitializeDataDirectory(DataDir, lib.NewDefaultLogger())
		l = lib.NewLogger(lib.LoggerConfig{Level: config.GetLogLevel(), Out: os.Stderr})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(SoftwareVersion)
	},
}

var (
	config, l          = lib.Config{}, lib.LoggerI(lib.NewDefaultLogger())
	DataDir, pwd, nick = "", "", ""
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(addressCmd)
	rootCmd.AddCommand(assetCmd)
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(feeCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(autoCompleteCmd)
	autoCompleteCmd.AddCommand(generateCompleteCmd)
	autoCompleteCmd.AddCommand(autoCompleteInstallCmd)
	rootCmd.PersistentFlags().StringVar(&DataDir, "data-dir", lib.DefaultDataDirPath(), "custom data directory location")
	rootCmd.PersistentFlags().StringVar(&pwd, "password", "", "input a keystore password (not recommended)")
	rootCmd.PersistentFlags().StringVar(&nick, "nickname", "", "input nickname for key")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// InitializeDataDirectory() creates the data directory and the config file if missing, then loads the config
func InitializeDataDirectory(dataDirPath string, log lib.LoggerI) (c lib.Config) {
	// make the data dir if missing
	if err := os.MkdirAll(dataDirPath, os.ModePerm); err != nil {
		log.Fatal(err.Error())
	}
	// make the config.json file if missing
	configFilePath := filepath.Join(dataDirPath, lib.ConfigFilePath)
	if _, err := os.Stat(configFilePath); errors.Is(err, os.ErrNotExist) {
		log.Infof("Creating %s file", lib.ConfigFilePath)
		if err = lib.DefaultConfig().WriteToFile(configFilePath); err != nil {
			log.Fatal(err.Error())
		}
	}
	// load the config object
	c, err := lib.NewConfigFromFile(configFilePath)
	if err != nil {
		log.Fatal(err.Error())
	}
	// set the data-directory
	c.DataDirPath = dataDirPath
	return
}

// loadKeystore() reads the keystore from the data directory
func loadKeystore() *crypto.Keystore {
	ks, err := crypto.NewKeystoreFromFile(config.DataDirPath)
	if err != nil {
		l.Fatal(err.Error())
	}
	return ks
}

// saveKeystore() writes the keystore back to the data directory
func saveKeystore(ks *crypto.Keystore) {
	if err := ks.SaveToFile(config.DataDirPath); err != nil {
		l.Fatal(err.Error())
	}
}

// networkInfo() resolves the configured network
func networkInfo() lib.NetworkInfo {
	info, err := config.NetworkConfig.NetworkInfo()
	if err != nil {
		l.Fatal(err.Error())
	}
	return info
}

func getPassword() string {
	if pwd != "" {
		return pwd
	}
	l.Infof("Enter password:")
	return readPassword()
}

func getFirstPassword() string {
	// allow flag config to skip initial password
	if pwd != "" {
		return pwd
	}
	l.Infof("Enter password for your new private key:")
	password := readPassword()
	if password == "" {
		l.Infof("Password cannot be empty")
		return getFirstPassword()
	}
	return password
}

func getNickname() string {
	// allow flag config to skip nickname
	if nick == "" {
		l.Infof("Enter nickname for your new private key:")
		if _, e := fmt.Scanln(&nick); e != nil {
			l.Fatal(e.Error())
		}
	}
	return nick
}

func readPassword() string {
	password, e := term.ReadPassword(int(os.Stdin.Fd()))
	if e != nil {
		l.Fatal(e.Error())
	}
	return string(password)
}

func writeToConsole(a any, err error) {
	if err != nil {
		l.Fatal(err.Error())
	}
	switch a.(type) {
	case int, uint32, uint64:
		p := message.NewPrinter(language.English)
		if _, err := p.Printf("%d\n", a); err != nil {
			l.Fatal(err.Error())
		}
	case string, *string:
		fmt.Println(a)
	default:
		s, err := lib.MarshalJSONIndentString(a)
		if err != nil {
			l.Fatal(err.Error())
		}
		fmt.Println(s)
	}
}

// AUTO COMPLETE CODE BELOW

var autoCompleteCmd = &cobra.Command{
	Use:   "auto-complete",
	Short: "auto-complete generation and installation (for zsh and bash)",
}

var autoCompleteInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "automatically installs shell completion",
	Run: func(cmd *cobra.Command, args []string) {
		shell := detectShell()
		if shell == "" {
			writeToConsole(nil, errors.New("can't detect shell (only zsh or bash is supported)"))
			return
		}
		completionScript, profileFile := "", ""

		switch shell {
		case "bash":
			profileFile = getBashProfile()
			completionScript = `
cardano auto-complete generate > ~/.cardano-completion.sh

# Ensure completion script is sourced only once
if ! grep -q 'source ~/.cardano-completion.sh' ` + profileFile + `; then
    echo 'source ~/.cardano-completion.sh' >> ` + profileFile + `
fi`
		case "zsh":
			profileFile = "~/.zshrc"
			completionScript = `
mkdir -p ~/.zsh/completions
cardano auto-complete generate > ~/.zsh/completions/_cardano

# Ensure fpath is set only once
if ! grep -q 'fpath=(~/.zsh/completions $fpath)' ` + profileFile + `; then
    echo 'fpath=(~/.zsh/completions $fpath)' >> ` + profileFile + `
fi

# Ensure compinit is set only once
if ! grep -q 'autoload -Uz compinit && compinit' ` + profileFile + `; then
    echo 'autoload -Uz compinit && compinit' >> ` + profileFile + `
fi`
		default:
			writeToConsole(nil, errors.New("unsupported shell (only zsh or bash is supported)"))
			return
		}
		writeToConsole(fmt.Sprintf("Installing completion for: %s", shell), nil)
		if err := exec.Command("sh", "-c", completionScript).Run(); err != nil {
			writeToConsole(nil, fmt.Errorf("error setting up completion:, %s", err.Error()))
		} else {
			writeToConsole(fmt.Sprintf("Completion installed. Restart your shell or run `source %s`", profileFile), nil)
		}
	},
}

var generateCompleteCmd = &cobra.Command{
	Use:   "generate",
	Short: "generate completion script",
	Run: func(cmd *cobra.Command, args []string) {
		switch detectShell() {
		case "bash":
			rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			rootCmd.GenZshCompletion(os.Stdout)
		default:
			cmd.Println("Unsupported shell. Use: bash or zsh")
		}
	},
}

func detectShell() string {
	shell := os.Getenv("SHELL")
	switch {
	case strings.Contains(shell, "bash"):
		return "bash"
	case strings.Contains(shell, "zsh"):
		return "zsh"
	case strings.Contains(shell, "fish"):
		return "fish"
	}
	return ""
}

func getBashProfile() string {
	if _, err := os.Stat(os.Getenv("HOME") + "/.bashrc"); err == nil {
		return "~/.bashrc"
	}
	return "~/.bash_profile"
}
