// Package cli implements the graphmail command surface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/graphmail/internal/config"
	"github.com/custodia-labs/graphmail/internal/graph"
	"github.com/custodia-labs/graphmail/internal/graph/mail"
	"github.com/custodia-labs/graphmail/internal/logger"
)

var (
	// Version is set by goreleaser ldflags.
	version = "dev"

	// Verbose enables debug logging.
	verbose bool

	// Persistent flags shared by all commands.
	flagUser       string
	flagConfigPath string
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "graphmail",
	Short: "Exchange Online mail from the command line",
	Long: `Graphmail wraps the Microsoft Graph mail API behind verb-noun commands
for reading, creating and updating mail messages and folders.

Authentication tokens are acquired externally and stored with 'graphmail auth login'.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "",
		"mailbox to operate on (defaults to the signed-in user)")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "",
		"config file (defaults to ~/.graphmail/config.toml)")

	// Use PersistentPreRunE to set verbose mode before any command executes
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	}
}

// configPath resolves the config file location.
func configPath() (string, error) {
	if flagConfigPath != "" {
		return flagConfigPath, nil
	}
	return config.DefaultPath()
}

// loadConfig reads the config file honouring the --config flag.
func loadConfig() (*config.Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// newMailService builds the mail service for the current invocation and
// returns the effective mailbox user (--user beats the config default).
func newMailService() (*mail.Service, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	if cfg.AccessToken == "" {
		return nil, "", fmt.Errorf("no access token configured, run 'graphmail auth login' first")
	}

	tokens := &graph.StaticTokenProvider{
		AccessToken:   cfg.AccessToken,
		GrantedScopes: cfg.Scopes,
	}
	client := graph.NewClient(tokens)

	user := cfg.User
	if flagUser != "" {
		user = flagUser
	}
	return mail.NewService(client, tokens), user, nil
}
