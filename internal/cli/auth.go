package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/graphmail/internal/config"
	"github.com/custodia-labs/graphmail/internal/graph"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Graph credentials",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a Graph access token",
	Long: `Store a pre-acquired Microsoft Graph access token in the config file.

Token acquisition itself is external: use the Azure CLI, a registered
application, or any other tool that can mint a token with the Mail
scopes, then paste it here. The token is prompted without echo unless
--token is given.

Example:
  graphmail auth login --scopes Mail.ReadWrite`,
	RunE: runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the signed-in user",
	RunE:  runAuthStatus,
}

// Flags for auth login.
var (
	authTenant string
	authClient string
	authToken  string
	authScopes []string
	authUser   string
)

func init() {
	authLoginCmd.Flags().StringVar(&authTenant, "tenant", "common", "Azure AD tenant id")
	authLoginCmd.Flags().StringVar(&authClient, "client-id", "", "registered application id")
	authLoginCmd.Flags().StringVar(&authToken, "token", "", "access token (prompted without echo when omitted)")
	authLoginCmd.Flags().StringSliceVar(&authScopes, "scopes", []string{graph.ScopeMailReadWrite},
		"permission scopes granted to the token")
	authLoginCmd.Flags().StringVar(&authUser, "default-user", "", "default mailbox for commands")

	authCmd.AddCommand(authLoginCmd, authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	token := authToken
	if token == "" {
		cmd.Print("Access token: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.Println()
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		token = strings.TrimSpace(string(raw))
	}
	if token == "" {
		return fmt.Errorf("empty access token")
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	cfg.TenantID = authTenant
	if authClient != "" {
		cfg.ClientID = authClient
	}
	if authUser != "" {
		cfg.User = authUser
	}
	cfg.AccessToken = token
	cfg.Scopes = authScopes

	if err := config.Save(path, cfg); err != nil {
		return err
	}

	cmd.Printf("Token stored in %s\n", path)
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.AccessToken == "" {
		cmd.Println("Not signed in, run 'graphmail auth login' first.")
		return nil
	}

	tokens := &graph.StaticTokenProvider{AccessToken: cfg.AccessToken, GrantedScopes: cfg.Scopes}
	client := graph.NewClient(tokens)

	user := cfg.User
	if flagUser != "" {
		user = flagUser
	}

	info, err := client.GetUserInfo(cmd.Context(), user)
	if err != nil {
		return err
	}

	cmd.Printf("Signed in as %s (%s)\n", info.DisplayName, info.Email())
	cmd.Printf("Granted scopes: %s\n", strings.Join(cfg.Scopes, ", "))
	return nil
}
