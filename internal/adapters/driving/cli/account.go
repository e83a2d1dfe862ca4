package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/calsync/internal/adapters/driving/oauth"
	"github.com/custodia-labs/calsync/internal/connectors/google"
	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/services"
)

// Flags for account commands.
var (
	accountEmail   string
	accountName    string
	loginPort      int
	loginNoBrowser bool
	loginTimeout   time.Duration
)

// openBrowser is replaced in tests.
var openBrowser = oauth.OpenBrowser

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage local accounts and the Google login",
	Long:  `Local accounts own synchronised events. An event is assigned to the
account whose email (or display name, depending on sync.ownership) matches
the event organiser.

'calsync account login' authorises calsync to read your Google calendars.`,
}

var accountAddCmd = &cobra.Command{
	Use:   "add [account-id]",
	Short: "Add or update a local account",
	Long:  `Add or update a local account.

Examples:
  calsync account add 42 --email ana@example.com --name "Ana Lima"
  calsync account add 7 --name "Front Desk"`,
	Args: cobra.ExactArgs(1),
	RunE: runAccountAdd,
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List local accounts",
	RunE:  runAccountList,
}

var accountRemoveCmd = &cobra.Command{
	Use:   "remove [account-id]",
	Short: "Remove a local account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountRemove,
}

var accountLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorise access to Google Calendar",
	Long:  `Runs the OAuth authorisation code flow with PKCE against the client
credentials in google.credentials_file. The browser redirects back to a
temporary server on 127.0.0.1 and the token is stored in google.token_file.`,
	RunE: runAccountLogin,
}

func init() {
	accountAddCmd.Flags().StringVar(&accountEmail, "email", "", "email address matched against organisers")
	accountAddCmd.Flags().StringVar(&accountName, "name", "", "display name matched against organisers")

	accountLoginCmd.Flags().IntVar(&loginPort, "port", 0, "callback port (0 picks a free port)")
	accountLoginCmd.Flags().BoolVar(&loginNoBrowser, "no-browser", false, "print the URL instead of opening a browser")
	accountLoginCmd.Flags().DurationVar(&loginTimeout, "timeout", 5*time.Minute, "how long to wait for the redirect")

	accountCmd.AddCommand(accountAddCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountRemoveCmd)
	accountCmd.AddCommand(accountLoginCmd)
	rootCmd.AddCommand(accountCmd)
}

func runAccountAdd(cmd *cobra.Command, args []string) error {
	if accountService == nil {
		return errNotConfigured("account")
	}

	account, err := accountService.Add(cmd.Context(), domain.Account{
		ID:    args[0],
		Email: accountEmail,
		Name:  accountName,
	})
	if err != nil {
		return fmt.Errorf("failed to add account: %w", err)
	}

	cmd.Printf("Account %s saved.\n", account.ID)
	return nil
}

func runAccountList(cmd *cobra.Command, _ []string) error {
	if accountService == nil {
		return errNotConfigured("account")
	}

	accounts, err := accountService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if len(accounts) == 0 {
		cmd.Println("No accounts. Events are owned by the default owner.")
		return nil
	}
	for _, a := range accounts {
		cmd.Printf("%s  %s  %s\n", a.ID, dash(a.Email), dash(a.Name))
	}
	return nil
}

func runAccountRemove(cmd *cobra.Command, args []string) error {
	if accountService == nil {
		return errNotConfigured("account")
	}

	if err := accountService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove account: %w", err)
	}

	cmd.Printf("Account %s removed.\n", args[0])
	return nil
}

func runAccountLogin(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	credentials, _ := settingsService.Get(services.KeyCredentialsFile)
	tokenFile, _ := settingsService.Get(services.KeyTokenFile)

	cfg, err := google.LoadOAuthConfig(google.ExpandHome(credentials))
	if err != nil {
		return fmt.Errorf("failed to load OAuth client: %w", err)
	}

	state := uuid.New().String()
	server := oauth.NewCallbackServer(loginPort, state)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}
	defer func() { _ = server.Stop() }()

	cfg.RedirectURL = server.RedirectURI()
	verifier := oauth2.GenerateVerifier()
	authURL := google.AuthCodeURL(cfg, state, verifier)

	cmd.Println("Open the following URL to authorise calsync:")
	cmd.Println()
	cmd.Println("  " + authURL)
	cmd.Println()
	if !loginNoBrowser {
		if err := openBrowser(authURL); err != nil {
			cmd.Printf("Could not open a browser: %v\n", err)
		}
	}
	cmd.Printf("Waiting for authorisation on %s...\n", server.RedirectURI())

	code, err := server.WaitForCode(cmd.Context(), loginTimeout)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	store := google.NewFileTokenStore(google.ExpandHome(tokenFile))
	if _, err := google.Login(cmd.Context(), cfg, store, code, verifier); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cmd.Printf("Logged in. Token saved to %s\n", store.Path())
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
