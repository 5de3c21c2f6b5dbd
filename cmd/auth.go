package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teemow/youtube-mcp/internal/auth"
	"github.com/teemow/youtube-mcp/internal/logging"
)

type authFlags struct {
	configDir    string
	clientSecret string
}

func newAuthCmd() *cobra.Command {
	var f authFlags

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the YouTube OAuth credential",
	}

	cmd.PersistentFlags().StringVar(&f.configDir, "config-dir", "", "Configuration directory (default ~/.youtube-mcp). Can also use YOUTUBE_MCP_CONFIG_DIR env var.")
	cmd.PersistentFlags().StringVar(&f.clientSecret, "client-secret", "", "Path to the OAuth client_secret.json. Can also use YOUTUBE_MCP_CLIENT_SECRET env var.")

	cmd.AddCommand(&cobra.Command{
		Use:   "login",
		Short: "Run the browser consent flow and store the credential",
		Long: `Open the Google consent page in a browser and store the resulting
credential in the config directory. An existing valid credential is reused;
an expired one is refreshed before asking for consent again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runAuthLogin(ctx, cmd.OutOrStdout(), newCLIManager(f))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether a usable credential is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printAuthStatus(cmd.OutOrStdout(), newCLIManager(f))
		},
	})

	return cmd
}

func newCLIManager(f authFlags) *auth.Manager {
	return auth.NewManager(auth.Options{
		ConfigDir:        f.configDir,
		ClientSecretPath: f.clientSecret,
		RefreshRetries:   auth.DefaultRefreshRetries,
		Logger:           logging.New(os.Stderr, slog.LevelInfo),
	})
}

func runAuthLogin(ctx context.Context, w io.Writer, mgr *auth.Manager) error {
	if _, err := mgr.Authenticate(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	fmt.Fprintln(w, "Authentication successful.")
	return printAuthStatus(w, mgr)
}

func printAuthStatus(w io.Writer, mgr *auth.Manager) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(mgr.Status())
}
