package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the youtube-mcp application
var rootCmd = &cobra.Command{
	Use:   "youtube-mcp",
	Short: "MCP server for the YouTube Data, Analytics and Reporting APIs",
	Long: `youtube-mcp exposes YouTube as a set of MCP tools for AI assistants:
search, channel and video metadata, transcripts, analytics, bulk reports,
and (unless --read-only) publishing, playlists and comments.

Data API quota is tracked client-side against the daily allowance, and the
OAuth credential is stored in the config directory (~/.youtube-mcp).`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "youtube-mcp version %s\n" .Version}}`)

	// MCP hosts launch the binary without arguments.
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
