// Package cmd implements the command-line interface for youtube-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server over stdio or streamable HTTP
//   - auth login: Run the OAuth consent flow and store the credential
//   - auth status: Show the stored credential's state
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
