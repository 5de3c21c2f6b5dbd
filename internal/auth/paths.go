package auth

import (
	"os"
	"path/filepath"
)

// Environment variables consulted when no explicit value is given.
const (
	EnvConfigDir    = "YOUTUBE_MCP_CONFIG_DIR"
	EnvClientSecret = "YOUTUBE_MCP_CLIENT_SECRET"
	EnvAPIKey       = "YOUTUBE_API_KEY"
)

const (
	defaultConfigDirName = ".youtube-mcp"
	tokenFileName        = "token.json"
	clientSecretFileName = "client_secret.json"
)

// ResolveConfigDir returns explicit, else $YOUTUBE_MCP_CONFIG_DIR, else
// ~/.youtube-mcp.
func ResolveConfigDir(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, defaultConfigDirName)
}

// ResolveClientSecretPath returns explicit, else $YOUTUBE_MCP_CLIENT_SECRET,
// else client_secret.json inside configDir.
func ResolveClientSecretPath(explicit, configDir string) string {
	if explicit != "" {
		return explicit
	}
	if path := os.Getenv(EnvClientSecret); path != "" {
		return path
	}
	return filepath.Join(configDir, clientSecretFileName)
}

// ResolveAPIKey returns explicit, else $YOUTUBE_API_KEY.
func ResolveAPIKey(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv(EnvAPIKey)
}

// TokenPath returns the default token file location inside configDir.
func TokenPath(configDir string) string {
	return filepath.Join(configDir, tokenFileName)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
