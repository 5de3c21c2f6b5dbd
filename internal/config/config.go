// Package config loads server settings from config.yaml and the
// environment. Command-line flags are applied on top by the cmd package, so
// the effective precedence is flag, env, file, default.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/teemow/youtube-mcp/internal/atomicfile"
	"github.com/teemow/youtube-mcp/internal/auth"
	"github.com/teemow/youtube-mcp/internal/quota"
	"github.com/teemow/youtube-mcp/internal/ratelimit"
)

// FileName is the optional settings file inside the config directory.
const FileName = "config.yaml"

// Quota store backends.
const (
	QuotaStoreNone   = "none"
	QuotaStoreFile   = "file"
	QuotaStoreValkey = "valkey"
)

// Credential store backends.
const (
	CredentialStoreFile   = "file"
	CredentialStoreMemory = "memory"
)

// Transports.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// Config holds all server settings.
type Config struct {
	ClientSecret string            `yaml:"client_secret,omitempty"`
	APIKey       string            `yaml:"api_key,omitempty"`
	LogLevel     string            `yaml:"log_level"`
	ReadOnly     bool              `yaml:"read_only"`
	Quota        QuotaConfig       `yaml:"quota"`
	Valkey       ValkeyConfig      `yaml:"valkey"`
	Credentials  CredentialsConfig `yaml:"credentials"`
	RateLimit    RateLimitConfig   `yaml:"rate_limit"`
	Transport    TransportConfig   `yaml:"transport"`
	Metrics      MetricsConfig     `yaml:"metrics"`
}

type QuotaConfig struct {
	Limit    int    `yaml:"limit"`
	Timezone string `yaml:"timezone"`
	Store    string `yaml:"store"`
}

type ValkeyConfig struct {
	URL        string `yaml:"url,omitempty"`
	Password   string `yaml:"password,omitempty"`
	TLSEnabled bool   `yaml:"tls"`
	KeyPrefix  string `yaml:"key_prefix"`
	DB         int    `yaml:"db"`
}

type CredentialsConfig struct {
	Store          string `yaml:"store"`
	RefreshRetries int    `yaml:"refresh_retries"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type TransportConfig struct {
	Type     string `yaml:"type"`
	HTTPAddr string `yaml:"http_addr"`
	// AllowRemote permits a non-loopback HTTP bind with write tools
	// registered. /mcp has no client authentication.
	AllowRemote bool `yaml:"allow_remote"`
}

// DefaultHTTPAddr keeps the unauthenticated MCP endpoint on this host.
const DefaultHTTPAddr = "127.0.0.1:8080"

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Quota: QuotaConfig{
			Limit:    quota.DefaultLimit,
			Timezone: quota.DefaultTimezone,
			Store:    QuotaStoreNone,
		},
		Valkey: ValkeyConfig{
			KeyPrefix: quota.DefaultKeyPrefix,
		},
		Credentials: CredentialsConfig{
			Store:          CredentialStoreFile,
			RefreshRetries: auth.DefaultRefreshRetries,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: ratelimit.DefaultRequestsPerSecond,
			Burst:             ratelimit.DefaultBurst,
		},
		Transport: TransportConfig{
			Type:     TransportStdio,
			HTTPAddr: DefaultHTTPAddr,
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
	}
}

// Path returns the location of config.yaml inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads config.yaml from dir over the defaults. A missing file is not
// an error.
func Load(dir string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(Path(dir))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", Path(dir), err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", Path(dir), err)
	}
	return cfg, nil
}

// Save writes cfg to dir/config.yaml with owner-only permissions, since it
// may hold an API key.
func Save(dir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return atomicfile.Write(Path(dir), data, 0o600)
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays environment variables onto cfg. Malformed numeric or
// boolean values are reported instead of silently ignored.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var firstErr error
	num := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("invalid %s %q: %w", key, v, err)
			}
			return
		}
		*dst = n
	}
	flag := func(key string, dst *bool) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("invalid %s %q: %w", key, v, err)
			}
			return
		}
		*dst = b
	}

	str("YOUTUBE_MCP_CLIENT_SECRET", &c.ClientSecret)
	str("YOUTUBE_API_KEY", &c.APIKey)
	str("YOUTUBE_MCP_LOG_LEVEL", &c.LogLevel)
	flag("YOUTUBE_MCP_READ_ONLY", &c.ReadOnly)

	num("YOUTUBE_MCP_QUOTA_LIMIT", &c.Quota.Limit)
	str("YOUTUBE_MCP_QUOTA_TIMEZONE", &c.Quota.Timezone)
	str("YOUTUBE_MCP_QUOTA_STORE", &c.Quota.Store)

	str("VALKEY_URL", &c.Valkey.URL)
	str("VALKEY_PASSWORD", &c.Valkey.Password)
	flag("VALKEY_TLS_ENABLED", &c.Valkey.TLSEnabled)
	str("VALKEY_KEY_PREFIX", &c.Valkey.KeyPrefix)
	num("VALKEY_DB", &c.Valkey.DB)

	str("YOUTUBE_MCP_CREDENTIAL_STORE", &c.Credentials.Store)

	str("YOUTUBE_MCP_HTTP_ADDR", &c.Transport.HTTPAddr)
	flag("YOUTUBE_MCP_ALLOW_REMOTE", &c.Transport.AllowRemote)

	flag("METRICS_ENABLED", &c.Metrics.Enabled)
	str("METRICS_ADDR", &c.Metrics.Addr)

	return firstErr
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Quota.Store {
	case QuotaStoreNone, QuotaStoreFile:
	case QuotaStoreValkey:
		if c.Valkey.URL == "" {
			return fmt.Errorf("quota store %q requires a valkey url", QuotaStoreValkey)
		}
	default:
		return fmt.Errorf("unknown quota store %q (want none, file or valkey)", c.Quota.Store)
	}
	switch c.Credentials.Store {
	case CredentialStoreFile, CredentialStoreMemory:
	default:
		return fmt.Errorf("unknown credential store %q (want file or memory)", c.Credentials.Store)
	}
	switch c.Transport.Type {
	case TransportStdio, TransportStreamableHTTP:
	default:
		return fmt.Errorf("unknown transport %q (want stdio or streamable-http)", c.Transport.Type)
	}
	if c.Transport.Type == TransportStreamableHTTP {
		if err := c.checkHTTPBind(); err != nil {
			return err
		}
	}
	if c.Quota.Limit <= 0 {
		return fmt.Errorf("quota limit must be positive, got %d", c.Quota.Limit)
	}
	if c.Credentials.RefreshRetries < 0 {
		return fmt.Errorf("refresh retries must not be negative, got %d", c.Credentials.RefreshRetries)
	}
	return nil
}

// checkHTTPBind refuses to expose write tools, which act with the channel
// owner's credential, on a non-loopback address unless explicitly allowed.
func (c *Config) checkHTTPBind() error {
	if c.ReadOnly || c.Transport.AllowRemote || IsLoopbackAddr(c.Transport.HTTPAddr) {
		return nil
	}
	return fmt.Errorf("http address %q is reachable from other hosts and /mcp has no authentication; "+
		"bind to 127.0.0.1, use --read-only, or set --allow-remote", c.Transport.HTTPAddr)
}

// IsLoopbackAddr reports whether a host:port listen address only accepts
// connections from this machine. An empty host listens on all interfaces.
func IsLoopbackAddr(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil || host == "" {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
