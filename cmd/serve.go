package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/giantswarm/mcp-oauth/storage/memory"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/youtube-mcp/internal/auth"
	"github.com/teemow/youtube-mcp/internal/config"
	"github.com/teemow/youtube-mcp/internal/instrumentation"
	"github.com/teemow/youtube-mcp/internal/logging"
	"github.com/teemow/youtube-mcp/internal/quota"
	"github.com/teemow/youtube-mcp/internal/ratelimit"
	"github.com/teemow/youtube-mcp/internal/resources"
	"github.com/teemow/youtube-mcp/internal/server"
	"github.com/teemow/youtube-mcp/internal/tools/analytics_tools"
	"github.com/teemow/youtube-mcp/internal/tools/auth_tools"
	"github.com/teemow/youtube-mcp/internal/tools/caption_tools"
	"github.com/teemow/youtube-mcp/internal/tools/channel_tools"
	"github.com/teemow/youtube-mcp/internal/tools/comment_tools"
	"github.com/teemow/youtube-mcp/internal/tools/playlist_tools"
	"github.com/teemow/youtube-mcp/internal/tools/publishing_tools"
	"github.com/teemow/youtube-mcp/internal/tools/reporting_tools"
	"github.com/teemow/youtube-mcp/internal/tools/search_tools"
	ytclient "github.com/teemow/youtube-mcp/internal/youtube"
)

const (
	quotaFileName = "quota.json"

	// memoryCredentialUser keys the credential in the in-memory token store.
	memoryCredentialUser = "default"

	webClientTimeout = 30 * time.Second
)

// serveFlags holds the raw flag values. Only flags the user set override
// the environment and config.yaml.
type serveFlags struct {
	configDir    string
	clientSecret string
	apiKey       string
	logLevel     string
	readOnly     bool

	quotaLimit    int
	quotaTimezone string
	quotaStore    string

	valkeyURL       string
	valkeyPassword  string
	valkeyTLS       bool
	valkeyKeyPrefix string
	valkeyDB        int

	credentialStore string
	refreshRetries  int

	rateLimit float64
	rateBurst int

	transport   string
	httpAddr    string
	allowRemote bool

	metricsEnabled bool
	metricsAddr    string
}

func newServeCmd() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server to expose YouTube tools to AI assistants.

Settings are read from flags, then the environment, then
<config-dir>/config.yaml, then built-in defaults.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP on /mcp with health endpoints`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := loadServeConfig(cmd, &f)
			if err != nil {
				return err
			}
			return runServe(cfg, dir)
		},
	}

	bindServeFlags(cmd, &f)

	return cmd
}

func bindServeFlags(cmd *cobra.Command, f *serveFlags) {
	cmd.Flags().StringVar(&f.configDir, "config-dir", "", "Configuration directory (default ~/.youtube-mcp). Can also use YOUTUBE_MCP_CONFIG_DIR env var.")
	cmd.Flags().StringVar(&f.clientSecret, "client-secret", "", "Path to the OAuth client_secret.json (default <config-dir>/client_secret.json). Can also use YOUTUBE_MCP_CLIENT_SECRET env var.")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "YouTube Data API key for public reads without OAuth. Can also use YOUTUBE_API_KEY env var.")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn or error. Can also use YOUTUBE_MCP_LOG_LEVEL env var.")
	cmd.Flags().BoolVar(&f.readOnly, "read-only", false, "Do not register tools that modify the channel (upload, update, delete, playlists, comments, reporting jobs). Can also use YOUTUBE_MCP_READ_ONLY env var.")

	cmd.Flags().IntVar(&f.quotaLimit, "quota-limit", quota.DefaultLimit, "Daily Data API quota allowance in units. Can also use YOUTUBE_MCP_QUOTA_LIMIT env var.")
	cmd.Flags().StringVar(&f.quotaTimezone, "quota-timezone", quota.DefaultTimezone, "Timezone in which the quota day resets. Can also use YOUTUBE_MCP_QUOTA_TIMEZONE env var.")
	cmd.Flags().StringVar(&f.quotaStore, "quota-store", config.QuotaStoreNone, "Quota persistence: none, file or valkey. Can also use YOUTUBE_MCP_QUOTA_STORE env var.")

	cmd.Flags().StringVar(&f.valkeyURL, "valkey-url", "", "Valkey server address (e.g., valkey.namespace.svc:6379). Can also use VALKEY_URL env var.")
	cmd.Flags().StringVar(&f.valkeyPassword, "valkey-password", "", "Valkey authentication password. Can also use VALKEY_PASSWORD env var.")
	cmd.Flags().BoolVar(&f.valkeyTLS, "valkey-tls", false, "Enable TLS for Valkey connections. Can also use VALKEY_TLS_ENABLED env var.")
	cmd.Flags().StringVar(&f.valkeyKeyPrefix, "valkey-key-prefix", quota.DefaultKeyPrefix, "Prefix for all Valkey keys. Can also use VALKEY_KEY_PREFIX env var.")
	cmd.Flags().IntVar(&f.valkeyDB, "valkey-db", 0, "Valkey database number. Can also use VALKEY_DB env var.")

	cmd.Flags().StringVar(&f.credentialStore, "credential-store", config.CredentialStoreFile, "Where the OAuth credential is kept: file or memory. Can also use YOUTUBE_MCP_CREDENTIAL_STORE env var.")
	cmd.Flags().IntVar(&f.refreshRetries, "refresh-retries", auth.DefaultRefreshRetries, "Retries for transient token refresh failures before falling back to consent. 0 disables retries.")

	cmd.Flags().Float64Var(&f.rateLimit, "rate-limit", ratelimit.DefaultRequestsPerSecond, "Outbound Google API requests per second")
	cmd.Flags().IntVar(&f.rateBurst, "rate-burst", ratelimit.DefaultBurst, "Outbound Google API request burst")

	cmd.Flags().StringVar(&f.transport, "transport", config.TransportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&f.httpAddr, "http-addr", config.DefaultHTTPAddr, "HTTP server address (for streamable-http transport). Can also use YOUTUBE_MCP_HTTP_ADDR env var.")
	cmd.Flags().BoolVar(&f.allowRemote, "allow-remote", false, "Allow a non-loopback --http-addr while write tools are registered. /mcp has no client authentication. Can also use YOUTUBE_MCP_ALLOW_REMOTE env var.")

	cmd.Flags().BoolVar(&f.metricsEnabled, "metrics-enabled", false, "Enable the metrics server on a dedicated port (streamable-http only). Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")
}

// loadServeConfig resolves the config directory and builds the effective
// settings: defaults, then config.yaml, then the environment, then flags
// the user set explicitly.
func loadServeConfig(cmd *cobra.Command, f *serveFlags) (*config.Config, string, error) {
	dir := auth.ResolveConfigDir(f.configDir)

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, "", err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, "", err
	}
	applyServeFlags(cmd, f, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, dir, nil
}

func applyServeFlags(cmd *cobra.Command, f *serveFlags, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("client-secret") {
		cfg.ClientSecret = f.clientSecret
	}
	if changed("api-key") {
		cfg.APIKey = f.apiKey
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("read-only") {
		cfg.ReadOnly = f.readOnly
	}
	if changed("quota-limit") {
		cfg.Quota.Limit = f.quotaLimit
	}
	if changed("quota-timezone") {
		cfg.Quota.Timezone = f.quotaTimezone
	}
	if changed("quota-store") {
		cfg.Quota.Store = f.quotaStore
	}
	if changed("valkey-url") {
		cfg.Valkey.URL = f.valkeyURL
	}
	if changed("valkey-password") {
		cfg.Valkey.Password = f.valkeyPassword
	}
	if changed("valkey-tls") {
		cfg.Valkey.TLSEnabled = f.valkeyTLS
	}
	if changed("valkey-key-prefix") {
		cfg.Valkey.KeyPrefix = f.valkeyKeyPrefix
	}
	if changed("valkey-db") {
		cfg.Valkey.DB = f.valkeyDB
	}
	if changed("credential-store") {
		cfg.Credentials.Store = f.credentialStore
	}
	if changed("refresh-retries") {
		cfg.Credentials.RefreshRetries = f.refreshRetries
	}
	if changed("rate-limit") {
		cfg.RateLimit.RequestsPerSecond = f.rateLimit
	}
	if changed("rate-burst") {
		cfg.RateLimit.Burst = f.rateBurst
	}
	if changed("transport") {
		cfg.Transport.Type = f.transport
	}
	if changed("http-addr") {
		cfg.Transport.HTTPAddr = f.httpAddr
	}
	if changed("allow-remote") {
		cfg.Transport.AllowRemote = f.allowRemote
	}
	if changed("metrics-enabled") {
		cfg.Metrics.Enabled = f.metricsEnabled
	}
	if changed("metrics-addr") {
		cfg.Metrics.Addr = f.metricsAddr
	}
}

func runServe(cfg *config.Config, dir string) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout carries the stdio protocol, so logs go to stderr.
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, level)
	slog.SetDefault(logger)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	instrConfig.Deployment = instrumentation.Deployment{
		QuotaLimit:    cfg.Quota.Limit,
		QuotaTimezone: cfg.Quota.Timezone,
		QuotaStore:    cfg.Quota.Store,
		ReadOnly:      cfg.ReadOnly,
		Transport:     cfg.Transport.Type,
	}
	if cfg.Transport.Type == config.TransportStdio && instrConfig.UsesStdout() {
		return fmt.Errorf("stdout telemetry exporters cannot be used with the stdio transport")
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()
	metrics := provider.Metrics()

	limiter := ratelimit.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	transport := ratelimit.NewTransport(http.DefaultTransport, limiter)

	tracker, closeQuota, err := newQuotaTracker(shutdownCtx, cfg, dir, logger, provider)
	if err != nil {
		return err
	}
	defer closeQuota()

	credentials, err := newCredentialStore(cfg, dir)
	if err != nil {
		return err
	}
	authOpts := auth.Options{
		ConfigDir:        dir,
		ClientSecretPath: cfg.ClientSecret,
		APIKey:           cfg.APIKey,
		Store:            credentials,
		Transport:        transport,
		RefreshRetries:   cfg.Credentials.RefreshRetries,
		Logger:           logger,
	}
	if provider.Enabled() {
		authOpts.Recorder = metrics
	}

	serverContext, err := server.NewServerContext(shutdownCtx, server.Options{
		Auth:  auth.NewManager(authOpts),
		Quota: tracker,
		Web: ytclient.NewWeb(ytclient.WithHTTPClient(&http.Client{
			Transport: transport,
			Timeout:   webClientTimeout,
		})),
		ReadOnly: cfg.ReadOnly,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("server context shutdown failed", logging.Err(err))
		}
	}()

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(metrics)
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
		if err := metrics.ObserveQuotaRemaining(tracker.Remaining); err != nil {
			logger.Warn("failed to register quota gauge", logging.Err(err))
		}
	}

	mcpSrv := mcpserver.NewMCPServer("youtube-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)

	if cfg.ReadOnly {
		logger.Info("read-only mode: write tools are not registered")
	}
	if err := registerAllTools(mcpSrv, serverContext, cfg.ReadOnly); err != nil {
		return err
	}

	switch cfg.Transport.Type {
	case config.TransportStdio:
		return runStdioServer(mcpSrv)
	case config.TransportStreamableHTTP:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, cfg, provider, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Transport.Type)
	}
}

// newQuotaTracker builds the tracker with its persistence backend and
// restores today's usage from it. The returned func releases the backend.
func newQuotaTracker(ctx context.Context, cfg *config.Config, dir string, logger *slog.Logger, provider *instrumentation.Provider) (*quota.Tracker, func(), error) {
	loc, err := quota.LoadLocation(cfg.Quota.Timezone)
	if err != nil {
		return nil, nil, err
	}
	opts := []quota.Option{
		quota.WithLimit(cfg.Quota.Limit),
		quota.WithLocation(loc),
		quota.WithLogger(logger),
	}
	if provider.Enabled() {
		opts = append(opts, quota.WithObserver(instrumentation.QuotaObserver{Metrics: provider.Metrics()}))
	}

	closeStore := func() {}
	switch cfg.Quota.Store {
	case config.QuotaStoreFile:
		opts = append(opts, quota.WithStore(quota.NewFileStore(filepath.Join(dir, quotaFileName))))
	case config.QuotaStoreValkey:
		store, err := quota.NewValkeyStore(quota.ValkeyConfig{
			URL:        cfg.Valkey.URL,
			Password:   cfg.Valkey.Password,
			TLSEnabled: cfg.Valkey.TLSEnabled,
			KeyPrefix:  cfg.Valkey.KeyPrefix,
			DB:         cfg.Valkey.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, quota.WithStore(store))
		closeStore = store.Close
	}

	tracker := quota.NewTracker(opts...)
	if err := tracker.Restore(ctx); err != nil {
		logger.Warn("failed to restore quota usage, starting from zero", logging.Err(err))
	}
	return tracker, closeStore, nil
}

func newCredentialStore(cfg *config.Config, dir string) (auth.CredentialStore, error) {
	switch cfg.Credentials.Store {
	case config.CredentialStoreFile:
		return auth.NewFileStore(auth.TokenPath(dir)), nil
	case config.CredentialStoreMemory:
		return auth.NewTokenStore(memory.New(), memoryCredentialUser), nil
	default:
		return nil, fmt.Errorf("unknown credential store %q", cfg.Credentials.Store)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Auth",
			register: func() error {
				return auth_tools.RegisterAuthTools(mcpSrv, sc)
			},
		},
		{
			name: "Channel",
			register: func() error {
				return channel_tools.RegisterChannelTools(mcpSrv, sc)
			},
		},
		{
			name: "Search",
			register: func() error {
				return search_tools.RegisterSearchTools(mcpSrv, sc)
			},
		},
		{
			name: "Caption",
			register: func() error {
				return caption_tools.RegisterCaptionTools(mcpSrv, sc)
			},
		},
		{
			name: "Analytics",
			register: func() error {
				return analytics_tools.RegisterAnalyticsTools(mcpSrv, sc)
			},
		},
		{
			name: "Publishing",
			register: func() error {
				return publishing_tools.RegisterPublishingTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Playlist",
			register: func() error {
				return playlist_tools.RegisterPlaylistTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Comment",
			register: func() error {
				return comment_tools.RegisterCommentTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Reporting",
			register: func() error {
				return reporting_tools.RegisterReportingTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Status Resources",
			register: func() error {
				return resources.RegisterStatusResources(mcpSrv, sc)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

// newHTTPHandler serves MCP on /mcp next to the health endpoints.
func newHTTPHandler(mcpSrv *mcpserver.MCPServer, health *server.HealthChecker) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mcp", otelhttp.NewHandler(mcpserver.NewStreamableHTTPServer(mcpSrv), "mcp"))
	health.RegisterHealthEndpoints(mux)
	return mux
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, cfg *config.Config, provider *instrumentation.Provider, logger *slog.Logger) error {
	// Start metrics server if enabled
	if cfg.Metrics.Enabled && provider.Enabled() {
		metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.Metrics.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			logger.Info("metrics server started", "addr", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	health := server.NewHealthChecker(sc)
	httpServer := &http.Server{
		Addr:              cfg.Transport.HTTPAddr,
		Handler:           newHTTPHandler(mcpSrv, health),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("streamable HTTP server starting",
		"addr", cfg.Transport.HTTPAddr,
		"mcp_endpoint", "/mcp",
		"health_endpoints", "/healthz, /readyz, /healthz/detailed")

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
