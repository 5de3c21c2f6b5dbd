package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	youtubeanalytics "google.golang.org/api/youtubeanalytics/v2"
	youtubereporting "google.golang.org/api/youtubereporting/v1"
	youtube "google.golang.org/api/youtube/v3"

	"github.com/teemow/youtube-mcp/internal/analytics"
	"github.com/teemow/youtube-mcp/internal/auth"
	"github.com/teemow/youtube-mcp/internal/instrumentation"
	"github.com/teemow/youtube-mcp/internal/quota"
	"github.com/teemow/youtube-mcp/internal/reporting"
	ytclient "github.com/teemow/youtube-mcp/internal/youtube"
)

// Options configures a ServerContext.
type Options struct {
	// Auth is required.
	Auth *auth.Manager
	// Quota is required.
	Quota *quota.Tracker
	// Web defaults to a client for the public youtube.com endpoints.
	Web *ytclient.Web
	// ReadOnly hides every tool that modifies the channel.
	ReadOnly bool
	Logger   *slog.Logger
}

// ServerContext holds the state shared by all tool handlers.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	auth     *auth.Manager
	quota    *quota.Tracker
	web      *ytclient.Web
	readOnly bool
	logger   *slog.Logger

	mu          sync.RWMutex
	dataClient  *ytclient.Client
	analytics   *analytics.Client
	reporting   *reporting.Client
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	shutdown    bool
}

// NewServerContext creates a new server context. API clients are built on
// first use and authenticate on their first request.
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	if opts.Auth == nil {
		return nil, errors.New("credential manager is required")
	}
	if opts.Quota == nil {
		return nil, errors.New("quota tracker is required")
	}
	if opts.Web == nil {
		opts.Web = ytclient.NewWeb()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		auth:     opts.Auth,
		quota:    opts.Quota,
		web:      opts.Web,
		readOnly: opts.ReadOnly,
		logger:   opts.Logger,
		metrics:  &instrumentation.Metrics{},
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Auth returns the credential manager.
func (sc *ServerContext) Auth() *auth.Manager {
	return sc.auth
}

// Quota returns the process-wide quota tracker.
func (sc *ServerContext) Quota() *quota.Tracker {
	return sc.quota
}

// Web returns the client for the public youtube.com endpoints.
func (sc *ServerContext) Web() *ytclient.Web {
	return sc.web
}

// ReadOnly reports whether write tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	return sc.readOnly
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// DataClient returns the OAuth-authorized YouTube Data API client.
func (sc *ServerContext) DataClient() (*ytclient.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.dataClient != nil {
		return sc.dataClient, nil
	}
	svc, err := youtube.NewService(sc.ctx, sc.auth.DeferredServiceOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	sc.dataClient = ytclient.NewClient(svc, ytclient.WithQuota(sc.quota))
	return sc.dataClient, nil
}

// ReadClient returns a Data API client for public reads. It prefers OAuth
// when a credential can be used without interaction, then the API key, and
// otherwise falls back to OAuth so that consent can run.
func (sc *ServerContext) ReadClient(ctx context.Context) (*ytclient.Client, error) {
	if sc.auth.HasUsableCredential(ctx) || !sc.auth.HasAPIKey() {
		return sc.DataClient()
	}
	opts, err := sc.auth.PublicServiceOptions()
	if err != nil {
		return nil, err
	}
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return ytclient.NewClient(svc, ytclient.WithQuota(sc.quota)), nil
}

// AnalyticsClient returns the YouTube Analytics API client.
func (sc *ServerContext) AnalyticsClient() (*analytics.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.analytics != nil {
		return sc.analytics, nil
	}
	svc, err := youtubeanalytics.NewService(sc.ctx, sc.auth.DeferredServiceOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube Analytics service: %w", err)
	}
	sc.analytics = analytics.NewClient(svc)
	return sc.analytics, nil
}

// ReportingClient returns the YouTube Reporting API client. Report
// downloads share its OAuth-authorized HTTP client.
func (sc *ServerContext) ReportingClient() (*reporting.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.reporting != nil {
		return sc.reporting, nil
	}
	svc, err := youtubereporting.NewService(sc.ctx, sc.auth.DeferredServiceOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube Reporting service: %w", err)
	}
	sc.reporting = reporting.NewClient(svc, sc.auth.DeferredHTTPClient())
	return sc.reporting, nil
}

// SetDataClient replaces the Data API client, mainly for tests.
func (sc *ServerContext) SetDataClient(c *ytclient.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.dataClient = c
}

// SetAnalyticsClient replaces the Analytics API client, mainly for tests.
func (sc *ServerContext) SetAnalyticsClient(c *analytics.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.analytics = c
}

// SetReportingClient replaces the Reporting API client, mainly for tests.
func (sc *ServerContext) SetReportingClient(c *reporting.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.reporting = c
}

// Metrics returns the metrics recorder. It is never nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder; nil restores the no-op recorder.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if m == nil {
		m = &instrumentation.Metrics{}
	}
	sc.metrics = m
}

// AuditLogger returns the audit logger, or nil when auditing is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
