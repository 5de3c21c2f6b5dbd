package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	youtubeanalytics "google.golang.org/api/youtubeanalytics/v2"
	youtubereporting "google.golang.org/api/youtubereporting/v1"
	youtube "google.golang.org/api/youtube/v3"

	"github.com/teemow/youtube-mcp/internal/instrumentation"
	"github.com/teemow/youtube-mcp/internal/logging"
)

// ServiceKind selects one of the three YouTube APIs.
type ServiceKind string

const (
	ServiceData      ServiceKind = "youtube"
	ServiceAnalytics ServiceKind = "youtubeAnalytics"
	ServiceReporting ServiceKind = "youtubereporting"
)

// Results reported to the Recorder.
const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// DefaultRefreshRetries is how often a transient refresh failure is retried
// before falling back to interactive consent.
const DefaultRefreshRetries = 2

const refreshInitialInterval = 250 * time.Millisecond

// Recorder receives authentication outcomes, typically for metrics.
type Recorder interface {
	RecordOAuthAuth(ctx context.Context, result string)
	RecordOAuthTokenRefresh(ctx context.Context, result string)
}

// Options configures a Manager. Zero values resolve from the environment
// and the defaults described on each field.
type Options struct {
	// ConfigDir defaults to $YOUTUBE_MCP_CONFIG_DIR, then ~/.youtube-mcp.
	ConfigDir string
	// ClientSecretPath defaults to $YOUTUBE_MCP_CLIENT_SECRET, then
	// <ConfigDir>/client_secret.json.
	ClientSecretPath string
	// APIKey defaults to $YOUTUBE_API_KEY.
	APIKey string

	// Store defaults to a FileStore at <ConfigDir>/token.json.
	Store CredentialStore
	// Scopes defaults to RequiredScopes.
	Scopes []string
	// Consent defaults to LoopbackConsent.
	Consent ConsentFunc

	// Transport is the base round tripper for API and token endpoint calls.
	Transport http.RoundTripper
	// ServiceOptions are appended when building API services.
	ServiceOptions []option.ClientOption

	// RefreshRetries is the number of extra attempts for transient refresh
	// failures. Zero means a single attempt.
	RefreshRetries int

	Clock    func() time.Time
	Logger   *slog.Logger
	Recorder Recorder
}

// Manager owns the OAuth credential lifecycle and hands out authorized
// YouTube API services.
type Manager struct {
	configDir        string
	clientSecretPath string
	apiKey           string
	store            CredentialStore
	scopes           []string
	consent          ConsentFunc
	transport        http.RoundTripper
	serviceOptions   []option.ClientOption
	refreshRetries   int
	now              func() time.Time
	logger           *slog.Logger
	recorder         Recorder

	// mu serializes load, refresh, consent and persist.
	mu     sync.Mutex
	cached atomic.Pointer[Credential]
}

// NewManager creates a Manager. No I/O happens until first use.
func NewManager(opts Options) *Manager {
	m := &Manager{
		configDir:      ResolveConfigDir(opts.ConfigDir),
		apiKey:         ResolveAPIKey(opts.APIKey),
		store:          opts.Store,
		scopes:         opts.Scopes,
		consent:        opts.Consent,
		transport:      opts.Transport,
		serviceOptions: opts.ServiceOptions,
		refreshRetries: opts.RefreshRetries,
		now:            opts.Clock,
		logger:         opts.Logger,
		recorder:       opts.Recorder,
	}
	m.clientSecretPath = ResolveClientSecretPath(opts.ClientSecretPath, m.configDir)

	if m.store == nil {
		m.store = NewFileStore(TokenPath(m.configDir))
	}
	if len(m.scopes) == 0 {
		m.scopes = RequiredScopes
	}
	if m.transport == nil {
		m.transport = http.DefaultTransport
	}
	if m.refreshRetries < 0 {
		m.refreshRetries = 0
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.consent == nil {
		m.consent = LoopbackConsent(m.logger, OpenBrowser, DefaultConsentTimeout)
	}
	return m
}

// ConfigDir returns the resolved configuration directory.
func (m *Manager) ConfigDir() string {
	return m.configDir
}

// ClientSecretPath returns the resolved client secret location.
func (m *Manager) ClientSecretPath() string {
	return m.clientSecretPath
}

// HasAPIKey reports whether a key for public-data access is configured.
func (m *Manager) HasAPIKey() bool {
	return m.apiKey != ""
}

// Authenticate returns a usable credential, refreshing it or running
// interactive consent when needed.
func (m *Manager) Authenticate(ctx context.Context) (*Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticateLocked(ctx)
}

func (m *Manager) authenticateLocked(ctx context.Context) (*Credential, error) {
	cred, err := m.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoCredential) {
			m.logger.Warn("ignoring unreadable credential", "location", m.store.Location(), logging.Err(err))
		}
		cred = nil
	}

	switch Classify(cred, m.now(), m.scopes) {
	case StateValid:
		m.cached.Store(cred)
		return cred, nil

	case StateRefreshable:
		refreshed, err := m.refresh(ctx, cred)
		if err != nil {
			m.recordRefresh(ctx, resultFailure)
			m.logger.Warn("token refresh failed, falling back to consent", logging.Err(err))
			break
		}
		m.recordRefresh(ctx, resultSuccess)
		m.persist(ctx, refreshed)
		if refreshed.Valid(m.now(), m.scopes) {
			m.cached.Store(refreshed)
			return refreshed, nil
		}
		m.logger.Info("refreshed token lacks required scopes, requesting consent")
	}

	if !fileExists(m.clientSecretPath) {
		m.recordAuth(ctx, resultFailure)
		return nil, &AuthError{Message: fmt.Sprintf(
			"client_secret.json not found at %s. Download it from your Google Cloud Console "+
				"(APIs & Services > Credentials > OAuth 2.0 Client IDs) and place it at this path, "+
				"or set %s env var.", m.clientSecretPath, EnvClientSecret)}
	}

	conf, err := loadClientConfig(m.clientSecretPath, m.scopes)
	if err != nil {
		m.recordAuth(ctx, resultFailure)
		return nil, &AuthError{Message: "OAuth flow failed", Err: err}
	}

	tok, err := m.consent(m.oauthContext(ctx), conf)
	if err != nil {
		m.recordAuth(ctx, resultFailure)
		return nil, &AuthError{Message: "OAuth flow failed", Err: err}
	}

	cred = credentialFromToken(tok, conf, m.scopes)
	m.persist(ctx, cred)
	m.recordAuth(ctx, resultSuccess)
	m.logger.Info("YouTube authorization completed", "token", logging.SanitizeToken(cred.Token))
	m.cached.Store(cred)
	return cred, nil
}

// persist saves cred; a failure leaves the in-memory credential usable.
func (m *Manager) persist(ctx context.Context, cred *Credential) {
	if err := m.store.Save(ctx, cred); err != nil {
		m.logger.Warn("failed to persist credential", "location", m.store.Location(), logging.Err(err))
	}
}

func (m *Manager) refresh(ctx context.Context, cred *Credential) (*Credential, error) {
	ctx, span := instrumentation.StartSpan(ctx, "oauth.token_refresh")
	defer span.End()

	conf := cred.oauthConfig()
	oauthCtx := m.oauthContext(ctx)

	op := func() (*oauth2.Token, error) {
		tok, err := conf.TokenSource(oauthCtx, &oauth2.Token{RefreshToken: cred.RefreshToken}).Token()
		if err != nil && !isTransientRefreshError(err) {
			return nil, backoff.Permanent(err)
		}
		if err != nil {
			instrumentation.AddSpanEvent(span, "transient_failure")
		}
		return tok, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = refreshInitialInterval
	tok, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(m.refreshRetries+1)),
	)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	instrumentation.SetSpanSuccess(span)

	refreshed := *cred
	refreshed.Token = tok.AccessToken
	refreshed.Expiry = tok.Expiry
	if tok.RefreshToken != "" {
		refreshed.RefreshToken = tok.RefreshToken
	}
	if granted, ok := tok.Extra("scope").(string); ok && strings.TrimSpace(granted) != "" {
		refreshed.Scopes = strings.Fields(granted)
	}
	return &refreshed, nil
}

// isTransientRefreshError separates network trouble and server-side errors
// from OAuth rejections such as invalid_grant.
func isTransientRefreshError(err error) bool {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.Response == nil {
			return true
		}
		code := re.Response.StatusCode
		return code >= 500 || code == http.StatusTooManyRequests
	}
	return true
}

func (m *Manager) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: m.transport})
}

func (m *Manager) recordAuth(ctx context.Context, result string) {
	if m.recorder != nil {
		m.recorder.RecordOAuthAuth(ctx, result)
	}
}

func (m *Manager) recordRefresh(ctx context.Context, result string) {
	if m.recorder != nil {
		m.recorder.RecordOAuthTokenRefresh(ctx, result)
	}
}

// Credentials returns the cached credential after re-validating it, and
// authenticates again when it is no longer valid.
func (m *Manager) Credentials(ctx context.Context) (*Credential, error) {
	if c := m.cached.Load(); c != nil && c.Valid(m.now(), m.scopes) {
		return c, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c := m.cached.Load(); c != nil && c.Valid(m.now(), m.scopes) {
		return c, nil
	}
	return m.authenticateLocked(ctx)
}

// HasUsableCredential reports whether a valid or refreshable credential is
// available without user interaction. It performs no network calls.
func (m *Manager) HasUsableCredential(ctx context.Context) bool {
	if c := m.cached.Load(); c != nil && c.Valid(m.now(), m.scopes) {
		return true
	}
	cred, err := m.store.Load(ctx)
	if err != nil {
		return false
	}
	return Classify(cred, m.now(), m.scopes) != StateUnusable
}

// credentialSource re-enters Credentials for every token the transport
// needs, so long-lived services survive expiry.
type credentialSource struct {
	m   *Manager
	ctx context.Context
}

func (s *credentialSource) Token() (*oauth2.Token, error) {
	cred, err := s.m.Credentials(s.ctx)
	if err != nil {
		return nil, err
	}
	return cred.OAuth2Token(), nil
}

// HTTPClient returns an http.Client that attaches the OAuth bearer token.
func (m *Manager) HTTPClient(ctx context.Context) (*http.Client, error) {
	cred, err := m.Credentials(ctx)
	if err != nil {
		return nil, err
	}
	src := &credentialSource{m: m, ctx: context.WithoutCancel(ctx)}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(cred.OAuth2Token(), src),
			Base:   m.transport,
		},
	}, nil
}

// DeferredHTTPClient returns a client that obtains its credential on the
// first request instead of up front. Callers use it to reserve quota before
// any consent prompt can happen.
func (m *Manager) DeferredHTTPClient() *http.Client {
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: &credentialSource{m: m, ctx: context.Background()},
			Base:   m.transport,
		},
	}
}

// DeferredServiceOptions returns client options for building any Google API
// service on top of DeferredHTTPClient.
func (m *Manager) DeferredServiceOptions() []option.ClientOption {
	return m.clientOptions(m.DeferredHTTPClient())
}

// PublicServiceOptions returns client options that authorize by API key
// alone. It fails with an AuthError when no key is configured.
func (m *Manager) PublicServiceOptions() ([]option.ClientOption, error) {
	if m.apiKey == "" {
		return nil, &AuthError{Message: "No API key available. Set " + EnvAPIKey + " env var for public-only access."}
	}
	client := &http.Client{
		Transport: &transport.APIKey{Key: m.apiKey, Transport: m.transport},
	}
	return m.clientOptions(client), nil
}

func (m *Manager) clientOptions(client *http.Client) []option.ClientOption {
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	return append(opts, m.serviceOptions...)
}

// DataService builds an OAuth-authorized YouTube Data API v3 service.
func (m *Manager) DataService(ctx context.Context) (*youtube.Service, error) {
	client, err := m.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := youtube.NewService(ctx, m.clientOptions(client)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return svc, nil
}

// AnalyticsService builds a YouTube Analytics API v2 service.
func (m *Manager) AnalyticsService(ctx context.Context) (*youtubeanalytics.Service, error) {
	client, err := m.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := youtubeanalytics.NewService(ctx, m.clientOptions(client)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube Analytics service: %w", err)
	}
	return svc, nil
}

// ReportingService builds a YouTube Reporting API v1 service.
func (m *Manager) ReportingService(ctx context.Context) (*youtubereporting.Service, error) {
	client, err := m.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := youtubereporting.NewService(ctx, m.clientOptions(client)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube Reporting service: %w", err)
	}
	return svc, nil
}

// BuildService dispatches on kind. The result is one of *youtube.Service,
// *youtubeanalytics.Service or *youtubereporting.Service.
func (m *Manager) BuildService(ctx context.Context, kind ServiceKind) (interface{}, error) {
	switch kind {
	case ServiceData:
		return m.DataService(ctx)
	case ServiceAnalytics:
		return m.AnalyticsService(ctx)
	case ServiceReporting:
		return m.ReportingService(ctx)
	default:
		return nil, fmt.Errorf("unknown service kind %q", kind)
	}
}

// PublicDataService builds a Data API service authorized only by API key.
// It never triggers interactive consent.
func (m *Manager) PublicDataService(ctx context.Context) (*youtube.Service, error) {
	opts, err := m.PublicServiceOptions()
	if err != nil {
		return nil, err
	}
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return svc, nil
}

func loadClientConfig(path string, scopes []string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secret: %w", err)
	}
	conf, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secret: %w", err)
	}
	return conf, nil
}
