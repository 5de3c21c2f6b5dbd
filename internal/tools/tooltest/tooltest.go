// Package tooltest provides a fake Google API server and a ServerContext
// wired to it for testing tool groups end to end through mcp-go.
package tooltest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	youtubeanalytics "google.golang.org/api/youtubeanalytics/v2"
	youtubereporting "google.golang.org/api/youtubereporting/v1"
	youtube "google.golang.org/api/youtube/v3"

	"github.com/teemow/youtube-mcp/internal/analytics"
	"github.com/teemow/youtube-mcp/internal/auth"
	"github.com/teemow/youtube-mcp/internal/quota"
	"github.com/teemow/youtube-mcp/internal/reporting"
	"github.com/teemow/youtube-mcp/internal/server"
	ytclient "github.com/teemow/youtube-mcp/internal/youtube"
)

// Now is the fixed clock analytics date ranges are computed from.
var Now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// Request is one call received by the fake API.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   string
}

type response struct {
	status int
	body   string
}

// API fakes the Google REST endpoints. Routes are keyed by method and full
// path, e.g. "GET /youtube/v3/channels" or "GET /v2/reports".
type API struct {
	Server *httptest.Server

	mu       sync.Mutex
	routes   map[string]response
	requests []Request
}

// NewAPI starts a fake API that is closed with the test.
func NewAPI(t *testing.T) *API {
	t.Helper()
	a := &API{routes: make(map[string]response)}
	a.Server = httptest.NewServer(a)
	t.Cleanup(a.Server.Close)
	return a
}

// URL is the base URL of the fake.
func (a *API) URL() string {
	return a.Server.URL
}

// Handle answers method and path with a JSON body.
func (a *API) Handle(method, path, body string) {
	a.HandleStatus(method, path, http.StatusOK, body)
}

// HandleStatus answers method and path with the given status and body.
func (a *API) HandleStatus(method, path string, status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.routes[method+" "+path] = response{status: status, body: body}
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	a.mu.Lock()
	a.requests = append(a.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Body:   string(body),
	})
	resp, ok := a.routes[r.Method+" "+r.URL.Path]
	a.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":404,"message":"no route"}}`)
		return
	}
	if resp.body == "" && resp.status == http.StatusOK {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}

// Requests returns the calls received so far.
func (a *API) Requests() []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Request(nil), a.requests...)
}

// Last returns the most recent call to method and path.
func (a *API) Last(t *testing.T, method, path string) Request {
	t.Helper()
	reqs := a.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i]
		}
	}
	t.Fatalf("no %s %s request received", method, path)
	return Request{}
}

// Count returns how often method and path were called.
func (a *API) Count(method, path string) int {
	n := 0
	for _, r := range a.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

type config struct {
	quotaLimit int
	readOnly   bool
	authOpts   auth.Options
}

// Option configures NewServerContext.
type Option func(*config)

// WithQuotaLimit sets the daily quota allowance.
func WithQuotaLimit(limit int) Option {
	return func(c *config) {
		c.quotaLimit = limit
	}
}

// WithReadOnly hides write tools.
func WithReadOnly() Option {
	return func(c *config) {
		c.readOnly = true
	}
}

// WithAuthOptions configures the credential manager.
func WithAuthOptions(opts auth.Options) Option {
	return func(c *config) {
		c.authOpts = opts
	}
}

// NoConsent fails every interactive consent attempt.
func NoConsent(context.Context, *oauth2.Config) (*oauth2.Token, error) {
	return nil, errors.New("consent not available in tests")
}

// NewServerContext returns a ServerContext whose API clients and public web
// client all talk to api. The environment is cleared of credentials so that
// nothing leaks in from the developer's machine.
func NewServerContext(t *testing.T, api *API, opts ...Option) *server.ServerContext {
	t.Helper()
	t.Setenv(auth.EnvAPIKey, "")
	t.Setenv(auth.EnvClientSecret, "")
	t.Setenv(auth.EnvConfigDir, "")

	cfg := config{quotaLimit: quota.DefaultLimit}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.authOpts.ConfigDir == "" {
		cfg.authOpts.ConfigDir = t.TempDir()
	}
	if cfg.authOpts.Consent == nil {
		cfg.authOpts.Consent = NoConsent
	}

	tracker := quota.NewTracker(quota.WithLimit(cfg.quotaLimit))
	web := ytclient.NewWeb(
		ytclient.WithHTTPClient(api.Server.Client()),
		ytclient.WithSuggestURL(api.URL()+"/complete/search"),
		ytclient.WithWatchURL(api.URL()+"/watch"),
	)

	sc, err := server.NewServerContext(context.Background(), server.Options{
		Auth:     auth.NewManager(cfg.authOpts),
		Quota:    tracker,
		Web:      web,
		ReadOnly: cfg.readOnly,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	ctx := context.Background()
	svcOpts := []option.ClientOption{
		option.WithEndpoint(api.URL() + "/"),
		option.WithHTTPClient(api.Server.Client()),
	}

	data, err := youtube.NewService(ctx, svcOpts...)
	require.NoError(t, err)
	sc.SetDataClient(ytclient.NewClient(data, ytclient.WithQuota(tracker)))

	an, err := youtubeanalytics.NewService(ctx, svcOpts...)
	require.NoError(t, err)
	sc.SetAnalyticsClient(analytics.NewClient(an, analytics.WithClock(func() time.Time { return Now })))

	rep, err := youtubereporting.NewService(ctx, svcOpts...)
	require.NoError(t, err)
	sc.SetReportingClient(reporting.NewClient(rep, api.Server.Client()))

	return sc
}

// NewMCPServer returns an empty MCP server for registering tools.
func NewMCPServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("youtube-mcp-test", "test",
		mcpserver.WithToolCapabilities(true),
	)
}

// ToolNames lists the registered tools.
func ToolNames(s *mcpserver.MCPServer) []string {
	tools := s.ListTools()
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	return names
}

// Call invokes a registered tool the way the MCP host would.
func Call(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	tool, ok := s.ListTools()[name]
	require.True(t, ok, "tool %s is not registered", name)

	result, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

// Text returns the first text content of a result.
func Text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("result has no text content")
	return ""
}

// Decode unmarshals a successful JSON result into a generic map.
func Decode(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.False(t, result.IsError, "unexpected tool error: %s", Text(t, result))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(Text(t, result)), &out))
	return out
}

// ErrorText returns the message of an error result.
func ErrorText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.True(t, result.IsError, "expected tool error, got: %s", Text(t, result))
	return Text(t, result)
}
