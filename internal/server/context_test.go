package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/teemow/youtube-mcp/internal/auth"
	"github.com/teemow/youtube-mcp/internal/instrumentation"
	"github.com/teemow/youtube-mcp/internal/quota"
)

func noConsent(context.Context, *oauth2.Config) (*oauth2.Token, error) {
	return nil, errors.New("consent not expected in tests")
}

func newTestServerContext(t *testing.T, authOpts auth.Options) *ServerContext {
	t.Helper()
	t.Setenv(auth.EnvAPIKey, "")
	t.Setenv(auth.EnvClientSecret, "")
	if authOpts.ConfigDir == "" {
		authOpts.ConfigDir = t.TempDir()
	}
	if authOpts.Consent == nil {
		authOpts.Consent = noConsent
	}

	sc, err := NewServerContext(context.Background(), Options{
		Auth:  auth.NewManager(authOpts),
		Quota: quota.NewTracker(quota.WithLimit(500)),
	})
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestNewServerContext_RequiresDependencies(t *testing.T) {
	mgr := auth.NewManager(auth.Options{ConfigDir: t.TempDir()})

	if _, err := NewServerContext(context.Background(), Options{Quota: quota.NewTracker()}); err == nil {
		t.Error("expected error without credential manager")
	}
	if _, err := NewServerContext(context.Background(), Options{Auth: mgr}); err == nil {
		t.Error("expected error without quota tracker")
	}
}

func TestServerContext_Defaults(t *testing.T) {
	sc := newTestServerContext(t, auth.Options{})

	if sc.Web() == nil {
		t.Error("expected default web client")
	}
	if sc.Logger() == nil {
		t.Error("expected default logger")
	}
	if sc.Metrics() == nil {
		t.Error("expected no-op metrics recorder")
	}
	if sc.AuditLogger() != nil {
		t.Error("expected no audit logger until one is set")
	}
	if sc.ReadOnly() {
		t.Error("expected read-write by default")
	}

	sc.SetMetrics(nil)
	if sc.Metrics() == nil {
		t.Error("SetMetrics(nil) must keep a usable recorder")
	}
	al := instrumentation.NewAuditLogger(nil)
	sc.SetAuditLogger(al)
	if sc.AuditLogger() != al {
		t.Error("AuditLogger() did not return the configured logger")
	}
}

func TestServerContext_ClientsAreCachedAndDeferred(t *testing.T) {
	sc := newTestServerContext(t, auth.Options{})

	dc1, err := sc.DataClient()
	if err != nil {
		t.Fatalf("DataClient() error = %v", err)
	}
	dc2, _ := sc.DataClient()
	if dc1 != dc2 {
		t.Error("DataClient() should be cached")
	}

	if _, err := sc.AnalyticsClient(); err != nil {
		t.Errorf("AnalyticsClient() error = %v", err)
	}
	if _, err := sc.ReportingClient(); err != nil {
		t.Errorf("ReportingClient() error = %v", err)
	}
}

func TestServerContext_QuotaIsReservedBeforeAuthentication(t *testing.T) {
	var hits atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	defer api.Close()

	sc := newTestServerContext(t, auth.Options{
		ServiceOptions: []option.ClientOption{option.WithEndpoint(api.URL + "/")},
	})

	client, err := sc.DataClient()
	if err != nil {
		t.Fatalf("DataClient() error = %v", err)
	}
	_, err = client.GetVideo(context.Background(), "abc")

	var authErr *auth.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if got := sc.Quota().Used(); got != 1 {
		t.Errorf("quota used = %d, want 1", got)
	}
	if hits.Load() != 0 {
		t.Error("API must not be called without a credential")
	}
}

func TestServerContext_ReadClientUsesAPIKeyWithoutCredential(t *testing.T) {
	var gotKey, gotAuth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"abc","snippet":{"title":"t"},"contentDetails":{"duration":"PT1M"}}]}`))
	}))
	defer api.Close()

	sc := newTestServerContext(t, auth.Options{
		APIKey:         "public-key",
		ServiceOptions: []option.ClientOption{option.WithEndpoint(api.URL + "/")},
	})

	client, err := sc.ReadClient(context.Background())
	if err != nil {
		t.Fatalf("ReadClient() error = %v", err)
	}
	if _, err := client.GetVideo(context.Background(), "abc"); err != nil {
		t.Fatalf("GetVideo() error = %v", err)
	}
	if gotKey != "public-key" || gotAuth != "" {
		t.Errorf("expected API key auth only, got key=%q auth=%q", gotKey, gotAuth)
	}
}

func TestServerContext_ReadClientPrefersOAuth(t *testing.T) {
	dir := t.TempDir()
	store := auth.NewFileStore(auth.TokenPath(dir))
	err := store.Save(context.Background(), &auth.Credential{
		Token:        "stored",
		RefreshToken: "refresh",
		TokenURI:     "https://oauth2.googleapis.com/token",
		ClientID:     "cid",
		ClientSecret: "secret",
		Scopes:       auth.RequiredScopes,
		Expiry:       time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("save credential: %v", err)
	}

	sc := newTestServerContext(t, auth.Options{ConfigDir: dir, APIKey: "public-key"})

	rc, err := sc.ReadClient(context.Background())
	if err != nil {
		t.Fatalf("ReadClient() error = %v", err)
	}
	dc, _ := sc.DataClient()
	if rc != dc {
		t.Error("ReadClient() should return the OAuth client when a credential is usable")
	}
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := newTestServerContext(t, auth.Options{})

	if sc.IsShutdown() {
		t.Error("new context should not be shut down")
	}
	if err := sc.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("IsShutdown() = false after Shutdown()")
	}
	if sc.Context().Err() == nil {
		t.Error("context should be cancelled after Shutdown()")
	}
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}
