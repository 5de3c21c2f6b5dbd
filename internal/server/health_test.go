package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/teemow/youtube-mcp/internal/auth"
	"github.com/teemow/youtube-mcp/internal/quota"
)

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker(nil)

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != healthStatusOK {
		t.Errorf("status field = %q, want %q", resp.Status, healthStatusOK)
	}
}

func TestHealthChecker_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		shutdown   bool
		wantStatus int
		wantChecks map[string]string
	}{
		{"ready", true, false, http.StatusOK, map[string]string{"ready": "ok", "shutdown": "ok"}},
		{"not ready", false, false, http.StatusServiceUnavailable, map[string]string{"ready": "not ready", "shutdown": "ok"}},
		{"shutting down", true, true, http.StatusServiceUnavailable, map[string]string{"ready": "ok", "shutdown": "shutting down"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newTestServerContext(t, auth.Options{})
			h := NewHealthChecker(sc)
			h.SetReady(tt.ready)
			if tt.shutdown {
				_ = sc.Shutdown()
			}

			rec := httptest.NewRecorder()
			h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			for k, v := range tt.wantChecks {
				if resp.Checks[k] != v {
					t.Errorf("check %s = %q, want %q", k, resp.Checks[k], v)
				}
			}
		})
	}
}

func TestHealthChecker_DetailedIncludesQuotaAndAuth(t *testing.T) {
	sc := newTestServerContext(t, auth.Options{})
	if err := sc.Quota().Consume(quota.KindSearch, 1); err != nil {
		t.Fatalf("consume: %v", err)
	}

	mux := http.NewServeMux()
	NewHealthChecker(sc).RegisterHealthEndpoints(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp DetailedHealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Quota == nil {
		t.Fatal("expected quota section")
	}
	if resp.Quota.Used != 100 || resp.Quota.Remaining != 400 || resp.Quota.Limit != 500 {
		t.Errorf("quota = %+v, want used 100 remaining 400 limit 500", resp.Quota)
	}
	if resp.Auth == nil || resp.Auth.Authenticated {
		t.Errorf("auth = %+v, want unauthenticated", resp.Auth)
	}
	if resp.Uptime == "" {
		t.Error("expected uptime")
	}
}

func TestHealthChecker_DetailedNotReady(t *testing.T) {
	h := NewHealthChecker(nil)
	h.SetReady(false)
	if h.IsReady() {
		t.Fatal("IsReady() = true after SetReady(false)")
	}

	rec := httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}
