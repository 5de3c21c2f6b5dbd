// Package ratelimit throttles outbound requests to Google APIs so a burst of
// tool calls from an agent cannot trip per-user rate limits.
package ratelimit

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	// DefaultRequestsPerSecond is the sustained outbound request rate.
	DefaultRequestsPerSecond = 10
	// DefaultBurst is how many requests may go out back to back.
	DefaultBurst = 20
)

// NewLimiter creates a limiter allowing rps requests per second with the
// given burst. Non-positive values fall back to the defaults.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Transport waits on a limiter before delegating each request.
type Transport struct {
	Base    http.RoundTripper
	Limiter *rate.Limiter
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewTransport builds the outbound stack used for every Google call:
// tracing around rate limiting around base.
func NewTransport(base http.RoundTripper, limiter *rate.Limiter) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(&Transport{Base: base, Limiter: limiter})
}
