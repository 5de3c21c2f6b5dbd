// Package server holds the state shared by the MCP tool handlers and the
// HTTP side of the streamable-http transport.
//
// # Key Components
//
// ServerContext owns the credential manager, the process-wide quota tracker
// and the YouTube API clients. Clients are built lazily, cached, and
// authenticate on their first request, so a tool always reserves quota
// before a consent prompt can appear. Read tools call ReadClient, which
// falls back to the configured API key when no OAuth credential can be used
// without interaction.
//
// HealthChecker serves /healthz, /readyz and /healthz/detailed. The
// detailed endpoint reports the quota counter and credential state.
//
// MetricsServer exposes Prometheus metrics on a dedicated port.
package server
