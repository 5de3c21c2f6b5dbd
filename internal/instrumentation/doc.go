// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for the YouTube MCP server.
//
// # Metrics
//
// HTTP Metrics (streamable-http transport only):
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Google API Metrics:
//   - google_api_operations_total: Counter of API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of API operation durations
//
// OAuth Metrics:
//   - oauth_auth_total: Counter of interactive consent flows by result
//   - oauth_token_refresh_total: Counter of token refresh attempts by result
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of tool execution durations
//
// Quota Metrics:
//   - youtube_quota_units_consumed_total: Counter of Data API units by operation kind
//   - youtube_quota_rejections_total: Counter of calls refused by the local quota guard
//   - youtube_quota_remaining_units: Gauge of units left in the current quota day
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and Google API
// calls (google.<service>.<operation>). Outbound HTTP to Google is traced by
// otelhttp in the transport stack.
//
// # Configuration
//
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: youtube-mcp)
//
// Note that the stdout exporters write to stdout and therefore cannot be
// combined with the stdio transport.
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	m := provider.Metrics()
//	m.RecordGoogleAPIOperation(ctx, instrumentation.ServiceYouTube, "search", "success", time.Since(start))
//	m.RecordToolInvocation(ctx, "youtube_search", "success", time.Since(start))
package instrumentation
