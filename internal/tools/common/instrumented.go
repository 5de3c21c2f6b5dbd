package common

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/youtube-mcp/internal/instrumentation"
	"github.com/teemow/youtube-mcp/internal/server"
)

// ToolHandler is the mcp-go tool handler signature.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler that talks to no Google API.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("youtube_auth_status", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return InstrumentedToolHandlerWithService(toolName, instrumentation.ServiceLocal, "", sc, handler)
}

// InstrumentedToolHandlerWithService wraps a tool handler with a span, metrics
// and an audit record. Besides the MCP tool metrics it records a Google API
// operation for every service other than ServiceLocal. The quota charged is
// read off the tracker as the difference across the call, so it can include
// units of calls running at the same time.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithService("youtube_search",
//		instrumentation.ServiceYouTube, instrumentation.OperationSearch, sc, handler))
func InstrumentedToolHandlerWithService(
	toolName string,
	serviceName string,
	operation string,
	sc *server.ServerContext,
	handler ToolHandler,
) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		videoID := StringArg(request.GetArguments(), "video_id", "")
		if strings.HasPrefix(videoID, "[") {
			// JSON array of IDs from a batch tool
			videoID = ""
		}

		attrs := instrumentation.NewSpanAttributeBuilder().
			WithService(serviceName).
			WithOperation(operation).
			WithVideo(videoID).
			WithChannel(StringArg(request.GetArguments(), "channel_id", "")).
			WithPlaylist(StringArg(request.GetArguments(), "playlist_id", "")).
			WithReadOnly(sc.ReadOnly()).
			Build()
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, attrs...)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithService(serviceName, operation).
			WithVideo(videoID)

		usedBefore := sc.Quota().Used()
		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		if units := sc.Quota().Used() - usedBefore; units > 0 {
			invocation.WithQuota(units)
		}

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			failure := errors.New(resultText(result))
			invocation.CompleteWithError(failure)
			instrumentation.SetSpanError(span, failure)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		metrics := sc.Metrics()
		metrics.RecordToolInvocation(ctx, toolName, status, duration)
		if serviceName != instrumentation.ServiceLocal {
			metrics.RecordGoogleAPIOperationForVideo(ctx, serviceName, operation, status, videoID, duration)
		}

		sc.AuditLogger().LogToolInvocation(invocation)

		return result, err
	}
}

// resultText returns the first text content of a result.
func resultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
