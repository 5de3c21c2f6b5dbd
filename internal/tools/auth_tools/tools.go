package auth_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/youtube-mcp/internal/auth"
	"github.com/teemow/youtube-mcp/internal/logging"
	"github.com/teemow/youtube-mcp/internal/quota"
	"github.com/teemow/youtube-mcp/internal/server"
	"github.com/teemow/youtube-mcp/internal/tools/common"
)

// Outcomes of youtube_auth.
const (
	StatusAuthenticated = "authenticated"
	StatusError         = "error"
)

// AuthResult is returned by youtube_auth.
type AuthResult struct {
	Status string      `json:"status"`
	Detail interface{} `json:"detail"`
}

// StatusResult is returned by youtube_auth_status.
type StatusResult struct {
	Auth  auth.Status  `json:"auth"`
	Quota quota.Status `json:"quota"`
}

// RegisterAuthTools registers the authorization tools. Neither modifies the
// channel, so read-only mode keeps both.
func RegisterAuthTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	authTool := mcp.NewTool("youtube_auth",
		mcp.WithDescription("Initiate OAuth 2.0 authentication. Opens a browser window for Google consent when no valid token is stored. Required before using tools that access private channel data or analytics."),
	)
	s.AddTool(authTool, common.InstrumentedToolHandler("youtube_auth", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAuth(ctx, sc)
		}))

	statusTool := mcp.NewTool("youtube_auth_status",
		mcp.WithDescription("Check current authentication status and quota usage."),
	)
	s.AddTool(statusTool, common.InstrumentedToolHandler("youtube_auth_status", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return common.JSONResult(StatusResult{
				Auth:  sc.Auth().Status(),
				Quota: sc.Quota().Status(),
			})
		}))

	return nil
}

func handleAuth(ctx context.Context, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if _, err := sc.Auth().Authenticate(ctx); err != nil {
		sc.Logger().Warn("authentication failed", logging.Err(err))
		return common.JSONResult(AuthResult{Status: StatusError, Detail: err.Error()})
	}
	return common.JSONResult(AuthResult{Status: StatusAuthenticated, Detail: sc.Auth().Status()})
}
