package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/youtube-mcp/internal/server"
)

const (
	AuthStatusURI  = "youtube://auth/status"
	QuotaStatusURI = "youtube://quota/status"
)

// RegisterStatusResources registers the auth and quota status resources.
func RegisterStatusResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	authResource := mcp.NewResource(
		AuthStatusURI,
		"Authentication Status",
		mcp.WithResourceDescription("State of the stored OAuth credential: authenticated, expired, scopes and file locations"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(authResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, sc.Auth().Status())
	})

	quotaResource := mcp.NewResource(
		QuotaStatusURI,
		"Quota Status",
		mcp.WithResourceDescription("YouTube Data API quota used, remaining and limit for the current Pacific day"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(quotaResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, sc.Quota().Status())
	})

	return nil
}

func jsonContents(uri string, v interface{}) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
