package common

import (
	"context"

	"github.com/teemow/youtube-mcp/internal/server"
	"github.com/teemow/youtube-mcp/internal/youtube"
)

// DataClient picks the Data API client for a call. Calls about the
// authorized user's own channel always need OAuth; public reads may fall
// back to the API key.
func DataClient(ctx context.Context, sc *server.ServerContext, private bool) (*youtube.Client, error) {
	if private {
		return sc.DataClient()
	}
	return sc.ReadClient(ctx)
}
