package resources

import (
	"context"
	"encoding/json"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/youtube-mcp/internal/quota"
	"github.com/teemow/youtube-mcp/internal/tools/tooltest"
)

// readResource sends a resources/read request through the server and
// returns the text of the first content item.
func readResource(t *testing.T, s *mcpserver.MCPServer, uri string) string {
	t.Helper()
	req := `{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"` + uri + `"}}`
	resp := s.HandleMessage(context.Background(), json.RawMessage(req))

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded struct {
		Result struct {
			Contents []struct {
				URI      string `json:"uri"`
				MIMEType string `json:"mimeType"`
				Text     string `json:"text"`
			} `json:"contents"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Nil(t, decoded.Error)
	require.Len(t, decoded.Result.Contents, 1)
	assert.Equal(t, uri, decoded.Result.Contents[0].URI)
	assert.Equal(t, "application/json", decoded.Result.Contents[0].MIMEType)
	return decoded.Result.Contents[0].Text
}

func TestStatusResources(t *testing.T) {
	api := tooltest.NewAPI(t)
	sc := tooltest.NewServerContext(t, api, tooltest.WithQuotaLimit(500))
	require.NoError(t, sc.Quota().Consume(quota.KindSearch, 1))

	s := mcpserver.NewMCPServer("test", "test", mcpserver.WithResourceCapabilities(false, false))
	require.NoError(t, RegisterStatusResources(s, sc))

	t.Run("quota", func(t *testing.T) {
		var status quota.Status
		require.NoError(t, json.Unmarshal([]byte(readResource(t, s, QuotaStatusURI)), &status))
		assert.Equal(t, 100, status.Used)
		assert.Equal(t, 400, status.Remaining)
		assert.Equal(t, 500, status.Limit)
	})

	t.Run("auth", func(t *testing.T) {
		var status map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(readResource(t, s, AuthStatusURI)), &status))
		assert.Equal(t, false, status["authenticated"])
		assert.Equal(t, false, status["client_secret_exists"])
	})

	assert.Empty(t, api.Requests())
}
