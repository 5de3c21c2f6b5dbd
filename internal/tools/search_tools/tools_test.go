package search_tools

import (
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/youtube-mcp/internal/server"
	"github.com/teemow/youtube-mcp/internal/tools/tooltest"
)

const (
	searchPath     = "/youtube/v3/search"
	videosPath     = "/youtube/v3/videos"
	categoriesPath = "/youtube/v3/videoCategories"
	suggestPath    = "/complete/search"
)

func setup(t *testing.T, opts ...tooltest.Option) (*mcpserver.MCPServer, *tooltest.API, *server.ServerContext) {
	t.Helper()
	api := tooltest.NewAPI(t)
	sc := tooltest.NewServerContext(t, api, opts...)
	s := tooltest.NewMCPServer()
	require.NoError(t, RegisterSearchTools(s, sc))
	return s, api, sc
}

func TestRegisterSearchTools(t *testing.T) {
	s, _, _ := setup(t)
	assert.ElementsMatch(t, []string{
		"youtube_search",
		"youtube_search_suggestions",
		"youtube_trending",
		"youtube_get_categories",
	}, tooltest.ToolNames(s))
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name       string
		args       map[string]interface{}
		response   string
		wantParams map[string]string
		wantKey    string
		wantID     string
	}{
		{
			name:     "defaults",
			args:     map[string]interface{}{"query": "golang"},
			response: `{"items":[{"id":{"videoId":"v1"},"snippet":{"title":"Go"}}],"pageInfo":{"totalResults":1000}}`,
			wantParams: map[string]string{
				"q": "golang", "type": "video", "order": "relevance", "maxResults": "10",
			},
			wantKey: "video_id",
			wantID:  "v1",
		},
		{
			name: "channels by date in a region",
			args: map[string]interface{}{
				"query": "cooking", "search_type": "channel", "order": "date",
				"region_code": "DE", "published_after": "2024-01-01T00:00:00Z", "max_results": 5.0,
			},
			response: `{"items":[{"id":{"channelId":"UC9"},"snippet":{"title":"Koch"}}]}`,
			wantParams: map[string]string{
				"type": "channel", "order": "date", "regionCode": "DE",
				"publishedAfter": "2024-01-01T00:00:00Z", "maxResults": "5",
			},
			wantKey: "channel_id",
			wantID:  "UC9",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, api, sc := setup(t)
			api.Handle("GET", searchPath, tt.response)

			out := tooltest.Decode(t, tooltest.Call(t, s, "youtube_search", tt.args))

			assert.Equal(t, 100.0, out["quota_cost"])
			results := out["results"].([]interface{})
			require.Len(t, results, 1)
			assert.Equal(t, tt.wantID, results[0].(map[string]interface{})[tt.wantKey])

			query := api.Last(t, "GET", searchPath).Query
			for k, v := range tt.wantParams {
				assert.Equal(t, v, query.Get(k), "param %s", k)
			}
			assert.Equal(t, 100, sc.Quota().Used())
		})
	}
}

func TestSearch_QuotaExhaustedSkipsRequest(t *testing.T) {
	s, api, sc := setup(t, tooltest.WithQuotaLimit(150))
	require.NoError(t, sc.Quota().Consume("list", 60))

	result := tooltest.Call(t, s, "youtube_search", map[string]interface{}{"query": "go"})

	assert.Equal(t,
		"YouTube API quota exhausted: 60/150 units used today. Resets at midnight Pacific Time.",
		tooltest.ErrorText(t, result))
	assert.Zero(t, api.Count("GET", searchPath))
	assert.Equal(t, 60, sc.Quota().Used())
}

func TestSearch_RequiresQuery(t *testing.T) {
	s, _, _ := setup(t)

	result := tooltest.Call(t, s, "youtube_search", map[string]interface{}{"query": "  "})

	assert.Equal(t, "query is required", tooltest.ErrorText(t, result))
}

func TestSearchSuggestions(t *testing.T) {
	s, api, sc := setup(t)
	api.Handle("GET", suggestPath, `window.google.ac.h(["go",[["golang",0,[512]],["go tutorial",0]],{"k":1}])`)

	out := tooltest.Decode(t, tooltest.Call(t, s, "youtube_search_suggestions", map[string]interface{}{
		"query":    "go",
		"language": "de",
	}))

	assert.Equal(t, "go", out["query"])
	assert.Equal(t, []interface{}{"golang", "go tutorial"}, out["suggestions"])
	assert.Equal(t, "de", api.Last(t, "GET", suggestPath).Query.Get("hl"))
	assert.Zero(t, sc.Quota().Used())
}

func TestSearchSuggestions_Failure(t *testing.T) {
	s, api, _ := setup(t)
	api.HandleStatus("GET", suggestPath, 503, "unavailable")

	result := tooltest.Call(t, s, "youtube_search_suggestions", map[string]interface{}{"query": "go"})

	assert.Contains(t, tooltest.ErrorText(t, result), "Failed to fetch suggestions: unexpected status 503")
}

func TestTrending(t *testing.T) {
	s, api, _ := setup(t)
	api.Handle("GET", videosPath, `{"items":[{"id":"t1","snippet":{"title":"Hit"},"contentDetails":{"duration":"PT30S"}}]}`)

	out := tooltest.Decode(t, tooltest.Call(t, s, "youtube_trending", map[string]interface{}{"category_id": "10"}))

	assert.Equal(t, "US", out["region"])
	assert.Equal(t, "10", out["category_id"])
	videos := out["videos"].([]interface{})
	require.Len(t, videos, 1)
	assert.Equal(t, true, videos[0].(map[string]interface{})["is_short"])

	query := api.Last(t, "GET", videosPath).Query
	assert.Equal(t, "mostPopular", query.Get("chart"))
	assert.Equal(t, "10", query.Get("videoCategoryId"))
}

func TestGetCategories(t *testing.T) {
	s, api, _ := setup(t)
	api.Handle("GET", categoriesPath, `{"items":[
		{"id":"10","snippet":{"title":"Music","assignable":true}},
		{"id":"18","snippet":{"title":"Short Movies","assignable":false}}]}`)

	out := tooltest.Decode(t, tooltest.Call(t, s, "youtube_get_categories", map[string]interface{}{"region_code": "GB"}))

	assert.Equal(t, "GB", out["region"])
	assert.Equal(t, []interface{}{map[string]interface{}{"id": "10", "title": "Music"}}, out["categories"])
}
