package analytics_tools

import (
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/youtube-mcp/internal/server"
	"github.com/teemow/youtube-mcp/internal/tools/tooltest"
)

const reportsPath = "/v2/reports"

const videoRows = `{"columnHeaders":[{"name":"video"},{"name":"views"}],"rows":[["abc",120],["def",80]]}`

func setup(t *testing.T) (*mcpserver.MCPServer, *tooltest.API, *server.ServerContext) {
	t.Helper()
	api := tooltest.NewAPI(t)
	sc := tooltest.NewServerContext(t, api)
	s := tooltest.NewMCPServer()
	require.NoError(t, RegisterAnalyticsTools(s, sc))
	return s, api, sc
}

func TestRegisterAnalyticsTools(t *testing.T) {
	s, _, _ := setup(t)

	names := tooltest.ToolNames(s)
	assert.Len(t, names, 13)
	for _, r := range reports {
		assert.Contains(t, names, r.name)
	}

	tools := s.ListTools()
	assert.Contains(t, tools["youtube_analytics_retention"].Tool.InputSchema.Required, "video_id")
	assert.NotContains(t, tools["youtube_analytics_traffic_sources"].Tool.InputSchema.Required, "video_id")
	assert.Contains(t, tools["youtube_analytics_geography"].Tool.InputSchema.Properties, "max_results")
	assert.NotContains(t, tools["youtube_analytics_overview"].Tool.InputSchema.Properties, "max_results")
}

func TestReports_QueryParameters(t *testing.T) {
	tests := []struct {
		tool       string
		args       map[string]interface{}
		wantParams map[string]string
	}{
		{
			tool: "youtube_analytics_overview",
			wantParams: map[string]string{
				"ids": "channel==MINE", "startDate": "2024-02-16", "endDate": "2024-03-15",
			},
		},
		{
			tool: "youtube_analytics_top_videos",
			args: map[string]interface{}{"max_results": 500.0},
			wantParams: map[string]string{
				"dimensions": "video", "filters": "creatorContentType==video_on_demand",
				"sort": "-views", "maxResults": "200",
			},
		},
		{
			tool:       "youtube_analytics_top_shorts",
			wantParams: map[string]string{"filters": "creatorContentType==shorts", "maxResults": "20"},
		},
		{
			tool:       "youtube_analytics_video_detail",
			args:       map[string]interface{}{"video_id": "abc"},
			wantParams: map[string]string{"dimensions": "day", "filters": "video==abc"},
		},
		{
			tool:       "youtube_analytics_traffic_sources",
			args:       map[string]interface{}{"video_id": "abc"},
			wantParams: map[string]string{"dimensions": "insightTrafficSourceType", "filters": "video==abc"},
		},
		{
			tool:       "youtube_analytics_demographics",
			wantParams: map[string]string{"dimensions": "ageGroup,gender", "metrics": "viewerPercentage"},
		},
		{
			tool:       "youtube_analytics_geography",
			wantParams: map[string]string{"dimensions": "country", "maxResults": "25"},
		},
		{
			tool:       "youtube_analytics_daily",
			args:       map[string]interface{}{"start_date": "2024-01-01", "end_date": "2024-01-31"},
			wantParams: map[string]string{"dimensions": "day", "startDate": "2024-01-01", "endDate": "2024-01-31"},
		},
		{
			tool:       "youtube_analytics_retention",
			args:       map[string]interface{}{"video_id": "abc"},
			wantParams: map[string]string{"dimensions": "elapsedVideoTimeRatio", "filters": "video==abc"},
		},
		{
			tool:       "youtube_analytics_revenue_by_video",
			wantParams: map[string]string{"dimensions": "video", "sort": "-estimatedRevenue"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			s, api, sc := setup(t)
			api.Handle("GET", reportsPath, videoRows)

			out := tooltest.Decode(t, tooltest.Call(t, s, tt.tool, tt.args))

			assert.Equal(t, 2.0, out["total_rows"])
			query := api.Last(t, "GET", reportsPath).Query
			for k, v := range tt.wantParams {
				assert.Equal(t, v, query.Get(k), "param %s", k)
			}
			assert.Zero(t, sc.Quota().Used(), "analytics must not consume Data API quota")
		})
	}
}

func TestReports_RequireVideoID(t *testing.T) {
	for _, tool := range []string{"youtube_analytics_video_detail", "youtube_analytics_retention"} {
		t.Run(tool, func(t *testing.T) {
			s, api, _ := setup(t)

			result := tooltest.Call(t, s, tool, map[string]interface{}{})

			assert.Equal(t, "video_id is required", tooltest.ErrorText(t, result))
			assert.Empty(t, api.Requests())
		})
	}
}

func TestRevenue_NotMonetized(t *testing.T) {
	for _, tool := range []string{"youtube_analytics_revenue", "youtube_analytics_revenue_by_video"} {
		t.Run(tool, func(t *testing.T) {
			s, api, _ := setup(t)
			api.HandleStatus("GET", reportsPath, 403, `{"error":{"code":403,"message":"Forbidden"}}`)

			result := tooltest.Call(t, s, tool, nil)

			assert.Equal(t,
				"Revenue data not available. Channel may not be monetized (YouTube Partner Program required).",
				tooltest.ErrorText(t, result))
		})
	}
}

func TestOverview_APIError(t *testing.T) {
	s, api, _ := setup(t)
	api.HandleStatus("GET", reportsPath, 400, `{"error":{"code":400,"message":"Invalid metric"}}`)

	result := tooltest.Call(t, s, "youtube_analytics_overview", nil)

	assert.Contains(t, tooltest.ErrorText(t, result), "Failed to query analytics: googleapi: Error 400: Invalid metric")
}

func TestDayOfWeek(t *testing.T) {
	s, api, _ := setup(t)
	// 2024-03-11 and 2024-03-18 are Mondays.
	api.Handle("GET", reportsPath, `{"columnHeaders":[{"name":"day"},{"name":"views"},{"name":"estimatedMinutesWatched"},{"name":"likes"},{"name":"shares"}],
		"rows":[["2024-03-11",10,5,1,0],["2024-03-18",21,6,2,1],["2024-03-12",7,1,0,0]]}`)

	out := tooltest.Decode(t, tooltest.Call(t, s, "youtube_analytics_day_of_week", nil))

	results := out["results"].([]interface{})
	require.Len(t, results, 7)
	monday := results[0].(map[string]interface{})
	assert.Equal(t, "Monday", monday["day"])
	assert.Equal(t, 15.5, monday["avg_views"])
	assert.Equal(t, 2.0, monday["sample_days"])
	assert.Equal(t, "2023-12-16", api.Last(t, "GET", reportsPath).Query.Get("startDate"))
}

func TestContentTypeBreakdown(t *testing.T) {
	s, api, _ := setup(t)
	api.Handle("GET", reportsPath, `{"columnHeaders":[{"name":"views"}],"rows":[]}`)

	out := tooltest.Decode(t, tooltest.Call(t, s, "youtube_analytics_content_type_breakdown", nil))

	breakdown := out["breakdown"].(map[string]interface{})
	assert.Len(t, breakdown, 3)
	assert.Equal(t, map[string]interface{}{"views": 0.0, "estimatedMinutesWatched": 0.0}, breakdown["shorts"])
	assert.Equal(t, 3, api.Count("GET", reportsPath))
}
