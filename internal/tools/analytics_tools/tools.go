package analytics_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/youtube-mcp/internal/analytics"
	"github.com/teemow/youtube-mcp/internal/instrumentation"
	"github.com/teemow/youtube-mcp/internal/server"
	"github.com/teemow/youtube-mcp/internal/tools/common"
)

// videoParam says whether a report takes a video_id.
type videoParam int

const (
	noVideo videoParam = iota
	optionalVideo
	requiredVideo
)

// report describes one analytics tool.
type report struct {
	name        string
	description string
	video       videoParam
	// maxResults is the default row limit; zero means the tool has no
	// max_results parameter.
	maxResults int
	maxHint    string
	run        func(ctx context.Context, c *analytics.Client, q reportArgs) (interface{}, error)
}

type reportArgs struct {
	Range      analytics.DateRange
	VideoID    string
	MaxResults int
}

var reports = []report{
	{
		name:        "youtube_analytics_overview",
		description: "Get channel-level analytics summary: views, watch time, average view duration, subscribers gained and lost, likes, comments and shares.",
		run: func(ctx context.Context, c *analytics.Client, q reportArgs) (interface{}, error) {
			return c.Overview(ctx, q.Range)
		},
	},
	{
		name:        "youtube_analytics_top_videos",
		description: "Get top-performing long-form videos by views, excluding Shorts.",
		maxResults:  20,
		maxHint:     "Number of videos to return (max 200, default 20)",
		run: func(ctx context.Context, c *analytics.Client, q reportArgs) (interface{}, error) {
			return c.TopVideos(ctx, q.Range, q.MaxResults)
		},
	},
	{
		name:        "youtube_analytics_top_shorts",
		description: "Get top-performing Shorts by views.",
		maxResults:  20,
		maxHint:     "Number of Shorts to return (max 200, default 20)",
		run: func(ctx context.Context, c *analytics.Client, q reportArgs) (interface{}, error) {
			return c.TopShorts(ctx, q.Range, q.MaxResults)
		},
	},
	{
		name:        "youtube_analytics_video_detail",
		description: "Get daily analytics for one video: views, watch time, engagement and subscribers.",
		video:       requiredVideo,
		run: func(ctx context.Context, c *analytics.Client, q reportArgs) (interface{}, error) {
			return c.VideoDetail(ctx, q.VideoID, q.Range)
		},
	},
	{
		name:        "youtube_analytics_traffic_sources",
		description: "Get views and watch time by traffic source (search, suggested, browse, external, ...), for the channel or one video.",
		video:       optionalVideo,
		run: func(ctx context.Context, c *analytics.Client, q reportArgs) (interface{}, error) {
			return c.TrafficSources(ctx, q.Range, q.VideoID)
		},
	},
	{
		name:        "youtube_analytics_demographics",
		description: "Get viewer percentage by age group and gender.",
		run: func(ctx context.Context, c *analytics.Client, q reportArgs) (interface{}, error) {
			return c.Demographics(ctx, q.Range)
		},
	},
	{
		name:        "youtube_analytics_geography",
		description: "Get views and watch time by country.",
		maxResults:  25,
		maxHint:     "Number of countries to return (default 25)",
		run: func(ctx context.Context, c *analytics.Client, q reportArgs) (interface{}, error) {
			return c.Geography(ctx, q.Range, q.MaxResults)
		},
	},
	{
		name:        "youtube_analytics_daily",
		description: "Get channel metrics per day.",
		run: func(ctx context.Context, c *analytics.Client, q reportArgs) (interface{}, error) {
			return c.Daily(ctx, q.Range)
		},
	},
	{
		name:        "youtube_analytics_day_of_week",
		description: "Get average views, watch time, likes and shares per weekday, Monday to Sunday. Defaults to the last 90 days.",
		run: func(ctx context.Context, c *analytics.Client, q reportArgs) (interface{}, error) {
			return c.DayOfWeek(ctx, q.Range)
		},
	},
	{
		name:        "youtube_analytics_content_type_breakdown",
		description: "Compare Shorts, long-form videos and live streams by views, watch time and engagement.",
		run: func(ctx context.Context, c *analytics.Client, q reportArgs) (interface{}, error) {
			return c.ContentTypeBreakdown(ctx, q.Range)
		},
	},
	{
		name:        "youtube_analytics_revenue",
		description: "Get estimated revenue totals. Requires a monetized channel (YouTube Partner Program).",
		run: func(ctx context.Context, c *analytics.Client, q reportArgs) (interface{}, error) {
			return c.Revenue(ctx, q.Range)
		},
	},
	{
		name:        "youtube_analytics_revenue_by_video",
		description: "Get estimated revenue per video, highest first. Requires a monetized channel.",
		maxResults:  20,
		maxHint:     "Number of videos to return (max 200, default 20)",
		run: func(ctx context.Context, c *analytics.Client, q reportArgs) (interface{}, error) {
			return c.RevenueByVideo(ctx, q.Range, q.MaxResults)
		},
	},
	{
		name:        "youtube_analytics_retention",
		description: "Get the audience retention curve of a video: watch ratio and relative retention at each point of the video.",
		video:       requiredVideo,
		run: func(ctx context.Context, c *analytics.Client, q reportArgs) (interface{}, error) {
			return c.Retention(ctx, q.VideoID, q.Range)
		},
	},
}

// RegisterAnalyticsTools registers one tool per analytics report. All of
// them are read-only.
func RegisterAnalyticsTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	for _, r := range reports {
		s.AddTool(r.tool(), common.InstrumentedToolHandlerWithService(r.name,
			instrumentation.ServiceAnalytics, instrumentation.OperationQuery, sc, r.handler(sc)))
	}
	return nil
}

func (r report) tool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(r.description),
		mcp.WithString("start_date",
			mcp.Description("Start date (YYYY-MM-DD). Defaults to the start of the default window."),
		),
		mcp.WithString("end_date",
			mcp.Description("End date (YYYY-MM-DD). Defaults to today."),
		),
	}
	switch r.video {
	case requiredVideo:
		opts = append(opts, mcp.WithString("video_id",
			mcp.Required(),
			mcp.Description("YouTube video ID"),
		))
	case optionalVideo:
		opts = append(opts, mcp.WithString("video_id",
			mcp.Description("Restrict to one video"),
		))
	}
	if r.maxResults > 0 {
		opts = append(opts, mcp.WithNumber("max_results",
			mcp.Description(r.maxHint),
		))
	}
	return mcp.NewTool(r.name, opts...)
}

func (r report) handler(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		q := reportArgs{
			Range: analytics.DateRange{
				Start: common.StringArg(args, "start_date", ""),
				End:   common.StringArg(args, "end_date", ""),
			},
			VideoID:    common.StringArg(args, "video_id", ""),
			MaxResults: common.IntArg(args, "max_results", r.maxResults),
		}
		if r.video == requiredVideo && q.VideoID == "" {
			return mcp.NewToolResultError("video_id is required"), nil
		}

		client, err := sc.AnalyticsClient()
		if err != nil {
			return common.ErrorResult("query analytics", err), nil
		}
		res, err := r.run(ctx, client, q)
		if err != nil {
			return common.ErrorResult("query analytics", err), nil
		}
		return common.JSONResult(res)
	}
}
