package search_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/youtube-mcp/internal/instrumentation"
	"github.com/teemow/youtube-mcp/internal/server"
	"github.com/teemow/youtube-mcp/internal/tools/common"
	"github.com/teemow/youtube-mcp/internal/youtube"
)

const (
	defaultRegion     = "US"
	defaultLanguage   = "en"
	defaultMaxResults = 10
)

var (
	searchTypes  = []string{"video", "channel", "playlist"}
	searchOrders = []string{"relevance", "date", "rating", "viewCount", "title", "videoCount"}
)

// RegisterSearchTools registers the search and discovery tools.
func RegisterSearchTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	searchTool := mcp.NewTool("youtube_search",
		mcp.WithDescription("Search YouTube for videos, channels, or playlists. Costs 100 quota units per call; prefer youtube_list_videos for a known channel."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search terms"),
		),
		mcp.WithString("search_type",
			mcp.Description("Type of result (default: video)"),
			mcp.Enum(searchTypes...),
		),
		mcp.WithString("channel_id",
			mcp.Description("Restrict results to this channel"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results (1-50, default 10)"),
		),
		mcp.WithString("order",
			mcp.Description("Sort order (default: relevance)"),
			mcp.Enum(searchOrders...),
		),
		mcp.WithString("published_after",
			mcp.Description("RFC 3339 timestamp, e.g. 2024-01-01T00:00:00Z"),
		),
		mcp.WithString("published_before",
			mcp.Description("RFC 3339 timestamp, e.g. 2024-12-31T23:59:59Z"),
		),
		mcp.WithString("region_code",
			mcp.Description("ISO 3166-1 alpha-2 country code"),
		),
	)
	s.AddTool(searchTool, common.InstrumentedToolHandlerWithService("youtube_search",
		instrumentation.ServiceYouTube, instrumentation.OperationSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearch(ctx, request, sc)
		}))

	suggestionsTool := mcp.NewTool("youtube_search_suggestions",
		mcp.WithDescription("Get YouTube search autocomplete suggestions for a query. Free: uses no API quota."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Partial search query"),
		),
		mcp.WithString("language",
			mcp.Description("Language code for suggestions (default: en)"),
		),
	)
	s.AddTool(suggestionsTool, common.InstrumentedToolHandlerWithService("youtube_search_suggestions",
		instrumentation.ServiceWeb, instrumentation.OperationFetch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSuggestions(ctx, request, sc)
		}))

	trendingTool := mcp.NewTool("youtube_trending",
		mcp.WithDescription("Get the most popular videos of a region, optionally within one category."),
		mcp.WithString("region_code",
			mcp.Description("ISO 3166-1 alpha-2 country code (default: US)"),
		),
		mcp.WithString("category_id",
			mcp.Description("Video category ID, see youtube_get_categories"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Number of videos (1-50, default 10)"),
		),
	)
	s.AddTool(trendingTool, common.InstrumentedToolHandlerWithService("youtube_trending",
		instrumentation.ServiceYouTube, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			client, err := common.DataClient(ctx, sc, false)
			if err != nil {
				return common.ErrorResult("get trending videos", err), nil
			}
			trending, err := client.Trending(ctx,
				common.StringArg(args, "region_code", defaultRegion),
				common.StringArg(args, "category_id", ""),
				common.IntArg(args, "max_results", defaultMaxResults),
			)
			if err != nil {
				return common.ErrorResult("get trending videos", err), nil
			}
			return common.JSONResult(trending)
		}))

	categoriesTool := mcp.NewTool("youtube_get_categories",
		mcp.WithDescription("List the video categories that can be assigned to videos in a region."),
		mcp.WithString("region_code",
			mcp.Description("ISO 3166-1 alpha-2 country code (default: US)"),
		),
	)
	s.AddTool(categoriesTool, common.InstrumentedToolHandlerWithService("youtube_get_categories",
		instrumentation.ServiceYouTube, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			client, err := common.DataClient(ctx, sc, false)
			if err != nil {
				return common.ErrorResult("get categories", err), nil
			}
			categories, err := client.Categories(ctx, common.StringArg(request.GetArguments(), "region_code", defaultRegion))
			if err != nil {
				return common.ErrorResult("get categories", err), nil
			}
			return common.JSONResult(categories)
		}))

	return nil
}

func handleSearch(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	query, err := common.RequiredString(args, "query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := common.DataClient(ctx, sc, false)
	if err != nil {
		return common.ErrorResult("search", err), nil
	}
	results, err := client.Search(ctx, youtube.SearchQuery{
		Query:           query,
		Type:            common.StringArg(args, "search_type", "video"),
		ChannelID:       common.StringArg(args, "channel_id", ""),
		MaxResults:      common.IntArg(args, "max_results", defaultMaxResults),
		Order:           common.StringArg(args, "order", "relevance"),
		PublishedAfter:  common.StringArg(args, "published_after", ""),
		PublishedBefore: common.StringArg(args, "published_before", ""),
		RegionCode:      common.StringArg(args, "region_code", ""),
	})
	if err != nil {
		return common.ErrorResult("search", err), nil
	}
	return common.JSONResult(results)
}

func handleSuggestions(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	query, err := common.RequiredString(args, "query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	suggestions, err := sc.Web().Suggestions(ctx, query, common.StringArg(args, "language", defaultLanguage))
	if err != nil {
		return mcp.NewToolResultError("Failed to fetch suggestions: " + err.Error()), nil
	}
	return common.JSONResult(suggestions)
}
