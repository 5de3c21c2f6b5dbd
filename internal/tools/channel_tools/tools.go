package channel_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/youtube-mcp/internal/instrumentation"
	"github.com/teemow/youtube-mcp/internal/server"
	"github.com/teemow/youtube-mcp/internal/tools/common"
	"github.com/teemow/youtube-mcp/internal/youtube"
)

const defaultListVideos = 20

// RegisterChannelTools registers the channel and video read tools.
func RegisterChannelTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getChannelTool := mcp.NewTool("youtube_get_channel",
		mcp.WithDescription("Get channel details by channel ID, handle (@username), or the authenticated user's channel. Provide exactly one of channel_id, handle, or mine=true."),
		mcp.WithString("channel_id",
			mcp.Description("YouTube channel ID (starts with UC)"),
		),
		mcp.WithString("handle",
			mcp.Description("Channel handle, e.g. @GoogleDevelopers"),
		),
		mcp.WithBoolean("mine",
			mcp.Description("Get the authenticated user's channel"),
		),
	)
	s.AddTool(getChannelTool, common.InstrumentedToolHandlerWithService("youtube_get_channel",
		instrumentation.ServiceYouTube, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetChannel(ctx, request, sc)
		}))

	listVideosTool := mcp.NewTool("youtube_list_videos",
		mcp.WithDescription("List videos from a channel's uploads or from a playlist, with statistics and durations. Costs up to 3 quota units."),
		mcp.WithString("channel_id",
			mcp.Description("Channel whose uploads to list"),
		),
		mcp.WithString("playlist_id",
			mcp.Description("Playlist to list instead of a channel's uploads"),
		),
		mcp.WithBoolean("mine",
			mcp.Description("List the authenticated user's uploads"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of videos (1-50, default 20)"),
		),
	)
	s.AddTool(listVideosTool, common.InstrumentedToolHandlerWithService("youtube_list_videos",
		instrumentation.ServiceYouTube, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListVideos(ctx, request, sc)
		}))

	getVideoTool := mcp.NewTool("youtube_get_video",
		mcp.WithDescription("Get detailed metadata and statistics for a specific video."),
		mcp.WithString("video_id",
			mcp.Required(),
			mcp.Description("YouTube video ID"),
		),
	)
	s.AddTool(getVideoTool, common.InstrumentedToolHandlerWithService("youtube_get_video",
		instrumentation.ServiceYouTube, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetVideo(ctx, request, sc)
		}))

	return nil
}

func handleGetChannel(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	lookup := youtube.ChannelLookup{
		ID:     common.StringArg(args, "channel_id", ""),
		Handle: common.StringArg(args, "handle", ""),
		Mine:   common.BoolArg(args, "mine", false),
	}
	if !lookup.Mine && lookup.Handle == "" && lookup.ID == "" {
		return mcp.NewToolResultError("Provide channel_id, handle, or set mine=true"), nil
	}

	client, err := common.DataClient(ctx, sc, lookup.Mine)
	if err != nil {
		return common.ErrorResult("get channel", err), nil
	}
	channel, err := client.GetChannel(ctx, lookup)
	if err != nil {
		return common.ErrorResult("get channel", err), nil
	}
	return common.JSONResult(channel)
}

func handleListVideos(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	query := youtube.VideoListQuery{
		ChannelID:  common.StringArg(args, "channel_id", ""),
		PlaylistID: common.StringArg(args, "playlist_id", ""),
		Mine:       common.BoolArg(args, "mine", false),
		MaxResults: common.IntArg(args, "max_results", defaultListVideos),
	}
	if !query.Mine && query.ChannelID == "" && query.PlaylistID == "" {
		return mcp.NewToolResultError("Provide channel_id, playlist_id, or set mine=true"), nil
	}

	client, err := common.DataClient(ctx, sc, query.Mine && query.PlaylistID == "")
	if err != nil {
		return common.ErrorResult("list videos", err), nil
	}
	videos, err := client.ListVideos(ctx, query)
	if err != nil {
		return common.ErrorResult("list videos", err), nil
	}
	return common.JSONResult(videos)
}

func handleGetVideo(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	videoID, err := common.RequiredString(request.GetArguments(), "video_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := common.DataClient(ctx, sc, false)
	if err != nil {
		return common.ErrorResult("get video", err), nil
	}
	video, err := client.GetVideo(ctx, videoID)
	if err != nil {
		return common.ErrorResult("get video", err), nil
	}
	return common.JSONResult(video)
}
