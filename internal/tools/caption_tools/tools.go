package caption_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/youtube-mcp/internal/instrumentation"
	"github.com/teemow/youtube-mcp/internal/server"
	"github.com/teemow/youtube-mcp/internal/tools/common"
)

const defaultLanguage = "en"

// RegisterCaptionTools registers the caption and transcript tools.
func RegisterCaptionTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("youtube_list_captions",
		mcp.WithDescription("List available caption tracks for a video you own. Requires OAuth; only works for videos on the authenticated channel."),
		mcp.WithString("video_id",
			mcp.Required(),
			mcp.Description("YouTube video ID"),
		),
	)
	s.AddTool(listTool, common.InstrumentedToolHandlerWithService("youtube_list_captions",
		instrumentation.ServiceYouTube, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			videoID, err := common.RequiredString(request.GetArguments(), "video_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			client, err := common.DataClient(ctx, sc, true)
			if err != nil {
				return common.ErrorResult("list captions", err), nil
			}
			tracks, err := client.ListCaptions(ctx, videoID)
			if err != nil {
				return common.ErrorResult("list captions", err), nil
			}
			return common.JSONResult(tracks)
		}))

	transcriptTool := mcp.NewTool("youtube_get_transcript",
		mcp.WithDescription("Get the transcript of a video. By default reads public captions (any public video, no quota cost). Set use_official_api=true to download through the Data API (own videos only, costs quota)."),
		mcp.WithString("video_id",
			mcp.Required(),
			mcp.Description("YouTube video ID"),
		),
		mcp.WithString("language",
			mcp.Description("Preferred language code, e.g. en, es, ja (default: en)"),
		),
		mcp.WithBoolean("use_official_api",
			mcp.Description("Use the official captions API (own videos only)"),
		),
	)
	s.AddTool(transcriptTool, common.InstrumentedToolHandlerWithService("youtube_get_transcript",
		instrumentation.ServiceWeb, instrumentation.OperationFetch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetTranscript(ctx, request, sc)
		}))

	return nil
}

func handleGetTranscript(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	videoID, err := common.RequiredString(args, "video_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	language := common.StringArg(args, "language", defaultLanguage)

	if common.BoolArg(args, "use_official_api", false) {
		client, err := common.DataClient(ctx, sc, true)
		if err != nil {
			return common.ErrorResult("get transcript", err), nil
		}
		transcript, err := client.OfficialTranscript(ctx, videoID, language)
		if err != nil {
			return common.ErrorResult("get transcript", err), nil
		}
		return common.JSONResult(transcript)
	}

	transcript, err := sc.Web().ScrapedTranscript(ctx, videoID, language)
	if err != nil {
		return mcp.NewToolResultError("Could not fetch transcript: " + err.Error()), nil
	}
	return common.JSONResult(transcript)
}
