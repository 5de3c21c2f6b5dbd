package playlist_tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/youtube-mcp/internal/auth"
	"github.com/teemow/youtube-mcp/internal/instrumentation"
	"github.com/teemow/youtube-mcp/internal/quota"
	"github.com/teemow/youtube-mcp/internal/server"
	"github.com/teemow/youtube-mcp/internal/tools/batch"
	"github.com/teemow/youtube-mcp/internal/tools/common"
)

const defaultListPlaylists = 25

// RegisterPlaylistTools registers the playlist tools. Write tools are
// skipped when readOnly is set.
func RegisterPlaylistTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("youtube_list_playlists",
		mcp.WithDescription("List playlists of a channel or of the authenticated user. Costs 1 quota unit."),
		mcp.WithString("channel_id",
			mcp.Description("Channel whose playlists to list"),
		),
		mcp.WithBoolean("mine",
			mcp.Description("List the authenticated user's playlists"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of playlists (1-50, default 25)"),
		),
	)
	s.AddTool(listTool, common.InstrumentedToolHandlerWithService("youtube_list_playlists",
		instrumentation.ServiceYouTube, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListPlaylists(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("youtube_create_playlist",
		mcp.WithDescription("Create a new playlist on the authenticated channel. Costs 50 quota units."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Playlist title"),
		),
		mcp.WithString("description",
			mcp.Description("Playlist description"),
		),
		mcp.WithString("privacy_status",
			mcp.Description("Privacy status (default private)"),
			mcp.Enum("private", "unlisted", "public"),
		),
	)
	s.AddTool(createTool, common.InstrumentedToolHandlerWithService("youtube_create_playlist",
		instrumentation.ServiceYouTube, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreatePlaylist(ctx, request, sc)
		}))

	addTool := mcp.NewTool("youtube_add_to_playlist",
		mcp.WithDescription("Add videos to a playlist. Costs 50 quota units per video."),
		mcp.WithString("playlist_id",
			mcp.Required(),
			mcp.Description("Playlist ID"),
		),
		mcp.WithString("video_id",
			mcp.Required(),
			mcp.Description("Video ID, or a JSON array of video IDs to add in order"),
		),
		mcp.WithNumber("position",
			mcp.Description("Zero-based position to insert at. Appends when omitted."),
		),
	)
	s.AddTool(addTool, common.InstrumentedToolHandlerWithService("youtube_add_to_playlist",
		instrumentation.ServiceYouTube, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAddToPlaylist(ctx, request, sc)
		}))

	removeTool := mcp.NewTool("youtube_remove_from_playlist",
		mcp.WithDescription("Remove an item from a playlist. The video itself is not deleted. Costs 50 quota units."),
		mcp.WithString("playlist_item_id",
			mcp.Required(),
			mcp.Description("Playlist item ID, as returned by youtube_add_to_playlist"),
		),
	)
	s.AddTool(removeTool, common.InstrumentedToolHandlerWithService("youtube_remove_from_playlist",
		instrumentation.ServiceYouTube, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRemoveFromPlaylist(ctx, request, sc)
		}))

	return nil
}

func handleListPlaylists(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	channelID := common.StringArg(args, "channel_id", "")
	mine := common.BoolArg(args, "mine", false)
	if !mine && channelID == "" {
		return mcp.NewToolResultError("Provide channel_id or set mine=true"), nil
	}

	client, err := common.DataClient(ctx, sc, mine)
	if err != nil {
		return common.ErrorResult("list playlists", err), nil
	}
	playlists, err := client.ListPlaylists(ctx, channelID, mine, common.IntArg(args, "max_results", defaultListPlaylists))
	if err != nil {
		return common.ErrorResult("list playlists", err), nil
	}
	return common.JSONResult(playlists)
}

func handleCreatePlaylist(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	title, err := common.RequiredString(args, "title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := sc.DataClient()
	if err != nil {
		return common.ErrorResult("create playlist", err), nil
	}
	playlist, err := client.CreatePlaylist(ctx, title,
		common.StringArg(args, "description", ""),
		common.StringArg(args, "privacy_status", ""))
	if err != nil {
		return common.ErrorResult("create playlist", err), nil
	}
	return common.JSONResult(playlist)
}

// itemError carries the user-facing message of a failed batch item while
// keeping the cause inspectable.
type itemError struct {
	msg string
	err error
}

func (e *itemError) Error() string { return e.msg }
func (e *itemError) Unwrap() error { return e.err }

// fatal reports errors that will fail every remaining item too.
func fatal(err error) bool {
	var qe *quota.QuotaExhaustedError
	var ae *auth.AuthError
	return errors.As(err, &qe) || errors.As(err, &ae)
}

func handleAddToPlaylist(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	playlistID, err := common.RequiredString(args, "playlist_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	videoIDs, err := batch.ParseStringOrArray(args["video_id"], "video_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	position := common.OptionalInt64(args, "position")
	if position != nil && *position < 0 {
		return mcp.NewToolResultError("position must not be negative"), nil
	}

	client, err := sc.DataClient()
	if err != nil {
		return common.ErrorResult("add to playlist", err), nil
	}

	if len(videoIDs) == 1 {
		added, err := client.AddToPlaylist(ctx, playlistID, videoIDs[0], position)
		if err != nil {
			return common.ErrorResult("add to playlist", err), nil
		}
		return common.JSONResult(added)
	}

	// Consecutive positions keep the given order when inserting mid-list.
	next := position
	results := batch.ProcessBatch(ctx, videoIDs, func(ctx context.Context, videoID string) (interface{}, error) {
		added, err := client.AddToPlaylist(ctx, playlistID, videoID, next)
		if err != nil {
			return nil, &itemError{msg: common.ErrorMessage("add to playlist", err), err: err}
		}
		if next != nil {
			p := *next + 1
			next = &p
		}
		return added, nil
	}, fatal)

	summary := batch.Summarize(results)
	sc.Logger().Info("playlist batch add finished",
		"playlist_id", playlistID,
		"successful", summary.Successful,
		"failed", summary.Failed)
	return common.JSONResult(summary)
}

func handleRemoveFromPlaylist(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	itemID, err := common.RequiredString(request.GetArguments(), "playlist_item_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := sc.DataClient()
	if err != nil {
		return common.ErrorResult("remove from playlist", err), nil
	}
	res, err := client.RemoveFromPlaylist(ctx, itemID)
	if err != nil {
		return common.ErrorResult("remove from playlist", err), nil
	}
	return common.JSONResult(res)
}
