package publishing_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/youtube-mcp/internal/instrumentation"
	"github.com/teemow/youtube-mcp/internal/server"
	"github.com/teemow/youtube-mcp/internal/tools/common"
	"github.com/teemow/youtube-mcp/internal/youtube"
)

var privacyValues = []string{"private", "unlisted", "public"}

// RegisterPublishingTools registers the video write tools. Nothing is
// registered when readOnly is set.
func RegisterPublishingTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	uploadTool := mcp.NewTool("youtube_upload_video",
		mcp.WithDescription("Upload a video file to the authenticated channel. Costs 1600 quota units. New videos are private unless privacy_status says otherwise."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Absolute path of the video file to upload"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Video title (max 100 characters)"),
		),
		mcp.WithString("description",
			mcp.Description("Video description (max 5000 characters)"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated video tags"),
		),
		mcp.WithString("category_id",
			mcp.Description("Category ID (default 22, People & Blogs). See youtube_get_categories."),
		),
		mcp.WithString("privacy_status",
			mcp.Description("Privacy status (default private)"),
			mcp.Enum(privacyValues...),
		),
		mcp.WithString("publish_at",
			mcp.Description("Scheduled publish time in RFC 3339. Only applies to private videos."),
		),
	)
	s.AddTool(uploadTool, common.InstrumentedToolHandlerWithService("youtube_upload_video",
		instrumentation.ServiceYouTube, instrumentation.OperationUpload, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUploadVideo(ctx, request, sc)
		}))

	updateTool := mcp.NewTool("youtube_update_video",
		mcp.WithDescription("Update metadata of an existing video. Only the fields given are changed. Costs 51 quota units."),
		mcp.WithString("video_id",
			mcp.Required(),
			mcp.Description("YouTube video ID"),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated replacement tags"),
		),
		mcp.WithString("category_id",
			mcp.Description("New category ID"),
		),
		mcp.WithString("privacy_status",
			mcp.Description("New privacy status"),
			mcp.Enum(privacyValues...),
		),
	)
	s.AddTool(updateTool, common.InstrumentedToolHandlerWithService("youtube_update_video",
		instrumentation.ServiceYouTube, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateVideo(ctx, request, sc)
		}))

	thumbnailTool := mcp.NewTool("youtube_set_thumbnail",
		mcp.WithDescription("Set a custom thumbnail (JPEG or PNG, max 2MB) for a video. Costs 50 quota units."),
		mcp.WithString("video_id",
			mcp.Required(),
			mcp.Description("YouTube video ID"),
		),
		mcp.WithString("image_path",
			mcp.Required(),
			mcp.Description("Absolute path of the thumbnail image"),
		),
	)
	s.AddTool(thumbnailTool, common.InstrumentedToolHandlerWithService("youtube_set_thumbnail",
		instrumentation.ServiceYouTube, instrumentation.OperationUpload, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSetThumbnail(ctx, request, sc)
		}))

	deleteTool := mcp.NewTool("youtube_delete_video",
		mcp.WithDescription("Permanently delete a video. This cannot be undone. Costs 50 quota units."),
		mcp.WithString("video_id",
			mcp.Required(),
			mcp.Description("YouTube video ID"),
		),
	)
	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService("youtube_delete_video",
		instrumentation.ServiceYouTube, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteVideo(ctx, request, sc)
		}))

	return nil
}

func handleUploadVideo(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	filePath, err := common.RequiredString(args, "file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := common.RequiredString(args, "title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := sc.DataClient()
	if err != nil {
		return common.ErrorResult("upload video", err), nil
	}
	video, err := client.UploadVideo(ctx, youtube.UploadRequest{
		FilePath:      filePath,
		Title:         title,
		Description:   common.StringArg(args, "description", ""),
		Tags:          common.StringSliceArg(args, "tags"),
		CategoryID:    common.StringArg(args, "category_id", ""),
		PrivacyStatus: common.StringArg(args, "privacy_status", ""),
		PublishAt:     common.StringArg(args, "publish_at", ""),
	})
	if err != nil {
		return common.ErrorResult("upload video", err), nil
	}

	sc.Logger().Info("video uploaded", "video_id", video.ID, "privacy", video.Privacy)
	return common.JSONResult(video)
}

func handleUpdateVideo(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	videoID, err := common.RequiredString(args, "video_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := youtube.UpdateRequest{
		VideoID:       videoID,
		Title:         common.OptionalString(args, "title"),
		Description:   common.OptionalString(args, "description"),
		Tags:          common.StringSliceArg(args, "tags"),
		CategoryID:    common.OptionalString(args, "category_id"),
		PrivacyStatus: common.OptionalString(args, "privacy_status"),
	}
	if req.Title == nil && req.Description == nil && req.Tags == nil &&
		req.CategoryID == nil && req.PrivacyStatus == nil {
		return mcp.NewToolResultError("Provide at least one field to update"), nil
	}

	client, err := sc.DataClient()
	if err != nil {
		return common.ErrorResult("update video", err), nil
	}
	video, err := client.UpdateVideo(ctx, req)
	if err != nil {
		return common.ErrorResult("update video", err), nil
	}
	return common.JSONResult(video)
}

func handleSetThumbnail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	videoID, err := common.RequiredString(args, "video_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	imagePath, err := common.RequiredString(args, "image_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := sc.DataClient()
	if err != nil {
		return common.ErrorResult("set thumbnail", err), nil
	}
	res, err := client.SetThumbnail(ctx, videoID, imagePath)
	if err != nil {
		return common.ErrorResult("set thumbnail", err), nil
	}
	return common.JSONResult(res)
}

func handleDeleteVideo(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	videoID, err := common.RequiredString(request.GetArguments(), "video_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := sc.DataClient()
	if err != nil {
		return common.ErrorResult("delete video", err), nil
	}
	res, err := client.DeleteVideo(ctx, videoID)
	if err != nil {
		return common.ErrorResult("delete video", err), nil
	}

	sc.Logger().Info("video deleted", "video_id", videoID)
	return common.JSONResult(res)
}
