package comment_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/youtube-mcp/internal/instrumentation"
	"github.com/teemow/youtube-mcp/internal/server"
	"github.com/teemow/youtube-mcp/internal/tools/common"
)

const defaultListComments = 20

// RegisterCommentTools registers the comment tools. Posting and replying
// are skipped when readOnly is set.
func RegisterCommentTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("youtube_list_comments",
		mcp.WithDescription("List top-level comments on a video. Costs 1 quota unit."),
		mcp.WithString("video_id",
			mcp.Required(),
			mcp.Description("YouTube video ID"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Number of comment threads to return (1-100, default 20)"),
		),
		mcp.WithString("order",
			mcp.Description("Sort order (default relevance)"),
			mcp.Enum("relevance", "time"),
		),
	)
	s.AddTool(listTool, common.InstrumentedToolHandlerWithService("youtube_list_comments",
		instrumentation.ServiceYouTube, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListComments(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	postTool := mcp.NewTool("youtube_post_comment",
		mcp.WithDescription("Post a top-level comment on a video as the authenticated user. Costs 50 quota units."),
		mcp.WithString("video_id",
			mcp.Required(),
			mcp.Description("YouTube video ID"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Comment text"),
		),
	)
	s.AddTool(postTool, common.InstrumentedToolHandlerWithService("youtube_post_comment",
		instrumentation.ServiceYouTube, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handlePostComment(ctx, request, sc)
		}))

	replyTool := mcp.NewTool("youtube_reply_to_comment",
		mcp.WithDescription("Reply to a top-level comment. Costs 50 quota units."),
		mcp.WithString("parent_id",
			mcp.Required(),
			mcp.Description("Comment ID to reply to (comment_id from youtube_list_comments)"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Reply text"),
		),
	)
	s.AddTool(replyTool, common.InstrumentedToolHandlerWithService("youtube_reply_to_comment",
		instrumentation.ServiceYouTube, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReplyToComment(ctx, request, sc)
		}))

	return nil
}

func handleListComments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	videoID, err := common.RequiredString(args, "video_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := common.DataClient(ctx, sc, false)
	if err != nil {
		return common.ErrorResult("list comments", err), nil
	}
	comments, err := client.ListComments(ctx, videoID,
		common.IntArg(args, "max_results", defaultListComments),
		common.StringArg(args, "order", ""))
	if err != nil {
		return common.ErrorResult("list comments", err), nil
	}
	return common.JSONResult(comments)
}

func handlePostComment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	videoID, err := common.RequiredString(args, "video_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := common.RequiredString(args, "text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := sc.DataClient()
	if err != nil {
		return common.ErrorResult("post comment", err), nil
	}
	posted, err := client.PostComment(ctx, videoID, text)
	if err != nil {
		return common.ErrorResult("post comment", err), nil
	}
	return common.JSONResult(posted)
}

func handleReplyToComment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	parentID, err := common.RequiredString(args, "parent_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := common.RequiredString(args, "text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := sc.DataClient()
	if err != nil {
		return common.ErrorResult("reply to comment", err), nil
	}
	reply, err := client.ReplyToComment(ctx, parentID, text)
	if err != nil {
		return common.ErrorResult("reply to comment", err), nil
	}
	return common.JSONResult(reply)
}
