// Package comment_tools provides MCP tools for reading and writing video
// comments.
//
// # Available Tools
//
//   - youtube_list_comments: top-level comment threads of a video (1 unit)
//   - youtube_post_comment: start a new comment thread (write, 50 units)
//   - youtube_reply_to_comment: reply to a top-level comment (write, 50 units)
package comment_tools
