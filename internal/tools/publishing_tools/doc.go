// Package publishing_tools provides MCP tools that change videos on the
// authenticated channel.
//
// # Available Tools
//
//   - youtube_upload_video: upload a local file (1600 quota units)
//   - youtube_update_video: change title, description, tags, category or privacy (51 units)
//   - youtube_set_thumbnail: upload a custom thumbnail image (50 units)
//   - youtube_delete_video: permanently delete a video (50 units)
//
// None of these tools are registered in read-only mode. All of them require
// an OAuth credential.
package publishing_tools
