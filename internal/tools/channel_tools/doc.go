// Package channel_tools provides MCP tools for reading channels and videos.
//
// # Available Tools
//
//   - youtube_get_channel: channel details by ID, @handle, or mine=true
//   - youtube_list_videos: recent uploads of a channel, or a playlist's videos
//   - youtube_get_video: full metadata and statistics of one video
//
// Every call costs 1 quota unit per underlying list request. Public lookups
// use the API key when no OAuth credential is usable.
package channel_tools
