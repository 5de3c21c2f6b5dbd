// Package caption_tools provides MCP tools for captions and transcripts.
//
// # Available Tools
//
//   - youtube_list_captions: caption tracks of a video you own (OAuth)
//   - youtube_get_transcript: transcript text of a video
//
// youtube_get_transcript reads public captions from the watch page by
// default, which works for any public video and costs no quota. With
// use_official_api=true it downloads the track through the Data API
// instead, which only works for your own videos and costs quota.
package caption_tools
