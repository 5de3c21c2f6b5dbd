// Package playlist_tools provides MCP tools for listing and editing
// playlists.
//
// # Available Tools
//
//   - youtube_list_playlists: playlists of a channel or of the authenticated user
//   - youtube_create_playlist: create a playlist (write)
//   - youtube_add_to_playlist: add one or more videos to a playlist (write)
//   - youtube_remove_from_playlist: remove a playlist item (write)
//
// # Batch Operations
//
// youtube_add_to_playlist accepts a single video ID, an array of IDs, or a
// JSON array string. Each video costs 50 quota units and is reported on its
// own. When quota runs out or authentication fails, the remaining videos
// are not attempted.
package playlist_tools
