// Package search_tools provides MCP tools for discovering content.
//
// # Available Tools
//
//   - youtube_search: search.list for videos, channels or playlists
//     (100 quota units per call)
//   - youtube_search_suggestions: autocomplete suggestions from the public
//     suggest endpoint (no quota)
//   - youtube_trending: the most popular chart of a region
//   - youtube_get_categories: assignable video categories of a region
package search_tools
