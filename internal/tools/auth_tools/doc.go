// Package auth_tools provides MCP tools for YouTube authorization.
//
// # Available Tools
//
//   - youtube_auth: run the OAuth flow (refresh or browser consent) and
//     report the resulting credential state
//   - youtube_auth_status: report the stored credential and today's quota
//     usage without touching the network
//
// youtube_auth never fails as a tool call; authorization problems are
// reported in its "detail" field so the agent can relay them to the user.
package auth_tools
