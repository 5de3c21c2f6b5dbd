// Package resources provides MCP resources exposing server state.
// Resources are read-only data sources that MCP clients can fetch without
// calling a tool, so reading them never consumes quota or starts consent.
//
//   - youtube://auth/status: stored credential state
//   - youtube://quota/status: quota used, remaining and limit for today
package resources
