// Package format holds the pure helpers used to turn YouTube API values into
// the compact, human-readable strings returned by the MCP tools.
//
// Nothing in this package performs I/O. The helpers cover ISO-8601 durations
// ("PT1H2M3S" -> "1h 2m 3s"), abbreviated counts (1500 -> "1.5K"), rune-safe
// truncation and the Shorts heuristic based on a video's duration.
package format
