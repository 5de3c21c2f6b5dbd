// Package analytics_tools provides MCP tools backed by the YouTube
// Analytics API v2 for the authenticated channel.
//
// # Available Tools
//
//   - youtube_analytics_overview: channel totals
//   - youtube_analytics_top_videos / _top_shorts: best performers by views
//   - youtube_analytics_video_detail: daily metrics of one video
//   - youtube_analytics_traffic_sources: where views come from
//   - youtube_analytics_demographics: viewer age and gender
//   - youtube_analytics_geography: views per country
//   - youtube_analytics_daily: one row per day
//   - youtube_analytics_day_of_week: weekday averages (90 day default)
//   - youtube_analytics_content_type_breakdown: Shorts vs long-form vs live
//   - youtube_analytics_revenue / _revenue_by_video: monetized channels only
//   - youtube_analytics_retention: audience retention curve of a video
//
// Dates are YYYY-MM-DD; when either is missing the last 28 days are used.
// Analytics requests draw on their own quota pool and do not consume Data
// API units.
package analytics_tools
