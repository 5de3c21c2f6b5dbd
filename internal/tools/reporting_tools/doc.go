// Package reporting_tools provides MCP tools for the YouTube Reporting API,
// which produces daily bulk CSV reports for scheduled jobs.
//
// The typical flow is list_types, create_job, then after a day or two
// list_reports and download. Reporting calls do not consume Data API quota.
package reporting_tools
