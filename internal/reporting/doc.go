// Package reporting wraps the YouTube Reporting API, which produces daily
// bulk CSV exports.
//
// The workflow is: list report types, create a job for one of them, wait a
// day or two for reports to appear, then list and download them. Reports
// stay available for 60 days. None of these calls count against the Data
// API quota.
package reporting
