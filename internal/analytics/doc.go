// Package analytics queries the YouTube Analytics API v2 for the
// authenticated channel.
//
// Every report is a thin preset over Query, which runs reports.query with
// ids=channel==MINE and zips each row with the column header names. Date
// ranges default to the last 28 days, ending today.
//
// Analytics requests draw from their own quota pool and are not charged
// against the Data API daily allowance.
//
// # Example Usage
//
//	svc, err := manager.AnalyticsService(ctx)
//	if err != nil {
//	    return err
//	}
//	client := analytics.NewClient(svc)
//	top, err := client.TopVideos(ctx, analytics.DateRange{}, 10)
package analytics
