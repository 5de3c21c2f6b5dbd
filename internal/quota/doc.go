// Package quota tracks consumption of the YouTube Data API daily quota.
//
// The Data API grants each Google Cloud project a fixed number of units per
// day (10,000 by default) and resets the allowance at midnight Pacific Time.
// Every API method has a fixed unit price: reads cost 1, writes 50, a search
// 100 and a video upload 1600. A Tracker mirrors that accounting locally so
// tools can refuse a call up front instead of burning the remaining budget on
// a request the API would reject anyway.
//
// # Rollover
//
// There is no timer. Every accessor and every Consume first compares the
// current date in the reference timezone with the date of the last reset and
// zeroes the counter when they differ.
//
// # Persistence
//
// A Tracker keeps its state in memory. An optional Store (FileStore or
// ValkeyStore) receives a Snapshot after each change so that a restart, or a
// replacement pod reading the same Valkey key, resumes from the day's count.
// Snapshots are overwritten, not merged: two trackers running at once each
// count only their own calls.
//
// # Example Usage
//
//	tracker := quota.NewTracker(quota.WithLimit(10000))
//
//	if err := tracker.Consume(quota.KindSearch, 1); err != nil {
//	    var exhausted *quota.QuotaExhaustedError
//	    if errors.As(err, &exhausted) {
//	        // report exhausted.Used / exhausted.Limit to the caller
//	    }
//	    return err
//	}
//
//	status := tracker.Status() // {used, remaining, limit, date}
package quota
