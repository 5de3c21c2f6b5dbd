// Package youtube provides a client for the YouTube Data API v3 and for the
// public youtube.com endpoints that have no official API.
//
// Client wraps a *youtube.Service and flattens API resources into compact
// structs suitable for returning to a language model:
//   - Channels and uploads (get channel, list videos, get video)
//   - Search, trending charts and video categories
//   - Playlists and playlist items
//   - Comment threads and replies
//   - Publishing: upload, metadata update, thumbnails, deletion
//   - Caption tracks and official transcript downloads
//
// Every Data API call first reserves its cost with the configured
// QuotaConsumer; a reservation failure aborts the call before any request
// is sent.
//
// Web covers the endpoints that need no credentials: search suggestions and
// transcripts scraped from the watch page's timedtext tracks. Neither costs
// quota.
//
// # Example Usage
//
//	svc, err := authManager.DataService(ctx)
//	if err != nil {
//	    return err
//	}
//	client := youtube.NewClient(svc, youtube.WithQuota(tracker))
//
//	video, err := client.GetVideo(ctx, "dQw4w9WgXcQ")
//	if errors.Is(err, youtube.ErrNotFound) {
//	    // ...
//	}
package youtube
