package youtube

import (
	"context"
	"errors"
	"fmt"

	youtube "google.golang.org/api/youtube/v3"

	"github.com/teemow/youtube-mcp/internal/format"
	"github.com/teemow/youtube-mcp/internal/quota"
)

// ErrNoChannelSelector is returned when a lookup names no channel at all.
var ErrNoChannelSelector = errors.New("provide channel_id, handle, or set mine=true")

var (
	channelParts = []string{"snippet", "statistics", "contentDetails", "brandingSettings"}
	videoParts   = []string{"snippet", "statistics", "contentDetails"}
	detailParts  = []string{"snippet", "statistics", "contentDetails", "status", "topicDetails"}
)

// GetChannel returns channel details and statistics.
func (c *Client) GetChannel(ctx context.Context, lookup ChannelLookup) (*Channel, error) {
	call := c.svc.Channels.List(channelParts)
	switch {
	case lookup.Mine:
		call = call.Mine(true)
	case lookup.Handle != "":
		call = call.ForHandle(lookup.Handle)
	case lookup.ID != "":
		call = call.Id(lookup.ID)
	default:
		return nil, ErrNoChannelSelector
	}

	if err := c.consume(quota.KindList); err != nil {
		return nil, err
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, &NotFoundError{Resource: "Channel"}
	}

	ch := resp.Items[0]
	out := &Channel{ID: ch.Id}
	if sn := ch.Snippet; sn != nil {
		out.Title = sn.Title
		out.Handle = sn.CustomUrl
		out.Description = format.Truncate(sn.Description, 500)
		out.PublishedAt = sn.PublishedAt
		out.Thumbnail = highThumbnail(sn.Thumbnails)
	}
	if st := ch.Statistics; st != nil {
		out.Subscribers = st.SubscriberCount
		out.TotalViews = st.ViewCount
		out.VideoCount = st.VideoCount
	}
	if cd := ch.ContentDetails; cd != nil && cd.RelatedPlaylists != nil {
		out.UploadsPlaylistID = cd.RelatedPlaylists.Uploads
	}
	return out, nil
}

// uploadsPlaylist resolves the uploads playlist of a channel.
func (c *Client) uploadsPlaylist(ctx context.Context, channelID string, mine bool) (string, error) {
	call := c.svc.Channels.List([]string{"contentDetails"})
	switch {
	case mine:
		call = call.Mine(true)
	case channelID != "":
		call = call.Id(channelID)
	default:
		return "", errors.New("provide channel_id, playlist_id, or set mine=true")
	}

	if err := c.consume(quota.KindList); err != nil {
		return "", err
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get channel: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", &NotFoundError{Resource: "Channel"}
	}

	cd := resp.Items[0].ContentDetails
	if cd == nil || cd.RelatedPlaylists == nil || cd.RelatedPlaylists.Uploads == "" {
		return "", errors.New("could not resolve uploads playlist")
	}
	return cd.RelatedPlaylists.Uploads, nil
}

// ListVideos lists a playlist's videos, or the uploads of a channel when no
// playlist is given. Video details are fetched in a single batched call.
func (c *Client) ListVideos(ctx context.Context, q VideoListQuery) (*VideoList, error) {
	playlistID := q.PlaylistID
	if playlistID == "" {
		var err error
		playlistID, err = c.uploadsPlaylist(ctx, q.ChannelID, q.Mine)
		if err != nil {
			return nil, err
		}
	}

	if err := c.consume(quota.KindList); err != nil {
		return nil, err
	}
	items, err := c.svc.PlaylistItems.List([]string{"contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(clampMax(q.MaxResults, 20, 50)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist items: %w", err)
	}

	ids := make([]string, 0, len(items.Items))
	for _, it := range items.Items {
		if it.ContentDetails != nil && it.ContentDetails.VideoId != "" {
			ids = append(ids, it.ContentDetails.VideoId)
		}
	}
	if len(ids) == 0 {
		return &VideoList{Videos: []VideoSummary{}, Total: 0}, nil
	}

	if err := c.consume(quota.KindList); err != nil {
		return nil, err
	}
	videos, err := c.svc.Videos.List(videoParts).Id(ids...).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	list := &VideoList{Videos: VideoSummaries(videos.Items)}
	list.Total = int64(len(list.Videos))
	if items.PageInfo != nil && items.PageInfo.TotalResults > 0 {
		list.Total = items.PageInfo.TotalResults
	}
	return list, nil
}

// GetVideo returns full details for one video.
func (c *Client) GetVideo(ctx context.Context, videoID string) (*VideoDetail, error) {
	if err := c.consume(quota.KindList); err != nil {
		return nil, err
	}
	resp, err := c.svc.Videos.List(detailParts).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, &NotFoundError{Resource: "Video", ID: videoID}
	}
	return toVideoDetail(resp.Items[0]), nil
}

func toVideoDetail(v *youtube.Video) *VideoDetail {
	d := &VideoDetail{VideoSummary: toVideoSummary(v), TopicCategories: []string{}}
	if st := v.Status; st != nil {
		d.Privacy = st.PrivacyStatus
		d.PublishAt = st.PublishAt
		d.License = st.License
		d.Embeddable = st.Embeddable
	}
	if td := v.TopicDetails; td != nil && td.TopicCategories != nil {
		d.TopicCategories = td.TopicCategories
	}
	return d
}
