package youtube

import (
	"context"
	"errors"
	"fmt"

	youtube "google.golang.org/api/youtube/v3"

	"github.com/teemow/youtube-mcp/internal/format"
	"github.com/teemow/youtube-mcp/internal/quota"
)

// ListPlaylists lists the playlists of a channel, or of the authenticated
// user when mine is set.
func (c *Client) ListPlaylists(ctx context.Context, channelID string, mine bool, maxResults int) (*PlaylistList, error) {
	call := c.svc.Playlists.List([]string{"snippet", "contentDetails"}).
		MaxResults(clampMax(maxResults, 25, 50))
	switch {
	case mine:
		call = call.Mine(true)
	case channelID != "":
		call = call.ChannelId(channelID)
	default:
		return nil, errors.New("provide channel_id or set mine=true")
	}

	if err := c.consume(quota.KindList); err != nil {
		return nil, err
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	playlists := make([]Playlist, 0, len(resp.Items))
	for _, item := range resp.Items {
		p := Playlist{ID: item.Id}
		if sn := item.Snippet; sn != nil {
			p.Title = sn.Title
			p.Description = format.Truncate(sn.Description, 200)
			p.PublishedAt = sn.PublishedAt
			p.Thumbnail = highThumbnail(sn.Thumbnails)
		}
		if item.ContentDetails != nil {
			p.VideoCount = item.ContentDetails.ItemCount
		}
		playlists = append(playlists, p)
	}
	return &PlaylistList{Playlists: playlists, Total: len(playlists)}, nil
}

// CreatePlaylist creates a playlist. Privacy defaults to private.
func (c *Client) CreatePlaylist(ctx context.Context, title, description, privacy string) (*CreatedPlaylist, error) {
	if privacy == "" {
		privacy = "private"
	}
	body := &youtube.Playlist{
		Snippet: &youtube.PlaylistSnippet{
			Title:       title,
			Description: description,
		},
		Status: &youtube.PlaylistStatus{PrivacyStatus: privacy},
	}

	if err := c.consume(quota.KindInsert); err != nil {
		return nil, err
	}
	resp, err := c.svc.Playlists.Insert([]string{"snippet", "status"}, body).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	out := &CreatedPlaylist{
		ID:  resp.Id,
		URL: "https://www.youtube.com/playlist?list=" + resp.Id,
	}
	if resp.Snippet != nil {
		out.Title = resp.Snippet.Title
	}
	if resp.Status != nil {
		out.Privacy = resp.Status.PrivacyStatus
	}
	return out, nil
}

// AddToPlaylist appends a video, or inserts it at position when non-nil.
func (c *Client) AddToPlaylist(ctx context.Context, playlistID, videoID string, position *int64) (*PlaylistItemAdded, error) {
	snippet := &youtube.PlaylistItemSnippet{
		PlaylistId: playlistID,
		ResourceId: &youtube.ResourceId{
			Kind:    "youtube#video",
			VideoId: videoID,
		},
	}
	if position != nil {
		snippet.Position = *position
		snippet.ForceSendFields = []string{"Position"}
	}

	if err := c.consume(quota.KindInsert); err != nil {
		return nil, err
	}
	resp, err := c.svc.PlaylistItems.Insert([]string{"snippet"}, &youtube.PlaylistItem{Snippet: snippet}).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to add to playlist: %w", err)
	}

	out := &PlaylistItemAdded{
		PlaylistItemID: resp.Id,
		PlaylistID:     playlistID,
		VideoID:        videoID,
		Added:          true,
	}
	if resp.Snippet != nil {
		out.Position = resp.Snippet.Position
	}
	return out, nil
}

// RemoveFromPlaylist deletes a playlist item (not the video itself).
func (c *Client) RemoveFromPlaylist(ctx context.Context, playlistItemID string) (*PlaylistItemRemoved, error) {
	if err := c.consume(quota.KindDelete); err != nil {
		return nil, err
	}
	if err := c.svc.PlaylistItems.Delete(playlistItemID).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("failed to remove from playlist: %w", err)
	}
	return &PlaylistItemRemoved{PlaylistItemID: playlistItemID, Removed: true}, nil
}
