package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/teemow/youtube-mcp/internal/quota"
)

// ErrNoCaptions is returned when a video has no caption tracks at all.
var ErrNoCaptions = errors.New("No captions found")

// SourceOfficialAPI labels transcripts downloaded through captions.download.
const SourceOfficialAPI = "official_api"

// ListCaptions lists caption tracks of a video owned by the authenticated
// channel.
func (c *Client) ListCaptions(ctx context.Context, videoID string) (*CaptionTracks, error) {
	if err := c.consume(quota.KindList); err != nil {
		return nil, err
	}
	resp, err := c.svc.Captions.List([]string{"snippet"}, videoID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list captions: %w", err)
	}

	tracks := make([]CaptionTrack, 0, len(resp.Items))
	for _, item := range resp.Items {
		t := CaptionTrack{ID: item.Id}
		if sn := item.Snippet; sn != nil {
			t.Language = sn.Language
			t.Name = sn.Name
			t.TrackKind = sn.TrackKind
			t.IsAutoSynced = sn.IsAutoSynced
			t.IsDraft = sn.IsDraft
			t.LastUpdated = sn.LastUpdated
		}
		tracks = append(tracks, t)
	}
	return &CaptionTracks{VideoID: videoID, Tracks: tracks}, nil
}

// OfficialTranscript downloads a caption track as SRT. The track in the
// requested language wins, otherwise the first track is used.
func (c *Client) OfficialTranscript(ctx context.Context, videoID, language string) (*Transcript, error) {
	tracks, err := c.ListCaptions(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if len(tracks.Tracks) == 0 {
		return nil, ErrNoCaptions
	}
	target := tracks.Tracks[0]
	for _, t := range tracks.Tracks {
		if t.Language == language {
			target = t
			break
		}
	}

	if err := c.consume(quota.KindList); err != nil {
		return nil, err
	}
	resp, err := c.svc.Captions.Download(target.ID).Tfmt("srt").Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download captions: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read captions: %w", err)
	}

	return &Transcript{
		VideoID:   videoID,
		Language:  target.Language,
		TrackKind: target.TrackKind,
		Source:    SourceOfficialAPI,
		FullText:  string(body),
	}, nil
}
