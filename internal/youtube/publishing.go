package youtube

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/googleapi"
	youtube "google.golang.org/api/youtube/v3"

	"github.com/teemow/youtube-mcp/internal/format"
	"github.com/teemow/youtube-mcp/internal/quota"
)

const (
	maxTitleRunes       = 100
	maxDescriptionRunes = 5000

	// DefaultCategoryID is "People & Blogs".
	DefaultCategoryID = "22"
	// DefaultPrivacy applies to new uploads and playlists.
	DefaultPrivacy = "private"

	uploadChunkSize = 8 * 1024 * 1024
)

func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// openLocal opens a file that must exist before any quota is reserved.
func openLocal(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{Resource: "File", ID: path}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

// UploadVideo uploads a local file with a resumable media upload.
func (c *Client) UploadVideo(ctx context.Context, req UploadRequest) (*UploadedVideo, error) {
	f, err := openLocal(req.FilePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	category := req.CategoryID
	if category == "" {
		category = DefaultCategoryID
	}
	privacy := req.PrivacyStatus
	if privacy == "" {
		privacy = DefaultPrivacy
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	body := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       format.Truncate(req.Title, maxTitleRunes),
			Description: format.Truncate(req.Description, maxDescriptionRunes),
			Tags:        tags,
			CategoryId:  category,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           privacy,
			SelfDeclaredMadeForKids: false,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
	}
	// Scheduling only works on private videos.
	if req.PublishAt != "" && privacy == "private" {
		body.Status.PublishAt = req.PublishAt
	}

	if err := c.consume(quota.KindVideoInsert); err != nil {
		return nil, err
	}
	resp, err := c.svc.Videos.Insert([]string{"snippet", "status"}, body).
		Media(f, googleapi.ChunkSize(uploadChunkSize)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload video: %w", err)
	}

	out := &UploadedVideo{
		ID:        resp.Id,
		URL:       watchURL(resp.Id),
		QuotaCost: quota.Cost(quota.KindVideoInsert),
	}
	if resp.Snippet != nil {
		out.Title = resp.Snippet.Title
	}
	if resp.Status != nil {
		out.Privacy = resp.Status.PrivacyStatus
		out.PublishAt = resp.Status.PublishAt
	}
	return out, nil
}

// UpdateVideo fetches the current snippet and applies only the fields set
// in req. Status is sent only when the privacy changes.
func (c *Client) UpdateVideo(ctx context.Context, req UpdateRequest) (*UpdatedVideo, error) {
	if err := c.consume(quota.KindList); err != nil {
		return nil, err
	}
	current, err := c.svc.Videos.List([]string{"snippet", "status"}).
		Id(req.VideoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	if len(current.Items) == 0 || current.Items[0].Snippet == nil {
		return nil, &NotFoundError{Resource: "Video", ID: req.VideoID}
	}

	snippet := current.Items[0].Snippet
	if req.Title != nil {
		snippet.Title = format.Truncate(*req.Title, maxTitleRunes)
	}
	if req.Description != nil {
		snippet.Description = format.Truncate(*req.Description, maxDescriptionRunes)
	}
	if req.Tags != nil {
		snippet.Tags = req.Tags
	}
	if req.CategoryID != nil {
		snippet.CategoryId = *req.CategoryID
	}

	body := &youtube.Video{Id: req.VideoID, Snippet: snippet}
	parts := []string{"snippet"}
	if req.PrivacyStatus != nil {
		body.Status = &youtube.VideoStatus{PrivacyStatus: *req.PrivacyStatus}
		parts = append(parts, "status")
	}

	if err := c.consume(quota.KindUpdate); err != nil {
		return nil, err
	}
	resp, err := c.svc.Videos.Update(parts, body).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	out := &UpdatedVideo{ID: resp.Id, Updated: true}
	if resp.Snippet != nil {
		out.Title = resp.Snippet.Title
	}
	if resp.Status != nil {
		out.Privacy = resp.Status.PrivacyStatus
	} else if cur := current.Items[0].Status; cur != nil {
		out.Privacy = cur.PrivacyStatus
	}
	return out, nil
}

// SetThumbnail uploads a custom thumbnail image.
func (c *Client) SetThumbnail(ctx context.Context, videoID, path string) (*ThumbnailResult, error) {
	f, err := openLocal(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := c.consume(quota.KindThumbnailSet); err != nil {
		return nil, err
	}
	resp, err := c.svc.Thumbnails.Set(videoID).Media(f).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to set thumbnail: %w", err)
	}

	out := &ThumbnailResult{VideoID: videoID, Updated: true}
	if len(resp.Items) > 0 && resp.Items[0].Default != nil {
		out.ThumbnailURL = resp.Items[0].Default.Url
	}
	return out, nil
}

// DeleteVideo permanently deletes a video.
func (c *Client) DeleteVideo(ctx context.Context, videoID string) (*DeletedVideo, error) {
	if err := c.consume(quota.KindDelete); err != nil {
		return nil, err
	}
	if err := c.svc.Videos.Delete(videoID).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("failed to delete video: %w", err)
	}
	return &DeletedVideo{VideoID: videoID, Deleted: true}, nil
}
