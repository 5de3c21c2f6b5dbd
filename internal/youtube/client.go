package youtube

import (
	"errors"
	"fmt"

	youtube "google.golang.org/api/youtube/v3"

	"github.com/teemow/youtube-mcp/internal/format"
)

// ErrNotFound is returned when a lookup by ID yields no items.
var ErrNotFound = errors.New("not found")

// QuotaConsumer reserves quota units before an API call.
type QuotaConsumer interface {
	Consume(kind string, count int) error
}

// Client wraps the YouTube Data API service.
type Client struct {
	svc   *youtube.Service
	quota QuotaConsumer
}

// Option configures a Client.
type Option func(*Client)

// WithQuota charges every call against q.
func WithQuota(q QuotaConsumer) Option {
	return func(c *Client) {
		c.quota = q
	}
}

// NewClient creates a client around an authorized service.
func NewClient(svc *youtube.Service, opts ...Option) *Client {
	c := &Client{svc: svc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) consume(kind string) error {
	if c.quota == nil {
		return nil
	}
	return c.quota.Consume(kind, 1)
}

// clampMax bounds a page size to [1, limit], defaulting to def.
func clampMax(n, def, limit int) int64 {
	if n <= 0 {
		n = def
	}
	if n > limit {
		n = limit
	}
	return int64(n)
}

func highThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil || t.High == nil {
		return ""
	}
	return t.High.Url
}

// NotFoundError names the missing resource. It matches ErrNotFound.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// toVideoSummary flattens a video resource.
func toVideoSummary(v *youtube.Video) VideoSummary {
	s := VideoSummary{ID: v.Id, Tags: []string{}}
	if sn := v.Snippet; sn != nil {
		s.Title = sn.Title
		s.Channel = sn.ChannelTitle
		s.PublishedAt = sn.PublishedAt
		s.Description = format.Truncate(sn.Description, 500)
		s.Thumbnail = highThumbnail(sn.Thumbnails)
		if sn.Tags != nil {
			s.Tags = sn.Tags
		}
	}
	if st := v.Statistics; st != nil {
		s.Views = st.ViewCount
		s.Likes = st.LikeCount
		s.Comments = st.CommentCount
	}
	var iso string
	if cd := v.ContentDetails; cd != nil {
		iso = cd.Duration
	}
	s.Duration = format.Duration(iso)
	s.IsShort = format.IsLikelyShort(iso)
	return s
}

// VideoSummaries flattens a list of video resources.
func VideoSummaries(items []*youtube.Video) []VideoSummary {
	out := make([]VideoSummary, 0, len(items))
	for _, v := range items {
		out = append(out, toVideoSummary(v))
	}
	return out
}
