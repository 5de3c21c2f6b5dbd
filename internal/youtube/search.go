package youtube

import (
	"context"
	"fmt"

	"github.com/teemow/youtube-mcp/internal/format"
	"github.com/teemow/youtube-mcp/internal/quota"
)

// Search runs search.list. It costs 100 quota units regardless of how many
// results come back.
func (c *Client) Search(ctx context.Context, q SearchQuery) (*SearchResponse, error) {
	searchType := q.Type
	if searchType == "" {
		searchType = "video"
	}
	order := q.Order
	if order == "" {
		order = "relevance"
	}

	call := c.svc.Search.List([]string{"snippet"}).
		Q(q.Query).
		Type(searchType).
		MaxResults(clampMax(q.MaxResults, 10, 50)).
		Order(order)
	if q.ChannelID != "" {
		call = call.ChannelId(q.ChannelID)
	}
	if q.PublishedAfter != "" {
		call = call.PublishedAfter(q.PublishedAfter)
	}
	if q.PublishedBefore != "" {
		call = call.PublishedBefore(q.PublishedBefore)
	}
	if q.RegionCode != "" {
		call = call.RegionCode(q.RegionCode)
	}

	if err := c.consume(quota.KindSearch); err != nil {
		return nil, err
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		r := SearchResult{}
		if sn := item.Snippet; sn != nil {
			r.Title = sn.Title
			r.Description = format.Truncate(sn.Description, 200)
			r.ChannelTitle = sn.ChannelTitle
			r.PublishedAt = sn.PublishedAt
			r.Thumbnail = highThumbnail(sn.Thumbnails)
		}
		if item.Id != nil {
			switch searchType {
			case "video":
				r.VideoID = item.Id.VideoId
			case "channel":
				r.ChannelID = item.Id.ChannelId
			case "playlist":
				r.PlaylistID = item.Id.PlaylistId
			}
		}
		results = append(results, r)
	}

	out := &SearchResponse{
		Results:      results,
		TotalResults: int64(len(results)),
		QuotaCost:    quota.Cost(quota.KindSearch),
	}
	if resp.PageInfo != nil && resp.PageInfo.TotalResults > 0 {
		out.TotalResults = resp.PageInfo.TotalResults
	}
	return out, nil
}

// Trending returns the most-popular chart for a region, optionally limited
// to one category.
func (c *Client) Trending(ctx context.Context, regionCode, categoryID string, maxResults int) (*Trending, error) {
	if regionCode == "" {
		regionCode = "US"
	}
	call := c.svc.Videos.List(videoParts).
		Chart("mostPopular").
		RegionCode(regionCode).
		MaxResults(clampMax(maxResults, 10, 50))
	if categoryID != "" {
		call = call.VideoCategoryId(categoryID)
	}

	if err := c.consume(quota.KindList); err != nil {
		return nil, err
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get trending videos: %w", err)
	}
	return &Trending{
		Region:     regionCode,
		CategoryID: categoryID,
		Videos:     VideoSummaries(resp.Items),
	}, nil
}

// Categories returns the video categories creators can assign in a region.
func (c *Client) Categories(ctx context.Context, regionCode string) (*Categories, error) {
	if regionCode == "" {
		regionCode = "US"
	}

	if err := c.consume(quota.KindList); err != nil {
		return nil, err
	}
	resp, err := c.svc.VideoCategories.List([]string{"snippet"}).
		RegionCode(regionCode).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	out := &Categories{Region: regionCode, Categories: []Category{}}
	for _, item := range resp.Items {
		if item.Snippet == nil || !item.Snippet.Assignable {
			continue
		}
		out.Categories = append(out.Categories, Category{ID: item.Id, Title: item.Snippet.Title})
	}
	return out, nil
}
