package youtube

import (
	"context"
	"fmt"

	youtube "google.golang.org/api/youtube/v3"

	"github.com/teemow/youtube-mcp/internal/quota"
)

// ListComments returns top-level comment threads on a video.
func (c *Client) ListComments(ctx context.Context, videoID string, maxResults int, order string) (*CommentList, error) {
	if order == "" {
		order = "relevance"
	}

	if err := c.consume(quota.KindList); err != nil {
		return nil, err
	}
	resp, err := c.svc.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		MaxResults(clampMax(maxResults, 20, 100)).
		Order(order).
		TextFormat("plainText").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	comments := make([]Comment, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil {
			continue
		}
		top := item.Snippet.TopLevelComment
		cm := Comment{
			CommentID:  top.Id,
			ThreadID:   item.Id,
			ReplyCount: item.Snippet.TotalReplyCount,
		}
		if sn := top.Snippet; sn != nil {
			cm.Author = sn.AuthorDisplayName
			cm.Text = sn.TextDisplay
			cm.Likes = sn.LikeCount
			cm.PublishedAt = sn.PublishedAt
		}
		comments = append(comments, cm)
	}
	return &CommentList{VideoID: videoID, Comments: comments, Total: len(comments)}, nil
}

// PostComment starts a new comment thread on a video.
func (c *Client) PostComment(ctx context.Context, videoID, text string) (*PostedComment, error) {
	body := &youtube.CommentThread{
		Snippet: &youtube.CommentThreadSnippet{
			VideoId: videoID,
			TopLevelComment: &youtube.Comment{
				Snippet: &youtube.CommentSnippet{TextOriginal: text},
			},
		},
	}

	if err := c.consume(quota.KindInsert); err != nil {
		return nil, err
	}
	resp, err := c.svc.CommentThreads.Insert([]string{"snippet"}, body).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to post comment: %w", err)
	}

	out := &PostedComment{ThreadID: resp.Id, VideoID: videoID, Posted: true}
	if resp.Snippet != nil && resp.Snippet.TopLevelComment != nil {
		out.CommentID = resp.Snippet.TopLevelComment.Id
		if sn := resp.Snippet.TopLevelComment.Snippet; sn != nil {
			out.Text = sn.TextDisplay
		}
	}
	return out, nil
}

// ReplyToComment replies to a top-level comment.
func (c *Client) ReplyToComment(ctx context.Context, parentID, text string) (*PostedReply, error) {
	body := &youtube.Comment{
		Snippet: &youtube.CommentSnippet{
			ParentId:     parentID,
			TextOriginal: text,
		},
	}

	if err := c.consume(quota.KindInsert); err != nil {
		return nil, err
	}
	resp, err := c.svc.Comments.Insert([]string{"snippet"}, body).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to reply to comment: %w", err)
	}

	out := &PostedReply{ReplyID: resp.Id, ParentID: parentID, Posted: true}
	if resp.Snippet != nil {
		out.Text = resp.Snippet.TextDisplay
	}
	return out, nil
}
