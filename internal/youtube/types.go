package youtube

// VideoSummary is the compact form of a video returned by list tools.
type VideoSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Channel     string   `json:"channel"`
	PublishedAt string   `json:"published_at"`
	Duration    string   `json:"duration"`
	Views       uint64   `json:"views"`
	Likes       uint64   `json:"likes"`
	Comments    uint64   `json:"comments"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Thumbnail   string   `json:"thumbnail"`
	IsShort     bool     `json:"is_short"`
}

// VideoDetail extends VideoSummary with status and topic information.
type VideoDetail struct {
	VideoSummary
	Privacy         string   `json:"privacy"`
	PublishAt       string   `json:"publish_at,omitempty"`
	License         string   `json:"license"`
	Embeddable      bool     `json:"embeddable"`
	TopicCategories []string `json:"topic_categories"`
}

// Channel is the flattened channel resource.
type Channel struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Handle            string `json:"handle"`
	Description       string `json:"description"`
	PublishedAt       string `json:"published_at"`
	Subscribers       uint64 `json:"subscribers"`
	TotalViews        uint64 `json:"total_views"`
	VideoCount        uint64 `json:"video_count"`
	Thumbnail         string `json:"thumbnail"`
	UploadsPlaylistID string `json:"uploads_playlist_id"`
}

// ChannelLookup selects a channel. Mine takes precedence over Handle, and
// Handle over ID.
type ChannelLookup struct {
	ID     string
	Handle string
	Mine   bool
}

// VideoListQuery selects the videos of a playlist, or of a channel's uploads.
type VideoListQuery struct {
	ChannelID  string
	PlaylistID string
	Mine       bool
	MaxResults int
}

// VideoList is a page of videos.
type VideoList struct {
	Videos []VideoSummary `json:"videos"`
	Total  int64          `json:"total"`
}

// SearchQuery holds search.list parameters.
type SearchQuery struct {
	Query           string
	Type            string
	ChannelID       string
	MaxResults      int
	Order           string
	PublishedAfter  string
	PublishedBefore string
	RegionCode      string
}

// SearchResult is one hit. Exactly one of the ID fields is set, matching the
// search type.
type SearchResult struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channel_title"`
	PublishedAt  string `json:"published_at"`
	Thumbnail    string `json:"thumbnail"`
	VideoID      string `json:"video_id,omitempty"`
	ChannelID    string `json:"channel_id,omitempty"`
	PlaylistID   string `json:"playlist_id,omitempty"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results      []SearchResult `json:"results"`
	TotalResults int64          `json:"total_results"`
	QuotaCost    int            `json:"quota_cost"`
}

// Trending is the most-popular chart for a region.
type Trending struct {
	Region     string         `json:"region"`
	CategoryID string         `json:"category_id,omitempty"`
	Videos     []VideoSummary `json:"videos"`
}

// Category is an assignable video category.
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Categories lists the categories of a region.
type Categories struct {
	Region     string     `json:"region"`
	Categories []Category `json:"categories"`
}

// Playlist is the flattened playlist resource.
type Playlist struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"published_at"`
	VideoCount  int64  `json:"video_count"`
	Thumbnail   string `json:"thumbnail"`
}

// PlaylistList is a page of playlists.
type PlaylistList struct {
	Playlists []Playlist `json:"playlists"`
	Total     int        `json:"total"`
}

// CreatedPlaylist is returned after creating a playlist.
type CreatedPlaylist struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Privacy string `json:"privacy"`
	URL     string `json:"url"`
}

// PlaylistItemAdded is returned after inserting a video into a playlist.
type PlaylistItemAdded struct {
	PlaylistItemID string `json:"playlist_item_id"`
	PlaylistID     string `json:"playlist_id"`
	VideoID        string `json:"video_id"`
	Position       int64  `json:"position"`
	Added          bool   `json:"added"`
}

// PlaylistItemRemoved is returned after deleting a playlist item.
type PlaylistItemRemoved struct {
	PlaylistItemID string `json:"playlist_item_id"`
	Removed        bool   `json:"removed"`
}

// Comment is a top-level comment with its thread metadata.
type Comment struct {
	CommentID   string `json:"comment_id"`
	ThreadID    string `json:"thread_id"`
	Author      string `json:"author"`
	Text        string `json:"text"`
	Likes       int64  `json:"likes"`
	PublishedAt string `json:"published_at"`
	ReplyCount  int64  `json:"reply_count"`
}

// CommentList holds the comment threads of a video.
type CommentList struct {
	VideoID  string    `json:"video_id"`
	Comments []Comment `json:"comments"`
	Total    int       `json:"total"`
}

// PostedComment is returned after starting a new comment thread.
type PostedComment struct {
	CommentID string `json:"comment_id"`
	ThreadID  string `json:"thread_id"`
	Text      string `json:"text"`
	VideoID   string `json:"video_id"`
	Posted    bool   `json:"posted"`
}

// PostedReply is returned after replying to a comment.
type PostedReply struct {
	ReplyID  string `json:"reply_id"`
	ParentID string `json:"parent_id"`
	Text     string `json:"text"`
	Posted   bool   `json:"posted"`
}

// UploadRequest describes a new video.
type UploadRequest struct {
	FilePath      string
	Title         string
	Description   string
	Tags          []string
	CategoryID    string
	PrivacyStatus string
	PublishAt     string
}

// UploadedVideo is returned after an upload.
type UploadedVideo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Privacy   string `json:"privacy"`
	PublishAt string `json:"publish_at,omitempty"`
	URL       string `json:"url"`
	QuotaCost int    `json:"quota_cost"`
}

// UpdateRequest changes only the non-nil fields.
type UpdateRequest struct {
	VideoID       string
	Title         *string
	Description   *string
	Tags          []string
	CategoryID    *string
	PrivacyStatus *string
}

// UpdatedVideo is returned after a metadata update.
type UpdatedVideo struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Privacy string `json:"privacy"`
	Updated bool   `json:"updated"`
}

// ThumbnailResult is returned after setting a custom thumbnail.
type ThumbnailResult struct {
	VideoID      string `json:"video_id"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Updated      bool   `json:"updated"`
}

// DeletedVideo is returned after deleting a video.
type DeletedVideo struct {
	VideoID string `json:"video_id"`
	Deleted bool   `json:"deleted"`
}

// CaptionTrack describes one caption track of a video.
type CaptionTrack struct {
	ID           string `json:"id"`
	Language     string `json:"language"`
	Name         string `json:"name"`
	TrackKind    string `json:"track_kind"`
	IsAutoSynced bool   `json:"is_auto_synced"`
	IsDraft      bool   `json:"is_draft"`
	LastUpdated  string `json:"last_updated"`
}

// CaptionTracks lists the caption tracks of a video.
type CaptionTracks struct {
	VideoID string         `json:"video_id"`
	Tracks  []CaptionTrack `json:"tracks"`
}

// Segment is one timed line of a transcript, in seconds.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript is the text of a caption track. Segments are only available
// from the timedtext source; the official API returns SRT in FullText.
type Transcript struct {
	VideoID     string    `json:"video_id"`
	Language    string    `json:"language"`
	TrackKind   string    `json:"track_kind,omitempty"`
	IsGenerated *bool     `json:"is_generated,omitempty"`
	Source      string    `json:"source"`
	FullText    string    `json:"full_text"`
	Segments    []Segment `json:"segments,omitempty"`
}

// Suggestions are autocomplete completions for a query.
type Suggestions struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}
