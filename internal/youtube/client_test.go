package youtube

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"
)

// recordedRequest captures what the fake API received.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   string
}

// fakeAPI serves canned JSON keyed by "METHOD resource", where resource is
// the path after youtube/v3/.
type fakeAPI struct {
	routes map[string]string

	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	resource := r.URL.Path
	if i := strings.Index(resource, "youtube/v3/"); i >= 0 {
		resource = resource[i+len("youtube/v3/"):]
	}

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   resource,
		Query:  r.URL.Query(),
		Body:   string(body),
	})
	f.mu.Unlock()

	resp, ok := f.routes[r.Method+" "+resource]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":404,"message":"no route"}}`)
		return
	}
	if r.Method == http.MethodDelete && resp == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, resp)
}

func (f *fakeAPI) calls() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

// quotaRecorder records consumed kinds and can refuse them.
type quotaRecorder struct {
	mu    sync.Mutex
	kinds []string
	err   error
}

func (q *quotaRecorder) Consume(kind string, _ int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.kinds = append(q.kinds, kind)
	return nil
}

func newTestClient(t *testing.T, routes map[string]string) (*Client, *fakeAPI, *quotaRecorder) {
	t.Helper()
	api := &fakeAPI{routes: routes}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	svc, err := youtube.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	q := &quotaRecorder{}
	return NewClient(svc, WithQuota(q)), api, q
}

const videosJSON = `{"items":[{
	"id":"vid1",
	"snippet":{"title":"First","channelTitle":"Chan","publishedAt":"2024-01-01T00:00:00Z",
		"description":"hello","tags":["a","b"],"thumbnails":{"high":{"url":"https://img/1"}}},
	"statistics":{"viewCount":"1500","likeCount":"20","commentCount":"3"},
	"contentDetails":{"duration":"PT45S"},
	"status":{"privacyStatus":"public","license":"youtube","embeddable":true},
	"topicDetails":{"topicCategories":["https://en.wikipedia.org/wiki/Music"]}
}]}`

func TestGetChannel(t *testing.T) {
	routes := map[string]string{
		"GET channels": `{"items":[{"id":"UC1",
			"snippet":{"title":"My Channel","customUrl":"@mine","description":"desc","publishedAt":"2020-01-01T00:00:00Z"},
			"statistics":{"subscriberCount":"1200","viewCount":"99000","videoCount":"42"},
			"contentDetails":{"relatedPlaylists":{"uploads":"UU1"}}}]}`,
	}

	tests := []struct {
		name      string
		lookup    ChannelLookup
		wantParam string
		wantValue string
	}{
		{name: "mine wins", lookup: ChannelLookup{Mine: true, Handle: "@x", ID: "UCx"}, wantParam: "mine", wantValue: "true"},
		{name: "handle before id", lookup: ChannelLookup{Handle: "@x", ID: "UCx"}, wantParam: "forHandle", wantValue: "@x"},
		{name: "id", lookup: ChannelLookup{ID: "UCx"}, wantParam: "id", wantValue: "UCx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, api, q := newTestClient(t, routes)

			ch, err := c.GetChannel(context.Background(), tt.lookup)
			require.NoError(t, err)
			assert.Equal(t, "UC1", ch.ID)
			assert.Equal(t, "@mine", ch.Handle)
			assert.Equal(t, uint64(1200), ch.Subscribers)
			assert.Equal(t, uint64(42), ch.VideoCount)
			assert.Equal(t, "UU1", ch.UploadsPlaylistID)
			assert.Equal(t, []string{"list"}, q.kinds)

			calls := api.calls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.wantValue, calls[0].Query[tt.wantParam][0])
		})
	}
}

func TestGetChannel_Errors(t *testing.T) {
	c, api, q := newTestClient(t, map[string]string{"GET channels": `{"items":[]}`})

	_, err := c.GetChannel(context.Background(), ChannelLookup{})
	assert.ErrorIs(t, err, ErrNoChannelSelector)
	assert.Empty(t, q.kinds)
	assert.Empty(t, api.calls())

	_, err = c.GetChannel(context.Background(), ChannelLookup{ID: "UCmissing"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Channel not found", err.Error())
}

func TestListVideos(t *testing.T) {
	c, api, q := newTestClient(t, map[string]string{
		"GET channels":      `{"items":[{"id":"UC1","contentDetails":{"relatedPlaylists":{"uploads":"UU1"}}}]}`,
		"GET playlistItems": `{"items":[{"contentDetails":{"videoId":"vid1"}}],"pageInfo":{"totalResults":7}}`,
		"GET videos":        videosJSON,
	})

	list, err := c.ListVideos(context.Background(), VideoListQuery{ChannelID: "UC1", MaxResults: 500})
	require.NoError(t, err)
	require.Len(t, list.Videos, 1)
	assert.Equal(t, int64(7), list.Total)

	v := list.Videos[0]
	assert.Equal(t, "First", v.Title)
	assert.Equal(t, "45s", v.Duration)
	assert.True(t, v.IsShort)
	assert.Equal(t, uint64(1500), v.Views)
	assert.Equal(t, []string{"a", "b"}, v.Tags)
	assert.Equal(t, "https://img/1", v.Thumbnail)

	assert.Equal(t, []string{"list", "list", "list"}, q.kinds)
	calls := api.calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "UU1", calls[1].Query.Get("playlistId"))
	assert.Equal(t, "50", calls[1].Query.Get("maxResults"))
	assert.Equal(t, "vid1", calls[2].Query.Get("id"))
}

func TestListVideos_PlaylistSkipsChannelLookup(t *testing.T) {
	c, _, q := newTestClient(t, map[string]string{
		"GET playlistItems": `{"items":[]}`,
	})

	list, err := c.ListVideos(context.Background(), VideoListQuery{PlaylistID: "PL1"})
	require.NoError(t, err)
	assert.Empty(t, list.Videos)
	assert.NotNil(t, list.Videos)
	assert.Equal(t, []string{"list"}, q.kinds)
}

func TestGetVideo(t *testing.T) {
	c, api, _ := newTestClient(t, map[string]string{"GET videos": videosJSON})

	v, err := c.GetVideo(context.Background(), "vid1")
	require.NoError(t, err)
	assert.Equal(t, "public", v.Privacy)
	assert.True(t, v.Embeddable)
	assert.Equal(t, []string{"https://en.wikipedia.org/wiki/Music"}, v.TopicCategories)
	assert.Equal(t, "snippet,statistics,contentDetails,status,topicDetails", strings.Join(api.calls()[0].Query["part"], ","))
}

func TestGetVideo_NotFound(t *testing.T) {
	c, _, _ := newTestClient(t, map[string]string{"GET videos": `{"items":[]}`})

	_, err := c.GetVideo(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Video not found: nope", err.Error())
}

func TestQuotaRejectionSkipsCall(t *testing.T) {
	c, api, q := newTestClient(t, map[string]string{"GET videos": videosJSON})
	q.err = errors.New("quota exhausted")

	_, err := c.GetVideo(context.Background(), "vid1")
	assert.EqualError(t, err, "quota exhausted")
	assert.Empty(t, api.calls())
}

func TestSearch(t *testing.T) {
	routes := map[string]string{
		"GET search": `{"items":[{
			"id":{"kind":"youtube#channel","channelId":"UC9","videoId":"ignored"},
			"snippet":{"title":"Hit","description":"` + strings.Repeat("x", 300) + `","channelTitle":"C"}
		}],"pageInfo":{"totalResults":1234}}`,
	}

	tests := []struct {
		name        string
		query       SearchQuery
		wantType    string
		wantMax     string
		wantVideo   string
		wantChannel string
	}{
		{name: "defaults to video", query: SearchQuery{Query: "go"}, wantType: "video", wantMax: "10", wantVideo: "ignored"},
		{name: "channel search", query: SearchQuery{Query: "go", Type: "channel", MaxResults: 80}, wantType: "channel", wantMax: "50", wantChannel: "UC9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, api, q := newTestClient(t, routes)

			resp, err := c.Search(context.Background(), tt.query)
			require.NoError(t, err)
			require.Len(t, resp.Results, 1)
			assert.Equal(t, tt.wantVideo, resp.Results[0].VideoID)
			assert.Equal(t, tt.wantChannel, resp.Results[0].ChannelID)
			assert.Len(t, []rune(resp.Results[0].Description), 200)
			assert.Equal(t, int64(1234), resp.TotalResults)
			assert.Equal(t, 100, resp.QuotaCost)
			assert.Equal(t, []string{"search"}, q.kinds)

			query := api.calls()[0].Query
			assert.Equal(t, tt.wantType, query.Get("type"))
			assert.Equal(t, tt.wantMax, query.Get("maxResults"))
			assert.Equal(t, "relevance", query.Get("order"))
		})
	}
}

func TestTrendingAndCategories(t *testing.T) {
	c, api, q := newTestClient(t, map[string]string{
		"GET videos": videosJSON,
		"GET videoCategories": `{"items":[
			{"id":"10","snippet":{"title":"Music","assignable":true}},
			{"id":"18","snippet":{"title":"Short Movies","assignable":false}}
		]}`,
	})

	tr, err := c.Trending(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "US", tr.Region)
	assert.Len(t, tr.Videos, 1)
	assert.Equal(t, "mostPopular", api.calls()[0].Query.Get("chart"))
	assert.Empty(t, api.calls()[0].Query.Get("videoCategoryId"))

	cats, err := c.Categories(context.Background(), "GB")
	require.NoError(t, err)
	assert.Equal(t, "GB", cats.Region)
	assert.Equal(t, []Category{{ID: "10", Title: "Music"}}, cats.Categories)
	assert.Equal(t, []string{"list", "list"}, q.kinds)
}

func TestPlaylists(t *testing.T) {
	c, api, q := newTestClient(t, map[string]string{
		"GET playlists":        `{"items":[{"id":"PL1","snippet":{"title":"Mix"},"contentDetails":{"itemCount":12}}]}`,
		"POST playlists":       `{"id":"PL2","snippet":{"title":"New"},"status":{"privacyStatus":"private"}}`,
		"POST playlistItems":   `{"id":"PLI1","snippet":{"position":0}}`,
		"DELETE playlistItems": "",
	})
	ctx := context.Background()

	_, err := c.ListPlaylists(ctx, "", false, 0)
	assert.EqualError(t, err, "provide channel_id or set mine=true")

	list, err := c.ListPlaylists(ctx, "", true, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, int64(12), list.Playlists[0].VideoCount)

	created, err := c.CreatePlaylist(ctx, "New", "", "")
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/playlist?list=PL2", created.URL)
	assert.Equal(t, "private", created.Privacy)

	zero := int64(0)
	added, err := c.AddToPlaylist(ctx, "PL2", "vid1", &zero)
	require.NoError(t, err)
	assert.True(t, added.Added)

	removed, err := c.RemoveFromPlaylist(ctx, "PLI1")
	require.NoError(t, err)
	assert.True(t, removed.Removed)

	calls := api.calls()
	require.Len(t, calls, 4)
	assert.Contains(t, calls[1].Body, `"privacyStatus":"private"`)
	assert.Contains(t, calls[2].Body, `"position":0`)
	assert.Equal(t, "PLI1", calls[3].Query.Get("id"))
	assert.Equal(t, []string{"list", "insert", "insert", "delete"}, q.kinds)
}

func TestAddToPlaylist_AppendsWithoutPosition(t *testing.T) {
	c, api, _ := newTestClient(t, map[string]string{
		"POST playlistItems": `{"id":"PLI1","snippet":{"position":5}}`,
	})

	_, err := c.AddToPlaylist(context.Background(), "PL1", "vid1", nil)
	require.NoError(t, err)
	assert.NotContains(t, api.calls()[0].Body, "position")
}

func TestComments(t *testing.T) {
	c, api, q := newTestClient(t, map[string]string{
		"GET commentThreads": `{"items":[{"id":"T1","snippet":{"totalReplyCount":2,
			"topLevelComment":{"id":"C1","snippet":{"authorDisplayName":"ann","textDisplay":"nice","likeCount":4}}}}]}`,
		"POST commentThreads": `{"id":"T2","snippet":{"topLevelComment":{"id":"C2","snippet":{"textDisplay":"hi"}}}}`,
		"POST comments":       `{"id":"R1","snippet":{"textDisplay":"thanks"}}`,
	})
	ctx := context.Background()

	list, err := c.ListComments(ctx, "vid1", 500, "")
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, Comment{CommentID: "C1", ThreadID: "T1", Author: "ann", Text: "nice", Likes: 4, ReplyCount: 2}, list.Comments[0])
	assert.Equal(t, "100", api.calls()[0].Query.Get("maxResults"))
	assert.Equal(t, "plainText", api.calls()[0].Query.Get("textFormat"))

	posted, err := c.PostComment(ctx, "vid1", "hi")
	require.NoError(t, err)
	assert.Equal(t, "C2", posted.CommentID)
	assert.Equal(t, "T2", posted.ThreadID)

	reply, err := c.ReplyToComment(ctx, "C1", "thanks")
	require.NoError(t, err)
	assert.Equal(t, "R1", reply.ReplyID)
	assert.Contains(t, api.calls()[2].Body, `"parentId":"C1"`)

	assert.Equal(t, []string{"list", "insert", "insert"}, q.kinds)
}

func TestUploadVideo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("not really a video"), 0o600))

	tests := []struct {
		name          string
		req           UploadRequest
		wantPublishAt bool
	}{
		{
			name:          "scheduled private upload",
			req:           UploadRequest{FilePath: path, Title: strings.Repeat("t", 150), PublishAt: "2030-01-01T00:00:00Z"},
			wantPublishAt: true,
		},
		{
			name: "publish_at ignored for public",
			req:  UploadRequest{FilePath: path, Title: "x", PrivacyStatus: "public", PublishAt: "2030-01-01T00:00:00Z"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, api, q := newTestClient(t, map[string]string{
				"POST videos": `{"id":"new1","snippet":{"title":"x"},"status":{"privacyStatus":"private"}}`,
			})

			up, err := c.UploadVideo(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, "https://www.youtube.com/watch?v=new1", up.URL)
			assert.Equal(t, 1600, up.QuotaCost)
			assert.Equal(t, []string{"video_insert"}, q.kinds)

			calls := api.calls()
			require.Len(t, calls, 1)
			body := calls[0].Body
			assert.Contains(t, body, `"selfDeclaredMadeForKids":false`)
			assert.Contains(t, body, `"categoryId":"22"`)
			assert.NotContains(t, body, strings.Repeat("t", 101))
			if tt.wantPublishAt {
				assert.Contains(t, body, `"publishAt":"2030-01-01T00:00:00Z"`)
			} else {
				assert.NotContains(t, body, "publishAt")
			}
		})
	}
}

func TestUploadVideo_MissingFile(t *testing.T) {
	c, api, q := newTestClient(t, nil)

	_, err := c.UploadVideo(context.Background(), UploadRequest{FilePath: "/does/not/exist.mp4"})
	require.Error(t, err)
	assert.Equal(t, "File not found: /does/not/exist.mp4", err.Error())
	assert.Empty(t, q.kinds)
	assert.Empty(t, api.calls())

	_, err = c.SetThumbnail(context.Background(), "vid1", "/does/not/exist.png")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, q.kinds)
}

func TestUpdateVideo(t *testing.T) {
	current := `{"items":[{"id":"vid1","snippet":{"title":"Old","description":"keep me","categoryId":"10"},
		"status":{"privacyStatus":"unlisted"}}]}`

	t.Run("title only sends snippet", func(t *testing.T) {
		c, api, q := newTestClient(t, map[string]string{
			"GET videos": current,
			"PUT videos": `{"id":"vid1","snippet":{"title":"New"}}`,
		})
		title := "New"
		res, err := c.UpdateVideo(context.Background(), UpdateRequest{VideoID: "vid1", Title: &title})
		require.NoError(t, err)
		assert.Equal(t, UpdatedVideo{ID: "vid1", Title: "New", Privacy: "unlisted", Updated: true}, *res)
		assert.Equal(t, []string{"list", "update"}, q.kinds)

		put := api.calls()[1]
		assert.Equal(t, "snippet", strings.Join(put.Query["part"], ","))
		assert.Contains(t, put.Body, `"description":"keep me"`)
		assert.NotContains(t, put.Body, "privacyStatus")
	})

	t.Run("privacy adds status part", func(t *testing.T) {
		c, api, _ := newTestClient(t, map[string]string{
			"GET videos": current,
			"PUT videos": `{"id":"vid1","snippet":{"title":"Old"},"status":{"privacyStatus":"public"}}`,
		})
		privacy := "public"
		res, err := c.UpdateVideo(context.Background(), UpdateRequest{VideoID: "vid1", PrivacyStatus: &privacy})
		require.NoError(t, err)
		assert.Equal(t, "public", res.Privacy)
		assert.Equal(t, "snippet,status", strings.Join(api.calls()[1].Query["part"], ","))
	})

	t.Run("missing video skips update", func(t *testing.T) {
		c, _, q := newTestClient(t, map[string]string{"GET videos": `{"items":[]}`})
		_, err := c.UpdateVideo(context.Background(), UpdateRequest{VideoID: "gone"})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, []string{"list"}, q.kinds)
	})
}

func TestSetThumbnailAndDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumb.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o600))

	c, _, q := newTestClient(t, map[string]string{
		"POST thumbnails/set": `{"items":[{"default":{"url":"https://img/default.jpg"}}]}`,
		"DELETE videos":       "",
	})

	thumb, err := c.SetThumbnail(context.Background(), "vid1", path)
	require.NoError(t, err)
	assert.Equal(t, "https://img/default.jpg", thumb.ThumbnailURL)

	del, err := c.DeleteVideo(context.Background(), "vid1")
	require.NoError(t, err)
	assert.Equal(t, DeletedVideo{VideoID: "vid1", Deleted: true}, *del)
	assert.Equal(t, []string{"thumbnail_set", "delete"}, q.kinds)
}

func TestCaptions(t *testing.T) {
	routes := map[string]string{
		"GET captions": `{"items":[
			{"id":"cap-en","snippet":{"language":"en","name":"English","trackKind":"standard"}},
			{"id":"cap-de","snippet":{"language":"de","trackKind":"asr","isAutoSynced":true}}
		]}`,
		"GET captions/cap-de": "1\n00:00:00,000 --> 00:00:01,000\nHallo\n",
		"GET captions/cap-en": "1\n00:00:00,000 --> 00:00:01,000\nHello\n",
	}

	c, api, q := newTestClient(t, routes)
	ctx := context.Background()

	tracks, err := c.ListCaptions(ctx, "vid1")
	require.NoError(t, err)
	require.Len(t, tracks.Tracks, 2)
	assert.True(t, tracks.Tracks[1].IsAutoSynced)

	tr, err := c.OfficialTranscript(ctx, "vid1", "de")
	require.NoError(t, err)
	assert.Equal(t, "de", tr.Language)
	assert.Equal(t, "asr", tr.TrackKind)
	assert.Equal(t, SourceOfficialAPI, tr.Source)
	assert.Contains(t, tr.FullText, "Hallo")
	assert.Equal(t, "srt", api.calls()[2].Query.Get("tfmt"))

	tr, err = c.OfficialTranscript(ctx, "vid1", "ja")
	require.NoError(t, err)
	assert.Equal(t, "en", tr.Language)

	assert.Equal(t, []string{"list", "list", "list", "list", "list"}, q.kinds)
}

func TestOfficialTranscript_NoTracks(t *testing.T) {
	c, _, _ := newTestClient(t, map[string]string{"GET captions": `{"items":[]}`})

	_, err := c.OfficialTranscript(context.Background(), "vid1", "en")
	assert.ErrorIs(t, err, ErrNoCaptions)
	assert.EqualError(t, err, "No captions found")
}
