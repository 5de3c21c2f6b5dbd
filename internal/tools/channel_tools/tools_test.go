package channel_tools

import (
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/youtube-mcp/internal/server"
	"github.com/teemow/youtube-mcp/internal/tools/tooltest"
)

const (
	channelsPath      = "/youtube/v3/channels"
	playlistItemsPath = "/youtube/v3/playlistItems"
	videosPath        = "/youtube/v3/videos"
)

const videoJSON = `{"items":[{
	"id":"vid1",
	"snippet":{"title":"Launch","channelTitle":"Chan","publishedAt":"2024-01-01T00:00:00Z","description":"d"},
	"statistics":{"viewCount":"1500","likeCount":"20","commentCount":"3"},
	"contentDetails":{"duration":"PT1M5S"},
	"status":{"privacyStatus":"public","license":"youtube","embeddable":true}
}]}`

func setup(t *testing.T, opts ...tooltest.Option) (*mcpserver.MCPServer, *tooltest.API, *server.ServerContext) {
	t.Helper()
	api := tooltest.NewAPI(t)
	sc := tooltest.NewServerContext(t, api, opts...)
	s := tooltest.NewMCPServer()
	require.NoError(t, RegisterChannelTools(s, sc))
	return s, api, sc
}

func TestRegisterChannelTools(t *testing.T) {
	s, _, _ := setup(t, tooltest.WithReadOnly())
	assert.ElementsMatch(t, []string{
		"youtube_get_channel",
		"youtube_list_videos",
		"youtube_get_video",
	}, tooltest.ToolNames(s))
}

func TestGetChannel(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]interface{}
		wantParam string
		wantValue string
	}{
		{name: "by handle", args: map[string]interface{}{"handle": "@chan"}, wantParam: "forHandle", wantValue: "@chan"},
		{name: "by id", args: map[string]interface{}{"channel_id": "UC1"}, wantParam: "id", wantValue: "UC1"},
		{name: "mine", args: map[string]interface{}{"mine": true}, wantParam: "mine", wantValue: "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, api, sc := setup(t)
			api.Handle("GET", channelsPath, `{"items":[{"id":"UC1",
				"snippet":{"title":"Chan","customUrl":"@chan"},
				"statistics":{"subscriberCount":"1200","viewCount":"5000","videoCount":"4"},
				"contentDetails":{"relatedPlaylists":{"uploads":"UU1"}}}]}`)

			out := tooltest.Decode(t, tooltest.Call(t, s, "youtube_get_channel", tt.args))

			assert.Equal(t, "UC1", out["id"])
			assert.Equal(t, "@chan", out["handle"])
			assert.Equal(t, "UU1", out["uploads_playlist_id"])
			assert.Equal(t, tt.wantValue, api.Last(t, "GET", channelsPath).Query.Get(tt.wantParam))
			assert.Equal(t, 1, sc.Quota().Used())
		})
	}
}

func TestGetChannel_Validation(t *testing.T) {
	s, api, sc := setup(t)

	result := tooltest.Call(t, s, "youtube_get_channel", map[string]interface{}{})

	assert.Equal(t, "Provide channel_id, handle, or set mine=true", tooltest.ErrorText(t, result))
	assert.Empty(t, api.Requests())
	assert.Zero(t, sc.Quota().Used())
}

func TestGetChannel_NotFound(t *testing.T) {
	s, api, _ := setup(t)
	api.Handle("GET", channelsPath, `{"items":[]}`)

	result := tooltest.Call(t, s, "youtube_get_channel", map[string]interface{}{"handle": "@nobody"})

	assert.Equal(t, "Channel not found", tooltest.ErrorText(t, result))
}

func TestListVideos(t *testing.T) {
	s, api, sc := setup(t)
	api.Handle("GET", channelsPath, `{"items":[{"id":"UC1","contentDetails":{"relatedPlaylists":{"uploads":"UU1"}}}]}`)
	api.Handle("GET", playlistItemsPath, `{"items":[{"contentDetails":{"videoId":"vid1"}}],"pageInfo":{"totalResults":12}}`)
	api.Handle("GET", videosPath, videoJSON)

	out := tooltest.Decode(t, tooltest.Call(t, s, "youtube_list_videos", map[string]interface{}{
		"channel_id":  "UC1",
		"max_results": 80.0,
	}))

	assert.Equal(t, 12.0, out["total"])
	videos, ok := out["videos"].([]interface{})
	require.True(t, ok)
	require.Len(t, videos, 1)
	video := videos[0].(map[string]interface{})
	assert.Equal(t, "1m 5s", video["duration"])
	assert.Equal(t, false, video["is_short"])

	assert.Equal(t, "UU1", api.Last(t, "GET", playlistItemsPath).Query.Get("playlistId"))
	assert.Equal(t, "50", api.Last(t, "GET", playlistItemsPath).Query.Get("maxResults"))
	assert.Equal(t, 3, sc.Quota().Used())
}

func TestListVideos_PlaylistSkipsChannelLookup(t *testing.T) {
	s, api, sc := setup(t)
	api.Handle("GET", playlistItemsPath, `{"items":[]}`)

	out := tooltest.Decode(t, tooltest.Call(t, s, "youtube_list_videos", map[string]interface{}{"playlist_id": "PL1"}))

	assert.Equal(t, 0.0, out["total"])
	assert.Zero(t, api.Count("GET", channelsPath))
	assert.Equal(t, "20", api.Last(t, "GET", playlistItemsPath).Query.Get("maxResults"))
	assert.Equal(t, 1, sc.Quota().Used())
}

func TestListVideos_Validation(t *testing.T) {
	s, _, _ := setup(t)

	result := tooltest.Call(t, s, "youtube_list_videos", nil)

	assert.Equal(t, "Provide channel_id, playlist_id, or set mine=true", tooltest.ErrorText(t, result))
}

func TestGetVideo(t *testing.T) {
	s, api, _ := setup(t)
	api.Handle("GET", videosPath, videoJSON)

	out := tooltest.Decode(t, tooltest.Call(t, s, "youtube_get_video", map[string]interface{}{"video_id": "vid1"}))

	assert.Equal(t, "vid1", out["id"])
	assert.Equal(t, "public", out["privacy"])
	assert.Equal(t, true, out["embeddable"])
	assert.Equal(t, "vid1", api.Last(t, "GET", videosPath).Query.Get("id"))
}

func TestGetVideo_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		routes  func(api *tooltest.API)
		exhaust bool
		wantErr string
	}{
		{
			name:    "missing id",
			args:    map[string]interface{}{},
			wantErr: "video_id is required",
		},
		{
			name:    "not found",
			args:    map[string]interface{}{"video_id": "gone"},
			routes:  func(api *tooltest.API) { api.Handle("GET", videosPath, `{"items":[]}`) },
			wantErr: "Video not found: gone",
		},
		{
			name: "api failure",
			args: map[string]interface{}{"video_id": "vid1"},
			routes: func(api *tooltest.API) {
				api.HandleStatus("GET", videosPath, 400, `{"error":{"code":400,"message":"Invalid id"}}`)
			},
			wantErr: "Failed to get video: googleapi: Error 400: Invalid id",
		},
		{
			name:    "quota exhausted",
			args:    map[string]interface{}{"video_id": "vid1"},
			exhaust: true,
			wantErr: "YouTube API quota exhausted: 1/1 units used today. Resets at midnight Pacific Time.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, api, sc := setup(t, tooltest.WithQuotaLimit(1))
			if tt.exhaust {
				require.NoError(t, sc.Quota().Consume("list", 1))
			}
			if tt.routes != nil {
				tt.routes(api)
			}

			result := tooltest.Call(t, s, "youtube_get_video", tt.args)

			assert.Contains(t, tooltest.ErrorText(t, result), tt.wantErr)
		})
	}
}
