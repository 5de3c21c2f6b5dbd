package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/buger/jsonparser"
)

const (
	// DefaultSuggestURL is the public autocomplete endpoint.
	DefaultSuggestURL = "https://suggestqueries-clients6.youtube.com/complete/search"
	// DefaultWatchURL is the base for watch pages.
	DefaultWatchURL = "https://www.youtube.com/watch"

	// SourceTimedText labels transcripts scraped from the public player.
	SourceTimedText = "timedtext"

	webTimeout   = 10 * time.Second
	webUserAgent = "Mozilla/5.0"
	maxPageBytes = 8 << 20
)

var (
	// ErrNoTranscript is returned when the player lists no caption tracks.
	ErrNoTranscript = errors.New("no transcript available for this video")

	playerResponseMarker = []byte("ytInitialPlayerResponse = ")
)

// Web fetches public, unauthenticated YouTube endpoints. None of its calls
// consume Data API quota.
type Web struct {
	client     *http.Client
	suggestURL string
	watchURL   string
}

// WebOption configures a Web client.
type WebOption func(*Web)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) WebOption {
	return func(w *Web) {
		w.client = c
	}
}

// WithSuggestURL points autocomplete requests at another endpoint.
func WithSuggestURL(u string) WebOption {
	return func(w *Web) {
		w.suggestURL = u
	}
}

// WithWatchURL points watch page requests at another endpoint.
func WithWatchURL(u string) WebOption {
	return func(w *Web) {
		w.watchURL = u
	}
}

// NewWeb creates a client for the public endpoints.
func NewWeb(opts ...WebOption) *Web {
	w := &Web{
		client:     http.DefaultClient,
		suggestURL: DefaultSuggestURL,
		watchURL:   DefaultWatchURL,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Web) get(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, webTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", webUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
}

// Suggestions returns autocomplete completions for a partial query.
func (w *Web) Suggestions(ctx context.Context, query, language string) (*Suggestions, error) {
	if language == "" {
		language = "en"
	}
	params := url.Values{}
	params.Set("client", "youtube")
	params.Set("ds", "yt")
	params.Set("q", query)
	params.Set("hl", language)

	body, err := w.get(ctx, w.suggestURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	items, err := parseSuggestions(body)
	if err != nil {
		return nil, err
	}
	return &Suggestions{Query: query, Suggestions: items}, nil
}

// parseSuggestions reads data[1][i][0] out of a JSONP callback.
func parseSuggestions(body []byte) ([]string, error) {
	start := bytes.IndexByte(body, '(')
	end := bytes.LastIndexByte(body, ')')
	if start < 0 || end <= start {
		return nil, errors.New("unexpected suggestion response")
	}
	payload := body[start+1 : end]

	out := []string{}
	var cbErr error
	_, err := jsonparser.ArrayEach(payload, func(value []byte, _ jsonparser.ValueType, _ int, err error) {
		if err != nil || cbErr != nil {
			return
		}
		s, err := jsonparser.GetString(value, "[0]")
		if err != nil {
			cbErr = err
			return
		}
		out = append(out, s)
	}, "[1]")
	if err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	if cbErr != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", cbErr)
	}
	return out, nil
}

// captionTrack is one entry of the player's captionTracks list.
type captionTrack struct {
	BaseURL      string
	LanguageCode string
	Kind         string
	Translatable bool
}

// ScrapedTranscript reads a public video's captions from the watch page.
// The requested language wins; otherwise the first track is machine
// translated when YouTube allows it, or returned as is.
func (w *Web) ScrapedTranscript(ctx context.Context, videoID, language string) (*Transcript, error) {
	page, err := w.get(ctx, w.watchURL+"?v="+url.QueryEscape(videoID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch watch page: %w", err)
	}
	player, err := extractPlayerResponse(page)
	if err != nil {
		return nil, err
	}
	tracks, err := parseCaptionTracks(player)
	if err != nil {
		return nil, err
	}

	track, lang, trackURL := selectTrack(tracks, language)
	body, err := w.get(ctx, trackURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch captions: %w", err)
	}
	segments, err := parseTimedText(body)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		texts = append(texts, s.Text)
	}
	generated := track.Kind == "asr"
	return &Transcript{
		VideoID:     videoID,
		Language:    lang,
		IsGenerated: &generated,
		Source:      SourceTimedText,
		FullText:    strings.Join(texts, " "),
		Segments:    segments,
	}, nil
}

// extractPlayerResponse returns the JSON object assigned to
// ytInitialPlayerResponse in the watch page.
func extractPlayerResponse(page []byte) ([]byte, error) {
	i := bytes.Index(page, playerResponseMarker)
	if i < 0 {
		return nil, errors.New("player response not found in watch page")
	}
	var raw json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(page[i+len(playerResponseMarker):]))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse player response: %w", err)
	}
	return raw, nil
}

func parseCaptionTracks(player []byte) ([]captionTrack, error) {
	var tracks []captionTrack
	_, err := jsonparser.ArrayEach(player, func(value []byte, _ jsonparser.ValueType, _ int, err error) {
		if err != nil {
			return
		}
		base, _ := jsonparser.GetString(value, "baseUrl")
		if base == "" {
			return
		}
		t := captionTrack{BaseURL: base}
		t.LanguageCode, _ = jsonparser.GetString(value, "languageCode")
		t.Kind, _ = jsonparser.GetString(value, "kind")
		t.Translatable, _ = jsonparser.GetBoolean(value, "isTranslatable")
		tracks = append(tracks, t)
	}, "captions", "playerCaptionsTracklistRenderer", "captionTracks")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) || len(tracks) == 0 {
		return nil, ErrNoTranscript
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse caption tracks: %w", err)
	}
	return tracks, nil
}

// selectTrack picks the track to download and the URL to fetch it from.
func selectTrack(tracks []captionTrack, language string) (captionTrack, string, string) {
	for _, t := range tracks {
		if t.LanguageCode == language {
			return t, t.LanguageCode, t.BaseURL
		}
	}
	first := tracks[0]
	if language != "" && first.Translatable {
		return first, language, first.BaseURL + "&tlang=" + url.QueryEscape(language)
	}
	return first, first.LanguageCode, first.BaseURL
}

// timedText covers both caption XML layouts: the legacy
// <transcript><text start dur> form in seconds and the format 3
// <timedtext><body><p t d> form in milliseconds.
type timedText struct {
	XMLName xml.Name
	Texts   []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Body  string `xml:",chardata"`
	} `xml:"text"`
	Paragraphs []struct {
		T     int64  `xml:"t,attr"`
		D     int64  `xml:"d,attr"`
		Body  string `xml:",chardata"`
		Spans []struct {
			Body string `xml:",chardata"`
		} `xml:"s"`
	} `xml:"body>p"`
}

func parseTimedText(body []byte) ([]Segment, error) {
	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse captions: %w", err)
	}

	segments := []Segment{}
	for _, t := range doc.Texts {
		text := cleanCaption(t.Body)
		if text == "" {
			continue
		}
		start, _ := strconv.ParseFloat(t.Start, 64)
		dur, _ := strconv.ParseFloat(t.Dur, 64)
		segments = append(segments, Segment{Text: text, Start: start, Duration: dur})
	}
	for _, p := range doc.Paragraphs {
		raw := p.Body
		for _, s := range p.Spans {
			raw += s.Body
		}
		text := cleanCaption(raw)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:     text,
			Start:    float64(p.T) / 1000,
			Duration: float64(p.D) / 1000,
		})
	}
	return segments, nil
}

// cleanCaption undoes the double escaping YouTube applies to caption text
// and collapses line breaks.
func cleanCaption(s string) string {
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
