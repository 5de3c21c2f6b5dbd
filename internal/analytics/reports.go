package analytics

import (
	"context"
	"math"
	"time"
)

const (
	engagementMetrics = "views,estimatedMinutesWatched,averageViewDuration,likes,comments,shares"
	maxVideoRows      = 200
	defaultVideoRows  = 20
	defaultCountries  = 25
	weekdayRangeDays  = 90
)

// Overview returns channel totals for the range.
func (c *Client) Overview(ctx context.Context, r DateRange) (*Result, error) {
	return c.Query(ctx, Query{
		Metrics: "views,estimatedMinutesWatched,averageViewDuration," +
			"subscribersGained,subscribersLost,likes,comments,shares",
		Range: r,
	})
}

// TopVideos ranks long-form videos by views.
func (c *Client) TopVideos(ctx context.Context, r DateRange, maxResults int) (*Result, error) {
	return c.topByContentType(ctx, r, maxResults, "video_on_demand")
}

// TopShorts ranks Shorts by views.
func (c *Client) TopShorts(ctx context.Context, r DateRange, maxResults int) (*Result, error) {
	return c.topByContentType(ctx, r, maxResults, "shorts")
}

func (c *Client) topByContentType(ctx context.Context, r DateRange, maxResults int, contentType string) (*Result, error) {
	return c.Query(ctx, Query{
		Metrics:    engagementMetrics,
		Dimensions: "video",
		Filters:    "creatorContentType==" + contentType,
		Sort:       "-views",
		MaxResults: capMax(maxResults, defaultVideoRows, maxVideoRows),
		Range:      r,
	})
}

// VideoDetail returns daily metrics for one video.
func (c *Client) VideoDetail(ctx context.Context, videoID string, r DateRange) (*Result, error) {
	return c.Query(ctx, Query{
		Metrics:    engagementMetrics + ",subscribersGained,subscribersLost",
		Dimensions: "day",
		Filters:    "video==" + videoID,
		Sort:       "day",
		Range:      r,
	})
}

// TrafficSources breaks views down by how viewers arrived, optionally for a
// single video.
func (c *Client) TrafficSources(ctx context.Context, r DateRange, videoID string) (*Result, error) {
	q := Query{
		Metrics:    "views,estimatedMinutesWatched",
		Dimensions: "insightTrafficSourceType",
		Sort:       "-views",
		Range:      r,
	}
	if videoID != "" {
		q.Filters = "video==" + videoID
	}
	return c.Query(ctx, q)
}

// Demographics returns the viewer share per age group and gender.
func (c *Client) Demographics(ctx context.Context, r DateRange) (*Result, error) {
	return c.Query(ctx, Query{
		Metrics:    "viewerPercentage",
		Dimensions: "ageGroup,gender",
		Sort:       "-viewerPercentage",
		Range:      r,
	})
}

// Geography returns views per country.
func (c *Client) Geography(ctx context.Context, r DateRange, maxResults int) (*Result, error) {
	return c.Query(ctx, Query{
		Metrics:    "views,estimatedMinutesWatched",
		Dimensions: "country",
		Sort:       "-views",
		MaxResults: capMax(maxResults, defaultCountries, 0),
		Range:      r,
	})
}

// Daily returns one row per day.
func (c *Client) Daily(ctx context.Context, r DateRange) (*Result, error) {
	return c.Query(ctx, Query{
		Metrics:    "views,estimatedMinutesWatched,averageViewDuration,subscribersGained,likes,shares",
		Dimensions: "day",
		Sort:       "day",
		Range:      r,
	})
}

// Retention returns the audience retention curve of a video.
func (c *Client) Retention(ctx context.Context, videoID string, r DateRange) (*Result, error) {
	return c.Query(ctx, Query{
		Metrics:    "audienceWatchRatio,relativeRetentionPerformance",
		Dimensions: "elapsedVideoTimeRatio",
		Filters:    "video==" + videoID,
		Sort:       "elapsedVideoTimeRatio",
		Range:      r,
	})
}

// Revenue returns estimated revenue totals. Channels without monetization
// get ErrRevenueUnavailable.
func (c *Client) Revenue(ctx context.Context, r DateRange) (*Result, error) {
	res, err := c.Query(ctx, Query{
		Metrics: "estimatedRevenue,estimatedAdRevenue,grossRevenue,estimatedRedPartnerRevenue",
		Range:   r,
	})
	if isForbidden(err) {
		return nil, ErrRevenueUnavailable
	}
	return res, err
}

// RevenueByVideo ranks videos by estimated revenue.
func (c *Client) RevenueByVideo(ctx context.Context, r DateRange, maxResults int) (*Result, error) {
	res, err := c.Query(ctx, Query{
		Metrics:    "estimatedRevenue,estimatedAdRevenue,grossRevenue",
		Dimensions: "video",
		Sort:       "-estimatedRevenue",
		MaxResults: capMax(maxResults, defaultVideoRows, maxVideoRows),
		Range:      r,
	})
	if isForbidden(err) {
		return nil, ErrRevenueUnavailable
	}
	return res, err
}

// WeekdayStats are per-day averages for one weekday.
type WeekdayStats struct {
	Day        string  `json:"day"`
	AvgViews   float64 `json:"avg_views"`
	AvgMinutes float64 `json:"avg_minutes"`
	AvgLikes   float64 `json:"avg_likes"`
	AvgShares  float64 `json:"avg_shares"`
	SampleDays int     `json:"sample_days"`
}

// WeekdayReport holds averages for Monday through Sunday.
type WeekdayReport struct {
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Results   []WeekdayStats `json:"results"`
}

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// DayOfWeek aggregates daily metrics by weekday. The default window is 90
// days so every weekday has a meaningful sample.
func (c *Client) DayOfWeek(ctx context.Context, r DateRange) (*WeekdayReport, error) {
	r = c.resolve(r, weekdayRangeDays)
	raw, err := c.Query(ctx, Query{
		Metrics:    "views,estimatedMinutesWatched,likes,shares",
		Dimensions: "day",
		Sort:       "day",
		Range:      r,
	})
	if err != nil {
		return nil, err
	}

	type totals struct {
		views, minutes, likes, shares float64
		days                          int
	}
	byDay := make(map[time.Weekday]*totals, len(weekdays))
	for _, d := range weekdays {
		byDay[d] = &totals{}
	}
	for _, row := range raw.Results {
		day, _ := row["day"].(string)
		t, err := time.Parse(dateLayout, day)
		if err != nil {
			continue
		}
		agg := byDay[t.Weekday()]
		agg.views += number(row["views"])
		agg.minutes += number(row["estimatedMinutesWatched"])
		agg.likes += number(row["likes"])
		agg.shares += number(row["shares"])
		agg.days++
	}

	out := &WeekdayReport{StartDate: raw.StartDate, EndDate: raw.EndDate}
	for _, d := range weekdays {
		agg := byDay[d]
		n := float64(max(agg.days, 1))
		out.Results = append(out.Results, WeekdayStats{
			Day:        d.String(),
			AvgViews:   round1(agg.views / n),
			AvgMinutes: round1(agg.minutes / n),
			AvgLikes:   round1(agg.likes / n),
			AvgShares:  round1(agg.shares / n),
			SampleDays: agg.days,
		})
	}
	return out, nil
}

// Breakdown compares content types over one range.
type Breakdown struct {
	StartDate string                    `json:"start_date"`
	EndDate   string                    `json:"end_date"`
	Breakdown map[string]map[string]any `json:"breakdown"`
}

var contentTypes = []struct {
	label  string
	filter string
}{
	{"shorts", "creatorContentType==shorts"},
	{"video_on_demand", "creatorContentType==video_on_demand"},
	{"live", "creatorContentType==live_stream"},
}

// ContentTypeBreakdown compares Shorts, long-form and live. A content type
// whose query fails is reported as not available instead of failing the
// whole breakdown.
func (c *Client) ContentTypeBreakdown(ctx context.Context, r DateRange) (*Breakdown, error) {
	r = c.resolve(r, DefaultRangeDays)
	out := &Breakdown{
		StartDate: r.Start,
		EndDate:   r.End,
		Breakdown: make(map[string]map[string]any, len(contentTypes)),
	}
	for _, ct := range contentTypes {
		res, err := c.Query(ctx, Query{Metrics: engagementMetrics, Filters: ct.filter, Range: r})
		switch {
		case err != nil:
			out.Breakdown[ct.label] = map[string]any{"error": "not available"}
		case len(res.Results) == 0:
			out.Breakdown[ct.label] = map[string]any{"views": 0, "estimatedMinutesWatched": 0}
		default:
			out.Breakdown[ct.label] = res.Results[0]
		}
	}
	return out, nil
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
