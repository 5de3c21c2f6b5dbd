package analytics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	youtubeanalytics "google.golang.org/api/youtubeanalytics/v2"
)

const (
	dateLayout = "2006-01-02"

	// DefaultRangeDays is the look-back window when no dates are given.
	DefaultRangeDays = 28

	mineIDs = "channel==MINE"
)

// ErrRevenueUnavailable is returned by the revenue reports when the API
// refuses access, which happens for channels outside the Partner Program.
var ErrRevenueUnavailable = errors.New("Revenue data not available. Channel may not be monetized (YouTube Partner Program required).")

// Client wraps the YouTube Analytics service.
type Client struct {
	svc *youtubeanalytics.Service
	now func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithClock overrides the time source used for default date ranges.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a client around an authorized service.
func NewClient(svc *youtubeanalytics.Service, opts ...Option) *Client {
	c := &Client{svc: svc, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DateRange bounds a report, inclusive, as YYYY-MM-DD. When either side is
// empty the default window is used for both.
type DateRange struct {
	Start string
	End   string
}

// Query is a raw reports.query request.
type Query struct {
	Metrics    string
	Dimensions string
	Filters    string
	Sort       string
	MaxResults int
	Range      DateRange
}

// Result is a report with rows keyed by column name.
type Result struct {
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Columns   []string         `json:"columns"`
	Results   []map[string]any `json:"results"`
	TotalRows int              `json:"total_rows"`
}

// resolve fills in the default window ending today.
func (c *Client) resolve(r DateRange, days int) DateRange {
	if r.Start != "" && r.End != "" {
		return r
	}
	end := c.now()
	return DateRange{
		Start: end.AddDate(0, 0, -days).Format(dateLayout),
		End:   end.Format(dateLayout),
	}
}

// Query runs an arbitrary report for the authenticated channel.
func (c *Client) Query(ctx context.Context, q Query) (*Result, error) {
	r := c.resolve(q.Range, DefaultRangeDays)

	call := c.svc.Reports.Query().
		Ids(mineIDs).
		StartDate(r.Start).
		EndDate(r.End).
		Metrics(q.Metrics)
	if q.Dimensions != "" {
		call = call.Dimensions(q.Dimensions)
	}
	if q.Filters != "" {
		call = call.Filters(q.Filters)
	}
	if q.Sort != "" {
		call = call.Sort(q.Sort)
	}
	if q.MaxResults > 0 {
		call = call.MaxResults(int64(q.MaxResults))
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics: %w", err)
	}

	columns := make([]string, 0, len(resp.ColumnHeaders))
	for _, h := range resp.ColumnHeaders {
		columns = append(columns, h.Name)
	}
	results := make([]map[string]any, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		m := make(map[string]any, len(columns))
		for i, name := range columns {
			if i < len(row) {
				m[name] = row[i]
			}
		}
		results = append(results, m)
	}

	return &Result{
		StartDate: r.Start,
		EndDate:   r.End,
		Columns:   columns,
		Results:   results,
		TotalRows: len(results),
	}, nil
}

func isForbidden(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusForbidden
}

func capMax(n, def, limit int) int {
	if n <= 0 {
		n = def
	}
	if limit > 0 && n > limit {
		n = limit
	}
	return n
}
