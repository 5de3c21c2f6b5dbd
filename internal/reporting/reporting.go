package reporting

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	youtubereporting "google.golang.org/api/youtubereporting/v1"

	"github.com/teemow/youtube-mcp/internal/format"
	"github.com/teemow/youtube-mcp/internal/instrumentation"
)

const (
	// MaxContentChars caps the CSV text returned by Download.
	MaxContentChars = 50000

	downloadTimeout = 60 * time.Second
	maxDownloadSize = 256 << 20
)

// Client wraps the Reporting service together with the authorized HTTP
// client used for report downloads.
type Client struct {
	svc  *youtubereporting.Service
	http *http.Client
}

// NewClient creates a reporting client. httpClient must attach OAuth
// credentials; download URLs are fetched with it directly.
func NewClient(svc *youtubereporting.Service, httpClient *http.Client) *Client {
	return &Client{svc: svc, http: httpClient}
}

// ReportType is a schedulable report.
type ReportType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ReportTypes lists every available report type.
type ReportTypes struct {
	ReportTypes []ReportType `json:"report_types"`
	Total       int          `json:"total"`
}

// Job is a scheduled reporting job.
type Job struct {
	JobID        string `json:"job_id"`
	ReportTypeID string `json:"report_type_id"`
	Name         string `json:"name"`
	CreateTime   string `json:"create_time"`
}

// Jobs lists the channel's reporting jobs.
type Jobs struct {
	Jobs  []Job `json:"jobs"`
	Total int   `json:"total"`
}

// Report is one generated daily report.
type Report struct {
	ReportID    string `json:"report_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	CreateTime  string `json:"create_time"`
	DownloadURL string `json:"download_url"`
}

// Reports lists the generated reports of a job.
type Reports struct {
	JobID   string   `json:"job_id"`
	Reports []Report `json:"reports"`
	Total   int      `json:"total"`
}

// Download is the CSV body of a report.
type Download struct {
	Columns   string `json:"columns"`
	RowCount  int    `json:"row_count"`
	Truncated bool   `json:"truncated"`
	Content   string `json:"content"`
}

// ListReportTypes returns all report types, following pagination.
func (c *Client) ListReportTypes(ctx context.Context) (*ReportTypes, error) {
	out := &ReportTypes{ReportTypes: []ReportType{}}
	err := c.svc.ReportTypes.List().Pages(ctx, func(page *youtubereporting.ListReportTypesResponse) error {
		for _, rt := range page.ReportTypes {
			out.ReportTypes = append(out.ReportTypes, ReportType{ID: rt.Id, Name: rt.Name})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list report types: %w", err)
	}
	out.Total = len(out.ReportTypes)
	return out, nil
}

// CreateJob schedules daily generation of a report type.
func (c *Client) CreateJob(ctx context.Context, reportTypeID, name string) (*Job, error) {
	job, err := c.svc.Jobs.Create(&youtubereporting.Job{
		ReportTypeId: reportTypeID,
		Name:         name,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create reporting job: %w", err)
	}
	return toJob(job), nil
}

// ListJobs returns all reporting jobs of the channel.
func (c *Client) ListJobs(ctx context.Context) (*Jobs, error) {
	out := &Jobs{Jobs: []Job{}}
	err := c.svc.Jobs.List().Pages(ctx, func(page *youtubereporting.ListJobsResponse) error {
		for _, j := range page.Jobs {
			out.Jobs = append(out.Jobs, *toJob(j))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reporting jobs: %w", err)
	}
	out.Total = len(out.Jobs)
	return out, nil
}

func toJob(j *youtubereporting.Job) *Job {
	return &Job{
		JobID:        j.Id,
		ReportTypeID: j.ReportTypeId,
		Name:         j.Name,
		CreateTime:   j.CreateTime,
	}
}

// ListReports returns the reports generated so far for a job.
func (c *Client) ListReports(ctx context.Context, jobID string) (*Reports, error) {
	out := &Reports{JobID: jobID, Reports: []Report{}}
	err := c.svc.Jobs.Reports.List(jobID).Pages(ctx, func(page *youtubereporting.ListReportsResponse) error {
		for _, r := range page.Reports {
			out.Reports = append(out.Reports, Report{
				ReportID:    r.Id,
				StartTime:   r.StartTime,
				EndTime:     r.EndTime,
				CreateTime:  r.CreateTime,
				DownloadURL: r.DownloadUrl,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	out.Total = len(out.Reports)
	return out, nil
}

// Download fetches a report CSV. The header line and row count describe the
// whole report even when the returned content is truncated.
func (c *Client) Download(ctx context.Context, downloadURL string) (*Download, error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceReporting, instrumentation.OperationFetch)
	defer span.End()

	d, err := c.download(ctx, downloadURL)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}
	instrumentation.AddSpanEvent(span, "report.summarized",
		attribute.Int("rows", d.RowCount),
		attribute.Bool("truncated", d.Truncated))
	instrumentation.SetSpanSuccess(span)
	return d, nil
}

func (c *Client) download(ctx context.Context, downloadURL string) (*Download, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return nil, err
	}
	return summarize(string(body)), nil
}

func summarize(content string) *Download {
	d := &Download{
		Truncated: utf8.RuneCountInString(content) > MaxContentChars,
		Content:   format.Truncate(content, MaxContentChars),
	}
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return d
	}
	lines := strings.Split(trimmed, "\n")
	d.Columns = strings.TrimRight(lines[0], "\r")
	d.RowCount = len(lines) - 1
	return d
}
