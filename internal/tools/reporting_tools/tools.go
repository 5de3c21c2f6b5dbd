package reporting_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/youtube-mcp/internal/instrumentation"
	"github.com/teemow/youtube-mcp/internal/server"
	"github.com/teemow/youtube-mcp/internal/tools/common"
)

// RegisterReportingTools registers the reporting tools. Creating jobs is
// skipped when readOnly is set.
func RegisterReportingTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTypesTool := mcp.NewTool("youtube_reporting_list_types",
		mcp.WithDescription("List the bulk report types available for scheduling."),
	)
	s.AddTool(listTypesTool, common.InstrumentedToolHandlerWithService("youtube_reporting_list_types",
		instrumentation.ServiceReporting, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListTypes(ctx, sc)
		}))

	listJobsTool := mcp.NewTool("youtube_reporting_list_jobs",
		mcp.WithDescription("List the channel's scheduled reporting jobs."),
	)
	s.AddTool(listJobsTool, common.InstrumentedToolHandlerWithService("youtube_reporting_list_jobs",
		instrumentation.ServiceReporting, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListJobs(ctx, sc)
		}))

	listReportsTool := mcp.NewTool("youtube_reporting_list_reports",
		mcp.WithDescription("List the reports generated for a job. Reports are kept for 60 days."),
		mcp.WithString("job_id",
			mcp.Required(),
			mcp.Description("Job ID from youtube_reporting_create_job or youtube_reporting_list_jobs"),
		),
	)
	s.AddTool(listReportsTool, common.InstrumentedToolHandlerWithService("youtube_reporting_list_reports",
		instrumentation.ServiceReporting, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListReports(ctx, request, sc)
		}))

	downloadTool := mcp.NewTool("youtube_reporting_download",
		mcp.WithDescription("Download a report CSV. Large reports are truncated to 50000 characters; columns and row_count always describe the full report."),
		mcp.WithString("download_url",
			mcp.Required(),
			mcp.Description("Download URL from youtube_reporting_list_reports"),
		),
	)
	s.AddTool(downloadTool, common.InstrumentedToolHandlerWithService("youtube_reporting_download",
		instrumentation.ServiceReporting, instrumentation.OperationFetch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDownload(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createJobTool := mcp.NewTool("youtube_reporting_create_job",
		mcp.WithDescription("Schedule a reporting job. YouTube then generates a report every day; the first one can take 24 to 48 hours."),
		mcp.WithString("report_type_id",
			mcp.Required(),
			mcp.Description("Report type ID from youtube_reporting_list_types"),
		),
		mcp.WithString("name",
			mcp.Description("Human-readable job name"),
		),
	)
	s.AddTool(createJobTool, common.InstrumentedToolHandlerWithService("youtube_reporting_create_job",
		instrumentation.ServiceReporting, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateJob(ctx, request, sc)
		}))

	return nil
}

func handleListTypes(ctx context.Context, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, err := sc.ReportingClient()
	if err != nil {
		return common.ErrorResult("list report types", err), nil
	}
	types, err := client.ListReportTypes(ctx)
	if err != nil {
		return common.ErrorResult("list report types", err), nil
	}
	return common.JSONResult(types)
}

func handleListJobs(ctx context.Context, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, err := sc.ReportingClient()
	if err != nil {
		return common.ErrorResult("list reporting jobs", err), nil
	}
	jobs, err := client.ListJobs(ctx)
	if err != nil {
		return common.ErrorResult("list reporting jobs", err), nil
	}
	return common.JSONResult(jobs)
}

func handleListReports(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	jobID, err := common.RequiredString(request.GetArguments(), "job_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := sc.ReportingClient()
	if err != nil {
		return common.ErrorResult("list reports", err), nil
	}
	reports, err := client.ListReports(ctx, jobID)
	if err != nil {
		return common.ErrorResult("list reports", err), nil
	}
	return common.JSONResult(reports)
}

func handleDownload(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	url, err := common.RequiredString(request.GetArguments(), "download_url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := sc.ReportingClient()
	if err != nil {
		return common.ErrorResult("download report", err), nil
	}
	report, err := client.Download(ctx, url)
	if err != nil {
		return mcp.NewToolResultError("Failed to download report: " + err.Error()), nil
	}
	return common.JSONResult(report)
}

func handleCreateJob(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	reportTypeID, err := common.RequiredString(args, "report_type_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := sc.ReportingClient()
	if err != nil {
		return common.ErrorResult("create reporting job", err), nil
	}
	job, err := client.CreateJob(ctx, reportTypeID, common.StringArg(args, "name", ""))
	if err != nil {
		return common.ErrorResult("create reporting job", err), nil
	}

	sc.Logger().Info("reporting job created", "job_id", job.JobID, "report_type_id", job.ReportTypeID)
	return common.JSONResult(job)
}
