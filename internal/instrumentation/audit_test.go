package instrumentation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

const (
	testToolSearch = "youtube_search"
	testToolUpload = "youtube_upload_video"
	testVideoID    = "dQw4w9WgXcQ"
)

func attrsToMap(attrs []slog.Attr) map[string]any {
	m := make(map[string]any, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value.Any()
	}
	return m
}

func TestToolInvocation_NewAndComplete(t *testing.T) {
	ti := NewToolInvocation(testToolSearch)

	if ti.Tool != testToolSearch {
		t.Errorf("Tool = %q, want %q", ti.Tool, testToolSearch)
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}

	ti.CompleteSuccess()

	if !ti.Success {
		t.Error("Success should be true")
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}
	if ti.Error != "" {
		t.Errorf("Error should be empty, got %q", ti.Error)
	}
	if ti.Status() != StatusSuccess {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusSuccess)
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation(testToolUpload)
	ti.CompleteWithError(errors.New("File not found: /tmp/x.mp4"))

	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Error != "File not found: /tmp/x.mp4" {
		t.Errorf("Error = %q", ti.Error)
	}
	if ti.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusError)
	}
}

func TestToolInvocation_LogAttrs(t *testing.T) {
	ti := NewToolInvocation(testToolUpload).
		WithService(ServiceYouTube, OperationUpload).
		WithVideo(testVideoID).
		WithQuota(1600).
		CompleteSuccess()
	ti.TraceID = "abc123"

	attrs := attrsToMap(ti.LogAttrs())

	want := map[string]any{
		"tool":        testToolUpload,
		"service":     ServiceYouTube,
		"operation":   OperationUpload,
		"video_id":    testVideoID,
		"quota_units": int64(1600),
		"trace_id":    "abc123",
		"success":     true,
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attr %s = %v, want %v", k, attrs[k], v)
		}
	}
	if _, ok := attrs["error"]; ok {
		t.Error("error attribute should be absent on success")
	}
}

func TestToolInvocation_LogAttrs_MinimalFields(t *testing.T) {
	ti := NewToolInvocation(testToolSearch).CompleteSuccess()

	attrs := attrsToMap(ti.LogAttrs())
	for _, absent := range []string{"service", "operation", "video_id", "quota_units", "trace_id", "span_id", "error"} {
		if _, ok := attrs[absent]; ok {
			t.Errorf("attribute %q should be omitted when empty", absent)
		}
	}
	if len(attrs) != 3 {
		t.Errorf("expected tool, duration and success only, got %v", attrs)
	}
}

func TestToolInvocation_WithSpanContext_NoSpan(t *testing.T) {
	ti := NewToolInvocation("test").WithSpanContext(context.Background())

	if ti.TraceID != "" {
		t.Errorf("TraceID = %q, want empty string", ti.TraceID)
	}
	if ti.SpanID != "" {
		t.Errorf("SpanID = %q, want empty string", ti.SpanID)
	}
}

func TestToolInvocation_WithSpanContext(t *testing.T) {
	recordSpans(t)
	ctx, span := StartToolSpan(context.Background(), testToolSearch)
	defer span.End()

	ti := NewToolInvocation(testToolSearch).WithSpanContext(ctx)
	if ti.TraceID == "" || ti.SpanID == "" {
		t.Errorf("expected trace context, got trace=%q span=%q", ti.TraceID, ti.SpanID)
	}
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	al.LogToolInvocation(NewToolInvocation(testToolSearch).CompleteSuccess())
	al.LogToolInvocation(NewToolInvocation(testToolUpload).CompleteWithError(errors.New("quota exhausted")))

	out := buf.String()
	if !strings.Contains(out, "level=INFO msg=tool_executed tool="+testToolSearch) {
		t.Errorf("missing success record in %q", out)
	}
	if !strings.Contains(out, "level=WARN msg=tool_failed tool="+testToolUpload) {
		t.Errorf("missing failure record in %q", out)
	}
	if !strings.Contains(out, `error="quota exhausted"`) {
		t.Errorf("missing error attribute in %q", out)
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLoggerWithConfig(slog.New(slog.NewTextHandler(&buf, nil)), AuditLoggingConfig{Enabled: false})

	al.LogToolInvocation(NewToolInvocation(testToolSearch).CompleteSuccess())
	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}

	al.SetEnabled(true)
	al.LogToolInvocation(NewToolInvocation(testToolSearch).CompleteSuccess())
	if buf.Len() == 0 {
		t.Error("expected output after enabling")
	}

	var nilLogger *AuditLogger
	nilLogger.LogToolInvocation(NewToolInvocation(testToolSearch).CompleteSuccess())
}

func TestAuditLogger_NilSlogLogger(t *testing.T) {
	al := NewAuditLogger(nil)
	if al.logger == nil {
		t.Error("logger should not be nil when created with nil")
	}
}
