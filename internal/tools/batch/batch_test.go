package batch

import (
	"context"
	"errors"
	"testing"
)

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		paramName string
		want      []string
		wantErr   bool
	}{
		{
			name:      "single string",
			input:     "test123",
			paramName: "testParam",
			want:      []string{"test123"},
			wantErr:   false,
		},
		{
			name:      "array of strings",
			input:     []interface{}{"id1", "id2", "id3"},
			paramName: "testParam",
			want:      []string{"id1", "id2", "id3"},
			wantErr:   false,
		},
		{
			name:      "nil input",
			input:     nil,
			paramName: "testParam",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "empty string",
			input:     "",
			paramName: "testParam",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "empty array",
			input:     []interface{}{},
			paramName: "testParam",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "array with non-string",
			input:     []interface{}{"id1", 123, "id3"},
			paramName: "testParam",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "array with empty string",
			input:     []interface{}{"id1", "", "id3"},
			paramName: "testParam",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "whitespace around JSON array",
			input:     ` ["id1"] `,
			paramName: "testParam",
			want:      []string{"id1"},
			wantErr:   false,
		},
		{
			name:      "string slice",
			input:     []string{"id1", "id2"},
			paramName: "testParam",
			want:      []string{"id1", "id2"},
			wantErr:   false,
		},
		{
			name:      "invalid type",
			input:     123,
			paramName: "testParam",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "JSON string array",
			input:     `["id1", "id2", "id3"]`,
			paramName: "testParam",
			want:      []string{"id1", "id2", "id3"},
			wantErr:   false,
		},
		{
			name:      "JSON string array with video IDs",
			input:     `["dQw4w9WgXcQ", "9bZkp7q5f0w", "kJQP7kiw5Fk"]`,
			paramName: "testParam",
			want:      []string{"dQw4w9WgXcQ", "9bZkp7q5f0w", "kJQP7kiw5Fk"},
			wantErr:   false,
		},
		{
			name:      "JSON string single element array",
			input:     `["dQw4w9WgXcQ"]`,
			paramName: "testParam",
			want:      []string{"dQw4w9WgXcQ"},
			wantErr:   false,
		},
		{
			name:      "JSON string empty array",
			input:     `[]`,
			paramName: "testParam",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "invalid JSON string",
			input:     `[invalid json`,
			paramName: "testParam",
			want:      []string{`[invalid json`},
			wantErr:   false,
		},
		{
			name:      "string starting with bracket (not JSON)",
			input:     `[live] highlights`,
			paramName: "testParam",
			want:      []string{`[live] highlights`},
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.input, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseStringOrArray() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !stringSliceEqual(got, tt.want) {
				t.Errorf("ParseStringOrArray() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	results := []Result{
		NewSuccessResult("vid1", map[string]string{"playlist_item_id": "PLI1"}),
		NewSuccessResult("vid2", map[string]string{"playlist_item_id": "PLI2"}),
		NewErrorResult("vid3", errors.New("Video not found: vid3")),
	}

	br := Summarize(results)

	if br.Total != 3 {
		t.Errorf("Total = %d, want 3", br.Total)
	}
	if br.Successful != 2 {
		t.Errorf("Successful = %d, want 2", br.Successful)
	}
	if br.Failed != 1 {
		t.Errorf("Failed = %d, want 1", br.Failed)
	}
	if len(br.Results) != 3 {
		t.Errorf("len(Results) = %d, want 3", len(br.Results))
	}
}

func TestProcessBatch(t *testing.T) {
	ids := []string{"id1", "id2", "id3"}

	// fails on id2 only
	fn := func(_ context.Context, id string) (interface{}, error) {
		if id == "id2" {
			return nil, errors.New("failed to process id2")
		}
		return "processed " + id, nil
	}

	results := ProcessBatch(context.Background(), ids, fn, nil)

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if results[0].Status != StatusSuccess || results[0].Result != "processed id1" {
		t.Errorf("results[0] = %+v, want success 'processed id1'", results[0])
	}
	if results[1].Status != StatusError || results[1].Error != "failed to process id2" {
		t.Errorf("results[1] = %+v, want error 'failed to process id2'", results[1])
	}
	if results[2].Status != StatusSuccess || results[2].Result != "processed id3" {
		t.Errorf("results[2] = %+v, want success 'processed id3'", results[2])
	}
}

func TestProcessBatch_StopsOnFatalError(t *testing.T) {
	errQuota := errors.New("quota exhausted")
	var calls []string
	fn := func(_ context.Context, id string) (interface{}, error) {
		calls = append(calls, id)
		if id == "id2" {
			return nil, errQuota
		}
		return id, nil
	}

	results := ProcessBatch(context.Background(), []string{"id1", "id2", "id3", "id4"}, fn,
		func(err error) bool { return errors.Is(err, errQuota) })

	if len(calls) != 2 {
		t.Errorf("fn called for %v, want only id1 and id2", calls)
	}
	if len(results) != 4 {
		t.Fatalf("len(results) = %d, want 4", len(results))
	}
	for _, r := range results[1:] {
		if r.Status != StatusError || r.Error != "quota exhausted" {
			t.Errorf("result %s = %+v, want quota error", r.ID, r)
		}
	}
}

func TestProcessBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	results := ProcessBatch(ctx, []string{"id1"}, func(context.Context, string) (interface{}, error) {
		called = true
		return nil, nil
	}, nil)

	if called {
		t.Error("fn should not run after cancellation")
	}
	if len(results) != 1 || results[0].Status != StatusError {
		t.Errorf("results = %+v, want one error", results)
	}
}

func TestNewSuccessResult(t *testing.T) {
	result := NewSuccessResult("test-id", "test message")

	if result.ID != "test-id" {
		t.Errorf("ID = %s, want test-id", result.ID)
	}
	if result.Status != StatusSuccess {
		t.Errorf("Status = %s, want success", result.Status)
	}
	if result.Result != "test message" {
		t.Errorf("Result = %v, want 'test message'", result.Result)
	}
	if result.Error != "" {
		t.Errorf("Error should be empty, got %s", result.Error)
	}
}

func TestNewErrorResult(t *testing.T) {
	result := NewErrorResult("test-id", errors.New("test error"))

	if result.ID != "test-id" {
		t.Errorf("ID = %s, want test-id", result.ID)
	}
	if result.Status != StatusError {
		t.Errorf("Status = %s, want error", result.Status)
	}
	if result.Error != "test error" {
		t.Errorf("Error = %s, want 'test error'", result.Error)
	}
	if result.Result != nil {
		t.Errorf("Result should be nil, got %v", result.Result)
	}
}

// Helper function to compare string slices
func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
