package common

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/youtube-mcp/internal/analytics"
	"github.com/teemow/youtube-mcp/internal/auth"
	"github.com/teemow/youtube-mcp/internal/quota"
	"github.com/teemow/youtube-mcp/internal/youtube"
)

// JSONResult returns v as indented JSON text.
func JSONResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("Failed to encode result: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ErrorResult converts err into a tool error. Quota, credential, not-found
// and availability errors carry messages written for the user and are
// passed through. Anything else is reported as "Failed to <op>: <err>".
func ErrorResult(op string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(ErrorMessage(op, err))
}

// ErrorMessage is the text ErrorResult reports.
func ErrorMessage(op string, err error) string {
	var quotaErr *quota.QuotaExhaustedError
	if errors.As(err, &quotaErr) {
		return quotaErr.Error()
	}
	var authErr *auth.AuthError
	if errors.As(err, &authErr) {
		return authErr.Error()
	}
	var notFound *youtube.NotFoundError
	if errors.As(err, &notFound) {
		return notFound.Error()
	}
	for _, sentinel := range []error{
		analytics.ErrRevenueUnavailable,
		youtube.ErrNoCaptions,
		youtube.ErrNoTranscript,
		youtube.ErrNoChannelSelector,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}

	msg := err.Error()
	if strings.HasPrefix(msg, "failed to ") {
		return "F" + msg[1:]
	}
	return "Failed to " + op + ": " + msg
}
