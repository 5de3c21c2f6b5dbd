// Package logging provides structured logging helpers for the YouTube MCP
// server.
//
// All logging goes through log/slog. The server writes to stderr because
// stdout carries the MCP stdio protocol; a stray line on stdout corrupts
// the session.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "youtube.search")
//	logger.Info("search finished",
//	    logging.Status(logging.StatusSuccess),
//	    logging.QuotaUnits(100))
//
// Never log credentials directly:
//
//	logger.Debug("token refreshed", slog.String("access_token", logging.SanitizeToken(tok)))
//
// # Security Considerations
//
//   - Tokens are reduced to a length indicator by SanitizeToken
//   - Client secrets and API keys are never passed to a logger
package logging
