// Package common holds the pieces every YouTube tool group shares: the
// instrumented handler wrapper, argument accessors for mcp-go requests and
// the conversion of results and errors into tool results.
package common
