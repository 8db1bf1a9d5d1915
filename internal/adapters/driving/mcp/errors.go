// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Unify. It lets AI assistants run unified searches and manage the
// code host tool catalog.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
