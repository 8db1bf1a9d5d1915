package mcp

import (
	"github.com/unify-search/unify-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides the unified search dispatch.
	Search driving.SearchService

	// Catalog manages the code host tool permissions.
	Catalog driving.ToolCatalogService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Catalog is optional; catalog tools are skipped without it.
	return nil
}
