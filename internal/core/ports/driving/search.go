package driving

import (
	"context"

	"github.com/unify-search/unify-cli/internal/core/domain"
)

// SearchService dispatches one search request across the configured
// source adapters and returns the aggregated response.
type SearchService interface {
	// Search validates the request, fans out to the adapters selected by
	// the request mode, and returns the merged, ranked response. Only a
	// request-level validation error is fatal; per-source failures are
	// reported as response warnings. Returns domain.ErrSuperseded when a
	// newer request was dispatched before this one completed.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error)

	// SetStarred stars or unstars a result id in the external store.
	SetStarred(ctx context.Context, resultID string, starred bool) error
}

// ToolCatalogService maintains the enabled/disabled state of the remote
// operations exposed by the code host adapter.
type ToolCatalogService interface {
	// Tools returns every tool in the catalog in a stable order.
	Tools() []domain.Tool

	// ToolEnabled reports whether the named tool may be invoked.
	ToolEnabled(name string) bool

	// Toggle flips one tool's enabled state.
	Toggle(name string) error

	// ToggleCategory sets every tool in the category to the opposite of
	// "all tools in the category are currently enabled".
	ToggleCategory(category domain.ToolCategory)

	// ToggleAll applies the ToggleCategory rule across the whole
	// catalog.
	ToggleAll()

	// Save persists the full tool list as one atomic write.
	Save(ctx context.Context) error
}
