package driven

import (
	"context"

	"github.com/unify-search/unify-cli/internal/core/domain"
)

// SourceAdapter executes one backend query and returns raw items.
// Each source type (codehost, issuetracker, wiki, chat, web, ai)
// implements this interface.
type SourceAdapter interface {
	// Type returns the source type this adapter serves.
	Type() domain.SourceType

	// Source returns the display label (e.g. "GitHub", "Jira").
	Source() string

	// Configured reports whether the adapter has a usable connection.
	// An unconfigured adapter never attempts a network call.
	Configured() bool

	// Search executes one backend query. Returns domain.ErrNotConfigured
	// when no credentials are present and domain.ErrAuthInvalid when
	// credentials are present but malformed; both are recovered per
	// source by the dispatcher.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.RawItem, error)
}

// ToolGate is consulted by the code host adapter before invoking any
// remote operation. A disabled tool means the operation is skipped.
type ToolGate interface {
	// ToolEnabled reports whether the named remote operation may be
	// invoked. Unknown tools are treated as disabled.
	ToolEnabled(name string) bool
}
