package domain

import (
	"fmt"
	"strings"
)

// Mode selects which adapters a search fans out to.
type Mode string

// Supported search modes.
const (
	// ModeUnified invokes every enabled adapter concurrently.
	ModeUnified Mode = "unified"

	// ModeWeb invokes only the web search adapter.
	ModeWeb Mode = "web"

	// ModeAI invokes only the AI adapter for the selected model.
	ModeAI Mode = "ai"

	// ModeApps invokes only the non-AI, non-web adapters among the
	// enabled sources.
	ModeApps Mode = "apps"
)

// IsValid reports whether the mode is one of the supported values.
func (m Mode) IsValid() bool {
	switch m {
	case ModeUnified, ModeWeb, ModeAI, ModeApps:
		return true
	}
	return false
}

// SortKey selects the result ordering.
type SortKey string

// Supported sort keys. Ties are always broken by result ID ascending so
// identical requests yield identically ordered responses.
const (
	SortRelevance SortKey = "relevance"
	SortDate      SortKey = "date"
	SortSource    SortKey = "source"
)

// SearchRequest describes one user-submitted search. Requests are
// stateless; each submission creates a fresh request.
type SearchRequest struct {
	// Query is the search text. Required non-empty.
	Query string `json:"query"`

	// Mode selects the adapter fan-out strategy.
	Mode Mode `json:"mode"`

	// SelectedModel is the AI model identifier for AI-backed modes.
	SelectedModel string `json:"selected_model,omitempty"`

	// Temperature is passed through to the AI adapter.
	Temperature float64 `json:"temperature,omitempty"`

	// EnabledSources restricts which configured sources participate.
	// Empty means all configured sources.
	EnabledSources []SourceType `json:"enabled_sources,omitempty"`

	// SortBy selects the ordering of results. Defaults to relevance.
	SortBy SortKey `json:"sort_by,omitempty"`

	// FilterBy restricts the response to a sourceType subset. Applied
	// after sorting, without re-sorting.
	FilterBy []SourceType `json:"filter_by,omitempty"`
}

// Validate checks the request before any adapter is invoked.
// A validation failure is the only fatal error for a search call.
func (r SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	if !r.Mode.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, r.Mode)
	}
	for _, s := range r.EnabledSources {
		if !s.IsValid() {
			return fmt.Errorf("%w: unknown source type %q", ErrInvalidInput, s)
		}
	}
	return nil
}

// SourceEnabled reports whether the given source participates in this
// request. An empty EnabledSources set means every source is enabled.
func (r SearchRequest) SourceEnabled(s SourceType) bool {
	if len(r.EnabledSources) == 0 {
		return true
	}
	for _, enabled := range r.EnabledSources {
		if enabled == s {
			return true
		}
	}
	return false
}

// SourceWarning annotates a per-source, non-fatal failure in a response.
type SourceWarning struct {
	// SourceType identifies the failing adapter kind.
	SourceType SourceType `json:"source_type"`

	// Source is the adapter display label.
	Source string `json:"source"`

	// Message describes what went wrong (timeout, not configured, ...).
	Message string `json:"message"`
}

// SearchResponse is the aggregate answer to one SearchRequest. It is
// discarded once a newer request supersedes it.
type SearchResponse struct {
	// Results is the fully sorted and filtered result list.
	Results []Result `json:"results"`

	// TotalResults is the pre-filter count, so callers can show "N of M".
	TotalResults int `json:"total_results"`

	// ProcessingTimeMS is wall-clock elapsed from dispatch start to the
	// last adapter's completion, in milliseconds.
	ProcessingTimeMS int64 `json:"processing_time_ms"`

	// SuggestedQueries offers follow-up queries derived from the request.
	SuggestedQueries []string `json:"suggested_queries,omitempty"`

	// Insights summarises the result set (counts, top sources).
	Insights []string `json:"insights,omitempty"`

	// Summary is an optional aggregate summary.
	Summary string `json:"summary,omitempty"`

	// Warnings lists per-source non-fatal failures.
	Warnings []SourceWarning `json:"warnings,omitempty"`
}
