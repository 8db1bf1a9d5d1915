package services

import (
	"fmt"
	"sort"

	"github.com/unify-search/unify-cli/internal/core/domain"
)

// suggestQueries derives deterministic follow-up queries from the
// request. Modifiers mirror the suggestion strip of the search surface.
func suggestQueries(req domain.SearchRequest) []string {
	modifiers := []string{"examples", "best practices", "troubleshooting"}

	suggestions := make([]string, 0, len(modifiers))
	for _, mod := range modifiers {
		suggestions = append(suggestions, req.Query+" "+mod)
	}
	return suggestions
}

// buildInsights summarises the ranked result set: totals, per-source
// distribution, and degraded sources.
func buildInsights(results []domain.Result, warnings []domain.SourceWarning) []string {
	if len(results) == 0 && len(warnings) == 0 {
		return nil
	}

	var insights []string

	counts := make(map[string]int)
	for _, res := range results {
		counts[res.Source]++
	}

	sources := make([]string, 0, len(counts))
	for source := range counts {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	insights = append(insights, fmt.Sprintf("%d results across %d sources", len(results), len(sources)))

	if len(sources) > 0 {
		top := sources[0]
		for _, source := range sources[1:] {
			if counts[source] > counts[top] {
				top = source
			}
		}
		insights = append(insights, fmt.Sprintf("%s contributed the most results (%d)", top, counts[top]))
	}

	if len(warnings) > 0 {
		insights = append(insights, fmt.Sprintf("%d sources did not respond", len(warnings)))
	}

	return insights
}

// aggregateSummary picks a response-level summary: the AI result's
// summary when one is present, otherwise empty.
func aggregateSummary(results []domain.Result) string {
	for _, res := range results {
		if res.SourceType == domain.SourceAI && res.Summary != "" {
			return res.Summary
		}
	}
	return ""
}
