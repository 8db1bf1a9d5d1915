package services

import (
	"sort"
	"strings"

	"github.com/unify-search/unify-cli/internal/core/domain"
	"github.com/unify-search/unify-cli/internal/logger"
)

// Ranker deduplicates, scores, sorts and filters normalised results.
type Ranker struct{}

// NewRanker creates a Ranker.
func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank runs the merge pipeline over the concatenated adapter results:
// dedupe by (sourceType, url) keeping the higher score, resolve missing
// scores via term overlap, sort by the requested key, then filter.
// The returned total is the pre-filter count so callers can show "N of M".
func (r *Ranker) Rank(
	results []domain.Result, query string, sortBy domain.SortKey, filterBy []domain.SourceType,
) ([]domain.Result, int) {
	logger.Section("Ranking")
	logger.Debug("Input: %d results, sort=%s", len(results), sortBy)

	merged := dedupe(results)
	logger.Debug("After dedupe: %d results", len(merged))

	resolveScores(merged, query)
	sortResults(merged, sortBy)

	total := len(merged)

	if len(filterBy) > 0 {
		merged = filterBySourceTypes(merged, filterBy)
		logger.Debug("After filter: %d of %d results", len(merged), total)
	}

	return merged, total
}

// dedupe collapses duplicates sharing (sourceType, url), keeping the
// entry with the higher relevance score. Input order is preserved for
// the survivors.
func dedupe(results []domain.Result) []domain.Result {
	type key struct {
		sourceType domain.SourceType
		url        string
	}

	index := make(map[key]int, len(results))
	merged := make([]domain.Result, 0, len(results))

	for _, res := range results {
		k := key{res.SourceType, res.URL}
		if pos, ok := index[k]; ok {
			if res.RelevanceScore > merged[pos].RelevanceScore {
				merged[pos] = res
			}
			continue
		}
		index[k] = len(merged)
		merged = append(merged, res)
	}

	return merged
}

// resolveScores fills in a fallback score for results whose adapter did
// not supply one. The fallback is the case-insensitive distinct-term
// overlap between the query and title+content, normalised by the number
// of distinct query terms.
func resolveScores(results []domain.Result, query string) {
	queryTerms := distinctTerms(query)

	for i := range results {
		if results[i].ScoreKnown {
			continue
		}
		results[i].RelevanceScore = overlapScore(queryTerms, results[i].Title+" "+results[i].Content)
		results[i].ScoreKnown = true
	}
}

// overlapScore counts how many distinct query terms appear in the text's
// token set, divided by the maximum possible overlap.
func overlapScore(queryTerms []string, text string) float64 {
	if len(queryTerms) == 0 {
		return 0
	}

	textTokens := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		textTokens[tok] = true
	}

	matched := 0
	for _, term := range queryTerms {
		if textTokens[term] {
			matched++
		}
	}

	return float64(matched) / float64(len(queryTerms))
}

// distinctTerms tokenises a query into lowercase distinct terms,
// preserving first-seen order.
func distinctTerms(query string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if !seen[tok] {
			seen[tok] = true
			terms = append(terms, tok)
		}
	}
	return terms
}

// sortResults orders results by the selected key. The tie-break is always
// id ascending so identical requests produce identical orderings.
func sortResults(results []domain.Result, sortBy domain.SortKey) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		switch sortBy {
		case domain.SortDate:
			if !a.Date.Equal(b.Date) {
				return a.Date.After(b.Date)
			}
		case domain.SortSource:
			if a.Source != b.Source {
				return a.Source < b.Source
			}
		default: // relevance
			if a.RelevanceScore != b.RelevanceScore {
				return a.RelevanceScore > b.RelevanceScore
			}
		}
		return a.ID < b.ID
	})
}

// filterBySourceTypes restricts results to the requested source types
// without re-sorting.
func filterBySourceTypes(results []domain.Result, filterBy []domain.SourceType) []domain.Result {
	allowed := make(map[domain.SourceType]bool, len(filterBy))
	for _, s := range filterBy {
		allowed[s] = true
	}

	filtered := make([]domain.Result, 0, len(results))
	for _, res := range results {
		if allowed[res.SourceType] {
			filtered = append(filtered, res)
		}
	}
	return filtered
}
