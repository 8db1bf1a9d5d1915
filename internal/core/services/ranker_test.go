package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unify-search/unify-cli/internal/core/domain"
)

func scored(id string, st domain.SourceType, url string, score float64) domain.Result {
	return domain.Result{
		ID: id, SourceType: st, URL: url,
		RelevanceScore: score, ScoreKnown: true,
	}
}

func TestRankDedupeKeepsHigherScore(t *testing.T) {
	ranker := NewRanker()

	results := []domain.Result{
		scored("a", domain.SourceCodeHost, "https://github.com/acme/auth", 0.5),
		scored("b", domain.SourceCodeHost, "https://github.com/acme/auth", 0.8),
		scored("c", domain.SourceWiki, "https://github.com/acme/auth", 0.3),
	}

	ranked, total := ranker.Rank(results, "auth", domain.SortRelevance, nil)

	// Same URL under a different source type is not a duplicate.
	require.Len(t, ranked, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, "b", ranked[0].ID)
	assert.InDelta(t, 0.8, ranked[0].RelevanceScore, 1e-9)
}

func TestRankFallbackScore(t *testing.T) {
	ranker := NewRanker()

	results := []domain.Result{
		{ID: "a", SourceType: domain.SourceWeb, URL: "https://a",
			Title: "Authentication Guide", Content: "token based flows"},
		{ID: "b", SourceType: domain.SourceWeb, URL: "https://b",
			Title: "Unrelated", Content: "cooking recipes"},
	}

	ranked, _ := ranker.Rank(results, "authentication token", domain.SortRelevance, nil)

	require.Len(t, ranked, 2)
	// "a" matches both distinct terms (case-insensitive), "b" matches none.
	assert.Equal(t, "a", ranked[0].ID)
	assert.InDelta(t, 1.0, ranked[0].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.0, ranked[1].RelevanceScore, 1e-9)
}

func TestRankAdapterScoreTakesPrecedence(t *testing.T) {
	ranker := NewRanker()

	// Adapter says 0.2 even though every query term matches; the
	// adapter-supplied score wins.
	results := []domain.Result{
		{ID: "a", SourceType: domain.SourceWeb, URL: "https://a",
			Title: "authentication", RelevanceScore: 0.2, ScoreKnown: true},
	}

	ranked, _ := ranker.Rank(results, "authentication", domain.SortRelevance, nil)
	assert.InDelta(t, 0.2, ranked[0].RelevanceScore, 1e-9)
}

func TestRankSortKeys(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	base := func() []domain.Result {
		a := scored("a", domain.SourceWiki, "https://a", 0.4)
		a.Source = "Confluence"
		a.Date = newer
		b := scored("b", domain.SourceCodeHost, "https://b", 0.9)
		b.Source = "GitHub"
		b.Date = older
		c := scored("c", domain.SourceChat, "https://c", 0.9)
		c.Source = "Slack"
		c.Date = older
		return []domain.Result{a, b, c}
	}

	ranker := NewRanker()

	t.Run("relevance descending with id tie-break", func(t *testing.T) {
		ranked, _ := ranker.Rank(base(), "q", domain.SortRelevance, nil)
		assert.Equal(t, []string{"b", "c", "a"}, ids(ranked))
	})

	t.Run("date descending", func(t *testing.T) {
		ranked, _ := ranker.Rank(base(), "q", domain.SortDate, nil)
		assert.Equal(t, []string{"a", "b", "c"}, ids(ranked))
	})

	t.Run("source ascending lexicographic", func(t *testing.T) {
		ranked, _ := ranker.Rank(base(), "q", domain.SortSource, nil)
		assert.Equal(t, []string{"a", "b", "c"}, ids(ranked))
	})
}

func TestRankFilterAfterSort(t *testing.T) {
	ranker := NewRanker()

	results := []domain.Result{
		scored("a", domain.SourceCodeHost, "https://a", 0.9),
		scored("b", domain.SourceWiki, "https://b", 0.7),
		scored("c", domain.SourceCodeHost, "https://c", 0.5),
		scored("d", domain.SourceChat, "https://d", 0.3),
	}

	ranked, total := ranker.Rank(results, "q", domain.SortRelevance,
		[]domain.SourceType{domain.SourceCodeHost, domain.SourceChat})

	// Total is the pre-filter count.
	assert.Equal(t, 4, total)
	assert.Equal(t, []string{"a", "c", "d"}, ids(ranked))
}

func TestRankIdempotent(t *testing.T) {
	ranker := NewRanker()

	build := func() []domain.Result {
		return []domain.Result{
			scored("c", domain.SourceWeb, "https://c", 0.5),
			scored("a", domain.SourceWeb, "https://a", 0.5),
			scored("b", domain.SourceWeb, "https://b", 0.5),
		}
	}

	first, _ := ranker.Rank(build(), "q", domain.SortRelevance, nil)
	second, _ := ranker.Rank(build(), "q", domain.SortRelevance, nil)

	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, []string{"a", "b", "c"}, ids(first), "equal scores break ties by id ascending")
}

// Concrete scenario: codehost returns one repository item (0.90) and one
// issue item (0.75); the response lists them in that order with total 2.
func TestRankAppsCodehostScenario(t *testing.T) {
	ranker := NewRanker()

	repo := scored("repo-1", domain.SourceCodeHost, "https://github.com/acme/auth", 0.90)
	issue := scored("issue-7", domain.SourceCodeHost, "https://github.com/acme/auth/issues/7", 0.75)

	ranked, total := ranker.Rank([]domain.Result{issue, repo}, "authentication", domain.SortRelevance, nil)

	require.Len(t, ranked, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, "repo-1", ranked[0].ID)
	assert.Equal(t, "issue-7", ranked[1].ID)
}

func ids(results []domain.Result) []string {
	out := make([]string, len(results))
	for i := range results {
		out[i] = results[i].ID
	}
	return out
}
