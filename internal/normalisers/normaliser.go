// Package normalisers converts adapter raw items into the canonical
// result schema. Required fields missing from the source are synthesised
// with deterministic fallbacks.
package normalisers

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/unify-search/unify-cli/internal/core/domain"
)

// Normaliser maps raw items onto canonical results.
type Normaliser struct {
	// now supplies the fallback date for items without a timestamp.
	now func() time.Time
}

// Option configures a Normaliser.
type Option func(*Normaliser)

// WithClock overrides the time source. Useful for testing.
func WithClock(now func() time.Time) Option {
	return func(n *Normaliser) {
		n.now = now
	}
}

// New creates a Normaliser.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalise converts one raw item into a canonical result.
// Fallbacks: missing ID becomes a hash of (sourceType, url); missing date
// becomes the time of normalisation; missing author becomes "unknown".
// Source-specific metadata is passed through losslessly.
func (n *Normaliser) Normalise(item domain.RawItem, sourceType domain.SourceType, source string) domain.Result {
	id := item.ID
	if id == "" {
		id = FallbackID(sourceType, item.URL)
	}

	date := item.Date
	if date.IsZero() {
		date = n.now()
	}

	author := item.Author
	if author == "" {
		author = "unknown"
	}

	score := item.Score
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return domain.Result{
		ID:             id,
		SourceType:     sourceType,
		Source:         source,
		Title:          strings.TrimSpace(item.Title),
		URL:            item.URL,
		Content:        item.Content,
		Author:         author,
		Date:           date,
		RelevanceScore: score,
		ScoreKnown:     item.Scored,
		Tags:           item.Tags,
		KeyPoints:      item.KeyPoints,
		Summary:        item.Summary,
		Metadata:       item.Metadata,
	}
}

// NormaliseAll converts a batch of raw items from one adapter.
func (n *Normaliser) NormaliseAll(items []domain.RawItem, sourceType domain.SourceType, source string) []domain.Result {
	results := make([]domain.Result, len(items))
	for i, item := range items {
		results[i] = n.Normalise(item, sourceType, source)
	}
	return results
}

// FallbackID derives a deterministic identifier from the source type and
// URL. The same (sourceType, url) pair always hashes to the same id.
func FallbackID(sourceType domain.SourceType, url string) string {
	h := fnv.New64a()
	h.Write([]byte(sourceType))
	h.Write([]byte{0})
	h.Write([]byte(url))
	return fmt.Sprintf("%s-%016x", sourceType, h.Sum64())
}
