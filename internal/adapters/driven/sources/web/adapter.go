// Package web provides a simulated web search adapter. Results are
// synthesised deterministically from the query so the same query always
// yields the same items, which keeps the aggregate response reproducible
// without an upstream search API.
package web

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"
	"time"

	"github.com/unify-search/unify-cli/internal/core/domain"
	"github.com/unify-search/unify-cli/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// resultTemplate describes one synthesised hit. Entries mirror the kind
// of pages a web search returns for a developer query.
type resultTemplate struct {
	host    string
	site    string
	title   string
	content string
	score   float64
	tags    []string
}

var templates = []resultTemplate{
	{
		host:    "developer.mozilla.org",
		site:    "MDN Web Docs",
		title:   "%s - Web technology references",
		content: "Comprehensive documentation and guides covering %s, with examples and browser compatibility tables.",
		score:   0.92,
		tags:    []string{"documentation", "reference"},
	},
	{
		host:    "stackoverflow.com",
		site:    "Stack Overflow",
		title:   "How to implement %s correctly?",
		content: "Accepted answer explaining common pitfalls around %s and the idiomatic way to approach it.",
		score:   0.87,
		tags:    []string{"q&a"},
	},
	{
		host:    "github.com",
		site:    "GitHub",
		title:   "awesome-%s: curated resources",
		content: "A community-curated list of libraries, tools and articles about %s.",
		score:   0.78,
		tags:    []string{"open source"},
	},
	{
		host:    "dev.to",
		site:    "DEV Community",
		title:   "A practical introduction to %s",
		content: "Hands-on walkthrough of %s with working code samples and deployment notes.",
		score:   0.71,
		tags:    []string{"tutorial"},
	},
	{
		host:    "news.ycombinator.com",
		site:    "Hacker News",
		title:   "Discussion: %s in production",
		content: "Thread discussing real-world experience with %s, trade-offs and war stories.",
		score:   0.63,
		tags:    []string{"discussion"},
	},
}

// Adapter simulates a web search backend.
type Adapter struct {
	now func() time.Time
}

// Option configures the Adapter.
type Option func(*Adapter)

// WithClock overrides the time source. Useful for testing.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		a.now = now
	}
}

// New creates a web search adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Type returns the source type.
func (a *Adapter) Type() domain.SourceType {
	return domain.SourceWeb
}

// Source returns the display label.
func (a *Adapter) Source() string {
	return "Web"
}

// Configured always reports true; the simulation needs no credentials.
func (a *Adapter) Configured() bool {
	return true
}

// Search synthesises deterministic results for the query.
func (a *Adapter) Search(ctx context.Context, query string, _ domain.SearchOptions) ([]domain.RawItem, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	topic := strings.TrimSpace(query)
	slug := url.PathEscape(strings.ToLower(strings.Join(strings.Fields(topic), "-")))

	items := make([]domain.RawItem, 0, len(templates))
	for _, tpl := range templates {
		itemURL := fmt.Sprintf("https://%s/%s", tpl.host, slug)
		items = append(items, domain.RawItem{
			ID:      fmt.Sprintf("web-%016x", itemHash(tpl.host, slug)),
			Title:   fmt.Sprintf(tpl.title, topic),
			URL:     itemURL,
			Content: fmt.Sprintf(tpl.content, topic),
			Author:  tpl.site,
			Date:    a.now().AddDate(0, 0, -daysAgo(tpl.host, slug)),
			Score:   tpl.score,
			Scored:  true,
			Tags:    tpl.tags,
		})
	}

	return items, nil
}

func itemHash(host, slug string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(host))
	h.Write([]byte{0})
	h.Write([]byte(slug))
	return h.Sum64()
}

// daysAgo spreads synthesised dates over the last year, deterministically
// per (host, query).
func daysAgo(host, slug string) int {
	return int(itemHash(host, slug) % 365)
}
