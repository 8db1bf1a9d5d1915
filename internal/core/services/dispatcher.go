package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/unify-search/unify-cli/internal/core/domain"
	"github.com/unify-search/unify-cli/internal/core/ports/driven"
	"github.com/unify-search/unify-cli/internal/core/ports/driving"
	"github.com/unify-search/unify-cli/internal/logger"
	"github.com/unify-search/unify-cli/internal/normalisers"
)

// Ensure Dispatcher implements the interface.
var _ driving.SearchService = (*Dispatcher)(nil)

// DefaultAdapterTimeout bounds each adapter call. A call exceeding it is
// treated exactly like a failed adapter, never as a fatal error.
const DefaultAdapterTimeout = 15 * time.Second

// Dispatcher fans one search request out to the adapters selected by the
// request mode, collects partial results and errors, and assembles the
// ranked response.
type Dispatcher struct {
	adapters       []driven.SourceAdapter
	normaliser     *normalisers.Normaliser
	ranker         *Ranker
	starStore      driven.StarStore
	adapterTimeout time.Duration

	// generation implements last-request-wins: each dispatch takes the
	// next value and a dispatch whose generation is stale by completion
	// returns ErrSuperseded instead of its response.
	generation atomic.Uint64
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithAdapterTimeout overrides the per-adapter timeout.
func WithAdapterTimeout(d time.Duration) DispatcherOption {
	return func(s *Dispatcher) {
		s.adapterTimeout = d
	}
}

// WithNormaliser overrides the normaliser. Useful for testing with a
// fixed clock.
func WithNormaliser(n *normalisers.Normaliser) DispatcherOption {
	return func(s *Dispatcher) {
		s.normaliser = n
	}
}

// NewDispatcher creates a Dispatcher over the given adapters.
// The starStore parameter is optional (can be nil); without it starred
// flags are left false.
func NewDispatcher(adapters []driven.SourceAdapter, starStore driven.StarStore, opts ...DispatcherOption) *Dispatcher {
	s := &Dispatcher{
		adapters:       adapters,
		normaliser:     normalisers.New(),
		ranker:         NewRanker(),
		starStore:      starStore,
		adapterTimeout: DefaultAdapterTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// adapterOutcome collects one adapter's contribution to a dispatch.
type adapterOutcome struct {
	sourceType domain.SourceType
	source     string
	results    []domain.Result
	warning    string
}

// Search validates the request, fans out concurrently to the selected
// adapters, and assembles the merged response. No single adapter failure
// aborts the aggregate; only request validation is fatal.
func (s *Dispatcher) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	// Request id correlates the log lines of concurrent dispatches.
	reqID := uuid.NewString()[:8]

	logger.Section("Search Dispatch")
	logger.Debug("[%s] Query: %q, mode: %s", reqID, req.Query, req.Mode)

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}

	gen := s.generation.Add(1)

	selected := s.selectAdapters(req)
	logger.Info("Fan-out to %d adapters", len(selected))

	start := time.Now()
	outcomes := s.fanOut(ctx, selected, req)
	elapsed := time.Since(start)

	// Last request wins: drop this response if a newer dispatch started
	// while we were collecting.
	if s.generation.Load() != gen {
		logger.Info("Dispatch superseded by a newer request, dropping response")
		return nil, domain.ErrSuperseded
	}

	var all []domain.Result
	var warnings []domain.SourceWarning
	for _, out := range outcomes {
		all = append(all, out.results...)
		if out.warning != "" {
			warnings = append(warnings, domain.SourceWarning{
				SourceType: out.sourceType,
				Source:     out.source,
				Message:    out.warning,
			})
		}
	}

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = domain.SortRelevance
	}

	ranked, total := s.ranker.Rank(all, req.Query, sortBy, req.FilterBy)
	s.hydrateStarred(ctx, ranked)

	resp := &domain.SearchResponse{
		Results:          ranked,
		TotalResults:     total,
		ProcessingTimeMS: elapsed.Milliseconds(),
		SuggestedQueries: suggestQueries(req),
		Insights:         buildInsights(ranked, warnings),
		Summary:          aggregateSummary(ranked),
		Warnings:         warnings,
	}

	logger.Info("[%s] Dispatch complete: %d of %d results in %dms", reqID, len(ranked), total, resp.ProcessingTimeMS)
	return resp, nil
}

// SetStarred stars or unstars a result id in the external store.
func (s *Dispatcher) SetStarred(ctx context.Context, resultID string, starred bool) error {
	if s.starStore == nil {
		return domain.ErrNotConfigured
	}
	return s.starStore.SetStarred(ctx, resultID, starred)
}

// selectAdapters routes the request mode to the participating adapters.
func (s *Dispatcher) selectAdapters(req domain.SearchRequest) []driven.SourceAdapter {
	var selected []driven.SourceAdapter
	for _, adapter := range s.adapters {
		st := adapter.Type()
		switch req.Mode {
		case domain.ModeWeb:
			if st != domain.SourceWeb {
				continue
			}
		case domain.ModeAI:
			if st != domain.SourceAI {
				continue
			}
		case domain.ModeApps:
			if st == domain.SourceWeb || st == domain.SourceAI {
				continue
			}
			if !req.SourceEnabled(st) {
				continue
			}
		default: // unified
			if !req.SourceEnabled(st) {
				continue
			}
		}
		selected = append(selected, adapter)
	}
	return selected
}

// fanOut runs the selected adapters concurrently and waits for all of
// them, bounded by the per-adapter timeout.
func (s *Dispatcher) fanOut(
	ctx context.Context, adapters []driven.SourceAdapter, req domain.SearchRequest,
) []adapterOutcome {
	outcomes := make([]adapterOutcome, len(adapters))

	var wg sync.WaitGroup
	wg.Add(len(adapters))

	for i, adapter := range adapters {
		go func(i int, adapter driven.SourceAdapter) {
			defer wg.Done()
			outcomes[i] = s.callAdapter(ctx, adapter, req)
		}(i, adapter)
	}

	wg.Wait()
	return outcomes
}

// callAdapter executes one adapter query and converts any failure into a
// non-fatal warning annotation.
func (s *Dispatcher) callAdapter(
	ctx context.Context, adapter driven.SourceAdapter, req domain.SearchRequest,
) adapterOutcome {
	out := adapterOutcome{
		sourceType: adapter.Type(),
		source:     adapter.Source(),
	}

	callCtx, cancel := context.WithTimeout(ctx, s.adapterTimeout)
	defer cancel()

	opts := domain.SearchOptions{
		Model:       req.SelectedModel,
		Temperature: req.Temperature,
	}

	items, err := adapter.Search(callCtx, req.Query, opts)
	switch {
	case err == nil:
		out.results = s.normaliser.NormaliseAll(items, out.sourceType, out.source)
		logger.Debug("Adapter %s: %d items", out.source, len(items))

	case errors.Is(err, domain.ErrNotConfigured):
		out.warning = "not configured"
		logger.Debug("Adapter %s: not configured", out.source)

	case errors.Is(err, domain.ErrAuthInvalid):
		out.warning = fmt.Sprintf("invalid credentials: %v", err)
		logger.Warn("Adapter %s: %v", out.source, err)

	case errors.Is(err, context.DeadlineExceeded):
		out.warning = fmt.Sprintf("timed out after %s", s.adapterTimeout)
		logger.Warn("Adapter %s timed out", out.source)

	default:
		out.warning = fmt.Sprintf("search failed: %v", err)
		logger.Warn("Adapter %s failed: %v", out.source, err)
	}

	return out
}

// hydrateStarred round-trips starred flags from the external store.
// Star lookups are best-effort; a store failure leaves flags false.
func (s *Dispatcher) hydrateStarred(ctx context.Context, results []domain.Result) {
	if s.starStore == nil || len(results) == 0 {
		return
	}

	ids, err := s.starStore.StarredIDs(ctx)
	if err != nil {
		logger.Warn("Starred lookup failed: %v", err)
		return
	}

	starred := make(map[string]bool, len(ids))
	for _, id := range ids {
		starred[id] = true
	}
	for i := range results {
		results[i].Starred = starred[results[i].ID]
	}
}
