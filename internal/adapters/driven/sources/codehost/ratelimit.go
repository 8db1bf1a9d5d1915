package codehost

import (
	"context"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/time/rate"
)

const (
	// proactiveRate throttles requests ahead of the API quota
	// (~1.2 req/sec stays well under the authenticated 5000/hour limit).
	proactiveRate = 1.2

	// minRemaining is the reserve kept below which requests wait for the
	// quota reset instead of spending the last of it.
	minRemaining = 50
)

// rateGate combines proactive token-bucket throttling with reactive
// tracking of the API's reported quota.
type rateGate struct {
	mu        sync.Mutex
	remaining int
	resetAt   time.Time
	bucket    *rate.Limiter
}

func newRateGate() *rateGate {
	return &rateGate{
		// Assume a full quota until the first response reports otherwise.
		remaining: minRemaining + 1,
		bucket:    rate.NewLimiter(rate.Limit(proactiveRate), 1),
	}
}

// wait blocks until a request may be sent. When the tracked quota is
// nearly exhausted it waits out the reset window.
func (g *rateGate) wait(ctx context.Context) error {
	if err := g.bucket.Wait(ctx); err != nil {
		return err
	}

	g.mu.Lock()
	remaining := g.remaining
	resetAt := g.resetAt
	g.mu.Unlock()

	if remaining >= minRemaining || time.Now().After(resetAt) {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Until(resetAt)):
		return nil
	}
}

// update records the quota the API reported on a response.
func (g *rateGate) update(resp *gh.Response) {
	if resp == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.remaining = resp.Rate.Remaining
	g.resetAt = resp.Rate.Reset.Time
}
