// Package codehost provides the code host source adapter backed by the
// GitHub API. Every remote operation is a declared tool; the adapter
// consults the tool gate before each call, so a disabled tool silently
// contributes nothing to the result set.
package codehost

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/unify-search/unify-cli/internal/core/domain"
	"github.com/unify-search/unify-cli/internal/core/ports/driven"
	"github.com/unify-search/unify-cli/internal/logger"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second
	DefaultLimit   = 25
)

// Tool names the adapter gates its searches on.
const (
	toolSearchRepositories = "search_repositories"
	toolSearchIssues       = "search_issues"
	toolSearchCode         = "search_code"
)

// Adapter searches repositories, issues and code via the GitHub API.
type Adapter struct {
	conn    domain.ServiceConnection
	gate    driven.ToolGate
	limiter *rateGate
	client  *gh.Client
}

// Option configures the Adapter.
type Option func(*Adapter)

// WithClient overrides the GitHub client. Useful for testing.
func WithClient(client *gh.Client) Option {
	return func(a *Adapter) {
		a.client = client
	}
}

// New creates a code host adapter from a service connection. A nil gate
// leaves every tool enabled.
func New(conn domain.ServiceConnection, gate driven.ToolGate, opts ...Option) *Adapter {
	a := &Adapter{
		conn:    conn,
		gate:    gate,
		limiter: newRateGate(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Type returns the source type.
func (a *Adapter) Type() domain.SourceType {
	return domain.SourceCodeHost
}

// Source returns the display label.
func (a *Adapter) Source() string {
	return "GitHub"
}

// Configured reports whether an access token is present.
func (a *Adapter) Configured() bool {
	return a.conn.Configured()
}

// ensureClient builds the authenticated client on first use.
func (a *Adapter) ensureClient(ctx context.Context) (*gh.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: a.conn.CodeHost.Token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout
	client := gh.NewClient(tc)

	if base := a.conn.CodeHost.BaseURL; base != "" {
		parsed, err := url.Parse(strings.TrimSuffix(base, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse base URL: %w", err)
		}
		client.BaseURL = parsed
	}

	a.client = client
	return client, nil
}

// enabled consults the tool gate.
func (a *Adapter) enabled(tool string) bool {
	return a.gate == nil || a.gate.ToolEnabled(tool)
}

// Search fans the query across the enabled search tools and concatenates
// their items. Code host results carry no adapter score; the ranker
// derives one.
func (a *Adapter) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.RawItem, error) {
	if err := a.conn.Validate(); err != nil {
		return nil, err
	}

	client, err := a.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var items []domain.RawItem

	if a.enabled(toolSearchRepositories) {
		repoItems, err := a.searchRepositories(ctx, client, query, limit)
		if err != nil {
			return nil, err
		}
		items = append(items, repoItems...)
	} else {
		logger.Debug("Tool %s disabled, skipping repository search", toolSearchRepositories)
	}

	if a.enabled(toolSearchIssues) {
		issueItems, err := a.searchIssues(ctx, client, query, limit)
		if err != nil {
			return nil, err
		}
		items = append(items, issueItems...)
	} else {
		logger.Debug("Tool %s disabled, skipping issue search", toolSearchIssues)
	}

	if a.enabled(toolSearchCode) {
		codeItems, err := a.searchCode(ctx, client, query, limit)
		if err != nil {
			return nil, err
		}
		items = append(items, codeItems...)
	} else {
		logger.Debug("Tool %s disabled, skipping code search", toolSearchCode)
	}

	return items, nil
}

func (a *Adapter) searchRepositories(ctx context.Context, client *gh.Client, query string, limit int) ([]domain.RawItem, error) {
	if err := a.limiter.wait(ctx); err != nil {
		return nil, err
	}

	result, resp, err := client.Search.Repositories(ctx, query, &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: limit},
	})
	a.limiter.update(resp)
	if err != nil {
		return nil, mapError(err, "search repositories")
	}

	items := make([]domain.RawItem, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		items = append(items, domain.RawItem{
			ID:      "gh-repo-" + repo.GetFullName(),
			Title:   repo.GetFullName(),
			URL:     repo.GetHTMLURL(),
			Content: repo.GetDescription(),
			Author:  repo.GetOwner().GetLogin(),
			Date:    repo.GetUpdatedAt().Time,
			Tags:    repo.Topics,
			Metadata: &domain.Metadata{
				CodeHost: &domain.CodeHostMetadata{
					Repository: repo.GetFullName(),
					Language:   repo.GetLanguage(),
					Stars:      repo.GetStargazersCount(),
				},
			},
		})
	}
	return items, nil
}

func (a *Adapter) searchIssues(ctx context.Context, client *gh.Client, query string, limit int) ([]domain.RawItem, error) {
	if err := a.limiter.wait(ctx); err != nil {
		return nil, err
	}

	result, resp, err := client.Search.Issues(ctx, query, &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: limit},
	})
	a.limiter.update(resp)
	if err != nil {
		return nil, mapError(err, "search issues")
	}

	items := make([]domain.RawItem, 0, len(result.Issues))
	for _, issue := range result.Issues {
		kind := "issue"
		if issue.IsPullRequest() {
			kind = "pull"
		}
		repository := repoFromAPIURL(issue.GetRepositoryURL())

		labels := make([]string, 0, len(issue.Labels))
		for _, label := range issue.Labels {
			labels = append(labels, label.GetName())
		}

		items = append(items, domain.RawItem{
			ID:      fmt.Sprintf("gh-%s-%s-%d", kind, repository, issue.GetNumber()),
			Title:   issue.GetTitle(),
			URL:     issue.GetHTMLURL(),
			Content: issue.GetBody(),
			Author:  issue.GetUser().GetLogin(),
			Date:    issue.GetUpdatedAt().Time,
			Tags:    labels,
			Metadata: &domain.Metadata{
				CodeHost: &domain.CodeHostMetadata{
					Repository: repository,
					State:      issue.GetState(),
					Labels:     labels,
				},
			},
		})
	}
	return items, nil
}

func (a *Adapter) searchCode(ctx context.Context, client *gh.Client, query string, limit int) ([]domain.RawItem, error) {
	if err := a.limiter.wait(ctx); err != nil {
		return nil, err
	}

	result, resp, err := client.Search.Code(ctx, query, &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: limit},
	})
	a.limiter.update(resp)
	if err != nil {
		return nil, mapError(err, "search code")
	}

	items := make([]domain.RawItem, 0, len(result.CodeResults))
	for _, code := range result.CodeResults {
		repository := code.GetRepository().GetFullName()
		items = append(items, domain.RawItem{
			ID:    fmt.Sprintf("gh-code-%s-%s", repository, code.GetPath()),
			Title: fmt.Sprintf("%s: %s", repository, code.GetPath()),
			URL:   code.GetHTMLURL(),
			Metadata: &domain.Metadata{
				CodeHost: &domain.CodeHostMetadata{
					Repository: repository,
					Path:       code.GetPath(),
				},
			},
		})
	}
	return items, nil
}

// repoFromAPIURL extracts "owner/name" from an API repository URL
// ("https://api.github.com/repos/owner/name").
func repoFromAPIURL(apiURL string) string {
	_, after, found := strings.Cut(apiURL, "/repos/")
	if !found {
		return ""
	}
	return after
}

// mapError converts go-github errors onto the domain sentinels.
func mapError(err error, op string) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: resets at %s", domain.ErrRateLimited, rateErr.Rate.Reset.Format(time.Kitchen))
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return domain.ErrRateLimited
	}
	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		code := respErr.Response.StatusCode
		if code == http.StatusUnauthorized || code == http.StatusForbidden {
			return fmt.Errorf("%w: API returned %d", domain.ErrAuthInvalid, code)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
