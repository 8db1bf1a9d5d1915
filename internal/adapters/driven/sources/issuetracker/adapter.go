// Package issuetracker provides the issue tracker source adapter for
// Jira-compatible REST APIs.
package issuetracker

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/unify-search/unify-cli/internal/core/domain"
	"github.com/unify-search/unify-cli/internal/core/ports/driven"
	"github.com/unify-search/unify-cli/internal/logger"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second

	// DefaultLimit caps how many issues one search returns.
	DefaultLimit = 25

	// prDetailLimit caps how many issues get the extra pull request
	// detail lookup.
	prDetailLimit = 10
)

// Adapter searches issues via the Jira REST API.
type Adapter struct {
	conn   domain.ServiceConnection
	client *http.Client
}

// Option configures the Adapter.
type Option func(*Adapter)

// WithHTTPClient overrides the HTTP client. Useful for testing.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) {
		a.client = client
	}
}

// New creates an issue tracker adapter from a service connection.
func New(conn domain.ServiceConnection, opts ...Option) *Adapter {
	a := &Adapter{
		conn:   conn,
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Type returns the source type.
func (a *Adapter) Type() domain.SourceType {
	return domain.SourceIssueTracker
}

// Source returns the display label.
func (a *Adapter) Source() string {
	return "Jira"
}

// Configured reports whether an API token is present.
func (a *Adapter) Configured() bool {
	return a.conn.Configured()
}

// searchResponse is the /rest/api/3/search response shape.
type searchResponse struct {
	Total  int         `json:"total"`
	Issues []jiraIssue `json:"issues"`
}

type jiraIssue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields struct {
		Summary     string     `json:"summary"`
		Description string     `json:"description"`
		Labels      []string   `json:"labels"`
		Status      namedField `json:"status"`
		Priority    namedField `json:"priority"`
		IssueType   namedField `json:"issuetype"`
		Project     struct {
			Key string `json:"key"`
		} `json:"project"`
		Assignee     *personField `json:"assignee"`
		Reporter     *personField `json:"reporter"`
		Created      jiraTime     `json:"created"`
		Updated      jiraTime     `json:"updated"`
		StoryPoints  float64      `json:"customfield_10016"`
		TimeTracking struct {
			OriginalEstimate  string `json:"originalEstimate"`
			TimeSpent         string `json:"timeSpent"`
			RemainingEstimate string `json:"remainingEstimate"`
		} `json:"timetracking"`
	} `json:"fields"`
}

type namedField struct {
	Name string `json:"name"`
}

type personField struct {
	DisplayName string `json:"displayName"`
}

// jiraTime parses Jira's timestamp format ("2026-01-15T10:30:00.000+0000").
type jiraTime struct {
	time.Time
}

var jiraTimeLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	time.RFC3339,
}

// UnmarshalJSON accepts Jira's timestamp variants.
func (t *jiraTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	for _, layout := range jiraTimeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", raw)
}

// devStatusResponse is the dev-status pull request detail shape.
type devStatusResponse struct {
	Detail []struct {
		PullRequests []struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Status string `json:"status"`
			URL    string `json:"url"`
		} `json:"pullRequests"`
	} `json:"detail"`
}

// Search runs a JQL text search and maps issues onto raw items. Issue
// tracker scores are never adapter-supplied; the ranker derives them
// from term overlap.
func (a *Adapter) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.RawItem, error) {
	if err := a.conn.Validate(); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	jql := fmt.Sprintf(`text ~ %q ORDER BY updated DESC`, query)
	endpoint := fmt.Sprintf("%s/rest/api/3/search?jql=%s&maxResults=%d&fields=*all",
		strings.TrimSuffix(a.conn.IssueTracker.BaseURL, "/"), url.QueryEscape(jql), limit)

	var decoded searchResponse
	if err := a.getJSON(ctx, endpoint, &decoded); err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}

	items := make([]domain.RawItem, 0, len(decoded.Issues))
	for i, issue := range decoded.Issues {
		item := a.toRawItem(issue)

		// Pull request details are an extra round trip; only enrich the
		// top slice of issues.
		if i < prDetailLimit {
			if rollup := a.pullRequestRollup(ctx, issue.ID); rollup != nil {
				item.Metadata.IssueTracker.PullRequests = rollup
			}
		}

		items = append(items, item)
	}

	return items, nil
}

// toRawItem maps one Jira issue onto a raw item, preserving the
// tracker-specific fields under metadata.
func (a *Adapter) toRawItem(issue jiraIssue) domain.RawItem {
	meta := &domain.IssueTrackerMetadata{
		Status:      issue.Fields.Status.Name,
		Priority:    issue.Fields.Priority.Name,
		IssueType:   issue.Fields.IssueType.Name,
		ProjectKey:  issue.Fields.Project.Key,
		Created:     issue.Fields.Created.Time,
		Updated:     issue.Fields.Updated.Time,
		StoryPoints: int(issue.Fields.StoryPoints),
	}
	if issue.Fields.Assignee != nil {
		meta.Assignee = issue.Fields.Assignee.DisplayName
	}
	if issue.Fields.Reporter != nil {
		meta.Reporter = issue.Fields.Reporter.DisplayName
	}
	tt := issue.Fields.TimeTracking
	if tt.OriginalEstimate != "" || tt.TimeSpent != "" || tt.RemainingEstimate != "" {
		meta.TimeTracking = &domain.TimeTrackingDetail{
			OriginalEstimate:  tt.OriginalEstimate,
			TimeSpent:         tt.TimeSpent,
			RemainingEstimate: tt.RemainingEstimate,
		}
	}

	author := meta.Reporter
	date := issue.Fields.Updated.Time
	if date.IsZero() {
		date = issue.Fields.Created.Time
	}

	return domain.RawItem{
		ID:      "jira-" + issue.Key,
		Title:   fmt.Sprintf("%s: %s", issue.Key, issue.Fields.Summary),
		URL:     fmt.Sprintf("%s/browse/%s", strings.TrimSuffix(a.conn.IssueTracker.BaseURL, "/"), issue.Key),
		Content: issue.Fields.Description,
		Author:  author,
		Date:    date,
		Tags:    issue.Fields.Labels,
		Metadata: &domain.Metadata{
			IssueTracker: meta,
		},
	}
}

// pullRequestRollup fetches linked pull requests for an issue. Best
// effort: a failed lookup leaves the rollup nil.
func (a *Adapter) pullRequestRollup(ctx context.Context, issueID string) *domain.PullRequestRollup {
	endpoint := fmt.Sprintf(
		"%s/rest/dev-status/latest/issue/detail?issueId=%s&applicationType=bitbucket&dataType=pullrequest",
		strings.TrimSuffix(a.conn.IssueTracker.BaseURL, "/"), url.QueryEscape(issueID))

	var decoded devStatusResponse
	if err := a.getJSON(ctx, endpoint, &decoded); err != nil {
		logger.Debug("Pull request detail lookup failed for issue %s: %v", issueID, err)
		return nil
	}

	rollup := &domain.PullRequestRollup{}
	for _, detail := range decoded.Detail {
		for _, pr := range detail.PullRequests {
			rollup.Total++
			switch strings.ToUpper(pr.Status) {
			case "OPEN":
				rollup.Open++
			case "MERGED":
				rollup.Merged++
			case "DECLINED":
				rollup.Declined++
			}
			// The full detail list is retained even though consumers may
			// display only a subset.
			rollup.Details = append(rollup.Details, domain.PullRequestRef{
				ID:     pr.ID,
				Title:  pr.Name,
				Status: pr.Status,
				URL:    pr.URL,
			})
		}
	}

	if rollup.Total == 0 {
		return nil
	}
	return rollup
}

// getJSON performs an authenticated GET and decodes the JSON response.
func (a *Adapter) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	credentials := a.conn.IssueTracker.Email + ":" + a.conn.IssueTracker.APIToken
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(credentials)))
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: API returned %d", domain.ErrAuthInvalid, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("API returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
