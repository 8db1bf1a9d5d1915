package issuetracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unify-search/unify-cli/internal/core/domain"
)

const searchFixture = `{
  "total": 1,
  "issues": [
    {
      "id": "10042",
      "key": "AUTH-7",
      "fields": {
        "summary": "Login fails after token rotation",
        "description": "Users are logged out when the refresh token rotates.",
        "labels": ["auth", "regression"],
        "status": {"name": "In Progress"},
        "priority": {"name": "High"},
        "issuetype": {"name": "Bug"},
        "project": {"key": "AUTH"},
        "assignee": {"displayName": "Dana Webb"},
        "reporter": {"displayName": "Sam Ortiz"},
        "created": "2026-01-15T10:30:00.000+0000",
        "updated": "2026-02-01T08:00:00.000+0000",
        "customfield_10016": 5,
        "timetracking": {
          "originalEstimate": "2d",
          "timeSpent": "1d",
          "remainingEstimate": "1d"
        }
      }
    }
  ]
}`

const devStatusFixture = `{
  "detail": [
    {
      "pullRequests": [
        {"id": "#12", "name": "Fix refresh rotation", "status": "MERGED", "url": "https://bitbucket.org/acme/auth/pull-requests/12"},
        {"id": "#15", "name": "Backport fix", "status": "OPEN", "url": "https://bitbucket.org/acme/auth/pull-requests/15"}
      ]
    }
  ]
}`

func trackerConn(baseURL string) domain.ServiceConnection {
	return domain.ServiceConnection{
		SourceType: domain.SourceIssueTracker,
		IssueTracker: &domain.IssueTrackerConnection{
			BaseURL: baseURL, Email: "sam@acme.dev", APIToken: "token",
		},
	}
}

func TestSearchMapsIssues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.Header.Get("Authorization"))
		switch {
		case r.URL.Path == "/rest/api/3/search":
			assert.Contains(t, r.URL.Query().Get("jql"), "token rotation")
			_, _ = w.Write([]byte(searchFixture))
		case r.URL.Path == "/rest/dev-status/latest/issue/detail":
			assert.Equal(t, "10042", r.URL.Query().Get("issueId"))
			_, _ = w.Write([]byte(devStatusFixture))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	adapter := New(trackerConn(server.URL))

	items, err := adapter.Search(context.Background(), "token rotation", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "jira-AUTH-7", item.ID)
	assert.Equal(t, "AUTH-7: Login fails after token rotation", item.Title)
	assert.Equal(t, server.URL+"/browse/AUTH-7", item.URL)
	assert.Equal(t, "Sam Ortiz", item.Author)
	assert.False(t, item.Scored, "tracker results rely on the fallback score")
	assert.Equal(t, []string{"auth", "regression"}, item.Tags)

	require.NotNil(t, item.Metadata)
	meta := item.Metadata.IssueTracker
	require.NotNil(t, meta)
	assert.Equal(t, "In Progress", meta.Status)
	assert.Equal(t, "High", meta.Priority)
	assert.Equal(t, "Bug", meta.IssueType)
	assert.Equal(t, "AUTH", meta.ProjectKey)
	assert.Equal(t, "Dana Webb", meta.Assignee)
	assert.Equal(t, 5, meta.StoryPoints)
	require.NotNil(t, meta.TimeTracking)
	assert.Equal(t, "2d", meta.TimeTracking.OriginalEstimate)

	// The full pull request detail list is preserved.
	require.NotNil(t, meta.PullRequests)
	assert.Equal(t, 2, meta.PullRequests.Total)
	assert.Equal(t, 1, meta.PullRequests.Open)
	assert.Equal(t, 1, meta.PullRequests.Merged)
	require.Len(t, meta.PullRequests.Details, 2)
	assert.Equal(t, "Fix refresh rotation", meta.PullRequests.Details[0].Title)
}

func TestSearchPullRequestLookupIsBestEffort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/api/3/search" {
			_, _ = w.Write([]byte(searchFixture))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	adapter := New(trackerConn(server.URL))

	items, err := adapter.Search(context.Background(), "query", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Metadata.IssueTracker.PullRequests)
}

func TestSearchNotConfigured(t *testing.T) {
	adapter := New(domain.ServiceConnection{SourceType: domain.SourceIssueTracker})

	_, err := adapter.Search(context.Background(), "query", domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestSearchMalformedConnection(t *testing.T) {
	conn := domain.ServiceConnection{
		SourceType:   domain.SourceIssueTracker,
		IssueTracker: &domain.IssueTrackerConnection{APIToken: "token"},
	}
	adapter := New(conn)

	_, err := adapter.Search(context.Background(), "query", domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}

func TestSearchUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	adapter := New(trackerConn(server.URL))

	_, err := adapter.Search(context.Background(), "query", domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}

func TestJiraTimeParsing(t *testing.T) {
	var ts jiraTime
	require.NoError(t, json.Unmarshal([]byte(`"2026-01-15T10:30:00.000+0000"`), &ts))
	assert.Equal(t, 2026, ts.Year())

	require.NoError(t, json.Unmarshal([]byte(`"2026-01-15T10:30:00Z"`), &ts))
	assert.Equal(t, 15, ts.Day())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}
