package wiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unify-search/unify-cli/internal/core/domain"
)

const cqlFixture = `{
  "results": [
    {
      "content": {
        "id": "557058",
        "title": "Token rotation runbook",
        "_links": {"webui": "/spaces/OPS/pages/557058"}
      },
      "excerpt": "Rotate the @@@hl@@@refresh token@@@endhl@@@ every 24 hours.",
      "lastModified": "2026-02-10T09:15:00Z",
      "resultGlobalContainer": {"title": "Operations"}
    },
    {
      "content": {
        "id": "557059",
        "title": "Auth service overview",
        "_links": {"webui": "/spaces/AUTH/pages/557059"}
      },
      "excerpt": "High level description of the auth service.",
      "lastModified": "not-a-timestamp"
    }
  ],
  "_links": {"base": "https://acme.atlassian.net/wiki"}
}`

func wikiConn(baseURL string) domain.ServiceConnection {
	return domain.ServiceConnection{
		SourceType: domain.SourceWiki,
		Wiki: &domain.WikiConnection{
			BaseURL: baseURL, Email: "sam@acme.dev", APIToken: "token",
		},
	}
}

func TestSearchMapsPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/api/search", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Query().Get("cql"), "token rotation")
		_, _ = w.Write([]byte(cqlFixture))
	}))
	defer server.Close()

	adapter := New(wikiConn(server.URL))

	items, err := adapter.Search(context.Background(), "token rotation", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "wiki-557058", first.ID)
	assert.Equal(t, "Token rotation runbook", first.Title)
	assert.Equal(t, "https://acme.atlassian.net/wiki/spaces/OPS/pages/557058", first.URL)
	assert.Equal(t, "Rotate the refresh token every 24 hours.", first.Content)
	assert.Equal(t, []string{"Operations"}, first.Tags)
	assert.Equal(t, 2026, first.Date.Year())
	assert.False(t, first.Scored, "wiki results rely on the fallback score")

	// Unparseable timestamps leave the date zero for the normaliser.
	assert.True(t, items[1].Date.IsZero())
	assert.Nil(t, items[1].Tags)
}

func TestSearchFallsBackToConnectionBaseURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results": [{"content": {"id": "1", "title": "Page", "_links": {"webui": "/x"}}}]}`))
	}))
	defer server.Close()

	adapter := New(wikiConn(server.URL + "/"))

	items, err := adapter.Search(context.Background(), "query", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, server.URL+"/x", items[0].URL)
}

func TestSearchNotConfigured(t *testing.T) {
	adapter := New(domain.ServiceConnection{SourceType: domain.SourceWiki})

	_, err := adapter.Search(context.Background(), "query", domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestSearchUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	adapter := New(wikiConn(server.URL))

	_, err := adapter.Search(context.Background(), "query", domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}

func TestSearchRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	adapter := New(wikiConn(server.URL))

	_, err := adapter.Search(context.Background(), "query", domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}
