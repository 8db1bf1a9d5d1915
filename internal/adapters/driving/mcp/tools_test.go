package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unify-search/unify-cli/internal/core/domain"
)

func TestNewServer_RequiresSearchService(t *testing.T) {
	_, err := NewServer(&Ports{})
	assert.ErrorIs(t, err, ErrMissingSearchService)
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the aggregated response", func(t *testing.T) {
		mockSearch := &mockSearchService{
			resp: &domain.SearchResponse{
				Results: []domain.Result{
					{
						ID:             "web-abc",
						Source:         "MDN Web Docs",
						Title:          "Token guide",
						URL:            "https://developer.mozilla.org/guide",
						RelevanceScore: 0.9,
						Starred:        true,
					},
				},
				TotalResults:     3,
				ProcessingTimeMS: 120,
				Summary:          "Tokens rotate daily.",
				Warnings: []domain.SourceWarning{
					{SourceType: domain.SourceWiki, Source: "Confluence", Message: "not configured"},
				},
			},
		}

		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		input := SearchInput{Query: "tokens", Mode: "web", SortBy: "date"}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "web-abc", output.Results[0].ID)
		assert.True(t, output.Results[0].Starred)
		assert.Equal(t, 3, output.TotalResults)
		assert.Equal(t, int64(120), output.ProcessingTimeMS)
		assert.Equal(t, "Tokens rotate daily.", output.Summary)
		assert.Equal(t, []string{"Confluence: not configured"}, output.Warnings)

		assert.Equal(t, domain.ModeWeb, mockSearch.lastReq.Mode)
		assert.Equal(t, domain.SortDate, mockSearch.lastReq.SortBy)
	})

	t.Run("defaults to unified mode", func(t *testing.T) {
		mockSearch := &mockSearchService{resp: &domain.SearchResponse{}}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "q"})
		require.NoError(t, err)
		assert.Equal(t, domain.ModeUnified, mockSearch.lastReq.Mode)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockSearch := &mockSearchService{err: errors.New("search failed")}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "q"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleStar(t *testing.T) {
	mockSearch := &mockSearchService{}
	server, err := NewServer(&Ports{Search: mockSearch})
	require.NoError(t, err)

	_, output, err := server.handleStar(context.Background(), nil, StarInput{ResultID: "jira-AUTH-7", Starred: true})
	require.NoError(t, err)
	assert.Equal(t, "jira-AUTH-7", output.ResultID)
	assert.True(t, output.Starred)
	assert.Equal(t, "jira-AUTH-7", mockSearch.starredID)
	assert.True(t, mockSearch.starred)
}

func TestServer_handleListTools(t *testing.T) {
	catalog := &mockCatalogService{
		tools: []domain.Tool{
			{Name: "search_issues", Category: domain.CategoryIssues, Enabled: true},
			{Name: "delete_repository", Category: domain.CategoryRepository, Dangerous: true},
		},
	}
	server, err := NewServer(&Ports{Search: &mockSearchService{}, Catalog: catalog})
	require.NoError(t, err)

	_, output, err := server.handleListTools(context.Background(), nil, struct{}{})
	require.NoError(t, err)
	require.Len(t, output.Tools, 2)
	assert.Equal(t, "search_issues", output.Tools[0].Name)
	assert.True(t, output.Tools[0].Enabled)
	assert.True(t, output.Tools[1].Dangerous)
	assert.False(t, output.Tools[1].Enabled)
}

func TestServer_handleToggleTool(t *testing.T) {
	t.Run("toggles and saves", func(t *testing.T) {
		catalog := &mockCatalogService{
			tools: []domain.Tool{{Name: "merge_pull_request", Dangerous: true, Enabled: false}},
		}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Catalog: catalog})
		require.NoError(t, err)

		_, output, err := server.handleToggleTool(context.Background(), nil, ToggleToolInput{Name: "merge_pull_request"})
		require.NoError(t, err)
		assert.True(t, output.Enabled)
		assert.Equal(t, []string{"merge_pull_request"}, catalog.toggled)
		assert.Equal(t, 1, catalog.saved)
	})

	t.Run("returns error for unknown tool", func(t *testing.T) {
		catalog := &mockCatalogService{err: domain.ErrToolNotFound}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Catalog: catalog})
		require.NoError(t, err)

		_, _, err = server.handleToggleTool(context.Background(), nil, ToggleToolInput{Name: "missing"})
		assert.ErrorIs(t, err, domain.ErrToolNotFound)
	})
}
