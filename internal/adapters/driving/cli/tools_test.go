package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unify-search/unify-cli/internal/core/domain"
)

func sampleCatalog() *mockCatalogService {
	return &mockCatalogService{
		tools: []domain.Tool{
			{Name: "search_repositories", Description: "Search repositories by keyword", Category: domain.CategoryRepository, Enabled: true},
			{Name: "delete_repository", Description: "Delete a repository", Category: domain.CategoryRepository, Dangerous: true},
			{Name: "search_issues", Description: "Search issues and pull requests by keyword", Category: domain.CategoryIssues, Enabled: true},
			{Name: "merge_pull_request", Description: "Merge a pull request", Category: domain.CategoryPullRequests, Dangerous: true},
		},
	}
}

func TestToolsCmd_ListGroupsByCategory(t *testing.T) {
	cleanup := setupTestServices(&mockSearchService{}, sampleCatalog())
	defer cleanup()

	out, err := execute("tools", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "[repository]")
	assert.Contains(t, out, "[issues]")
	assert.Contains(t, out, "[pull-requests]")
	assert.Contains(t, out, "search_repositories")
	assert.Contains(t, out, "enabled")
	assert.Contains(t, out, "! delete_repository")
	assert.Contains(t, out, "disabled")
}

func TestToolsCmd_BareCommandLists(t *testing.T) {
	cleanup := setupTestServices(&mockSearchService{}, sampleCatalog())
	defer cleanup()

	out, err := execute("tools")

	require.NoError(t, err)
	assert.Contains(t, out, "search_repositories")
}

func TestToolsCmd_ToggleSaves(t *testing.T) {
	catalog := sampleCatalog()
	cleanup := setupTestServices(&mockSearchService{}, catalog)
	defer cleanup()

	out, err := execute("tools", "toggle", "delete_repository")

	require.NoError(t, err)
	assert.Contains(t, out, "Toggled delete_repository")
	assert.Equal(t, []string{"delete_repository"}, catalog.toggled)
	assert.Equal(t, 1, catalog.saved)
}

func TestToolsCmd_ToggleUnknownTool(t *testing.T) {
	catalog := &mockCatalogService{err: domain.ErrToolNotFound}
	cleanup := setupTestServices(&mockSearchService{}, catalog)
	defer cleanup()

	_, err := execute("tools", "toggle", "missing")

	assert.ErrorIs(t, err, domain.ErrToolNotFound)
}

func TestToolsCmd_ToggleCategorySaves(t *testing.T) {
	catalog := sampleCatalog()
	cleanup := setupTestServices(&mockSearchService{}, catalog)
	defer cleanup()

	out, err := execute("tools", "toggle-category", "repository")

	require.NoError(t, err)
	assert.Contains(t, out, "Toggled category repository")
	assert.Equal(t, 1, catalog.saved)
}

func TestToolsCmd_ToggleAllSaves(t *testing.T) {
	catalog := sampleCatalog()
	cleanup := setupTestServices(&mockSearchService{}, catalog)
	defer cleanup()

	out, err := execute("tools", "toggle-all")

	require.NoError(t, err)
	assert.Contains(t, out, "Toggled all tools")
	assert.Equal(t, 1, catalog.saved)
}
