package cli

import (
	"bytes"
	"context"

	"github.com/unify-search/unify-cli/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	resp      *domain.SearchResponse
	err       error
	lastReq   domain.SearchRequest
	starredID string
	starred   bool
}

func (m *mockSearchService) Search(_ context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	m.lastReq = req
	return m.resp, m.err
}

func (m *mockSearchService) SetStarred(_ context.Context, resultID string, starred bool) error {
	m.starredID = resultID
	m.starred = starred
	return m.err
}

// mockCatalogService is a mock implementation of driving.ToolCatalogService.
type mockCatalogService struct {
	tools   []domain.Tool
	err     error
	toggled []string
	saved   int
}

func (m *mockCatalogService) Tools() []domain.Tool { return m.tools }

func (m *mockCatalogService) ToolEnabled(name string) bool {
	for _, tool := range m.tools {
		if tool.Name == name {
			return tool.Enabled
		}
	}
	return false
}

func (m *mockCatalogService) Toggle(name string) error {
	if m.err != nil {
		return m.err
	}
	m.toggled = append(m.toggled, name)
	return nil
}

func (m *mockCatalogService) ToggleCategory(_ domain.ToolCategory) {}

func (m *mockCatalogService) ToggleAll() {}

func (m *mockCatalogService) Save(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.saved++
	return nil
}

// setupTestServices swaps mock services in and returns a cleanup that
// restores the previous wiring.
func setupTestServices(search *mockSearchService, catalog *mockCatalogService) func() {
	oldSearch := searchService
	oldCatalog := catalogService
	searchService = search
	catalogService = catalog
	return func() {
		searchService = oldSearch
		catalogService = oldCatalog
	}
}

// resetFlags restores package-level flag values between runs; cobra
// keeps them across Execute calls.
func resetFlags() {
	searchMode = "unified"
	searchModel = ""
	searchTemperature = 0
	searchSort = "relevance"
	searchFilter = nil
	searchSources = nil
	searchJSON = false
	starRemove = false
}

// execute runs the root command with args and captures combined output.
func execute(args ...string) (string, error) {
	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
