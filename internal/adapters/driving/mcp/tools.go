package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/unify-search/unify-cli/internal/core/domain"
)

// SearchInput is the input schema for the unified_search tool.
type SearchInput struct {
	Query   string   `json:"query" jsonschema:"the search query"`
	Mode    string   `json:"mode,omitempty" jsonschema:"search mode: unified, web, ai or apps (default unified)"`
	Model   string   `json:"model,omitempty" jsonschema:"AI model identifier for ai-backed modes"`
	SortBy  string   `json:"sort_by,omitempty" jsonschema:"sort key: relevance, date or source"`
	Sources []string `json:"sources,omitempty" jsonschema:"restrict which source types are searched"`
}

// SearchOutput is the output schema for the unified_search tool.
type SearchOutput struct {
	Results          []SearchResultOutput `json:"results"`
	TotalResults     int                  `json:"total_results"`
	ProcessingTimeMS int64                `json:"processing_time_ms"`
	Summary          string               `json:"summary,omitempty"`
	Insights         []string             `json:"insights,omitempty"`
	Warnings         []string             `json:"warnings,omitempty"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ID      string  `json:"id"`
	Source  string  `json:"source"`
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Score   float64 `json:"score"`
	Content string  `json:"content,omitempty"`
	Starred bool    `json:"starred,omitempty"`
}

// StarInput is the input schema for the star_result tool.
type StarInput struct {
	ResultID string `json:"result_id" jsonschema:"the result id to star or unstar"`
	Starred  bool   `json:"starred" jsonschema:"true to star, false to unstar"`
}

// StarOutput is the output schema for the star_result tool.
type StarOutput struct {
	ResultID string `json:"result_id"`
	Starred  bool   `json:"starred"`
}

// ListToolsOutput is the output schema for the list_host_tools tool.
type ListToolsOutput struct {
	Tools []HostToolOutput `json:"tools"`
}

// HostToolOutput represents one catalog entry.
type HostToolOutput struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Dangerous bool   `json:"dangerous"`
	Enabled   bool   `json:"enabled"`
}

// ToggleToolInput is the input schema for the toggle_host_tool tool.
type ToggleToolInput struct {
	Name string `json:"name" jsonschema:"the catalog tool name to toggle"`
}

// ToggleToolOutput is the output schema for the toggle_host_tool tool.
type ToggleToolOutput struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "unified_search",
		Description: "Search across code host, issue tracker, wiki, chat, web and AI sources",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "star_result",
		Description: "Star or unstar a search result so it stays marked across searches",
	}, s.handleStar)

	if s.ports.Catalog == nil {
		return
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_host_tools",
		Description: "List the code host tool catalog with enabled state",
	}, s.handleListTools)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "toggle_host_tool",
		Description: "Flip one code host tool's enabled state and persist the catalog",
	}, s.handleToggleTool)
}

// handleSearch handles the unified_search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	mode := domain.Mode(input.Mode)
	if input.Mode == "" {
		mode = domain.ModeUnified
	}

	sources := make([]domain.SourceType, 0, len(input.Sources))
	for _, name := range input.Sources {
		sources = append(sources, domain.SourceType(name))
	}

	req := domain.SearchRequest{
		Query:          input.Query,
		Mode:           mode,
		SelectedModel:  input.Model,
		EnabledSources: sources,
		SortBy:         domain.SortKey(input.SortBy),
	}

	resp, err := s.ports.Search.Search(ctx, req)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results:          make([]SearchResultOutput, len(resp.Results)),
		TotalResults:     resp.TotalResults,
		ProcessingTimeMS: resp.ProcessingTimeMS,
		Summary:          resp.Summary,
		Insights:         resp.Insights,
	}
	for _, warning := range resp.Warnings {
		output.Warnings = append(output.Warnings, warning.Source+": "+warning.Message)
	}
	for i := range resp.Results {
		result := &resp.Results[i]
		output.Results[i] = SearchResultOutput{
			ID:      result.ID,
			Source:  result.Source,
			Title:   result.Title,
			URL:     result.URL,
			Score:   result.RelevanceScore,
			Content: result.Content,
			Starred: result.Starred,
		}
	}

	return nil, output, nil
}

// handleStar handles the star_result tool invocation.
func (s *Server) handleStar(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StarInput,
) (*mcp.CallToolResult, StarOutput, error) {
	if err := s.ports.Search.SetStarred(ctx, input.ResultID, input.Starred); err != nil {
		return nil, StarOutput{}, err
	}
	return nil, StarOutput{ResultID: input.ResultID, Starred: input.Starred}, nil
}

// handleListTools handles the list_host_tools tool invocation.
func (s *Server) handleListTools(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListToolsOutput, error) {
	tools := s.ports.Catalog.Tools()

	output := ListToolsOutput{Tools: make([]HostToolOutput, len(tools))}
	for i, tool := range tools {
		output.Tools[i] = HostToolOutput{
			Name:      tool.Name,
			Category:  string(tool.Category),
			Dangerous: tool.Dangerous,
			Enabled:   tool.Enabled,
		}
	}

	return nil, output, nil
}

// handleToggleTool handles the toggle_host_tool tool invocation.
func (s *Server) handleToggleTool(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ToggleToolInput,
) (*mcp.CallToolResult, ToggleToolOutput, error) {
	if err := s.ports.Catalog.Toggle(input.Name); err != nil {
		return nil, ToggleToolOutput{}, err
	}
	if err := s.ports.Catalog.Save(ctx); err != nil {
		return nil, ToggleToolOutput{}, err
	}

	return nil, ToggleToolOutput{
		Name:    input.Name,
		Enabled: s.ports.Catalog.ToolEnabled(input.Name),
	}, nil
}
