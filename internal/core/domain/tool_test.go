package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyToolCategories(t *testing.T) {
	tests := []struct {
		name          string
		wantCategory  ToolCategory
		wantDangerous bool
	}{
		{"search_repositories", CategoryRepository, false},
		{"get_repository", CategoryRepository, false},
		{"create_issue", CategoryIssues, false},
		{"search_issues", CategoryIssues, false},
		{"create_pull_request", CategoryPullRequests, false},
		{"get_pr_status", CategoryPullRequests, false},
		{"create_branch", CategoryBranches, false},
		{"list_branches", CategoryBranches, false},
		{"add_comment", CategoryReviews, false},
		{"request_review", CategoryReviews, false},
		{"get_file_contents", CategoryFiles, true},
		{"list_contents", CategoryFiles, true},
		{"trigger_workflow", CategoryWorkflow, true},
		{"list_actions", CategoryWorkflow, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := ClassifyTool(ToolDefinition{Name: tt.name})
			assert.Equal(t, tt.wantCategory, tool.Category)
			assert.Equal(t, tt.wantDangerous, tool.Dangerous)
			assert.Equal(t, !tt.wantDangerous, tool.Enabled, "enabled defaults to NOT dangerous")
		})
	}
}

func TestClassifyToolFirstMatchWins(t *testing.T) {
	// "issue_comment" contains both "issue" and "comment"; the issue rule
	// comes first in the table.
	tool := ClassifyTool(ToolDefinition{Name: "create_issue_comment"})
	assert.Equal(t, CategoryIssues, tool.Category)
}

func TestClassifyToolForcedDangerous(t *testing.T) {
	tests := []struct {
		name         string
		wantCategory ToolCategory
	}{
		{"delete_repository", CategoryRepository},
		{"merge_pull_request", CategoryPullRequests},
		{"create_or_update_file", CategoryFiles},
		{"delete_branch", CategoryBranches},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := ClassifyTool(ToolDefinition{Name: tt.name})
			assert.Equal(t, tt.wantCategory, tool.Category)
			assert.True(t, tool.Dangerous)
			assert.False(t, tool.Enabled, "dangerous tools default to disabled")
		})
	}
}

func TestClassifyToolPreservesSchema(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string"},
		},
	}
	tool := ClassifyTool(ToolDefinition{
		Name:        "search_repositories",
		Description: "Search repositories by keyword",
		InputSchema: schema,
	})
	assert.Equal(t, "Search repositories by keyword", tool.Description)
	assert.Equal(t, schema, tool.InputSchema)
}
