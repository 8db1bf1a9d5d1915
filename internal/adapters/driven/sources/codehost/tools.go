package codehost

import "github.com/unify-search/unify-cli/internal/core/domain"

// stringParam builds a minimal JSON-schema object with string properties.
func stringParam(required []string, names ...string) map[string]any {
	props := make(map[string]any, len(names))
	for _, name := range names {
		props[name] = map[string]any{"type": "string"}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// DeclaredTools lists every remote operation this adapter can invoke.
// The catalog classifies and gates them; the adapter consults the gate
// before each call.
func DeclaredTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        "search_repositories",
			Description: "Search repositories by keyword",
			InputSchema: stringParam([]string{"query"}, "query"),
		},
		{
			Name:        "search_issues",
			Description: "Search issues and pull requests by keyword",
			InputSchema: stringParam([]string{"query"}, "query"),
		},
		{
			Name:        "search_code",
			Description: "Search file contents by keyword",
			InputSchema: stringParam([]string{"query"}, "query"),
		},
		{
			Name:        "get_file_contents",
			Description: "Read a file from a repository",
			InputSchema: stringParam([]string{"repository", "path"}, "repository", "path", "ref"),
		},
		{
			Name:        "create_issue",
			Description: "Open a new issue",
			InputSchema: stringParam([]string{"repository", "title"}, "repository", "title", "body"),
		},
		{
			Name:        "create_issue_comment",
			Description: "Comment on an issue",
			InputSchema: stringParam([]string{"repository", "issue", "body"}, "repository", "issue", "body"),
		},
		{
			Name:        "create_pull_request",
			Description: "Open a pull request",
			InputSchema: stringParam([]string{"repository", "title", "head", "base"}, "repository", "title", "body", "head", "base"),
		},
		{
			Name:        "merge_pull_request",
			Description: "Merge a pull request",
			InputSchema: stringParam([]string{"repository", "number"}, "repository", "number", "strategy"),
		},
		{
			Name:        "get_pull_request_reviews",
			Description: "List reviews on a pull request",
			InputSchema: stringParam([]string{"repository", "number"}, "repository", "number"),
		},
		{
			Name:        "create_review_comment",
			Description: "Comment on a pull request review thread",
			InputSchema: stringParam([]string{"repository", "number", "body"}, "repository", "number", "body", "path"),
		},
		{
			Name:        "create_or_update_file",
			Description: "Write a file to a repository",
			InputSchema: stringParam([]string{"repository", "path", "content", "message"}, "repository", "path", "content", "message", "branch"),
		},
		{
			Name:        "delete_file",
			Description: "Delete a file from a repository",
			InputSchema: stringParam([]string{"repository", "path", "message"}, "repository", "path", "message", "branch"),
		},
		{
			Name:        "create_branch",
			Description: "Create a branch",
			InputSchema: stringParam([]string{"repository", "name"}, "repository", "name", "from"),
		},
		{
			Name:        "list_branches",
			Description: "List branches in a repository",
			InputSchema: stringParam([]string{"repository"}, "repository"),
		},
		{
			Name:        "list_workflows",
			Description: "List workflow runs in a repository",
			InputSchema: stringParam([]string{"repository"}, "repository"),
		},
		{
			Name:        "trigger_workflow",
			Description: "Dispatch a workflow run",
			InputSchema: stringParam([]string{"repository", "workflow"}, "repository", "workflow", "ref"),
		},
		{
			Name:        "delete_repository",
			Description: "Delete a repository",
			InputSchema: stringParam([]string{"repository"}, "repository"),
		},
	}
}
