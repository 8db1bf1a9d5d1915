package domain

import "strings"

// ToolCategory groups remote operations by the kind of resource they act
// on.
type ToolCategory string

// Tool categories.
const (
	CategoryRepository   ToolCategory = "repository"
	CategoryIssues       ToolCategory = "issues"
	CategoryPullRequests ToolCategory = "pull-requests"
	CategoryWorkflow     ToolCategory = "workflow"
	CategoryComments     ToolCategory = "comments"
	CategoryBranches     ToolCategory = "branches"
	CategoryReviews      ToolCategory = "reviews"
	CategoryFiles        ToolCategory = "files"
)

// Tool is one remote operation the code host adapter may invoke, together
// with its risk classification and enabled state.
type Tool struct {
	// Name is the unique tool identifier.
	Name string `json:"name"`

	Description string `json:"description"`

	// Category is assigned by the classification rule table.
	Category ToolCategory `json:"category"`

	// Dangerous marks operations capable of irreversible or high-impact
	// change. Dangerous tools default to disabled.
	Dangerous bool `json:"dangerous"`

	// Enabled gates whether the adapter may invoke the operation.
	Enabled bool `json:"enabled"`

	// InputSchema is the opaque structured description of the tool's
	// parameters. Preserved as-is.
	InputSchema map[string]any `json:"input_schema,omitempty"`
}

// ToolDefinition is the adapter-declared shape of a tool before
// classification.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema,omitempty"`
}

// classificationRule maps a name-substring predicate to a category.
// Rules are evaluated in order, first match wins.
type classificationRule struct {
	substrings      []string
	category        ToolCategory
	forcedDangerous bool
}

// classificationRules is the ordered category rule table. Kept data-driven
// and independent of adapter wiring so it is unit-testable in isolation.
var classificationRules = []classificationRule{
	{substrings: []string{"issue"}, category: CategoryIssues},
	{substrings: []string{"pull_request", "pr"}, category: CategoryPullRequests},
	{substrings: []string{"branch"}, category: CategoryBranches},
	{substrings: []string{"comment", "review"}, category: CategoryReviews},
	{substrings: []string{"file", "content"}, category: CategoryFiles, forcedDangerous: true},
	{substrings: []string{"workflow", "action"}, category: CategoryWorkflow, forcedDangerous: true},
}

// dangerousSubstrings force a tool dangerous regardless of its category.
var dangerousSubstrings = []string{"delete", "merge", "create_or_update"}

// ClassifyTool assigns a category and danger flag to a declared tool.
// Default enabled state is the inverse of dangerous; an enabled dangerous
// tool only ever comes from an explicit saved preference or user action.
func ClassifyTool(def ToolDefinition) Tool {
	category := CategoryRepository
	dangerous := false

	for _, rule := range classificationRules {
		if containsAny(def.Name, rule.substrings) {
			category = rule.category
			dangerous = rule.forcedDangerous
			break
		}
	}

	if containsAny(def.Name, dangerousSubstrings) {
		dangerous = true
	}

	return Tool{
		Name:        def.Name,
		Description: def.Description,
		Category:    category,
		Dangerous:   dangerous,
		Enabled:     !dangerous,
		InputSchema: def.InputSchema,
	}
}

func containsAny(name string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(name, sub) {
			return true
		}
	}
	return false
}
