package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unify-search/unify-cli/internal/core/domain"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Manage code host tool permissions",
	Long: `List and toggle the remote operations the code host adapter may
invoke. Dangerous operations (deletes, merges, writes) start disabled
and stay disabled until explicitly enabled here.`,
	RunE: runToolsList,
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tools and their state",
	RunE:  runToolsList,
}

var toolsToggleCmd = &cobra.Command{
	Use:   "toggle [name]",
	Short: "Flip one tool's enabled state",
	Args:  cobra.ExactArgs(1),
	RunE:  runToolsToggle,
}

var toolsToggleCategoryCmd = &cobra.Command{
	Use:   "toggle-category [category]",
	Short: "Toggle every tool in a category",
	Long: `Disables the category when every tool in it is enabled, enables it
otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runToolsToggleCategory,
}

var toolsToggleAllCmd = &cobra.Command{
	Use:   "toggle-all",
	Short: "Toggle every tool in the catalog",
	RunE:  runToolsToggleAll,
}

func init() {
	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsToggleCmd)
	toolsCmd.AddCommand(toolsToggleCategoryCmd)
	toolsCmd.AddCommand(toolsToggleAllCmd)
	rootCmd.AddCommand(toolsCmd)
}

func runToolsList(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("tool catalog not configured")
	}

	tools := catalogService.Tools()
	byCategory := make(map[domain.ToolCategory][]domain.Tool)
	for _, tool := range tools {
		byCategory[tool.Category] = append(byCategory[tool.Category], tool)
	}

	categories := []domain.ToolCategory{
		domain.CategoryRepository, domain.CategoryIssues, domain.CategoryPullRequests,
		domain.CategoryBranches, domain.CategoryReviews, domain.CategoryComments,
		domain.CategoryFiles, domain.CategoryWorkflow,
	}
	for _, category := range categories {
		grouped := byCategory[category]
		if len(grouped) == 0 {
			continue
		}
		cmd.Printf("\n[%s]\n", category)
		for _, tool := range grouped {
			state := "disabled"
			if tool.Enabled {
				state = "enabled"
			}
			marker := " "
			if tool.Dangerous {
				marker = "!"
			}
			cmd.Printf("  %s %-28s %-8s %s\n", marker, tool.Name, state, tool.Description)
		}
	}
	cmd.Println()
	return nil
}

func runToolsToggle(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("tool catalog not configured")
	}

	name := args[0]
	if err := catalogService.Toggle(name); err != nil {
		return fmt.Errorf("toggle %q: %w", name, err)
	}
	if err := catalogService.Save(cmd.Context()); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	cmd.Printf("Toggled %s\n", name)
	return nil
}

func runToolsToggleCategory(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("tool catalog not configured")
	}

	catalogService.ToggleCategory(domain.ToolCategory(args[0]))
	if err := catalogService.Save(cmd.Context()); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	cmd.Printf("Toggled category %s\n", args[0])
	return nil
}

func runToolsToggleAll(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("tool catalog not configured")
	}

	catalogService.ToggleAll()
	if err := catalogService.Save(cmd.Context()); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	cmd.Println("Toggled all tools")
	return nil
}
