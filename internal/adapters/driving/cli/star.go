package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var starRemove bool

var starCmd = &cobra.Command{
	Use:   "star [result-id]",
	Short: "Star a result so it stays marked in future searches",
	Long: `Stars the result with the given id. Starred state is the only result
property that persists across searches; use --remove to unstar.`,
	Args: cobra.ExactArgs(1),
	RunE: runStar,
}

func init() {
	starCmd.Flags().BoolVar(&starRemove, "remove", false, "unstar instead of star")
	rootCmd.AddCommand(starCmd)
}

func runStar(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	resultID := args[0]
	if err := searchService.SetStarred(cmd.Context(), resultID, !starRemove); err != nil {
		return fmt.Errorf("update star: %w", err)
	}

	if starRemove {
		cmd.Printf("Unstarred %s\n", resultID)
	} else {
		cmd.Printf("Starred %s\n", resultID)
	}
	return nil
}
