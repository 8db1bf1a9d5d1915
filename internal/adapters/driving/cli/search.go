package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unify-search/unify-cli/internal/core/domain"
)

var (
	searchMode        string
	searchModel       string
	searchTemperature float64
	searchSort        string
	searchFilter      []string
	searchSources     []string
	searchJSON        bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search across all configured sources",
	Long: `Runs one query across the sources selected by --mode and prints the
merged, ranked result list.

Modes:
  unified  - every enabled source concurrently (default)
  web      - web search only
  ai       - AI assistant only
  apps     - workplace apps only (code host, tracker, wiki, chat)`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", "unified", "search mode (unified, web, ai, apps)")
	searchCmd.Flags().StringVar(&searchModel, "model", "", "AI model for ai/unified modes")
	searchCmd.Flags().Float64Var(&searchTemperature, "temperature", 0, "AI sampling temperature")
	searchCmd.Flags().StringVar(&searchSort, "sort", "relevance", "sort key (relevance, date, source)")
	searchCmd.Flags().StringSliceVar(&searchFilter, "filter", nil, "restrict output to source types, after ranking")
	searchCmd.Flags().StringSliceVar(&searchSources, "sources", nil, "restrict which sources are searched")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output the response as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	filterBy, err := parseSourceTypes(searchFilter)
	if err != nil {
		return err
	}
	enabledSources, err := parseSourceTypes(searchSources)
	if err != nil {
		return err
	}

	req := domain.SearchRequest{
		Query:          args[0],
		Mode:           domain.Mode(searchMode),
		SelectedModel:  searchModel,
		Temperature:    searchTemperature,
		EnabledSources: enabledSources,
		SortBy:         domain.SortKey(searchSort),
		FilterBy:       filterBy,
	}

	resp, err := searchService.Search(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, resp)
	}
	return outputSearchText(cmd, resp)
}

func parseSourceTypes(names []string) ([]domain.SourceType, error) {
	if len(names) == 0 {
		return nil, nil
	}
	types := make([]domain.SourceType, 0, len(names))
	for _, name := range names {
		st := domain.SourceType(strings.ToLower(strings.TrimSpace(name)))
		if !st.IsValid() {
			return nil, fmt.Errorf("unknown source type %q", name)
		}
		types = append(types, st)
	}
	return types, nil
}

func outputSearchJSON(cmd *cobra.Command, resp *domain.SearchResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, resp *domain.SearchResponse) error {
	for _, warning := range resp.Warnings {
		cmd.Printf("warning: %s: %s\n", warning.Source, warning.Message)
	}

	if len(resp.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results (%d of %d, %dms):\n\n", len(resp.Results), resp.TotalResults, resp.ProcessingTimeMS)
	for i, result := range resp.Results {
		star := " "
		if result.Starred {
			star = "*"
		}
		cmd.Printf("%s [%d] %s (%.2f) [%s]\n", star, i+1, result.Title, result.RelevanceScore, result.Source)
		cmd.Printf("      %s\n", result.URL)
		if result.Summary != "" {
			cmd.Printf("      %s\n", result.Summary)
		} else if snippet := firstLine(result.Content); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Printf("      id: %s\n\n", result.ID)
	}

	if resp.Summary != "" {
		cmd.Println("Summary:")
		cmd.Printf("  %s\n\n", resp.Summary)
	}
	for _, insight := range resp.Insights {
		cmd.Printf("insight: %s\n", insight)
	}
	if len(resp.SuggestedQueries) > 0 {
		cmd.Printf("try: %s\n", strings.Join(resp.SuggestedQueries, " | "))
	}

	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	const max = 120
	if len(line) > max {
		return line[:max] + "..."
	}
	return line
}
