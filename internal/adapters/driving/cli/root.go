// Package cli provides the cobra command tree for the unify binary.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/unify-search/unify-cli/internal/adapters/driven/config/file"
	"github.com/unify-search/unify-cli/internal/adapters/driven/sources/ai"
	"github.com/unify-search/unify-cli/internal/adapters/driven/sources/chat"
	"github.com/unify-search/unify-cli/internal/adapters/driven/sources/codehost"
	"github.com/unify-search/unify-cli/internal/adapters/driven/sources/issuetracker"
	"github.com/unify-search/unify-cli/internal/adapters/driven/sources/web"
	"github.com/unify-search/unify-cli/internal/adapters/driven/sources/wiki"
	"github.com/unify-search/unify-cli/internal/adapters/driven/storage/sqlite"
	"github.com/unify-search/unify-cli/internal/core/domain"
	"github.com/unify-search/unify-cli/internal/core/ports/driven"
	"github.com/unify-search/unify-cli/internal/core/ports/driving"
	"github.com/unify-search/unify-cli/internal/core/services"
	"github.com/unify-search/unify-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services are wired once by initServices and replaced directly in
// tests.
var (
	searchService  driving.SearchService
	catalogService driving.ToolCatalogService
	configStore    driven.ConfigStore
)

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "unify",
	Short: "Search across your code host, tracker, wiki, chat, web and AI",
	Long: `Unify runs one query across every service you work in: code host,
issue tracker, wiki, chat workspace, web search and an AI assistant.
Results are merged, deduplicated and ranked into a single list.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initServices(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.unify)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices wires the adapters and core services from the stored
// configuration. Already-wired services (as in tests) are kept.
func initServices(cmd *cobra.Command) error {
	if searchService != nil && catalogService != nil {
		return nil
	}

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	configStore = store
	if err := store.Watch(cmd.Context()); err != nil {
		logger.Warn("Config watch unavailable: %v", err)
	}

	db, err := sqlite.Open(filepath.Join(filepath.Dir(store.Path()), "unify.db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	catalog, err := services.LoadToolCatalog(cmd.Context(), codehost.DeclaredTools(), db)
	if err != nil {
		return fmt.Errorf("load tool catalog: %w", err)
	}
	catalogService = catalog

	adapters := []driven.SourceAdapter{
		codehost.New(store.Connection(domain.SourceCodeHost), catalog),
		issuetracker.New(store.Connection(domain.SourceIssueTracker)),
		wiki.New(store.Connection(domain.SourceWiki)),
		chat.New(store.Connection(domain.SourceChat)),
		web.New(),
		ai.New(store.Connection(domain.SourceAI)),
	}

	searchService = services.NewDispatcher(adapters, db)
	return nil
}

// ExitOnError prints the error and exits non-zero. Used by main.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
