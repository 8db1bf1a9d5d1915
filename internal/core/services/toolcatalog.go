package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/unify-search/unify-cli/internal/core/domain"
	"github.com/unify-search/unify-cli/internal/core/ports/driven"
	"github.com/unify-search/unify-cli/internal/core/ports/driving"
	"github.com/unify-search/unify-cli/internal/logger"
)

// Ensure ToolCatalog implements the interfaces.
var (
	_ driving.ToolCatalogService = (*ToolCatalog)(nil)
	_ driven.ToolGate            = (*ToolCatalog)(nil)
)

// toolPrefsKey is the blob store key holding the persisted tool list.
const toolPrefsKey = "tool_catalog"

// ToolCatalog maintains, classifies and persists the enabled/disabled
// state of the remote operations exposed by the code host adapter. It is
// loaded once per session, mutated by user toggles, and explicitly
// persisted on save; it outlives any single search.
type ToolCatalog struct {
	mu    sync.RWMutex
	store driven.BlobStore
	tools map[string]*domain.Tool
	order []string
}

// persistedTool is the stored shape of one catalog entry.
type persistedTool struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    domain.ToolCategory `json:"category"`
	Enabled     bool                `json:"enabled"`
	Dangerous   bool                `json:"dangerous"`
	InputSchema map[string]any      `json:"input_schema,omitempty"`
}

// LoadToolCatalog builds a catalog from the adapter-declared tool list
// and merges previously persisted preferences. A matching saved entry's
// enabled value overrides the computed default; saved entries with no
// matching current tool are discarded, which tolerates upstream schema
// drift. A corrupt saved blob is discarded with a logged warning and the
// computed defaults stand.
func LoadToolCatalog(ctx context.Context, declared []domain.ToolDefinition, store driven.BlobStore) (*ToolCatalog, error) {
	c := &ToolCatalog{
		store: store,
		tools: make(map[string]*domain.Tool, len(declared)),
		order: make([]string, 0, len(declared)),
	}

	for _, def := range declared {
		tool := domain.ClassifyTool(def)
		c.tools[tool.Name] = &tool
		c.order = append(c.order, tool.Name)
	}

	saved, err := loadSavedPreferences(ctx, store)
	if err != nil {
		// Corrupt preferences are never user-fatal. Computed defaults
		// stand and the next save overwrites the bad blob.
		logger.Warn("Discarding corrupt tool preferences: %v", err)
	}

	merged := 0
	for name, enabled := range saved {
		if tool, ok := c.tools[name]; ok {
			tool.Enabled = enabled
			merged++
		}
	}
	logger.Debug("Tool catalog loaded: %d tools, %d saved preferences applied", len(c.order), merged)

	return c, nil
}

// loadSavedPreferences reads the persisted tool list and returns the
// saved enabled state by tool name.
func loadSavedPreferences(ctx context.Context, store driven.BlobStore) (map[string]bool, error) {
	if store == nil {
		return nil, nil
	}

	blob, ok, err := store.Get(ctx, toolPrefsKey)
	if err != nil {
		return nil, fmt.Errorf("read tool preferences: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var entries []persistedTool
	if err := json.Unmarshal(blob, &entries); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorruptPreferences, err)
	}

	saved := make(map[string]bool, len(entries))
	for _, e := range entries {
		saved[e.Name] = e.Enabled
	}
	return saved, nil
}

// Tools returns every tool in declaration order.
func (c *ToolCatalog) Tools() []domain.Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tools := make([]domain.Tool, 0, len(c.order))
	for _, name := range c.order {
		tools = append(tools, *c.tools[name])
	}
	return tools
}

// ToolEnabled reports whether the named tool may be invoked.
// Unknown tools are treated as disabled.
func (c *ToolCatalog) ToolEnabled(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tool, ok := c.tools[name]
	return ok && tool.Enabled
}

// Toggle flips one tool's enabled state.
func (c *ToolCatalog) Toggle(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tool, ok := c.tools[name]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrToolNotFound, name)
	}
	tool.Enabled = !tool.Enabled
	logger.Debug("Tool %q toggled to enabled=%t", name, tool.Enabled)
	return nil
}

// ToggleCategory sets every tool in the category to the opposite of
// "all tools in the category are currently enabled": all enabled means
// disable all, otherwise enable all.
func (c *ToolCatalog) ToggleCategory(category domain.ToolCategory) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.toggleWhere(func(t *domain.Tool) bool {
		return t.Category == category
	})
}

// ToggleAll applies the ToggleCategory rule across the whole catalog.
func (c *ToolCatalog) ToggleAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.toggleWhere(func(*domain.Tool) bool { return true })
}

// toggleWhere applies the all-enabled inversion rule to the matching
// subset. Caller holds the lock.
func (c *ToolCatalog) toggleWhere(match func(*domain.Tool) bool) {
	allEnabled := true
	any := false
	for _, name := range c.order {
		tool := c.tools[name]
		if !match(tool) {
			continue
		}
		any = true
		if !tool.Enabled {
			allEnabled = false
		}
	}
	if !any {
		return
	}

	target := !allEnabled
	for _, name := range c.order {
		tool := c.tools[name]
		if match(tool) {
			tool.Enabled = target
		}
	}
}

// Save persists the full tool list as one atomic whole-record write.
func (c *ToolCatalog) Save(ctx context.Context) error {
	c.mu.RLock()
	entries := make([]persistedTool, 0, len(c.order))
	for _, name := range c.order {
		tool := c.tools[name]
		entries = append(entries, persistedTool{
			Name:        tool.Name,
			Description: tool.Description,
			Category:    tool.Category,
			Enabled:     tool.Enabled,
			Dangerous:   tool.Dangerous,
			InputSchema: tool.InputSchema,
		})
	}
	c.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	blob, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode tool catalog: %w", err)
	}
	if err := c.store.Put(ctx, toolPrefsKey, blob); err != nil {
		return fmt.Errorf("persist tool catalog: %w", err)
	}

	logger.Info("Tool catalog saved: %d tools", len(entries))
	return nil
}
