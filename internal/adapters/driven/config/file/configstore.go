// Package file provides a TOML-backed configuration store kept in the
// unify config directory.
package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/unify-search/unify-cli/internal/core/domain"
	"github.com/unify-search/unify-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.ConfigStore using
// TOML. Nested tables are flattened to dot-notation keys.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewConfigStore creates a TOML-based config store. If configDir is
// empty, defaults to ~/.unify/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".unify")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
	}

	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}

	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	val, ok := s.Get(key)
	if !ok {
		return false
	}

	b, ok := val.(bool)
	if !ok {
		return false
	}
	return b
}

// Set stores a configuration value and persists immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes configuration to the TOML file (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(unflattenMap(s.data))
	if err != nil {
		return err
	}

	// Credentials live here, keep permissions restricted.
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads configuration from the TOML file. A missing file starts
// empty.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]any)
			return nil
		}
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}

	s.data = flattenMap(loaded, "")
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// stringOrEnv reads a config key, falling back to an environment
// variable so tokens can come from a .env file instead of the config.
func (s *ConfigStore) stringOrEnv(key, envName string) string {
	if val := s.GetString(key); val != "" {
		return val
	}
	return os.Getenv(envName)
}

// Connection builds the service connection descriptor for a source type
// from stored configuration, with environment fallbacks for secrets.
func (s *ConfigStore) Connection(sourceType domain.SourceType) domain.ServiceConnection {
	conn := domain.ServiceConnection{SourceType: sourceType}

	switch sourceType {
	case domain.SourceCodeHost:
		conn.CodeHost = &domain.CodeHostConnection{
			BaseURL: s.GetString("codehost.base_url"),
			Token:   s.stringOrEnv("codehost.token", "UNIFY_CODEHOST_TOKEN"),
		}
	case domain.SourceIssueTracker:
		conn.IssueTracker = &domain.IssueTrackerConnection{
			BaseURL:  s.GetString("issuetracker.base_url"),
			Email:    s.GetString("issuetracker.email"),
			APIToken: s.stringOrEnv("issuetracker.api_token", "UNIFY_ISSUETRACKER_TOKEN"),
		}
	case domain.SourceWiki:
		conn.Wiki = &domain.WikiConnection{
			BaseURL:  s.GetString("wiki.base_url"),
			Email:    s.GetString("wiki.email"),
			APIToken: s.stringOrEnv("wiki.api_token", "UNIFY_WIKI_TOKEN"),
		}
	case domain.SourceChat:
		conn.Chat = &domain.ChatConnection{
			BaseURL:  s.GetString("chat.base_url"),
			BotToken: s.stringOrEnv("chat.bot_token", "UNIFY_CHAT_TOKEN"),
		}
	case domain.SourceAI:
		conn.AI = &domain.AIConnection{
			BaseURL: s.GetString("ai.base_url"),
			APIKey:  s.stringOrEnv("ai.api_key", "UNIFY_AI_API_KEY"),
		}
	}

	return conn
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
			continue
		}
		result[fullKey] = value
	}

	return result
}

// unflattenMap converts dot-notation keys back to nested maps so the
// written TOML uses tables.
func unflattenMap(m map[string]any) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		parts := strings.Split(key, ".")
		node := result
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}

	return result
}
