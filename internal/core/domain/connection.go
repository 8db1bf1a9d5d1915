package domain

import (
	"fmt"
	"strings"
)

// ServiceConnection is the collaborator-supplied descriptor for one
// backend service. It is a tagged union keyed by SourceType: exactly one
// variant is populated, carrying only the credential fields that service
// needs.
type ServiceConnection struct {
	// SourceType identifies which variant is populated.
	SourceType SourceType `json:"source_type"`

	CodeHost     *CodeHostConnection     `json:"codehost,omitempty"`
	IssueTracker *IssueTrackerConnection `json:"issuetracker,omitempty"`
	Wiki         *WikiConnection         `json:"wiki,omitempty"`
	Chat         *ChatConnection         `json:"chat,omitempty"`
	AI           *AIConnection           `json:"ai,omitempty"`
}

// CodeHostConnection holds code host credentials (personal access token).
type CodeHostConnection struct {
	// BaseURL overrides the API base URL for self-hosted instances.
	BaseURL string `json:"base_url,omitempty"`

	// Token is the personal access token.
	Token string `json:"token"`
}

// IssueTrackerConnection holds issue tracker credentials.
type IssueTrackerConnection struct {
	BaseURL  string `json:"base_url"`
	Email    string `json:"email"`
	APIToken string `json:"api_token"`
}

// WikiConnection holds wiki credentials.
type WikiConnection struct {
	BaseURL  string `json:"base_url"`
	Email    string `json:"email"`
	APIToken string `json:"api_token"`
}

// ChatConnection holds chat workspace credentials.
type ChatConnection struct {
	// BaseURL overrides the API base URL. Optional.
	BaseURL string `json:"base_url,omitempty"`

	// BotToken is the workspace bot token.
	BotToken string `json:"bot_token"`
}

// AIConnection holds AI provider credentials.
type AIConnection struct {
	// BaseURL overrides the API base URL. Optional.
	BaseURL string `json:"base_url,omitempty"`

	// APIKey is the provider API key.
	APIKey string `json:"api_key"`
}

// Configured reports whether the connection carries any credentials at
// all. An unconfigured connection makes its adapter contribute an empty
// result set tagged "not configured" rather than failing.
func (c ServiceConnection) Configured() bool {
	switch c.SourceType {
	case SourceCodeHost:
		return c.CodeHost != nil && c.CodeHost.Token != ""
	case SourceIssueTracker:
		return c.IssueTracker != nil && c.IssueTracker.APIToken != ""
	case SourceWiki:
		return c.Wiki != nil && c.Wiki.APIToken != ""
	case SourceChat:
		return c.Chat != nil && c.Chat.BotToken != ""
	case SourceAI:
		return c.AI != nil && c.AI.APIKey != ""
	}
	return false
}

// Validate checks a configured connection for malformed credentials.
// Returns ErrNotConfigured when no credentials are present, ErrAuthInvalid
// when credentials are present but incomplete or malformed. Detected before
// the adapter attempts any network call.
func (c ServiceConnection) Validate() error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	switch c.SourceType {
	case SourceCodeHost:
		if strings.ContainsAny(c.CodeHost.Token, " \t\n") {
			return fmt.Errorf("%w: token contains whitespace", ErrAuthInvalid)
		}
	case SourceIssueTracker:
		if c.IssueTracker.BaseURL == "" || c.IssueTracker.Email == "" {
			return fmt.Errorf("%w: base URL and email are required", ErrAuthInvalid)
		}
	case SourceWiki:
		if c.Wiki.BaseURL == "" || c.Wiki.Email == "" {
			return fmt.Errorf("%w: base URL and email are required", ErrAuthInvalid)
		}
	case SourceChat:
		if !strings.HasPrefix(c.Chat.BotToken, "xoxb-") {
			return fmt.Errorf("%w: bot token must start with xoxb-", ErrAuthInvalid)
		}
	case SourceAI:
		if strings.ContainsAny(c.AI.APIKey, " \t\n") {
			return fmt.Errorf("%w: API key contains whitespace", ErrAuthInvalid)
		}
	}

	return nil
}
