// Package chat provides the chat source adapter for Slack-compatible
// workspace APIs.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/unify-search/unify-cli/internal/core/domain"
	"github.com/unify-search/unify-cli/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://slack.com"
	DefaultTimeout = 30 * time.Second
	DefaultLimit   = 25
)

// Adapter searches messages via the Slack search API.
type Adapter struct {
	conn   domain.ServiceConnection
	client *http.Client
}

// Option configures the Adapter.
type Option func(*Adapter)

// WithHTTPClient overrides the HTTP client. Useful for testing.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) {
		a.client = client
	}
}

// New creates a chat adapter from a service connection.
func New(conn domain.ServiceConnection, opts ...Option) *Adapter {
	a := &Adapter{
		conn:   conn,
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Type returns the source type.
func (a *Adapter) Type() domain.SourceType {
	return domain.SourceChat
}

// Source returns the display label.
func (a *Adapter) Source() string {
	return "Slack"
}

// Configured reports whether a bot token is present.
func (a *Adapter) Configured() bool {
	return a.conn.Configured()
}

// searchResponse is the /api/search.messages response shape.
type searchResponse struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
	Messages struct {
		Total   int `json:"total"`
		Matches []struct {
			Username  string `json:"username"`
			Timestamp string `json:"ts"`
			Text      string `json:"text"`
			Permalink string `json:"permalink"`
			Channel   struct {
				Name string `json:"name"`
			} `json:"channel"`
		} `json:"matches"`
	} `json:"messages"`
}

// Search runs a message search and maps matches onto raw items. Chat
// results carry no adapter score; the ranker derives one.
func (a *Adapter) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.RawItem, error) {
	if err := a.conn.Validate(); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	base := DefaultBaseURL
	if a.conn.Chat.BaseURL != "" {
		base = strings.TrimSuffix(a.conn.Chat.BaseURL, "/")
	}
	endpoint := fmt.Sprintf("%s/api/search.messages?query=%s&count=%d", base, url.QueryEscape(query), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.conn.Chat.BotToken)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, domain.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	// Slack reports failures as ok:false with HTTP 200.
	if !decoded.OK {
		switch decoded.Error {
		case "invalid_auth", "not_authed", "token_revoked", "account_inactive":
			return nil, fmt.Errorf("%w: %s", domain.ErrAuthInvalid, decoded.Error)
		case "ratelimited":
			return nil, domain.ErrRateLimited
		default:
			return nil, fmt.Errorf("API error: %s", decoded.Error)
		}
	}

	items := make([]domain.RawItem, 0, len(decoded.Messages.Matches))
	for _, match := range decoded.Messages.Matches {
		title := match.Text
		if match.Channel.Name != "" {
			title = fmt.Sprintf("#%s: %s", match.Channel.Name, firstLine(match.Text))
		}

		var tags []string
		if match.Channel.Name != "" {
			tags = []string{match.Channel.Name}
		}

		items = append(items, domain.RawItem{
			ID:      "slack-" + match.Timestamp,
			Title:   title,
			URL:     match.Permalink,
			Content: match.Text,
			Author:  match.Username,
			Date:    timestampToTime(match.Timestamp),
			Tags:    tags,
		})
	}

	return items, nil
}

// timestampToTime converts a Slack "seconds.fraction" timestamp. Returns
// the zero time on unparseable input; the normaliser fills the fallback.
func timestampToTime(ts string) time.Time {
	seconds, _, _ := strings.Cut(ts, ".")
	epoch, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(epoch, 0).UTC()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
