// Package wiki provides the wiki source adapter for Confluence-compatible
// REST APIs.
package wiki

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/unify-search/unify-cli/internal/core/domain"
	"github.com/unify-search/unify-cli/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second
	DefaultLimit   = 25
)

// Adapter searches pages via the Confluence CQL search API.
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

// New creates a wiki adapter from a service connection.
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
	return domain.SourceWiki
}

// Source returns the display label.
func (a *Adapter) Source() string {
	return "Confluence"
}

// Configured reports whether an API token is present.
func (a *Adapter) Configured() bool {
	return a.conn.Configured()
}

// cqlResponse is the /rest/api/search response shape.
type cqlResponse struct {
	Results []struct {
		Content struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			Links struct {
				WebUI string `json:"webui"`
			} `json:"_links"`
		} `json:"content"`
		Excerpt               string `json:"excerpt"`
		LastModified          string `json:"lastModified"`
		ResultGlobalContainer struct {
			Title string `json:"title"`
		} `json:"resultGlobalContainer"`
	} `json:"results"`
	Links struct {
		Base string `json:"base"`
	} `json:"_links"`
}

// Search runs a CQL site search and maps pages onto raw items. Wiki
// results carry no adapter score; the ranker derives one.
func (a *Adapter) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.RawItem, error) {
	if err := a.conn.Validate(); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	base := strings.TrimSuffix(a.conn.Wiki.BaseURL, "/")
	cql := fmt.Sprintf(`siteSearch ~ %q`, query)
	endpoint := fmt.Sprintf("%s/rest/api/search?cql=%s&limit=%d", base, url.QueryEscape(cql), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	credentials := a.conn.Wiki.Email + ":" + a.conn.Wiki.APIToken
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(credentials)))
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search pages: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: API returned %d", domain.ErrAuthInvalid, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("API returned %d", resp.StatusCode)
	}

	var decoded cqlResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	linkBase := decoded.Links.Base
	if linkBase == "" {
		linkBase = base
	}

	items := make([]domain.RawItem, 0, len(decoded.Results))
	for _, result := range decoded.Results {
		var date time.Time
		if result.LastModified != "" {
			if parsed, err := time.Parse(time.RFC3339, result.LastModified); err == nil {
				date = parsed
			}
		}

		var tags []string
		if result.ResultGlobalContainer.Title != "" {
			tags = []string{result.ResultGlobalContainer.Title}
		}

		items = append(items, domain.RawItem{
			ID:      "wiki-" + result.Content.ID,
			Title:   result.Content.Title,
			URL:     linkBase + result.Content.Links.WebUI,
			Content: stripExcerptMarkup(result.Excerpt),
			Date:    date,
			Tags:    tags,
		})
	}

	return items, nil
}

// stripExcerptMarkup removes the highlight markers Confluence embeds in
// search excerpts.
func stripExcerptMarkup(excerpt string) string {
	replacer := strings.NewReplacer("@@@hl@@@", "", "@@@endhl@@@", "")
	return replacer.Replace(excerpt)
}
