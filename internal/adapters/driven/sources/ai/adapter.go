// Package ai provides the AI model source adapter using an
// Anthropic-style messages API. The model's answer is returned as a
// single raw item whose content is passed through verbatim: fenced code
// blocks delimited by triple backticks are a contract for downstream
// rendering, never interpreted here.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/unify-search/unify-cli/internal/core/domain"
	"github.com/unify-search/unify-cli/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-sonnet-4-5"
	DefaultTimeout = 60 * time.Second

	// apiVersion is the required API version header.
	apiVersion = "2023-06-01"

	maxTokens = 1024
)

// Adapter queries an AI model and returns its answer as a raw item.
type Adapter struct {
	conn   domain.ServiceConnection
	client *http.Client
	now    func() time.Time
}

// Option configures the Adapter.
type Option func(*Adapter)

// WithHTTPClient overrides the HTTP client. Useful for testing.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) {
		a.client = client
	}
}

// WithClock overrides the time source. Useful for testing.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		a.now = now
	}
}

// New creates an AI adapter from a service connection.
func New(conn domain.ServiceConnection, opts ...Option) *Adapter {
	a := &Adapter{
		conn:   conn,
		client: &http.Client{Timeout: DefaultTimeout},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Type returns the source type.
func (a *Adapter) Type() domain.SourceType {
	return domain.SourceAI
}

// Source returns the display label.
func (a *Adapter) Source() string {
	return "AI Assistant"
}

// Configured reports whether an API key is present.
func (a *Adapter) Configured() bool {
	return a.conn.Configured()
}

// messagesRequest is the /v1/messages request format.
type messagesRequest struct {
	Model       string            `json:"model"`
	Messages    []messagesMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature,omitempty"`
}

// messagesMessage is the chat message format.
type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the /v1/messages response format.
type messagesResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Search sends the query as a prompt to the selected model. The returned
// item's content is the model output, unmodified.
func (a *Adapter) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.RawItem, error) {
	if err := a.conn.Validate(); err != nil {
		return nil, err
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	content, respModel, err := a.complete(ctx, query, model, opts.Temperature)
	if err != nil {
		return nil, err
	}

	item := domain.RawItem{
		ID:        fmt.Sprintf("ai-%s-%d", respModel, a.now().UnixNano()),
		Title:     fmt.Sprintf("AI answer: %s", query),
		URL:       "unify://ai/" + respModel,
		Content:   content,
		Author:    respModel,
		Date:      a.now(),
		Score:     0.95,
		Scored:    true,
		Summary:   firstParagraph(content),
		KeyPoints: bulletPoints(content),
		Metadata: &domain.Metadata{
			AI: &domain.AIMetadata{Model: respModel},
		},
	}

	return []domain.RawItem{item}, nil
}

// complete calls the messages endpoint and returns the answer text and
// the model that produced it.
func (a *Adapter) complete(ctx context.Context, prompt, model string, temperature float64) (string, string, error) {
	baseURL := DefaultBaseURL
	if a.conn.AI != nil && a.conn.AI.BaseURL != "" {
		baseURL = a.conn.AI.BaseURL
	}

	reqBody := messagesRequest{
		Model:       model,
		Messages:    []messagesMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.conn.AI.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", "", fmt.Errorf("%w: model API returned %d", domain.ErrAuthInvalid, resp.StatusCode)
	}

	var decoded messagesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", "", fmt.Errorf("decode response: %w", err)
	}
	if decoded.Error != nil {
		return "", "", fmt.Errorf("model error: %s: %s", decoded.Error.Type, decoded.Error.Message)
	}

	var text strings.Builder
	for _, block := range decoded.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	model = decoded.Model
	if model == "" {
		model = reqBody.Model
	}

	return text.String(), model, nil
}

// firstParagraph returns the first non-code paragraph of the answer, for
// use as the response summary. Content itself is never modified.
func firstParagraph(content string) string {
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence || trimmed == "" || strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return ""
}

// bulletPoints extracts leading "- " bullet lines outside code fences as
// key points, capped at five.
func bulletPoints(content string) []string {
	var points []string
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if strings.HasPrefix(trimmed, "- ") {
			points = append(points, strings.TrimPrefix(trimmed, "- "))
			if len(points) == 5 {
				break
			}
		}
	}
	return points
}
