package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultEndpoint is the Anthropic Messages API.
	DefaultEndpoint = "https://api.anthropic.com/v1/messages"
	// APIVersion is sent as the anthropic-version header.
	APIVersion = "2023-06-01"
	// DefaultModel is used when no model is configured.
	DefaultModel = "claude-3-sonnet-20240229"
	// DefaultMaxTokens bounds the length of each generated reply.
	DefaultMaxTokens = 1000
	// DefaultTimeout bounds a single request, including reading the body.
	DefaultTimeout = 2 * time.Minute
)

// Message represents a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	Endpoint  string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Client calls the Messages endpoint for single-shot completions.
type Client struct {
	endpoint  string
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
}

// NewClient creates a client authenticated with opts.APIKey.
func NewClient(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{
		endpoint:  opts.Endpoint,
		apiKey:    opts.APIKey,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		client: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

type messagesRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

type contentBlock struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// Generate sends messages and returns the text of the first content block.
// It never retries; every failure is returned as a *RemoteServiceError or a
// *MalformedResponseError.
func (c *Client) Generate(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal messages request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build messages request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", APIVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &RemoteServiceError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RemoteServiceError{Status: resp.StatusCode, Body: string(respBody), Err: err}
	}
	if err != nil {
		return "", &RemoteServiceError{Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	var result messagesResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &MalformedResponseError{Reason: "decode body", Err: err}
	}
	if len(result.Content) == 0 {
		return "", &MalformedResponseError{Reason: "no content blocks"}
	}
	if result.Content[0].Text == nil {
		return "", &MalformedResponseError{Reason: "first content block has no text"}
	}

	return *result.Content[0].Text, nil
}
