package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zatekoja/emergencyassist/backend/internal/domain/providers"
	"github.com/zatekoja/emergencyassist/backend/internal/infrastructure/observability"
	"github.com/zatekoja/emergencyassist/backend/pkg/config"
)

const (
	providerName       = "openrouter"
	defaultBaseURL     = "https://openrouter.ai/api/v1"
	defaultModel       = "openai/gpt-4o-mini"
	defaultHTTPTimeout = 20 * time.Second
	maxErrorBodyBytes  = 2048
)

// Client implements providers.ChatCompletionProvider against an
// OpenAI-compatible /chat/completions endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
}

// NewClient creates a new chat-completion client. A missing API key is
// accepted; requests then fail with an unauthorized error.
func NewClient(cfg *config.TriageConfig, metrics *observability.Metrics) *Client {
	return NewClientWithOptions(cfg, metrics, nil)
}

// NewClientWithOptions allows overriding the HTTP client (used for tests).
func NewClientWithOptions(cfg *config.TriageConfig, metrics *observability.Metrics, httpClient *http.Client) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: httpClient,
		metrics:    metrics,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return providerName
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the conversation and returns the trimmed text of the first choice.
func (c *Client) Complete(ctx context.Context, messages []providers.ChatMessage) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: openrouter api key is not configured", providers.ErrChatProviderUnauthorized)
	}
	if len(messages) == 0 {
		return "", errors.New("at least one message is required")
	}

	payload := chatCompletionRequest{
		Model:    c.model,
		Messages: make([]chatMessage, 0, len(messages)),
	}
	for _, m := range messages {
		payload.Messages = append(payload.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.RecordUpstreamMetric(ctx, c.metrics, providerName, 0, time.Since(start), err)
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		statusErr := fmt.Errorf("openrouter request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
		observability.RecordUpstreamMetric(ctx, c.metrics, providerName, resp.StatusCode, time.Since(start), statusErr)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return "", fmt.Errorf("%w: %v", providers.ErrChatProviderUnauthorized, statusErr)
		}
		return "", statusErr
	}

	var decoded chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		observability.RecordUpstreamMetric(ctx, c.metrics, providerName, resp.StatusCode, time.Since(start), err)
		return "", fmt.Errorf("failed to decode chat completion response: %w", err)
	}

	if len(decoded.Choices) == 0 {
		err := errors.New("openrouter response has no choices")
		observability.RecordUpstreamMetric(ctx, c.metrics, providerName, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	observability.RecordUpstreamMetric(ctx, c.metrics, providerName, resp.StatusCode, time.Since(start), nil)
	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}
