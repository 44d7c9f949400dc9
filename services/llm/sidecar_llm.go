package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// SidecarClient talks to an LLM sidecar container over its plain HTTP
// contract: POST /chat with {messages, json_mode, temperature,
// max_tokens}, GET /health and GET /model for probing. The sidecar
// hides which model runtime actually serves the request.
type SidecarClient struct {
	baseURL    string
	httpClient *http.Client
	stats      *CallStats

	mu    sync.Mutex
	model string
}

var _ Client = (*SidecarClient)(nil)

// NewSidecarClient creates a client for the sidecar at baseURL.
// timeout bounds each request; zero means 120s.
func NewSidecarClient(baseURL string, timeout time.Duration, stats *CallStats) *SidecarClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	c := &SidecarClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		stats:      stats,
	}
	slog.Info("LLM sidecar client initialized", "base_url", c.baseURL)
	return c
}

func (c *SidecarClient) ProviderName() string { return "sidecar" }

// ModelName returns the model reported by the sidecar, or "unknown"
// until the first successful call.
func (c *SidecarClient) ModelName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.model == "" {
		return "unknown"
	}
	return c.model
}

type sidecarChatRequest struct {
	Messages    []Message `json:"messages"`
	JSONMode    bool      `json:"json_mode"`
	Temperature *float32  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

type sidecarChatResponse struct {
	Content    string `json:"content"`
	Model      string `json:"model"`
	TokensUsed int    `json:"tokens_used"`
}

// Chat implements the Client interface.
func (c *SidecarClient) Chat(ctx context.Context, messages []Message, params ChatParams) (*Response, error) {
	start := time.Now()

	payload := sidecarChatRequest{
		Messages:    messages,
		JSONMode:    params.JSONMode,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal sidecar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build sidecar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		c.recordFailure(latency, err.Error())
		return nil, fmt.Errorf("sidecar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		c.recordFailure(latency, msg)
		return nil, fmt.Errorf("sidecar returned %s", msg)
	}

	var parsed sidecarChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.recordFailure(latency, err.Error())
		return nil, fmt.Errorf("decode sidecar response: %w", err)
	}

	if parsed.Model != "" {
		c.mu.Lock()
		c.model = parsed.Model
		c.mu.Unlock()
	}
	if c.stats != nil {
		c.stats.RecordSuccess(latency, parsed.TokensUsed)
	}
	slog.Debug("sidecar response received",
		"latency_ms", latency.Milliseconds(),
		"tokens", parsed.TokensUsed,
		"content_len", len(parsed.Content),
	)
	return &Response{
		Content:    parsed.Content,
		Model:      parsed.Model,
		TokensUsed: parsed.TokensUsed,
		Latency:    latency,
	}, nil
}

// Probe checks the sidecar /health endpoint and refreshes the cached
// model name on success.
func (c *SidecarClient) Probe(ctx context.Context) (time.Duration, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		return latency, fmt.Errorf("sidecar health check failed: %w", err)
	}
	defer resp.Body.Close()

	var health struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return latency, fmt.Errorf("decode health response: %w", err)
	}
	if health.Status != "ok" {
		if health.Error == "" {
			health.Error = "service not ready"
		}
		return latency, fmt.Errorf("sidecar degraded: %s", health.Error)
	}

	c.refreshModelName(ctx)
	return latency, nil
}

func (c *SidecarClient) refreshModelName(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/model", nil)
	if err != nil {
		return
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	var model struct {
		Name string `json:"name"`
	}
	if json.NewDecoder(resp.Body).Decode(&model) == nil && model.Name != "" {
		c.mu.Lock()
		c.model = model.Name
		c.mu.Unlock()
	}
}

func (c *SidecarClient) recordFailure(latency time.Duration, msg string) {
	if c.stats != nil {
		c.stats.RecordFailure(latency, msg)
	}
}
