package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the OpenAI backend. Zero values fall back
// to environment variables and library defaults.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// OpenAIClient talks to the OpenAI chat completions API.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	stats       *CallStats
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient builds an OpenAI-backed client. The API key comes
// from cfg, then OPENAI_API_KEY, then the container secret path.
func NewOpenAIClient(cfg OpenAIConfig, stats *CallStats) (*OpenAIClient, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		secretPath := "/run/secrets/openai_api_key"
		raw, err := os.ReadFile(secretPath)
		if err != nil {
			slog.Error("OPENAI_API_KEY not set and secret not found", "path", secretPath)
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		apiKey = strings.TrimSpace(string(raw))
		slog.Info("read the OpenAI API key from the secret file")
	}

	model := cfg.Model
	if model == "" {
		model = os.Getenv("OPENAI_MODEL")
	}
	if model == "" {
		model = openai.GPT4o
		slog.Warn("OPENAI_MODEL not set, defaulting", "model", model)
	}

	slog.Info("initializing OpenAI client", "model", model)
	return &OpenAIClient{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		stats:       stats,
	}, nil
}

func (o *OpenAIClient) ProviderName() string { return "openai" }

func (o *OpenAIClient) ModelName() string { return o.model }

// Chat implements the Client interface.
func (o *OpenAIClient) Chat(ctx context.Context, messages []Message, params ChatParams) (*Response, error) {
	start := time.Now()

	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
	}
	if o.maxTokens > 0 {
		req.MaxCompletionTokens = o.maxTokens
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	if params.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	if params.Temperature != nil {
		req.Temperature = *params.Temperature
	}
	if params.MaxTokens != nil {
		req.MaxCompletionTokens = *params.MaxTokens
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	latency := time.Since(start)
	if err != nil {
		o.recordFailure(latency, err.Error())
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		o.recordFailure(latency, "no choices returned")
		return nil, fmt.Errorf("OpenAI returned no choices")
	}

	out := &Response{
		Content:    resp.Choices[0].Message.Content,
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
		Latency:    latency,
	}
	if o.stats != nil {
		o.stats.RecordSuccess(latency, out.TokensUsed)
	}
	slog.Debug("OpenAI response received",
		"finish_reason", resp.Choices[0].FinishReason,
		"latency_ms", latency.Milliseconds(),
	)
	return out, nil
}

// Probe lists models to verify the API key and connectivity.
func (o *OpenAIClient) Probe(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	_, err := o.client.ListModels(ctx)
	latency := time.Since(start)
	if err != nil {
		return latency, fmt.Errorf("OpenAI probe failed: %w", err)
	}
	return latency, nil
}

func (o *OpenAIClient) recordFailure(latency time.Duration, msg string) {
	if o.stats != nil {
		o.stats.RecordFailure(latency, msg)
	}
}
