package llm

import (
	"context"
	"time"
)

// Message roles understood by every backend.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single entry in a conversation sent to the LLM.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams are per-request generation options.
//
// Nil pointer fields mean "use the backend's configured default".
type ChatParams struct {
	// JSONMode asks the backend to return a single JSON object.
	JSONMode    bool     `json:"json_mode"`
	Temperature *float32 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`
}

// Response is the result of a chat completion.
type Response struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	// TokensUsed is 0 when the backend does not report usage.
	TokensUsed int           `json:"tokens_used"`
	Latency    time.Duration `json:"-"`
}

// Client defines the standard interface for any LLM backend.
//
// Chat must be cancellable through ctx; callers bound the call with a
// deadline and treat a timeout like any other transport failure.
type Client interface {
	Chat(ctx context.Context, messages []Message, params ChatParams) (*Response, error)

	// Probe tests the connection to the backend and reports latency.
	Probe(ctx context.Context) (time.Duration, error)

	ProviderName() string
	ModelName() string
}
