package llm

import (
	"fmt"
	"time"
)

// BackendConfig selects and configures an LLM backend.
type BackendConfig struct {
	// Backend is "openai" or "sidecar".
	Backend string

	OpenAI OpenAIConfig

	SidecarURL     string
	SidecarTimeout time.Duration
}

// NewClient builds the configured backend, sharing the given stats
// recorder. stats may be nil when call tracking is not wanted.
func NewClient(cfg BackendConfig, stats *CallStats) (Client, error) {
	switch cfg.Backend {
	case "openai", "":
		return NewOpenAIClient(cfg.OpenAI, stats)
	case "sidecar":
		if cfg.SidecarURL == "" {
			return nil, fmt.Errorf("sidecar backend requires a base URL")
		}
		return NewSidecarClient(cfg.SidecarURL, cfg.SidecarTimeout, stats), nil
	default:
		return nil, fmt.Errorf("unknown LLM backend %q", cfg.Backend)
	}
}
