package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSidecarClient_Chat_Success(t *testing.T) {
	var gotReq sidecarChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(sidecarChatResponse{
			Content:    `{"reply":"four bucks"}`,
			Model:      "phi3.5",
			TokensUsed: 42,
		})
	}))
	defer server.Close()

	stats := NewCallStats(10)
	client := NewSidecarClient(server.URL, 5*time.Second, stats)

	resp, err := client.Chat(context.Background(), []Message{
		{Role: RoleSystem, Content: "you are the monger"},
		{Role: RoleUser, Content: "how much?"},
	}, ChatParams{JSONMode: true})
	require.NoError(t, err)

	assert.Equal(t, `{"reply":"four bucks"}`, resp.Content)
	assert.Equal(t, "phi3.5", resp.Model)
	assert.Equal(t, 42, resp.TokensUsed)
	assert.Equal(t, "phi3.5", client.ModelName())

	assert.True(t, gotReq.JSONMode)
	assert.Len(t, gotReq.Messages, 2)

	s := stats.Summary()
	assert.Equal(t, int64(1), s.TotalCalls)
	assert.Equal(t, int64(42), s.TotalTokens)
}

func TestSidecarClient_Chat_HTTPErrorRecordsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	stats := NewCallStats(10)
	client := NewSidecarClient(server.URL, 5*time.Second, stats)

	_, err := client.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, ChatParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	s := stats.Summary()
	assert.Equal(t, int64(1), s.TotalFailures)
	require.Len(t, s.RecentErrors, 1)
	assert.Contains(t, s.RecentErrors[0].Err, "model not loaded")
}

func TestSidecarClient_Chat_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	stats := NewCallStats(10)
	client := NewSidecarClient(server.URL, time.Minute, stats)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Chat(ctx, []Message{{Role: RoleUser, Content: "hi"}}, ChatParams{})
	require.Error(t, err)
	assert.Equal(t, int64(1), stats.Summary().TotalFailures)
}

func TestSidecarClient_Probe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		case "/model":
			json.NewEncoder(w).Encode(map[string]string{"name": "llama3.2"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewSidecarClient(server.URL, 5*time.Second, nil)
	latency, err := client.Probe(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, latency, time.Duration(0))
	assert.Equal(t, "llama3.2", client.ModelName())
}

func TestSidecarClient_Probe_Degraded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "loading", "error": "weights still loading"})
	}))
	defer server.Close()

	client := NewSidecarClient(server.URL, 5*time.Second, nil)
	_, err := client.Probe(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights still loading")
}

func TestNewClient_UnknownBackend(t *testing.T) {
	_, err := NewClient(BackendConfig{Backend: "carrier-pigeon"}, nil)
	require.Error(t, err)
}

func TestNewClient_SidecarRequiresURL(t *testing.T) {
	_, err := NewClient(BackendConfig{Backend: "sidecar"}, nil)
	require.Error(t, err)
}
