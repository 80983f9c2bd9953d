package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yu1234se/AI-English-Conversation-Practice/internal/conversation"
)

func completionServer(t *testing.T, content string, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))

		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}

		json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":   0,
					"message": map[string]string{"role": "assistant", "content": content},
				},
			},
		})
	}))
}

func TestGenerateReturnsTrimmedReply(t *testing.T) {
	var captured map[string]any
	server := completionServer(t, "  Nice to meet you. Where are you flying to?  ", &captured)
	defer server.Close()

	config := DefaultConfig("test-model")
	config.BaseURL = server.URL
	gen, err := NewGenerator(config)
	require.NoError(t, err)

	history := []conversation.Message{
		{Role: conversation.RoleUser, Content: "Hello."},
	}
	reply, err := gen.Generate(context.Background(), "Hello.", history)
	require.NoError(t, err)
	require.Equal(t, "Nice to meet you. Where are you flying to?", reply)

	require.Equal(t, "test-model", captured["model"])
	require.InDelta(t, 0.7, captured["temperature"].(float64), 0.001)
	require.EqualValues(t, 100, captured["max_tokens"])

	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)
	prompt := messages[0].(map[string]any)["content"].(string)
	require.Contains(t, prompt, "User: Hello.")
}

func TestGenerateUpstreamErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	config := DefaultConfig("test-model")
	config.BaseURL = server.URL
	gen, err := NewGenerator(config)
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "Hello.", nil)
	require.Error(t, err)
}

func TestGenerateEmptyChoicesIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "cmpl-2", "object": "chat.completion", "choices": []any{}})
	}))
	defer server.Close()

	config := DefaultConfig("test-model")
	config.BaseURL = server.URL
	gen, err := NewGenerator(config)
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "Hello.", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no choices")
}
