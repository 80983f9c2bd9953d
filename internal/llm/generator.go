package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yu1234se/AI-English-Conversation-Practice/internal/conversation"
)

const (
	// DefaultBaseURL points at a locally hosted OpenAI-compatible server.
	DefaultBaseURL = "http://localhost:1234/v1"
	// DefaultAPIKey satisfies servers that ignore authentication.
	DefaultAPIKey = "not-needed"

	defaultTemperature   = 0.7
	defaultMaxTokens     = 100
	defaultHistoryWindow = 6
)

// Config configures the reply generator.
type Config struct {
	BaseURL       string
	APIKey        string
	Model         string
	Temperature   float32
	MaxTokens     int
	HistoryWindow int
}

// DefaultConfig returns the lesson-tuned generation parameters for the given
// model: short replies at a mildly creative temperature, with the last six log
// messages as context.
func DefaultConfig(model string) Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		APIKey:        DefaultAPIKey,
		Model:         model,
		Temperature:   defaultTemperature,
		MaxTokens:     defaultMaxTokens,
		HistoryWindow: defaultHistoryWindow,
	}
}

// Generator produces tutor replies via chat completions.
type Generator struct {
	client *openai.Client
	config Config
}

// NewGenerator creates a Generator for the configured endpoint.
func NewGenerator(config Config) (*Generator, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if config.APIKey == "" {
		config.APIKey = DefaultAPIKey
	}
	if config.Temperature <= 0 {
		config.Temperature = defaultTemperature
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = defaultMaxTokens
	}
	if config.HistoryWindow <= 0 {
		config.HistoryWindow = defaultHistoryWindow
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}

	return &Generator{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Generate renders the role-play prompt with the history window and the
// latest user utterance and returns the trimmed completion text. Transport
// errors and empty completions propagate as generation failures; the caller
// appends nothing in that case.
func (g *Generator) Generate(ctx context.Context, input string, history []conversation.Message) (string, error) {
	prompt := renderPrompt(input, history, g.config.HistoryWindow)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.config.Temperature,
		MaxTokens:   g.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
