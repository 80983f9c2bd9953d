package llm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yu1234se/AI-English-Conversation-Practice/internal/conversation"
)

func TestFormatHistoryCapitalizesRoles(t *testing.T) {
	history := []conversation.Message{
		{Role: conversation.RoleUser, Content: "Hello."},
		{Role: conversation.RoleAssistant, Content: "Hi, welcome aboard!"},
	}

	got := formatHistory(history, 6)
	require.Equal(t, "User: Hello.\nAssistant: Hi, welcome aboard!", got)
}

func TestFormatHistoryWindowsToMostRecent(t *testing.T) {
	var history []conversation.Message
	for i := 0; i < 10; i++ {
		role := conversation.RoleUser
		if i%2 == 1 {
			role = conversation.RoleAssistant
		}
		history = append(history, conversation.Message{Role: role, Content: fmt.Sprintf("message %d", i)})
	}

	got := formatHistory(history, 6)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 6)
	require.Equal(t, "User: message 4", lines[0])
	require.Equal(t, "Assistant: message 9", lines[5])
}

func TestFormatHistoryEmpty(t *testing.T) {
	require.Equal(t, "", formatHistory(nil, 6))
}

func TestRenderPromptSubstitutesPlaceholders(t *testing.T) {
	history := []conversation.Message{
		{Role: conversation.RoleUser, Content: "Where is the gate?"},
	}

	prompt := renderPrompt("Where is the gate?", history, 6)
	require.NotContains(t, prompt, "{history}")
	require.NotContains(t, prompt, "{input}")
	require.Contains(t, prompt, "User: Where is the gate?")
	require.Contains(t, prompt, "海外旅行")
	require.True(t, strings.Contains(prompt, "User: Where is the gate?\nAssistant:"))
}

func TestNewGeneratorValidation(t *testing.T) {
	_, err := NewGenerator(Config{})
	require.Error(t, err)

	gen, err := NewGenerator(DefaultConfig("test-model"))
	require.NoError(t, err)
	require.NotNil(t, gen)
}
