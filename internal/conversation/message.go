package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Kind identifies how a user message was produced.
type Kind string

const (
	KindVoice Kind = "voice"
	KindText  Kind = "text"
)

// Message is a single entry in the conversation log. Messages are immutable
// once appended; assistant messages always carry synthesized audio.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Kind      Kind      `json:"kind,omitempty"` // user messages only
	Content   string    `json:"content"`
	Audio     []byte    `json:"-"` // assistant messages only, WAV-encoded
	CreatedAt time.Time `json:"created_at"`
}

func newUserMessage(content string, kind Kind) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Kind:      kind,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

func newAssistantMessage(content string, audio []byte) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		Audio:     audio,
		CreatedAt: time.Now(),
	}
}
