package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Study Buddy"
	default:
		return string(r)
	}
}

type ChatMessage struct {
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Transcript holds the chat history of one session. LastInput is the last user
// text that produced an exchange and guards against resubmitting it.
type Transcript struct {
	Messages  []ChatMessage
	LastInput string
}

// Admit returns the normalized prompt for text, or ErrEmptyMessage /
// ErrDuplicateMessage when the text must not produce a new exchange.
func (t Transcript) Admit(text string) (string, error) {
	prompt := strings.TrimSpace(text)
	if prompt == "" {
		return "", ErrEmptyMessage
	}
	if prompt == t.LastInput {
		return "", ErrDuplicateMessage
	}

	return prompt, nil
}

func (t *Transcript) AppendExchange(prompt, reply string, now time.Time) {
	t.Messages = append(t.Messages,
		ChatMessage{Role: RoleUser, Content: prompt, CreatedAt: now},
		ChatMessage{Role: RoleAssistant, Content: reply, CreatedAt: now},
	)
	t.LastInput = prompt
}

func (t *Transcript) Clear() {
	t.Messages = nil
	t.LastInput = ""
}
