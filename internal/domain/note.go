package domain

import (
	"strings"
	"time"
)

type Note struct {
	Text      string
	CreatedAt time.Time
}

// Notes only grows until Clear; single notes are never removed.
type Notes struct {
	Items []Note
}

func (n *Notes) Add(text string, now time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyNote
	}

	n.Items = append(n.Items, Note{Text: text, CreatedAt: now})
	return nil
}

func (n *Notes) Clear() {
	n.Items = nil
}
