package domain

import "strings"

type Tip struct {
	Text string
}

// NewTip trims text and rejects blank tips.
func NewTip(text string) (Tip, error) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return Tip{}, ErrEmptyTip
	}
	return Tip{Text: text}, nil
}

// SameTip compares tips case-insensitively.
func SameTip(a Tip, b Tip) bool {
	return strings.EqualFold(a.Text, b.Text)
}

var DefaultStudyTips = []Tip{
	{Text: "Work in focused blocks and take short breaks between them."},
	{Text: "Test yourself instead of rereading: active recall beats review."},
	{Text: "Space your revision over several days rather than cramming."},
	{Text: "Explain the topic out loud as if teaching a friend."},
	{Text: "Put your phone in another room while you focus."},
	{Text: "Start with the hardest task while your energy is highest."},
	{Text: "Drink water and get up to stretch during breaks."},
	{Text: "Sleep well: memory consolidates overnight."},
	{Text: "Break big assignments into tasks you can finish in one session."},
	{Text: "Review your notes within a day of writing them."},
}
