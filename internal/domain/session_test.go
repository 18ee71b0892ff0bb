package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptAdmit(t *testing.T) {
	t.Parallel()

	transcript := Transcript{}
	_, err := transcript.Admit(" \t ")
	require.ErrorIs(t, err, ErrEmptyMessage)

	prompt, err := transcript.Admit("  what is entropy? ")
	require.NoError(t, err)
	assert.Equal(t, "what is entropy?", prompt)

	transcript.AppendExchange(prompt, "a measure of disorder", time.Now())
	_, err = transcript.Admit("what is entropy?")
	require.ErrorIs(t, err, ErrDuplicateMessage)

	require.Len(t, transcript.Messages, 2)
	assert.Equal(t, RoleUser, transcript.Messages[0].Role)
	assert.Equal(t, RoleAssistant, transcript.Messages[1].Role)

	transcript.Clear()
	assert.Empty(t, transcript.Messages)
	_, err = transcript.Admit("what is entropy?")
	assert.NoError(t, err)
}

func TestNotesAddAndClear(t *testing.T) {
	t.Parallel()

	var notes Notes
	require.ErrorIs(t, notes.Add("  ", time.Now()), ErrEmptyNote)
	require.NoError(t, notes.Add("buy highlighters", time.Now()))
	require.NoError(t, notes.Add("email tutor", time.Now()))

	assert.Len(t, notes.Items, 2)
	assert.Equal(t, "buy highlighters", notes.Items[0].Text)

	notes.Clear()
	assert.Empty(t, notes.Items)
}

func TestSessionEndWithoutFocusLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC)
	session := NewSession("s-1", 1500, now)
	session.Chat.AppendExchange("hi", "hello", now)
	task, err := session.Tasks.Add("essay", CategoryUrgent, time.Time{}, now)
	require.NoError(t, err)
	require.True(t, session.Tasks.Complete(task.ID))
	require.NoError(t, session.Notes.Add("remember", now))
	before := *session

	_, err = session.End(now.Add(time.Hour), DefaultStudyTips[:3])
	require.ErrorIs(t, err, ErrNoSessionInProgress)
	assert.Equal(t, before, *session)
}

func TestSessionEndSummarizesAndResets(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC)
	session := NewSession("s-1", 1500, now)
	require.NoError(t, session.StartFocus(1800, now))
	session.Chat.AppendExchange("hi", "hello", now)
	finished, err := session.Tasks.Add("problem set", CategoryStudy, time.Time{}, now)
	require.NoError(t, err)
	active, err := session.Tasks.Add("lab report", CategoryStudy, time.Time{}, now)
	require.NoError(t, err)
	require.True(t, session.Tasks.Complete(finished.ID))
	require.NoError(t, session.Notes.Add("keep me", now))

	summary, err := session.End(now.Add(42*time.Minute+30*time.Second), DefaultStudyTips[:3])
	require.NoError(t, err)

	assert.Equal(t, 42, summary.FocusMinutes)
	assert.Equal(t, 1, summary.TasksCompleted)
	assert.Len(t, summary.Tips, 3)

	assert.Empty(t, session.Chat.Messages)
	assert.Empty(t, session.Tasks.Finished)
	assert.Equal(t, []Task{active}, session.Tasks.Active)
	assert.Len(t, session.Notes.Items, 1)
	assert.Equal(t, NewTimer(1500), session.Timer)
	assert.False(t, session.FocusInProgress())
}

func TestSessionBreakDoesNotStartFocus(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC)
	session := NewSession(NewSessionID(), 1500, now)
	require.NoError(t, session.StartBreak(300, now))

	assert.Equal(t, TimerBreak, session.Timer.Kind)
	assert.False(t, session.FocusInProgress())
	assert.NotEmpty(t, session.ID)
}

func TestNewTipNormalizesWhitespace(t *testing.T) {
	t.Parallel()

	tip, err := NewTip("  Review\tnotes \n daily ")
	require.NoError(t, err)
	assert.Equal(t, "Review notes daily", tip.Text)

	_, err = NewTip(" \n ")
	require.ErrorIs(t, err, ErrEmptyTip)

	assert.True(t, SameTip(Tip{Text: "Sleep well"}, Tip{Text: "sleep WELL"}))
}
