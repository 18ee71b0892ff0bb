package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// Session is the whole mutable state of one user's study session. It lives in
// memory only and is owned by the host that drives the interaction cycle.
type Session struct {
	ID                  SessionID
	Chat                Transcript
	Timer               Timer
	Tasks               TaskList
	Notes               Notes
	FocusStartedAt      time.Time
	DefaultTimerSeconds int
	CreatedAt           time.Time
}

type Summary struct {
	FocusMinutes   int
	TasksCompleted int
	Tips           []Tip
	EndedAt        time.Time
}

func NewSession(id SessionID, defaultTimerSeconds int, now time.Time) *Session {
	return &Session{
		ID:                  id,
		Timer:               NewTimer(defaultTimerSeconds),
		DefaultTimerSeconds: defaultTimerSeconds,
		CreatedAt:           now,
	}
}

func (s *Session) StartFocus(totalSeconds int, now time.Time) error {
	if err := s.Timer.Start(TimerFocus, totalSeconds, now); err != nil {
		return err
	}

	s.FocusStartedAt = now
	return nil
}

func (s *Session) StartBreak(totalSeconds int, now time.Time) error {
	return s.Timer.Start(TimerBreak, totalSeconds, now)
}

func (s *Session) FocusInProgress() bool {
	return !s.FocusStartedAt.IsZero()
}

// End summarizes the focus session and resets chat, finished tasks, timer and
// the focus marker together. Active tasks and notes survive.
func (s *Session) End(now time.Time, tips []Tip) (Summary, error) {
	if !s.FocusInProgress() {
		return Summary{}, ErrNoSessionInProgress
	}

	focusMinutes := int(now.Sub(s.FocusStartedAt) / time.Minute)
	summary := Summary{
		FocusMinutes:   max(focusMinutes, 0),
		TasksCompleted: len(s.Tasks.Finished),
		Tips:           tips,
		EndedAt:        now,
	}

	s.Chat.Clear()
	s.Tasks.ClearFinished()
	s.Timer = NewTimer(s.DefaultTimerSeconds)
	s.FocusStartedAt = time.Time{}

	return summary, nil
}
