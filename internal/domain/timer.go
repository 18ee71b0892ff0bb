package domain

import (
	"fmt"
	"time"
)

type TimerKind string

const (
	TimerFocus TimerKind = "focus"
	TimerBreak TimerKind = "break"
)

func (k TimerKind) Label() string {
	switch k {
	case TimerFocus:
		return "Focus"
	case TimerBreak:
		return "Break"
	default:
		return string(k)
	}
}

// Timer is a poll-driven countdown. Remaining time is always recomputed from
// StartedAt; nothing fires on its own.
type Timer struct {
	Kind         TimerKind
	TotalSeconds int
	StartedAt    time.Time
	Running      bool
	// Completed latches a finished countdown so later polls keep reporting
	// zero without signalling again.
	Completed bool
}

type TimerReading struct {
	Kind             TimerKind
	RemainingSeconds int
	TotalSeconds     int
	Running          bool
	JustCompleted    bool
}

func NewTimer(totalSeconds int) Timer {
	return Timer{Kind: TimerFocus, TotalSeconds: totalSeconds}
}

func (t *Timer) Start(kind TimerKind, totalSeconds int, now time.Time) error {
	if totalSeconds <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, totalSeconds)
	}

	t.Kind = kind
	t.TotalSeconds = totalSeconds
	t.StartedAt = now
	t.Running = true
	t.Completed = false

	return nil
}

func (t *Timer) Stop() {
	t.Running = false
	t.Completed = false
	t.StartedAt = time.Time{}
}

// Peek computes the current reading without touching the timer.
func (t Timer) Peek(now time.Time) TimerReading {
	return TimerReading{
		Kind:             t.Kind,
		RemainingSeconds: t.remaining(now),
		TotalSeconds:     t.TotalSeconds,
		Running:          t.Running,
	}
}

// Poll is Peek plus the completion transition: the first poll that observes
// zero remaining seconds stops the timer and reports JustCompleted.
func (t *Timer) Poll(now time.Time) TimerReading {
	reading := t.Peek(now)
	if t.Running && reading.RemainingSeconds == 0 {
		t.Running = false
		t.Completed = true
		reading.Running = false
		reading.JustCompleted = true
	}

	return reading
}

func (t Timer) remaining(now time.Time) int {
	switch {
	case t.Running:
		elapsed := int(now.Sub(t.StartedAt) / time.Second)
		if elapsed < 0 {
			elapsed = 0
		}
		return max(t.TotalSeconds-elapsed, 0)
	case t.Completed:
		return 0
	default:
		return t.TotalSeconds
	}
}

// FormatClock renders seconds as MM:SS, or H:MM:SS past an hour.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}

	return fmt.Sprintf("%02d:%02d", m, s)
}
