package application

import (
	"time"

	"github.com/bnema/studybuddy/internal/domain"
)

// Event is one user action (or a timer poll) fed into the interaction cycle.
// The set is closed: only the types in this file implement it.
type Event interface {
	Name() string
	isEvent()
}

type SendMessage struct {
	Text string
}

type StartTimer struct {
	Seconds int
}

type StartBreak struct{}

type StopTimer struct{}

type AddTask struct {
	Description string
	Category    domain.Category
	Deadline    time.Time
}

type CompleteTask struct {
	ID domain.TaskID
}

type RemoveTask struct {
	ID domain.TaskID
}

type ClearFinishedTasks struct{}

type AddNote struct {
	Text string
}

type ClearNotes struct{}

type EndSession struct{}

type ClearChat struct{}

// Tick only polls the timer. Hosts send it on a fixed cadence.
type Tick struct{}

func (SendMessage) Name() string        { return "send_message" }
func (StartTimer) Name() string         { return "start_timer" }
func (StartBreak) Name() string         { return "start_break" }
func (StopTimer) Name() string          { return "stop_timer" }
func (AddTask) Name() string            { return "add_task" }
func (CompleteTask) Name() string       { return "complete_task" }
func (RemoveTask) Name() string         { return "remove_task" }
func (ClearFinishedTasks) Name() string { return "clear_finished_tasks" }
func (AddNote) Name() string            { return "add_note" }
func (ClearNotes) Name() string         { return "clear_notes" }
func (EndSession) Name() string         { return "end_session" }
func (ClearChat) Name() string          { return "clear_chat" }
func (Tick) Name() string               { return "tick" }

func (SendMessage) isEvent()        {}
func (StartTimer) isEvent()         {}
func (StartBreak) isEvent()         {}
func (StopTimer) isEvent()          {}
func (AddTask) isEvent()            {}
func (CompleteTask) isEvent()       {}
func (RemoveTask) isEvent()         {}
func (ClearFinishedTasks) isEvent() {}
func (AddNote) isEvent()            {}
func (ClearNotes) isEvent()         {}
func (EndSession) isEvent()         {}
func (ClearChat) isEvent()          {}
func (Tick) isEvent()               {}
