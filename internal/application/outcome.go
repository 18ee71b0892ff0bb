package application

import (
	"slices"

	"github.com/bnema/studybuddy/internal/domain"
)

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
)

// Notice is user-facing feedback from one cycle. Err carries the domain
// sentinel when the notice reports a rejected action.
type Notice struct {
	Level   NoticeLevel
	Message string
	Err     error
}

type Outcome struct {
	Snapshot Snapshot
	Notices  []Notice
	Summary  *domain.Summary
}

func (o *Outcome) notify(level NoticeLevel, message string, err error) {
	o.Notices = append(o.Notices, Notice{Level: level, Message: message, Err: err})
}

type TimerView struct {
	Kind             domain.TimerKind
	RemainingSeconds int
	TotalSeconds     int
	Running          bool
}

type CategoryTasks struct {
	Category domain.Category
	Tasks    []domain.Task
}

// Snapshot is the read-only view handed to the presentation layer.
type Snapshot struct {
	SessionID       domain.SessionID
	Messages        []domain.ChatMessage
	Timer           TimerView
	Categories      []CategoryTasks
	Finished        []domain.Task
	Notes           []domain.Note
	FocusInProgress bool
	FocusOptions    []int
}

// ActiveTasks flattens Categories in display order; positions in this slice
// are what the UI numbers.
func (s Snapshot) ActiveTasks() []domain.Task {
	var tasks []domain.Task
	for _, group := range s.Categories {
		tasks = append(tasks, group.Tasks...)
	}
	return tasks
}

func newSnapshot(session *domain.Session, reading domain.TimerReading, focusOptions []int) Snapshot {
	grouped := session.Tasks.ByCategory()
	categories := make([]CategoryTasks, 0, len(domain.Categories))
	for _, category := range domain.Categories {
		categories = append(categories, CategoryTasks{Category: category, Tasks: grouped[category]})
	}

	return Snapshot{
		SessionID: session.ID,
		Messages:  slices.Clone(session.Chat.Messages),
		Timer: TimerView{
			Kind:             reading.Kind,
			RemainingSeconds: reading.RemainingSeconds,
			TotalSeconds:     reading.TotalSeconds,
			Running:          reading.Running,
		},
		Categories:      categories,
		Finished:        slices.Clone(session.Tasks.Finished),
		Notes:           slices.Clone(session.Notes.Items),
		FocusInProgress: session.FocusInProgress(),
		FocusOptions:    slices.Clone(focusOptions),
	}
}
