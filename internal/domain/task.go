package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type TaskID string

type Category string

const (
	CategoryUrgent   Category = "urgent"
	CategoryCreative Category = "creative"
	CategoryStudy    Category = "study"
	CategoryGeneral  Category = "general"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryUrgent, CategoryCreative, CategoryStudy, CategoryGeneral}

var categoryMarkers = map[Category]string{
	CategoryUrgent:   "🔥",
	CategoryCreative: "🎨",
	CategoryStudy:    "📚",
	CategoryGeneral:  "📝",
}

func (c Category) Valid() bool {
	_, ok := categoryMarkers[c]
	return ok
}

func (c Category) Marker() string {
	return categoryMarkers[c]
}

func (c Category) Label() string {
	return cases.Title(language.English).String(string(c))
}

// ParseCategory accepts a category name in any case or its emoji marker.
func ParseCategory(raw string) (Category, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	for _, category := range Categories {
		if trimmed == string(category) || trimmed == category.Marker() {
			return category, nil
		}
	}

	return "", fmt.Errorf("%w %q (want urgent|creative|study|general)", ErrUnknownCategory, raw)
}

// MaxDeadline orders tasks without a deadline after every dated task.
var MaxDeadline = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

var deadlineLayouts = []struct {
	layout      string
	currentYear bool
}{
	{layout: "2006-01-02"},
	{layout: "Jan 2 2006"},
	{layout: "January 2 2006"},
	{layout: "Jan 2", currentYear: true},
	{layout: "January 2", currentYear: true},
}

// ParseDeadline parses a calendar date in now's location. An empty string
// means no deadline and yields the zero time.
func ParseDeadline(raw string, now time.Time) (time.Time, error) {
	trimmed := strings.Join(strings.Fields(strings.ReplaceAll(raw, ",", " ")), " ")
	if trimmed == "" {
		return time.Time{}, nil
	}

	for _, candidate := range deadlineLayouts {
		parsed, err := time.ParseInLocation(candidate.layout, trimmed, now.Location())
		if err != nil {
			continue
		}
		if candidate.currentYear {
			day := parsed.Day()
			parsed = time.Date(now.Year(), parsed.Month(), day, 0, 0, 0, 0, now.Location())
			if parsed.Day() != day {
				return time.Time{}, fmt.Errorf("%w %q: no such day in %d", ErrInvalidDeadline, raw, now.Year())
			}
		}
		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDeadline, raw)
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

type Task struct {
	ID          TaskID
	Description string
	Category    Category
	Deadline    time.Time
	CreatedAt   time.Time
}

func (t Task) HasDeadline() bool {
	return !t.Deadline.IsZero()
}

func (t Task) sortKey() time.Time {
	if !t.HasDeadline() {
		return MaxDeadline
	}
	return t.Deadline
}

// TaskList keeps every task in exactly one of Active or Finished.
type TaskList struct {
	Active   []Task
	Finished []Task
}

func (l *TaskList) Add(description string, category Category, deadline time.Time, now time.Time) (Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, ErrEmptyDescription
	}
	if !category.Valid() {
		return Task{}, fmt.Errorf("%w %q", ErrUnknownCategory, category)
	}
	if !deadline.IsZero() {
		deadline = DateOf(deadline)
		if deadline.Before(DateOf(now)) {
			return Task{}, fmt.Errorf("%w: %s", ErrDeadlinePast, deadline.Format("2006-01-02"))
		}
	}

	task := Task{
		ID:          TaskID(uuid.NewString()),
		Description: description,
		Category:    category,
		Deadline:    deadline,
		CreatedAt:   now,
	}
	l.Active = append(l.Active, task)

	return task, nil
}

// Complete moves the active task with id to Finished. It reports whether a
// task moved.
func (l *TaskList) Complete(id TaskID) bool {
	idx := indexOfTask(l.Active, id)
	if idx < 0 {
		return false
	}

	task := l.Active[idx]
	l.Active = slices.Delete(l.Active, idx, idx+1)
	l.Finished = append(l.Finished, task)

	return true
}

func (l *TaskList) Remove(id TaskID) bool {
	idx := indexOfTask(l.Active, id)
	if idx < 0 {
		return false
	}

	l.Active = slices.Delete(l.Active, idx, idx+1)
	return true
}

func (l *TaskList) ClearFinished() {
	l.Finished = nil
}

// ByCategory projects active tasks per category, ordered by ascending
// deadline with undated tasks last. Every category has an entry.
func (l TaskList) ByCategory() map[Category][]Task {
	grouped := make(map[Category][]Task, len(Categories))
	for _, category := range Categories {
		grouped[category] = []Task{}
	}

	for _, task := range l.Active {
		grouped[task.Category] = append(grouped[task.Category], task)
	}

	for category := range grouped {
		slices.SortStableFunc(grouped[category], func(a, b Task) int {
			return a.sortKey().Compare(b.sortKey())
		})
	}

	return grouped
}

func indexOfTask(tasks []Task, id TaskID) int {
	return slices.IndexFunc(tasks, func(task Task) bool {
		return task.ID == id
	})
}
