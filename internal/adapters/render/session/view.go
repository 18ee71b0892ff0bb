package session

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/studybuddy/internal/application"
	"github.com/bnema/studybuddy/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const progressBarWidth = 24

type RenderOptions struct {
	Now     time.Time
	Width   int
	Notices []application.Notice
	Summary *domain.Summary
	// ChatOnly limits output to the transcript and notices.
	ChatOnly bool
}

// View renders snapshot synchronously. The interactive host calls it from its
// own View method.
func View(snapshot application.Snapshot, opts RenderOptions) string {
	return renderView(snapshot, opts, newStyles())
}

func renderView(snapshot application.Snapshot, opts RenderOptions, s styles) string {
	var blocks []string
	if !opts.ChatOnly {
		blocks = append(blocks,
			s.title.Render("Study Buddy"),
			s.header.Render(headerLine(snapshot)),
			s.section.Render(renderTimer(snapshot, s)),
		)
	}

	blocks = append(blocks, s.section.Render(renderChat(snapshot.Messages, opts.Width, s)))

	if !opts.ChatOnly {
		blocks = append(blocks,
			s.section.Render(renderTasks(snapshot, opts.Now, s)),
			s.section.Render(renderNotes(snapshot.Notes, opts.Width, s)),
		)
	}
	if opts.Summary != nil {
		blocks = append(blocks, s.section.Render(renderSummary(*opts.Summary, s)))
	}
	if len(opts.Notices) > 0 {
		blocks = append(blocks, s.section.Render(renderNotices(opts.Notices, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func headerLine(snapshot application.Snapshot) string {
	id := string(snapshot.SessionID)
	if len(id) > 8 {
		id = id[:8]
	}

	state := "no focus session yet"
	if snapshot.FocusInProgress {
		state = "focus session in progress"
	}

	return fmt.Sprintf("session %s · %s", id, state)
}

func renderTimer(snapshot application.Snapshot, s styles) string {
	timer := snapshot.Timer
	label := timer.Kind.Label()
	if label == "" {
		label = domain.TimerFocus.Label()
	}

	clockColor := interpolateColor(float64(timer.RemainingSeconds), 0, float64(max(timer.TotalSeconds, 1)))
	clock := lipgloss.NewStyle().Bold(true).Foreground(clockColor).Render(domain.FormatClock(timer.RemainingSeconds))

	state := "stopped"
	switch {
	case timer.Running:
		state = "running"
	case timer.TotalSeconds > 0 && timer.RemainingSeconds == 0:
		state = "done"
	}

	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.heading.Render(label+" timer:"),
		" ",
		clock,
		" ",
		renderProgressBar(timer.RemainingSeconds, timer.TotalSeconds, progressBarWidth, s),
		" ",
		s.meta.Render(state),
	)

	if len(snapshot.FocusOptions) == 0 {
		return line
	}

	options := make([]string, 0, len(snapshot.FocusOptions))
	for _, minutes := range snapshot.FocusOptions {
		options = append(options, strconv.Itoa(minutes))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		line,
		s.meta.Render("focus lengths: "+strings.Join(options, "/")+" min · /timer <min>, /break, /stop"),
	)
}

func renderChat(messages []domain.ChatMessage, width int, s styles) string {
	lines := []string{s.heading.Render("Chat")}
	if len(messages) == 0 {
		lines = append(lines, s.empty.Render("Ask anything to get started."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, message := range messages {
		speaker := s.assistant
		if message.Role == domain.RoleUser {
			speaker = s.user
		}
		lines = append(lines, wrap(speaker.Render(message.Role.Label()+":")+" "+s.detail.Render(message.Content), width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTasks(snapshot application.Snapshot, now time.Time, s styles) string {
	lines := []string{s.heading.Render("Tasks")}

	position := 0
	for _, group := range snapshot.Categories {
		lines = append(lines, s.detail.Render(fmt.Sprintf("%s %s (%d)", group.Category.Marker(), group.Category.Label(), len(group.Tasks))))
		for _, task := range group.Tasks {
			position++
			lines = append(lines, taskLine(position, task, now, s))
		}
	}
	if position == 0 {
		lines = append(lines, s.empty.Render("No active tasks. Add one with /task <category> [yyyy-mm-dd|Mon d] <description>."))
	}

	if len(snapshot.Finished) > 0 {
		lines = append(lines, s.detail.Render(fmt.Sprintf("✅ Finished (%d)", len(snapshot.Finished))))
		for _, task := range snapshot.Finished {
			lines = append(lines, "   "+s.finished.Render(task.Category.Marker()+" "+task.Description))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func taskLine(position int, task domain.Task, now time.Time, s styles) string {
	line := fmt.Sprintf("  %d. %s", position, task.Description)
	if !task.HasDeadline() {
		return s.detail.Render(line)
	}

	due := formatDeadline(task.Deadline, now)
	if !now.IsZero() && task.Deadline.Before(domain.DateOf(now)) {
		return s.detail.Render(line) + " " + s.warning.Render("("+due+")")
	}

	return s.detail.Render(line) + " " + s.meta.Render("("+due+")")
}

func formatDeadline(deadline time.Time, now time.Time) string {
	if now.IsZero() {
		return "due " + deadline.Format("2006-01-02")
	}

	today := domain.DateOf(now)
	days := int(math.Round(domain.DateOf(deadline).Sub(today).Hours() / 24))
	switch {
	case days < 0:
		return "overdue since " + deadline.Format("Jan 2")
	case days == 0:
		return "due today"
	case days == 1:
		return "due tomorrow"
	case days < 7:
		return "due " + deadline.Format("Mon Jan 2")
	case deadline.Year() == now.Year():
		return "due " + deadline.Format("Jan 2")
	default:
		return "due " + deadline.Format("Jan 2 2006")
	}
}

func renderNotes(notes []domain.Note, width int, s styles) string {
	lines := []string{s.heading.Render("Notes")}
	if len(notes) == 0 {
		lines = append(lines, s.empty.Render("No notes yet. Jot one down with /note <text>."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, note := range notes {
		lines = append(lines, wrap(s.detail.Render("• "+note.Text), width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSummary(summary domain.Summary, s styles) string {
	lines := []string{
		s.success.Render("Session summary"),
		s.detail.Render(fmt.Sprintf("Focus time: %d %s", summary.FocusMinutes, plural(summary.FocusMinutes, "minute", "minutes"))),
		s.detail.Render(fmt.Sprintf("Tasks completed: %d", summary.TasksCompleted)),
	}
	if len(summary.Tips) > 0 {
		lines = append(lines, s.detail.Render("Tips for next time:"))
		for _, tip := range summary.Tips {
			lines = append(lines, s.meta.Render("  - "+tip.Text))
		}
	}

	return s.summary.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderNotices(notices []application.Notice, s styles) string {
	lines := make([]string, 0, len(notices))
	for _, notice := range notices {
		style := s.info
		switch notice.Level {
		case application.NoticeSuccess:
			style = s.success
		case application.NoticeWarning:
			style = s.warning
		}
		lines = append(lines, style.Render(notice.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderProgressBar fills in proportion to the time still remaining.
func renderProgressBar(remaining int, total int, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := 0
	if total > 0 {
		filled = int(math.Round(float64(width) * float64(remaining) / float64(total)))
	}
	filled = min(max(filled, 0), width)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

// interpolateColor maps value onto the 240..255 greyscale ramp.
func interpolateColor(value, low, high float64) lipgloss.Color {
	if high == low {
		return lipgloss.Color("255")
	}

	normalized := (value - low) / (high - low)
	normalized = math.Min(math.Max(normalized, 0), 1)

	return lipgloss.Color(strconv.Itoa(int(240 + 15*normalized)))
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

func plural(n int, one string, many string) string {
	if n == 1 {
		return one
	}
	return many
}
