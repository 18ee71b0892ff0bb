package tui

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/studybuddy/internal/application"
	"github.com/bnema/studybuddy/internal/domain"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

var (
	isoDate  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dayOfMon = regexp.MustCompile(`^\d{1,2},?$`)
	yearNum  = regexp.MustCompile(`^\d{4}$`)
)

// Command is one parsed input line. Exactly one of Event, Quit or Help is set.
type Command struct {
	Event application.Event
	Quit  bool
	Help  bool
}

const HelpText = `Type a question to chat, or use a command:
  /timer <minutes>   start a focus timer      /break   start a break
  /stop              stop the timer           /end     end the session
  /task <category> [yyyy-mm-dd|Mon d] <description>   add a task
  /done <n>          finish task n            /rm <n>  remove task n
  /clear-done        clear finished tasks     /note <text>  add a note
  /clear-notes       clear notes              /clear-chat   clear the chat
  /help              show this help           /quit    leave
Categories: urgent, creative, study, general. Start a message with // to send a literal slash.`

// ParseCommand turns an input line into a Command. Task numbers refer to
// positions in snapshot.ActiveTasks(), as rendered.
func ParseCommand(line string, now time.Time, snapshot application.Snapshot) (Command, error) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "//") {
		return Command{Event: application.SendMessage{Text: trimmed[1:]}}, nil
	}
	if !strings.HasPrefix(trimmed, "/") {
		return Command{Event: application.SendMessage{Text: line}}, nil
	}

	name, rest, _ := strings.Cut(trimmed[1:], " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "timer", "focus":
		return parseTimer(rest, snapshot)
	case "break":
		return Command{Event: application.StartBreak{}}, nil
	case "stop":
		return Command{Event: application.StopTimer{}}, nil
	case "task", "add":
		return parseTask(rest, now)
	case "done":
		id, err := taskAt(rest, snapshot, "/done <n>")
		if err != nil {
			return Command{}, err
		}
		return Command{Event: application.CompleteTask{ID: id}}, nil
	case "rm", "remove":
		id, err := taskAt(rest, snapshot, "/rm <n>")
		if err != nil {
			return Command{}, err
		}
		return Command{Event: application.RemoveTask{ID: id}}, nil
	case "clear-done":
		return Command{Event: application.ClearFinishedTasks{}}, nil
	case "note":
		return Command{Event: application.AddNote{Text: rest}}, nil
	case "clear-notes":
		return Command{Event: application.ClearNotes{}}, nil
	case "end":
		return Command{Event: application.EndSession{}}, nil
	case "clear-chat":
		return Command{Event: application.ClearChat{}}, nil
	case "help", "?":
		return Command{Help: true}, nil
	case "quit", "exit", "q":
		return Command{Quit: true}, nil
	default:
		return Command{}, fmt.Errorf("%w /%s (try /help)", ErrUnknownCommand, name)
	}
}

func parseTimer(rest string, snapshot application.Snapshot) (Command, error) {
	usage := "/timer <minutes>"
	if len(snapshot.FocusOptions) > 0 {
		options := make([]string, 0, len(snapshot.FocusOptions))
		for _, minutes := range snapshot.FocusOptions {
			options = append(options, strconv.Itoa(minutes))
		}
		usage += " (" + strings.Join(options, "/") + ")"
	}

	minutes, err := strconv.Atoi(strings.TrimSuffix(rest, "m"))
	if err != nil {
		return Command{}, fmt.Errorf("%w: %s", ErrUsage, usage)
	}

	return Command{Event: application.StartTimer{Seconds: minutes * 60}}, nil
}

func parseTask(rest string, now time.Time) (Command, error) {
	const usage = "/task <category> [yyyy-mm-dd|Mon d] <description>"

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: %s", ErrUsage, usage)
	}

	category, err := domain.ParseCategory(fields[0])
	if err != nil {
		// Tasks.Add reports the unknown category.
		category = domain.Category(strings.ToLower(fields[0]))
	}
	fields = fields[1:]

	var deadline time.Time
	if n := deadlineWords(fields); n > 0 {
		raw := strings.Join(fields[:n], " ")
		deadline, err = domain.ParseDeadline(raw, now)
		if err != nil {
			return Command{}, fmt.Errorf("%w: %s", err, usage)
		}
		fields = fields[n:]
	}

	return Command{Event: application.AddTask{
		Description: strings.Join(fields, " "),
		Category:    category,
		Deadline:    deadline,
	}}, nil
}

// deadlineWords reports how many leading fields form a deadline: one for
// 2024-03-08, two for "Mar 8", three for "Mar 8, 2025". Zero means none.
func deadlineWords(fields []string) int {
	if len(fields) == 0 {
		return 0
	}
	if isoDate.MatchString(fields[0]) {
		return 1
	}
	if len(fields) < 2 || !isMonthName(fields[0]) || !dayOfMon.MatchString(fields[1]) {
		return 0
	}
	if len(fields) >= 3 && yearNum.MatchString(fields[2]) {
		return 3
	}
	return 2
}

func isMonthName(word string) bool {
	for _, layout := range []string{"Jan", "January"} {
		if _, err := time.Parse(layout, word); err == nil {
			return true
		}
	}
	return false
}

func taskAt(rest string, snapshot application.Snapshot, usage string) (domain.TaskID, error) {
	position, err := strconv.Atoi(rest)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUsage, usage)
	}

	tasks := snapshot.ActiveTasks()
	if position < 1 || position > len(tasks) {
		return "", fmt.Errorf("%w: no task #%d", domain.ErrTaskNotFound, position)
	}

	return tasks[position-1].ID, nil
}
