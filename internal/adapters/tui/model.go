package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	sessionrender "github.com/bnema/studybuddy/internal/adapters/render/session"
	"github.com/bnema/studybuddy/internal/application"
	"github.com/bnema/studybuddy/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const tickInterval = time.Second

// Driver runs interaction cycles against a session.
type Driver interface {
	Apply(ctx context.Context, session *domain.Session, event application.Event) (application.Outcome, error)
	Snapshot(session *domain.Session) application.Snapshot
}

type tickMsg time.Time

type cycleDoneMsg struct {
	outcome application.Outcome
	err     error
}

// Model is the interactive study session. Only one cycle runs at a time:
// while a reply is being generated, input is locked and timer ticks are
// skipped, so the session is never touched from two goroutines.
type Model struct {
	ctx      context.Context
	driver   Driver
	session  *domain.Session
	now      func() time.Time
	snapshot application.Snapshot
	notices  []application.Notice
	summary  *domain.Summary
	input    textinput.Model
	spinner  spinner.Model
	busy     bool
	width    int
	err      error
}

func NewModel(ctx context.Context, driver Driver, session *domain.Session, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}

	input := textinput.New()
	input.Placeholder = "Ask a question or type /help"
	input.Prompt = "> "
	input.CharLimit = 2000
	input.Focus()

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return Model{
		ctx:      ctx,
		driver:   driver,
		session:  session,
		now:      now,
		snapshot: driver.Snapshot(session),
		input:    input,
		spinner:  s,
	}
}

// Err is the fatal error that stopped the program, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if m.busy {
			return m, tickCmd()
		}
		m = m.apply(application.Tick{}, false)
		if m.err != nil {
			return m, tea.Quit
		}
		return m, tickCmd()
	case cycleDoneMsg:
		m.busy = false
		m.input.Focus()
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.record(msg.outcome, true)
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		if m.busy {
			return m, nil
		}
		return m.submit()
	}

	if m.busy {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()

	command, err := ParseCommand(line, m.now(), m.snapshot)
	switch {
	case err != nil:
		m.notices = []application.Notice{{Level: application.NoticeWarning, Message: capitalize(err.Error()), Err: err}}
		m.summary = nil
		return m, nil
	case command.Quit:
		return m, tea.Quit
	case command.Help:
		m.notices = []application.Notice{{Level: application.NoticeInfo, Message: HelpText}}
		m.summary = nil
		return m, nil
	}

	if _, ok := command.Event.(application.SendMessage); ok && strings.TrimSpace(line) != "" {
		m.busy = true
		m.input.Blur()
		return m, tea.Batch(m.spinner.Tick, m.runCycle(command.Event))
	}

	m = m.apply(command.Event, true)
	if m.err != nil {
		return m, tea.Quit
	}
	return m, nil
}

// runCycle applies event off the update loop. The session is not read by
// Update until cycleDoneMsg arrives.
func (m Model) runCycle(event application.Event) tea.Cmd {
	ctx, driver, session := m.ctx, m.driver, m.session
	return func() tea.Msg {
		outcome, err := driver.Apply(ctx, session, event)
		return cycleDoneMsg{outcome: outcome, err: err}
	}
}

func (m Model) apply(event application.Event, userAction bool) Model {
	outcome, err := m.driver.Apply(m.ctx, m.session, event)
	if err != nil {
		m.err = err
		return m
	}

	m.record(outcome, userAction)
	return m
}

// record stores the cycle result. User actions replace the previous notices
// and summary; ticks only add to them.
func (m *Model) record(outcome application.Outcome, userAction bool) {
	m.snapshot = outcome.Snapshot
	if userAction {
		m.notices = outcome.Notices
		m.summary = outcome.Summary
		return
	}
	m.notices = append(m.notices, outcome.Notices...)
}

func (m Model) View() string {
	body := sessionrender.View(m.snapshot, sessionrender.RenderOptions{
		Now:     m.now(),
		Width:   m.width,
		Notices: m.notices,
		Summary: m.summary,
	})

	prompt := m.input.View()
	if m.busy {
		prompt = fmt.Sprintf("%s Thinking...", m.spinner.View())
	}

	return body + "\n\n" + prompt + "\n"
}

type Options struct {
	Input     io.Reader
	Output    io.Writer
	AltScreen bool
	Now       func() time.Time
}

// Run starts the interactive host and blocks until the user quits.
func Run(ctx context.Context, driver Driver, session *domain.Session, opts Options) error {
	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	finalModel, err := tea.NewProgram(NewModel(ctx, driver, session, opts.Now), programOpts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("run study session: %w", err)
	}

	if result, ok := finalModel.(Model); ok {
		return result.Err()
	}
	return nil
}

// capitalize upper-cases the first rune only; the rest keeps quoted names
// and variable names intact.
func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(first)) + s[size:]
}
