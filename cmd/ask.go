package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	sessionrender "github.com/bnema/studybuddy/internal/adapters/render/session"
	"github.com/bnema/studybuddy/internal/application"
	"github.com/bnema/studybuddy/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newAskCmd(app *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask one question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			defer app.close()

			service, err := app.sessionService(cmd.Context(), app.logger)
			if err != nil {
				return err
			}

			session := service.NewSession()
			event := application.SendMessage{Text: strings.Join(args, " ")}

			var outcome application.Outcome
			cycle := func(ctx context.Context) error {
				var applyErr error
				outcome, applyErr = service.Apply(ctx, session, event)
				return applyErr
			}

			out := cmd.OutOrStdout()
			if isTerminal(out) {
				err = runAnswerSpinner(cmd.Context(), out, cycle)
			} else {
				err = cycle(cmd.Context())
			}
			if err != nil {
				return err
			}

			if plain {
				return printReply(out, outcome)
			}

			rendered, err := sessionrender.Render(outcome.Snapshot, sessionrender.RenderOptions{
				Notices:  outcome.Notices,
				ChatOnly: true,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print only the answer text")

	return cmd
}

func printReply(out io.Writer, outcome application.Outcome) error {
	messages := outcome.Snapshot.Messages
	if len(messages) == 0 || messages[len(messages)-1].Role != domain.RoleAssistant {
		for _, notice := range outcome.Notices {
			if _, err := fmt.Fprintln(out, notice.Message); err != nil {
				return err
			}
		}
		return nil
	}

	_, err := fmt.Fprintln(out, messages[len(messages)-1].Content)
	return err
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

type answerDoneMsg struct {
	err error
}

type answerSpinnerModel struct {
	spinner spinner.Model
	label   string
	work    tea.Cmd
	err     error
	done    bool
}

func newAnswerSpinnerModel(label string, work tea.Cmd) answerSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return answerSpinnerModel{
		spinner: s,
		label:   label,
		work:    work,
	}
}

func (m answerSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m answerSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case answerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m answerSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// runAnswerSpinner shows a spinner while work runs. work is the only code
// touching the session until it returns.
func runAnswerSpinner(ctx context.Context, output io.Writer, work func(context.Context) error) error {
	workCmd := func() tea.Msg {
		return answerDoneMsg{err: work(ctx)}
	}

	p := tea.NewProgram(
		newAnswerSpinnerModel("Thinking...", workCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(answerSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
