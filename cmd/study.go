package cmd

import (
	"github.com/bnema/studybuddy/internal/adapters/tui"
	"github.com/spf13/cobra"
)

func newStudyCmd(app *app) *cobra.Command {
	var inline bool

	cmd := &cobra.Command{
		Use:   "study",
		Short: "Start an interactive study session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			defer app.close()

			// Log lines on stderr would tear the full-screen view.
			logger := app.logger
			if app.logToStderr {
				logger = discardLogger()
			}

			service, err := app.sessionService(cmd.Context(), logger)
			if err != nil {
				return err
			}

			session := service.NewSession()
			logger.Info("study session started", "session", session.ID)

			err = app.runTUI(cmd.Context(), service, session, tui.Options{
				Input:     cmd.InOrStdin(),
				Output:    cmd.OutOrStdout(),
				AltScreen: !inline,
			})
			logger.Info("study session closed", "session", session.ID, "error", err)
			return err
		},
	}

	cmd.Flags().BoolVar(&inline, "inline", false, "Render in the current screen instead of the alternate screen")

	return cmd
}
