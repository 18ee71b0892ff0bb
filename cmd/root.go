package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithApp(&app{})
}

func newRootCmdWithApp(app *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sb",
		Short: "Study Buddy (sb): chat, focus timer, tasks and notes for one study session",
		Long: "sb (Study Buddy) runs an interactive study session in the terminal: ask questions, " +
			"time focus blocks and breaks, track tasks by category, keep notes, and end with a short summary.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.flags.configFile, "config", "", "Config file (default ~/.studybuddy/config.toml)")
	flags.StringVar(&app.flags.logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	flags.StringVar(&app.flags.logFile, "log-file", "", "Append logs to this file instead of stderr")

	rootCmd.AddCommand(
		newVersionCmd(),
		newStudyCmd(app),
		newAskCmd(app),
		newTipsCmd(app),
		newAuthCmd(app),
	)

	return rootCmd
}
