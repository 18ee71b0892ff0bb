package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/studybuddy/internal/domain"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
)

func newTipsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tips",
		Short: "Manage the study tips shown in session summaries",
	}

	cmd.AddCommand(newTipsListCmd(app), newTipsAddCmd(app))

	return cmd
}

func newTipsListCmd(app *app) *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List study tips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			defer app.close()

			var matcher glob.Glob
			if match != "" {
				compiled, err := glob.Compile(strings.ToLower(match))
				if err != nil {
					return fmt.Errorf("parse --match pattern %q: %w", match, err)
				}
				matcher = compiled
			}

			tips, err := app.tips.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			shown := 0
			for i, tip := range tips {
				if matcher != nil && !matcher.Match(strings.ToLower(tip.Text)) {
					continue
				}
				shown++
				if _, err := fmt.Fprintf(out, "%2d. %s\n", i+1, tip.Text); err != nil {
					return err
				}
			}

			if shown == 0 {
				_, err = fmt.Fprintln(out, "No tips found.")
			}
			return err
		},
	}

	cmd.Flags().StringVar(&match, "match", "", "Only show tips matching a glob pattern (case-insensitive), e.g. '*sleep*'")

	return cmd
}

func newTipsAddCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <tip...>",
		Short: "Add a study tip to the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			defer app.close()

			tip, err := domain.NewTip(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if err := app.tips.Add(cmd.Context(), tip); err != nil {
				return err
			}

			app.logger.Info("tip added", "path", app.tips.Path())
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added tip: %s\n", tip.Text)
			return err
		},
	}
}
