package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bnema/studybuddy/internal/adapters/generator"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage response generator API keys",
	}

	cmd.AddCommand(newAuthSetKeyCmd(app), newAuthRemoveKeyCmd(app))

	return cmd
}

func newAuthSetKeyCmd(app *app) *cobra.Command {
	var provider string
	var value string

	cmd := &cobra.Command{
		Use:   "set-key",
		Short: "Store an API key in the secret store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			normalized, err := parseProvider(provider)
			if err != nil {
				return err
			}
			if err := app.load(cmd); err != nil {
				return err
			}
			defer app.close()

			if err := app.credentials.SetAPIKey(cmd.Context(), normalized, value); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Stored %s API key.\n", normalized)
			return err
		},
	}

	cmd.Flags().StringVar(&provider, "provider", generator.ProviderGemini, "Provider ("+strings.Join(generator.Providers, "|")+")")
	cmd.Flags().StringVar(&value, "value", "", "API key value")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newAuthRemoveKeyCmd(app *app) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "remove-key",
		Short: "Remove a stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			normalized, err := parseProvider(provider)
			if err != nil {
				return err
			}
			if err := app.load(cmd); err != nil {
				return err
			}
			defer app.close()

			if err := app.credentials.RemoveAPIKey(cmd.Context(), normalized); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s API key.\n", normalized)
			return err
		},
	}

	cmd.Flags().StringVar(&provider, "provider", generator.ProviderGemini, "Provider ("+strings.Join(generator.Providers, "|")+")")

	return cmd
}

func parseProvider(raw string) (string, error) {
	provider := strings.ToLower(strings.TrimSpace(raw))
	if !slices.Contains(generator.Providers, provider) {
		return "", fmt.Errorf("unsupported provider %q (want %s)", raw, strings.Join(generator.Providers, "|"))
	}
	return provider, nil
}
