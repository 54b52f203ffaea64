package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stillness/internal/bootstrap"
)

func newSettingsCmd(dataDir *string) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "Saved preferences"}

	settings.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every preference",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, bootstrap.Options{}, func(app *bootstrap.App) error {
				for _, s := range app.SettingsCLI.List(cmd.Context()) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", s.Key, s.Value)
				}
				return nil
			})
		},
	})

	settings.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, bootstrap.Options{}, func(app *bootstrap.App) error {
				s, err := app.SettingsCLI.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), s.Value)
				return nil
			})
		},
	})

	settings.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one preference (values are clamped to their range)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, bootstrap.Options{}, func(app *bootstrap.App) error {
				s, err := app.SettingsCLI.Set(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", s.Key, s.Value)
				return nil
			})
		},
	})
	return settings
}
