package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stillness/internal/bootstrap"
)

func newHooksCmd(dataDir *string) *cobra.Command {
	hooks := &cobra.Command{Use: "hooks", Short: "External hook plugins"}
	hooks.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List hook manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, bootstrap.Options{}, func(app *bootstrap.App) error {
				items, err := app.HooksCLI.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no hooks configured")
					return nil
				}
				for _, h := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t events=%s binary=%s\n", h.Name, h.Version, h.Enabled, strings.Join(h.Events, ","), h.Binary)
				}
				return nil
			})
		},
	})

	hooks.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate hook checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, bootstrap.Options{}, func(app *bootstrap.App) error {
				results, err := app.HooksCLI.Doctor(cmd.Context())
				if err != nil {
					return err
				}
				if len(results) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no hooks configured")
					return nil
				}
				for _, r := range results {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
					if r.Error != "" {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				return nil
			})
		},
	})
	return hooks
}
