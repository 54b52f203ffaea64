package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stillness/internal/bootstrap"
	"stillness/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "stillness",
		Short:         "Meditation timer, breathing coach and practice log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", ".", "data directory (sessions, settings, catalog, hooks)")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newTimerCmd(&dataDir))
	root.AddCommand(newBreathCmd(&dataDir))
	root.AddCommand(newStatsCmd(&dataDir))
	root.AddCommand(newHistoryCmd(&dataDir))
	root.AddCommand(newReindexCmd(&dataDir))
	root.AddCommand(newCatalogCmd(&dataDir))
	root.AddCommand(newSettingsCmd(&dataDir))
	root.AddCommand(newHooksCmd(&dataDir))
	return root
}

// withApp loads config for dataDir, builds the app, runs fn and closes the app.
func withApp(cmd *cobra.Command, dataDir string, opts bootstrap.Options, fn func(*bootstrap.App) error) error {
	cfg, err := config.Load(dataDir, viper.New())
	if err != nil {
		return err
	}
	app, err := bootstrap.New(cmd.Context(), cfg, opts)
	if err != nil {
		return err
	}
	runErr := fn(app)
	return errors.Join(runErr, app.Close())
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the stillness terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, bootstrap.Options{TUI: true, Bell: os.Stdout}, func(app *bootstrap.App) error {
				return bootstrap.RunTUI(cmd.Context(), app)
			})
		},
	}
}

func newReindexCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the session index from vault notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, bootstrap.Options{}, func(app *bootstrap.App) error {
				out, err := app.HistoryCLI.Reindex(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reindex completed: %d sessions\n", out.Indexed)
				return nil
			})
		},
	}
}
