package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"stillness/internal/bootstrap"
	statsdto "stillness/internal/modules/stats/dto"
)

func newStatsCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals and streaks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, bootstrap.Options{}, func(app *bootstrap.App) error {
				snap := app.StatsCLI.Show(cmd.Context())
				titles := app.CatalogCLI.Titles(cmd.Context())
				printStats(cmd.OutOrStdout(), snap, titles)
				return nil
			})
		},
	}
}

func printStats(out io.Writer, snap statsdto.SnapshotOutput, titles map[string]string) {
	marker := ""
	if !snap.Fresh {
		marker = " (cached)"
	}
	last := snap.LastSessionDate
	if last == "" {
		last = "-"
	}
	_, _ = fmt.Fprintf(out, "sessions: %d%s\n", snap.TotalSessions, marker)
	_, _ = fmt.Fprintf(out, "minutes:  %d\n", snap.TotalMinutes)
	_, _ = fmt.Fprintf(out, "last:     %s\n", last)
	_, _ = fmt.Fprintf(out, "streak:   %d days (current %d)\n", snap.StreakDays, snap.CurrentStreakDays)
	for _, b := range snap.ByKind {
		_, _ = fmt.Fprintf(out, "  %-10s %3d sessions %5d min\n", b.Key, b.Sessions, b.Minutes)
	}
	for _, b := range snap.ByMeditation {
		name := b.Key
		if title, ok := titles[b.Key]; ok {
			name = title
		}
		_, _ = fmt.Fprintf(out, "  %-24s %3d sessions %5d min\n", name, b.Sessions, b.Minutes)
	}
}
