package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"stillness/internal/bootstrap"
	historydto "stillness/internal/modules/history/dto"
)

func newHistoryCmd(dataDir *string) *cobra.Command {
	history := &cobra.Command{Use: "history", Short: "Recorded sessions"}

	var kind, since string
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, bootstrap.Options{}, func(app *bootstrap.App) error {
				sessions, err := app.HistoryCLI.List(cmd.Context(), kind, since, limit)
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, s := range sessions {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %-6s %3d min %s\n",
						s.ID, s.CompletedAt.Local().Format("2006-01-02 15:04"), s.Kind, s.DurationMinutes, detail(s))
				}
				return nil
			})
		},
	}
	listCmd.Flags().StringVar(&kind, "kind", "", "timer|breath")
	listCmd.Flags().StringVar(&since, "since", "", "only sessions on or after YYYY-MM-DD")
	listCmd.Flags().IntVar(&limit, "limit", 20, "maximum sessions to show (0 for all)")

	var showID string
	showCmd := &cobra.Command{
		Use:   "show --id <session-id>",
		Short: "Show one session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(showID) == "" {
				return fmt.Errorf("--id is required")
			}
			return withApp(cmd, *dataDir, bootstrap.Options{}, func(app *bootstrap.App) error {
				s, err := app.HistoryCLI.Show(cmd.Context(), showID)
				if err != nil {
					return err
				}
				renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
				if err != nil {
					return err
				}
				rendered, err := renderer.Render(sessionMarkdown(s))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), rendered)
				return nil
			})
		},
	}
	showCmd.Flags().StringVar(&showID, "id", "", "session id")

	var deleteID string
	deleteCmd := &cobra.Command{
		Use:   "delete --id <session-id>",
		Short: "Delete a session note and its index row",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(deleteID) == "" {
				return fmt.Errorf("--id is required")
			}
			return withApp(cmd, *dataDir, bootstrap.Options{}, func(app *bootstrap.App) error {
				if err := app.HistoryCLI.Delete(cmd.Context(), deleteID); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", deleteID)
				return nil
			})
		},
	}
	deleteCmd.Flags().StringVar(&deleteID, "id", "", "session id")

	var noteID, noteText string
	noteCmd := &cobra.Command{
		Use:   "note --id <session-id> --text <notes>",
		Short: "Replace the notes of a recorded session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(noteID) == "" {
				return fmt.Errorf("--id is required")
			}
			return withApp(cmd, *dataDir, bootstrap.Options{}, func(app *bootstrap.App) error {
				s, err := app.HistoryCLI.Note(cmd.Context(), noteID, noteText)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated notes for %s\n", s.ID)
				return nil
			})
		},
	}
	noteCmd.Flags().StringVar(&noteID, "id", "", "session id")
	noteCmd.Flags().StringVar(&noteText, "text", "", "notes text, empty clears them")

	history.AddCommand(listCmd, showCmd, noteCmd, deleteCmd)
	return history
}

func detail(s historydto.SessionOutput) string {
	switch {
	case s.MeditationID != "":
		return s.MeditationID
	case s.Technique != "":
		return s.Technique
	default:
		return ""
	}
}

func sessionMarkdown(s historydto.SessionOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s session, %d min\n\n", s.Kind, s.DurationMinutes)
	fmt.Fprintf(&b, "| field | value |\n|---|---|\n")
	fmt.Fprintf(&b, "| id | `%s` |\n", s.ID)
	fmt.Fprintf(&b, "| completed | %s |\n", s.CompletedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "| date | %s |\n", s.CompletionDate)
	if s.MeditationID != "" {
		fmt.Fprintf(&b, "| meditation | %s |\n", s.MeditationID)
	}
	if s.Technique != "" {
		fmt.Fprintf(&b, "| technique | %s |\n", s.Technique)
	}
	if s.NotePath != "" {
		fmt.Fprintf(&b, "| note | `%s` |\n", s.NotePath)
	}
	if notes := strings.TrimSpace(s.Notes); notes != "" {
		fmt.Fprintf(&b, "\n## Notes\n\n%s\n", notes)
	}
	return b.String()
}
