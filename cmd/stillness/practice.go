package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"stillness/internal/bootstrap"
	practiceinadapter "stillness/internal/modules/practice/adapter/in"
	practicedomain "stillness/internal/modules/practice/domain"
	practicedto "stillness/internal/modules/practice/dto"
)

func newTimerCmd(dataDir *string) *cobra.Command {
	timer := &cobra.Command{Use: "timer", Short: "Meditation timer"}

	var minutes int
	var meditationID, notes string
	var bell bool
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Run a timer session in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, *dataDir, bell, practiceinadapter.RunInput{
				Kind:         "timer",
				Minutes:      minutes,
				MeditationID: meditationID,
				Notes:        notes,
				Cues:         bell,
			})
		},
	}
	startCmd.Flags().IntVar(&minutes, "minutes", 0, minutesUsage(practicedomain.KindTimer))
	startCmd.Flags().StringVar(&meditationID, "meditation", "", "guided meditation id from the catalog")
	startCmd.Flags().StringVar(&notes, "notes", "", "notes saved with the recorded session")
	startCmd.Flags().BoolVar(&bell, "bell", false, "ring the terminal bell on completion")
	timer.AddCommand(startCmd)
	return timer
}

func newBreathCmd(dataDir *string) *cobra.Command {
	breath := &cobra.Command{Use: "breath", Short: "Guided breathing"}

	var minutes int
	var technique, notes string
	var bell bool
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Run a breathing session in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, *dataDir, bell, practiceinadapter.RunInput{
				Kind:      "breath",
				Minutes:   minutes,
				Technique: technique,
				Notes:     notes,
				Cues:      bell,
			})
		},
	}
	startCmd.Flags().IntVar(&minutes, "minutes", 0, minutesUsage(practicedomain.KindBreath))
	startCmd.Flags().StringVar(&technique, "technique", "", "box|478|coherence (default: last used)")
	startCmd.Flags().StringVar(&notes, "notes", "", "notes saved with the recorded session")
	startCmd.Flags().BoolVar(&bell, "bell", false, "ring the terminal bell on each phase and on completion")
	breath.AddCommand(startCmd)
	return breath
}

func minutesUsage(kind practicedomain.Kind) string {
	lo, hi := practicedomain.MinutesRange(kind)
	return fmt.Sprintf("session length (%d-%d, default: last used)", lo, hi)
}

func runSession(cmd *cobra.Command, dataDir string, bell bool, input practiceinadapter.RunInput) error {
	opts := bootstrap.Options{}
	if bell {
		opts.Bell = os.Stdout
	}
	return withApp(cmd, dataDir, opts, func(app *bootstrap.App) error {
		out := cmd.OutOrStdout()
		done, err := app.PracticeCLI.Run(cmd.Context(), input, out)
		if errors.Is(err, practiceinadapter.ErrInterrupted) {
			_, _ = fmt.Fprintln(out, "session stopped, nothing recorded")
			return nil
		}
		if err != nil {
			return err
		}
		printCompletion(out, done)
		return nil
	})
}

func printCompletion(out io.Writer, done practicedto.CompletionOutput) {
	switch {
	case done.Discarded:
		_, _ = fmt.Fprintln(out, "session under a minute, not recorded")
	case done.Recorded:
		_, _ = fmt.Fprintf(out, "recorded %d min %s session\n", done.Minutes, done.Kind)
	default:
		_, _ = fmt.Fprintf(out, "completed %d min %s session (not saved, see log)\n", done.Minutes, done.Kind)
	}
}
