package in

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	practicedto "stillness/internal/modules/practice/dto"
	practicein "stillness/internal/modules/practice/port/in"
	"stillness/internal/platform/clock"
)

// ErrInterrupted is returned by Run when ctx ends before the session does.
var ErrInterrupted = errors.New("session interrupted")

type RunInput struct {
	Kind         string
	Minutes      int
	Technique    string
	MeditationID string
	Notes        string
	Cues         bool
}

type CLIHandler struct {
	usecase practicein.Usecase
}

func NewCLIHandler(usecase practicein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Run starts a session and blocks until it completes, printing a countdown
// and phase cues to out. Cancelling ctx resets the engine without recording.
func (h CLIHandler) Run(ctx context.Context, input RunInput, out io.Writer) (practicedto.CompletionOutput, error) {
	if input.Minutes > 0 {
		if _, err := h.usecase.Configure(ctx, practicedto.ConfigureInput{Kind: input.Kind, Minutes: input.Minutes}); err != nil {
			return practicedto.CompletionOutput{}, err
		}
	}
	if input.Technique != "" {
		if _, err := h.usecase.SelectTechnique(ctx, input.Technique); err != nil {
			return practicedto.CompletionOutput{}, err
		}
	}

	events := NewEventStream(64)
	unsubscribe := h.usecase.Subscribe(events)
	defer unsubscribe()

	state, err := h.usecase.Start(ctx, practicedto.StartInput{Kind: input.Kind, MeditationID: input.MeditationID, Notes: input.Notes, Cues: input.Cues})
	if err != nil {
		return practicedto.CompletionOutput{}, err
	}
	header := fmt.Sprintf("%s: %d min", state.Kind, state.Minutes)
	if state.TechniqueName != "" {
		header += " (" + state.TechniqueName + ")"
	}
	fmt.Fprintln(out, header)
	if state.PhaseLabel != "" {
		fmt.Fprintf(out, "\r%-24s\n", fmt.Sprintf("%s %ds", state.PhaseLabel, int(math.Ceil(state.PhaseRemaining))))
	}

	lastShown := -1
	for {
		select {
		case <-ctx.Done():
			if _, err := h.usecase.Reset(context.Background(), input.Kind); err != nil {
				return practicedto.CompletionOutput{}, err
			}
			fmt.Fprintln(out)
			return practicedto.CompletionOutput{}, ErrInterrupted
		case tick := <-events.Ticks():
			if tick.Kind != input.Kind {
				continue
			}
			secs := int(math.Ceil(tick.RemainingSeconds))
			if secs != lastShown {
				lastShown = secs
				fmt.Fprintf(out, "\r%s  %3.0f%%", clock.FormatCountdown(tick.RemainingSeconds), tick.Ratio*100)
			}
		case phase := <-events.Phases():
			if phase.Kind != input.Kind {
				continue
			}
			fmt.Fprintf(out, "\r%-24s\n", fmt.Sprintf("%s %ds", phase.Label, int(math.Ceil(phase.SecondsRemaining))))
		case done := <-events.Completions():
			if done.Kind != input.Kind {
				continue
			}
			fmt.Fprintf(out, "\r%s  100%%\n", clock.FormatCountdown(0))
			return done, nil
		}
	}
}

func (h CLIHandler) State(ctx context.Context, kind string) (practicedto.StateOutput, error) {
	return h.usecase.State(ctx, kind)
}
