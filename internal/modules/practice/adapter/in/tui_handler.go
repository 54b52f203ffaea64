package in

import (
	"context"

	practicedto "stillness/internal/modules/practice/dto"
	practicein "stillness/internal/modules/practice/port/in"
)

// TUIHandler exposes the engine controls the terminal UI binds to keys.
type TUIHandler struct {
	usecase practicein.Usecase
}

func NewTUIHandler(usecase practicein.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) State(ctx context.Context, kind string) (practicedto.StateOutput, error) {
	return h.usecase.State(ctx, kind)
}

// Toggle starts an idle or paused engine and pauses a running one. cues only
// applies when a fresh session starts.
func (h TUIHandler) Toggle(ctx context.Context, kind string, cues bool) (practicedto.StateOutput, error) {
	state, err := h.usecase.State(ctx, kind)
	if err != nil {
		return practicedto.StateOutput{}, err
	}
	if state.Mode == "running" {
		return h.usecase.Pause(ctx, kind)
	}
	return h.usecase.Start(ctx, practicedto.StartInput{Kind: kind, MeditationID: state.MeditationID, Cues: cues})
}

func (h TUIHandler) StartMeditation(ctx context.Context, meditationID string, cues bool) (practicedto.StateOutput, error) {
	return h.usecase.Start(ctx, practicedto.StartInput{Kind: "timer", MeditationID: meditationID, Cues: cues})
}

func (h TUIHandler) Reset(ctx context.Context, kind string) (practicedto.StateOutput, error) {
	return h.usecase.Reset(ctx, kind)
}

func (h TUIHandler) Complete(ctx context.Context, kind string) (practicedto.CompletionOutput, error) {
	return h.usecase.Complete(ctx, kind)
}

// Adjust moves the configured duration by delta minutes. It only applies
// while the engine is idle.
func (h TUIHandler) Adjust(ctx context.Context, kind string, delta int) (practicedto.StateOutput, error) {
	state, err := h.usecase.State(ctx, kind)
	if err != nil {
		return practicedto.StateOutput{}, err
	}
	return h.usecase.Configure(ctx, practicedto.ConfigureInput{Kind: kind, Minutes: state.Minutes + delta})
}

func (h TUIHandler) SelectTechnique(ctx context.Context, technique string) (practicedto.StateOutput, error) {
	return h.usecase.SelectTechnique(ctx, technique)
}

func (h TUIHandler) Subscribe(observer practicein.Observer) func() {
	return h.usecase.Subscribe(observer)
}

func (h TUIHandler) SetMinutes(ctx context.Context, kind string, minutes int) (practicedto.StateOutput, error) {
	return h.usecase.Configure(ctx, practicedto.ConfigureInput{Kind: kind, Minutes: minutes})
}
