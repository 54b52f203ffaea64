package app

import (
	tea "github.com/charmbracelet/bubbletea"

	practicedto "stillness/internal/modules/practice/dto"
)

type tickMsg practicedto.TickOutput
type phaseMsg practicedto.PhaseOutput
type completeMsg practicedto.CompletionOutput

// engineObserver forwards engine events into the Bubble Tea loop. Ticks and
// phases are dropped when the loop falls behind; completions wait until the
// program reads them or shuts down.
type engineObserver struct {
	events chan tea.Msg
	done   chan struct{}
}

func newEngineObserver() *engineObserver {
	return &engineObserver{events: make(chan tea.Msg, 32), done: make(chan struct{})}
}

func (o *engineObserver) OnTick(event practicedto.TickOutput) {
	select {
	case o.events <- tickMsg(event):
	default:
	}
}

func (o *engineObserver) OnPhaseChange(event practicedto.PhaseOutput) {
	select {
	case o.events <- phaseMsg(event):
	default:
	}
}

func (o *engineObserver) OnComplete(event practicedto.CompletionOutput) {
	select {
	case o.events <- completeMsg(event):
	case <-o.done:
	}
}

func (o *engineObserver) close() {
	close(o.done)
}

// wait blocks for the next engine event. The model re-issues it after every
// event it receives.
func (o *engineObserver) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-o.events:
			return msg
		case <-o.done:
			return nil
		}
	}
}
