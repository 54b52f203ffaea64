package in

import (
	practicedto "stillness/internal/modules/practice/dto"
	practicein "stillness/internal/modules/practice/port/in"
)

// EventStream is an Observer backed by channels. Ticks and phase cues are
// dropped when the reader falls behind; completions are never dropped while
// the completion buffer has room.
type EventStream struct {
	ticks       chan practicedto.TickOutput
	phases      chan practicedto.PhaseOutput
	completions chan practicedto.CompletionOutput
}

var _ practicein.Observer = (*EventStream)(nil)

func NewEventStream(buffer int) *EventStream {
	if buffer < 1 {
		buffer = 1
	}
	return &EventStream{
		ticks:       make(chan practicedto.TickOutput, buffer),
		phases:      make(chan practicedto.PhaseOutput, buffer),
		completions: make(chan practicedto.CompletionOutput, buffer),
	}
}

func (s *EventStream) Ticks() <-chan practicedto.TickOutput             { return s.ticks }
func (s *EventStream) Phases() <-chan practicedto.PhaseOutput           { return s.phases }
func (s *EventStream) Completions() <-chan practicedto.CompletionOutput { return s.completions }

func (s *EventStream) OnTick(event practicedto.TickOutput) {
	select {
	case s.ticks <- event:
	default:
	}
}

func (s *EventStream) OnPhaseChange(event practicedto.PhaseOutput) {
	select {
	case s.phases <- event:
	default:
	}
}

func (s *EventStream) OnComplete(event practicedto.CompletionOutput) {
	select {
	case s.completions <- event:
	default:
	}
}
