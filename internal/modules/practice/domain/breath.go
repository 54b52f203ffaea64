package domain

import "time"

type PhaseChange struct {
	Index     int
	Label     string
	Remaining time.Duration
}

// BreathCycle walks a technique's phases. Overshoot past a phase boundary is
// carried into the following phase so transitions stay aligned with absolute
// elapsed time however irregular the deltas are.
type BreathCycle struct {
	technique Technique
	phases    []Phase
	cycle     time.Duration
	index     int
	remaining time.Duration
}

func NewBreathCycle(t Technique) BreathCycle {
	phases := t.Phases()
	var cycle time.Duration
	for _, p := range phases {
		cycle += p.Duration
	}
	return BreathCycle{technique: t, phases: phases, cycle: cycle, remaining: phases[0].Duration}
}

func (b *BreathCycle) Technique() Technique       { return b.technique }
func (b *BreathCycle) Index() int                 { return b.index }
func (b *BreathCycle) Label() string              { return b.phases[b.index].Label }
func (b *BreathCycle) Remaining() time.Duration   { return b.remaining }
func (b *BreathCycle) Phases() []Phase            { return append([]Phase(nil), b.phases...) }
func (b *BreathCycle) CycleLength() time.Duration { return b.cycle }

func (b *BreathCycle) Reset() {
	b.index = 0
	b.remaining = b.phases[0].Duration
}

// Advance consumes delta and reports every phase entered, in order. Whole
// cycles inside a very large delta are folded away without events, so a long
// stall yields at most one event per phase.
func (b *BreathCycle) Advance(delta time.Duration) []PhaseChange {
	if delta <= 0 {
		return nil
	}
	if b.cycle > 0 && delta > b.cycle {
		delta -= (delta / b.cycle) * b.cycle
		if delta == 0 {
			delta = b.cycle
		}
	}
	b.remaining -= delta
	var changes []PhaseChange
	for b.remaining <= 0 {
		overshoot := -b.remaining
		b.index = (b.index + 1) % len(b.phases)
		b.remaining = b.phases[b.index].Duration - overshoot
		changes = append(changes, PhaseChange{Index: b.index, Label: b.phases[b.index].Label, Remaining: b.remaining})
	}
	return changes
}
