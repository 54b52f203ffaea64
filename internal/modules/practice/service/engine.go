package service

import (
	"fmt"
	"sync"
	"time"

	"stillness/internal/modules/practice/domain"
	practiceout "stillness/internal/modules/practice/port/out"
	"stillness/internal/platform/clock"
	apperrors "stillness/internal/platform/errors"
)

const (
	DefaultTickInterval = 100 * time.Millisecond
	DefaultEpsilon      = 10 * time.Millisecond
)

// Listener receives engine events. Calls happen outside the engine lock, in
// the order the events were produced, so a listener may call back into the
// engine.
type Listener interface {
	OnTick(event domain.TickEvent)
	OnPhaseChange(event domain.PhaseEvent)
	OnComplete(event domain.CompletionEvent)
}

type Options struct {
	Kind         domain.Kind
	Technique    domain.Technique
	Minutes      int
	TickInterval time.Duration
	Epsilon      time.Duration
}

type State struct {
	Kind           domain.Kind
	Mode           domain.Mode
	Minutes        int
	Duration       time.Duration
	Remaining      time.Duration
	Ratio          float64
	Technique      domain.Technique
	PhaseIndex     int
	PhaseLabel     string
	PhaseRemaining time.Duration
}

// Engine runs one countdown, optionally driving a breath cycle. Each scheduled
// tick carries the generation it was created under; Pause, Reset and finish
// cancel the schedule and bump the generation before returning, so a tick
// already in flight finds itself stale and does nothing.
type Engine struct {
	mu          sync.Mutex
	clock       clock.Clock
	scheduler   practiceout.Scheduler
	listener    Listener
	kind        domain.Kind
	minutes     int
	interval    time.Duration
	epsilon     time.Duration
	countdown   domain.Countdown
	breath      domain.BreathCycle
	lastElapsed time.Duration
	generation  uint64
	cancel      practiceout.Cancel
}

func NewEngine(clk clock.Clock, scheduler practiceout.Scheduler, listener Listener, opts Options) (*Engine, error) {
	if clk == nil || scheduler == nil {
		return nil, fmt.Errorf("clock and scheduler are required")
	}
	if err := opts.Kind.Validate(); err != nil {
		return nil, err
	}
	if opts.Minutes == 0 {
		opts.Minutes = domain.DefaultMinutes(opts.Kind)
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Epsilon <= 0 {
		opts.Epsilon = DefaultEpsilon
	}
	if opts.Technique == "" {
		opts.Technique = domain.TechniqueBox
	}
	minutes := domain.ClampMinutes(opts.Kind, opts.Minutes)
	return &Engine{
		clock:     clk,
		scheduler: scheduler,
		listener:  listener,
		kind:      opts.Kind,
		minutes:   minutes,
		interval:  opts.TickInterval,
		epsilon:   opts.Epsilon,
		countdown: domain.NewCountdown(domain.MinutesToDuration(minutes)),
		breath:    domain.NewBreathCycle(domain.TechniqueOrDefault(string(opts.Technique))),
	}, nil
}

func (e *Engine) Kind() domain.Kind { return e.kind }

// SetListener replaces the listener. Only safe before the first Start.
func (e *Engine) SetListener(l Listener) {
	e.mu.Lock()
	e.listener = l
	e.mu.Unlock()
}

// Configure clamps minutes into range and applies them while idle.
func (e *Engine) Configure(minutes int) (int, error) {
	e.mu.Lock()
	if e.countdown.Mode() != domain.ModeIdle {
		e.mu.Unlock()
		return e.minutes, apperrors.ErrEngineBusy
	}
	e.minutes = domain.ClampMinutes(e.kind, minutes)
	e.countdown.Configure(domain.MinutesToDuration(e.minutes))
	events := []any{e.tickEventLocked(e.clock.Now())}
	e.mu.Unlock()
	e.dispatch(events)
	return e.minutes, nil
}

func (e *Engine) SetTechnique(t domain.Technique) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.countdown.Mode() != domain.ModeIdle {
		return apperrors.ErrEngineBusy
	}
	e.breath = domain.NewBreathCycle(domain.TechniqueOrDefault(string(t)))
	return nil
}

// Start begins a fresh session from idle or resumes a paused one. It is a
// no-op while running.
func (e *Engine) Start() {
	e.mu.Lock()
	mode := e.countdown.Mode()
	if mode == domain.ModeRunning {
		e.mu.Unlock()
		return
	}
	now := e.clock.Now()
	e.countdown.Start(now)
	var events []any
	if mode == domain.ModeIdle {
		e.lastElapsed = 0
		e.breath.Reset()
		if e.kind == domain.KindBreath {
			events = append(events, e.phaseEventLocked())
		}
	}
	e.generation++
	gen := e.generation
	e.cancel = e.scheduler.Every(e.interval, func() { e.tick(gen) })
	events = append(events, e.tickEventLocked(now))
	e.mu.Unlock()
	e.dispatch(events)
}

func (e *Engine) Pause() {
	e.mu.Lock()
	now := e.clock.Now()
	if e.countdown.Mode() != domain.ModeRunning {
		e.mu.Unlock()
		return
	}
	// Fold progress up to the pause instant so the breath cycle sees it.
	events := e.evaluateLocked(now)
	if e.countdown.Mode() == domain.ModeRunning {
		e.stopLocked()
		e.countdown.Pause(now)
	}
	e.mu.Unlock()
	e.dispatch(events)
}

// Reset abandons the session without reporting a completion.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.stopLocked()
	e.countdown.Reset()
	e.breath.Reset()
	e.lastElapsed = 0
	events := []any{e.tickEventLocked(e.clock.Now())}
	e.mu.Unlock()
	e.dispatch(events)
}

// Evaluate samples the clock once, the same as a scheduled tick would.
func (e *Engine) Evaluate() {
	e.mu.Lock()
	if e.countdown.Mode() != domain.ModeRunning {
		e.mu.Unlock()
		return
	}
	events := e.evaluateLocked(e.clock.Now())
	e.mu.Unlock()
	e.dispatch(events)
}

// Complete ends a running or paused session early and reports the elapsed
// minutes, rounded.
func (e *Engine) Complete() (domain.CompletionEvent, error) {
	e.mu.Lock()
	if e.countdown.Mode() == domain.ModeIdle {
		e.mu.Unlock()
		return domain.CompletionEvent{}, apperrors.ErrNoActiveSession
	}
	now := e.clock.Now()
	events := e.evaluateLocked(now)
	if e.countdown.Mode() == domain.ModeIdle {
		// The session ran out on this very sample.
		e.mu.Unlock()
		e.dispatch(events)
		for _, ev := range events {
			if done, ok := ev.(domain.CompletionEvent); ok {
				return done, nil
			}
		}
		return domain.CompletionEvent{}, apperrors.ErrNoActiveSession
	}
	elapsed := e.countdown.Elapsed(now)
	e.stopLocked()
	e.countdown.Finish()
	done := domain.CompletionEvent{
		Kind:      e.kind,
		Minutes:   domain.RoundMinutes(elapsed),
		Technique: e.breath.Technique(),
		Elapsed:   elapsed,
		Early:     true,
	}
	events = append(events, domain.TickEvent{Kind: e.kind}, done)
	e.mu.Unlock()
	e.dispatch(events)
	return done, nil
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()
	return State{
		Kind:           e.kind,
		Mode:           e.countdown.Mode(),
		Minutes:        e.minutes,
		Duration:       e.countdown.Duration(),
		Remaining:      e.countdown.Remaining(now),
		Ratio:          e.countdown.Ratio(now),
		Technique:      e.breath.Technique(),
		PhaseIndex:     e.breath.Index(),
		PhaseLabel:     e.breath.Label(),
		PhaseRemaining: e.breath.Remaining(),
	}
}

func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	if gen != e.generation || e.countdown.Mode() != domain.ModeRunning {
		e.mu.Unlock()
		return
	}
	events := e.evaluateLocked(e.clock.Now())
	e.mu.Unlock()
	e.dispatch(events)
}

func (e *Engine) evaluateLocked(now time.Time) []any {
	var events []any
	elapsed := e.countdown.Elapsed(now)
	if e.kind == domain.KindBreath {
		for _, change := range e.breath.Advance(elapsed - e.lastElapsed) {
			events = append(events, domain.PhaseEvent{Kind: e.kind, Index: change.Index, Label: change.Label, Remaining: change.Remaining})
		}
	}
	e.lastElapsed = elapsed

	remaining := e.countdown.Remaining(now)
	if remaining > e.epsilon {
		return append(events, e.tickEventLocked(now))
	}
	duration := e.countdown.Duration()
	e.stopLocked()
	e.countdown.Finish()
	return append(events,
		domain.TickEvent{Kind: e.kind},
		domain.CompletionEvent{
			Kind:      e.kind,
			Minutes:   domain.RoundMinutes(duration),
			Technique: e.breath.Technique(),
			Elapsed:   elapsed,
		},
	)
}

func (e *Engine) stopLocked() {
	e.generation++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) tickEventLocked(now time.Time) domain.TickEvent {
	return domain.TickEvent{Kind: e.kind, Remaining: e.countdown.Remaining(now), Ratio: e.countdown.Ratio(now)}
}

func (e *Engine) phaseEventLocked() domain.PhaseEvent {
	return domain.PhaseEvent{Kind: e.kind, Index: e.breath.Index(), Label: e.breath.Label(), Remaining: e.breath.Remaining()}
}

func (e *Engine) dispatch(events []any) {
	e.mu.Lock()
	l := e.listener
	e.mu.Unlock()
	if l == nil {
		return
	}
	for _, ev := range events {
		switch v := ev.(type) {
		case domain.TickEvent:
			l.OnTick(v)
		case domain.PhaseEvent:
			l.OnPhaseChange(v)
		case domain.CompletionEvent:
			l.OnComplete(v)
		}
	}
}
