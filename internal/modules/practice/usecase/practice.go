package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"stillness/internal/modules/practice/domain"
	practicedto "stillness/internal/modules/practice/dto"
	practicein "stillness/internal/modules/practice/port/in"
	practiceout "stillness/internal/modules/practice/port/out"
	"stillness/internal/modules/practice/service"
	"stillness/internal/platform/clock"
	apperrors "stillness/internal/platform/errors"
	"stillness/internal/platform/logging"
)

const recordTimeout = 10 * time.Second

type Dependencies struct {
	Clock       clock.Clock
	Scheduler   practiceout.Scheduler
	Recorder    practiceout.CompletionRecorder
	Hooks       practiceout.HookNotifier
	Preferences practiceout.Preferences
	Meditations practiceout.MeditationLookup
	Cues        practiceout.CueSink
	Logger      hclog.Logger

	TickInterval time.Duration
	Epsilon      time.Duration
}

type session struct {
	meditationID string
	notes        string
	cues         bool
}

// Interactor owns one timer engine and one breath engine. At most one of them
// is out of idle at any time.
type Interactor struct {
	deps    Dependencies
	log     hclog.Logger
	engines map[domain.Kind]*service.Engine

	// startMu serialises Start so the single-active-session check and the
	// engine transition are one step.
	startMu sync.Mutex

	mu        sync.Mutex
	sessions  map[domain.Kind]session
	last      map[domain.Kind]practicedto.CompletionOutput
	observers map[int]practicein.Observer
	nextObs   int
}

func NewInteractor(ctx context.Context, deps Dependencies) (*Interactor, error) {
	if deps.Clock == nil {
		deps.Clock = clock.MonotonicClock{}
	}
	i := &Interactor{
		deps:      deps,
		log:       logging.OrNull(deps.Logger).Named("practice"),
		engines:   map[domain.Kind]*service.Engine{},
		sessions:  map[domain.Kind]session{},
		last:      map[domain.Kind]practicedto.CompletionOutput{},
		observers: map[int]practicein.Observer{},
	}
	technique := domain.TechniqueBox
	if deps.Preferences != nil {
		if t, err := deps.Preferences.Technique(ctx); err == nil {
			technique = t
		} else {
			i.log.Debug("technique preference unavailable", "error", err)
		}
	}
	for _, kind := range []domain.Kind{domain.KindTimer, domain.KindBreath} {
		minutes := domain.DefaultMinutes(kind)
		if deps.Preferences != nil {
			if m, err := deps.Preferences.Minutes(ctx, kind); err == nil {
				minutes = m
			} else {
				i.log.Debug("minutes preference unavailable", "kind", kind, "error", err)
			}
		}
		engine, err := service.NewEngine(deps.Clock, deps.Scheduler, i, service.Options{
			Kind:         kind,
			Technique:    technique,
			Minutes:      minutes,
			TickInterval: deps.TickInterval,
			Epsilon:      deps.Epsilon,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s engine: %w", kind, err)
		}
		i.engines[kind] = engine
	}
	return i, nil
}

var _ practicein.Usecase = (*Interactor)(nil)

func (i *Interactor) State(_ context.Context, kind string) (practicedto.StateOutput, error) {
	engine, err := i.engine(kind)
	if err != nil {
		return practicedto.StateOutput{}, err
	}
	return i.stateOutput(engine), nil
}

func (i *Interactor) Configure(ctx context.Context, input practicedto.ConfigureInput) (practicedto.StateOutput, error) {
	engine, err := i.engine(input.Kind)
	if err != nil {
		return practicedto.StateOutput{}, err
	}
	minutes, err := engine.Configure(input.Minutes)
	if err != nil {
		return i.stateOutput(engine), err
	}
	i.mu.Lock()
	delete(i.sessions, engine.Kind())
	i.mu.Unlock()
	if i.deps.Preferences != nil {
		if err := i.deps.Preferences.SaveMinutes(ctx, engine.Kind(), minutes); err != nil {
			i.log.Warn("save minutes preference", "kind", engine.Kind(), "error", err)
		}
	}
	return i.stateOutput(engine), nil
}

func (i *Interactor) SelectTechnique(ctx context.Context, technique string) (practicedto.StateOutput, error) {
	engine := i.engines[domain.KindBreath]
	t := domain.TechniqueOrDefault(technique)
	if err := engine.SetTechnique(t); err != nil {
		return i.stateOutput(engine), err
	}
	if i.deps.Preferences != nil {
		if err := i.deps.Preferences.SaveTechnique(ctx, t); err != nil {
			i.log.Warn("save technique preference", "error", err)
		}
	}
	return i.stateOutput(engine), nil
}

// Start begins or resumes the session for input.Kind. A meditation id sizes a
// fresh timer session from the catalog.
func (i *Interactor) Start(ctx context.Context, input practicedto.StartInput) (practicedto.StateOutput, error) {
	engine, err := i.engine(input.Kind)
	if err != nil {
		return practicedto.StateOutput{}, err
	}
	i.startMu.Lock()
	defer i.startMu.Unlock()
	for kind, other := range i.engines {
		if kind != engine.Kind() && other.State().Mode != domain.ModeIdle {
			return i.stateOutput(engine), apperrors.ErrActiveSessionExists
		}
	}

	if engine.State().Mode == domain.ModeIdle {
		if input.MeditationID != "" {
			if i.deps.Meditations == nil {
				return i.stateOutput(engine), fmt.Errorf("%w: meditation catalog is not configured", apperrors.ErrInvalidInput)
			}
			minutes, err := i.deps.Meditations.MeditationMinutes(ctx, input.MeditationID)
			if err != nil {
				return i.stateOutput(engine), fmt.Errorf("resolve meditation %s: %w", input.MeditationID, err)
			}
			if _, err := engine.Configure(minutes); err != nil {
				return i.stateOutput(engine), err
			}
		}
		i.mu.Lock()
		i.sessions[engine.Kind()] = session{meditationID: input.MeditationID, notes: input.Notes, cues: input.Cues}
		i.mu.Unlock()
	}
	engine.Start()
	return i.stateOutput(engine), nil
}

func (i *Interactor) Pause(_ context.Context, kind string) (practicedto.StateOutput, error) {
	engine, err := i.engine(kind)
	if err != nil {
		return practicedto.StateOutput{}, err
	}
	engine.Pause()
	return i.stateOutput(engine), nil
}

func (i *Interactor) Reset(_ context.Context, kind string) (practicedto.StateOutput, error) {
	engine, err := i.engine(kind)
	if err != nil {
		return practicedto.StateOutput{}, err
	}
	engine.Reset()
	i.mu.Lock()
	delete(i.sessions, engine.Kind())
	i.mu.Unlock()
	return i.stateOutput(engine), nil
}

// Complete stops the session early. The completion goes through the same
// recording path as a natural finish.
func (i *Interactor) Complete(_ context.Context, kind string) (practicedto.CompletionOutput, error) {
	engine, err := i.engine(kind)
	if err != nil {
		return practicedto.CompletionOutput{}, err
	}
	if _, err := engine.Complete(); err != nil {
		return practicedto.CompletionOutput{}, err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.last[engine.Kind()], nil
}

func (i *Interactor) Subscribe(observer practicein.Observer) func() {
	i.mu.Lock()
	defer i.mu.Unlock()
	id := i.nextObs
	i.nextObs++
	i.observers[id] = observer
	return func() {
		i.mu.Lock()
		delete(i.observers, id)
		i.mu.Unlock()
	}
}

// OnTick, OnPhaseChange and OnComplete make the interactor the engines'
// listener.
func (i *Interactor) OnTick(event domain.TickEvent) {
	out := practicedto.TickOutput{Kind: string(event.Kind), RemainingSeconds: event.Remaining.Seconds(), Ratio: event.Ratio}
	for _, obs := range i.snapshotObservers() {
		obs.OnTick(out)
	}
}

func (i *Interactor) OnPhaseChange(event domain.PhaseEvent) {
	if i.session(event.Kind).cues && i.deps.Cues != nil {
		i.deps.Cues.Phase(event.Label)
	}
	if i.deps.Hooks != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		i.deps.Hooks.PhaseChanged(ctx, event.Kind, event.Label, event.Remaining)
		cancel()
	}
	out := practicedto.PhaseOutput{Kind: string(event.Kind), Label: event.Label, SecondsRemaining: event.Remaining.Seconds()}
	for _, obs := range i.snapshotObservers() {
		obs.OnPhaseChange(out)
	}
}

func (i *Interactor) OnComplete(event domain.CompletionEvent) {
	sess := i.session(event.Kind)
	i.mu.Lock()
	delete(i.sessions, event.Kind)
	i.mu.Unlock()

	out := practicedto.CompletionOutput{
		Kind:         string(event.Kind),
		Minutes:      event.Minutes,
		MeditationID: sess.meditationID,
		Elapsed:      event.Elapsed,
		Early:        event.Early,
	}
	if event.Kind == domain.KindBreath {
		out.Technique = string(event.Technique)
	}
	if sess.cues && i.deps.Cues != nil {
		i.deps.Cues.Complete()
	}

	if event.Minutes <= 0 {
		out.Discarded = true
		i.log.Info("discarding zero-minute completion", "kind", event.Kind, "elapsed", event.Elapsed)
	} else {
		completion := practiceout.Completion{
			Kind:         event.Kind,
			Minutes:      event.Minutes,
			Technique:    domain.Technique(out.Technique),
			MeditationID: sess.meditationID,
			Notes:        sess.notes,
		}
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if i.deps.Recorder != nil {
			if err := i.deps.Recorder.OnSessionComplete(ctx, completion); err != nil {
				i.log.Error("record completion", "kind", event.Kind, "minutes", event.Minutes, "error", err)
			} else {
				out.Recorded = true
			}
		}
		if i.deps.Hooks != nil {
			i.deps.Hooks.SessionCompleted(ctx, completion)
		}
		cancel()
	}

	i.mu.Lock()
	i.last[event.Kind] = out
	i.mu.Unlock()
	for _, obs := range i.snapshotObservers() {
		obs.OnComplete(out)
	}
}

func (i *Interactor) engine(kind string) (*service.Engine, error) {
	k := domain.Kind(kind)
	if err := k.Validate(); err != nil {
		return nil, err
	}
	engine, ok := i.engines[k]
	if !ok {
		return nil, fmt.Errorf("%w: no %s engine", apperrors.ErrNotFound, kind)
	}
	return engine, nil
}

func (i *Interactor) session(kind domain.Kind) session {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.sessions[kind]
}

func (i *Interactor) snapshotObservers() []practicein.Observer {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]practicein.Observer, 0, len(i.observers))
	for id := 0; id < i.nextObs; id++ {
		if obs, ok := i.observers[id]; ok {
			out = append(out, obs)
		}
	}
	return out
}

func (i *Interactor) stateOutput(engine *service.Engine) practicedto.StateOutput {
	st := engine.State()
	out := practicedto.StateOutput{
		Kind:             string(st.Kind),
		Mode:             string(st.Mode),
		Minutes:          st.Minutes,
		DurationSeconds:  int(st.Duration / time.Second),
		RemainingSeconds: st.Remaining.Seconds(),
		Ratio:            st.Ratio,
		MeditationID:     i.session(st.Kind).meditationID,
	}
	if st.Kind == domain.KindBreath {
		out.Technique = string(st.Technique)
		out.TechniqueName = st.Technique.Name()
		out.PhaseIndex = st.PhaseIndex
		out.PhaseLabel = st.PhaseLabel
		out.PhaseRemaining = st.PhaseRemaining.Seconds()
	}
	return out
}
