package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stillness/internal/modules/practice/domain"
	practicedto "stillness/internal/modules/practice/dto"
	practiceout "stillness/internal/modules/practice/port/out"
	"stillness/internal/modules/practice/usecase"
	apperrors "stillness/internal/platform/errors"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeScheduler struct {
	mu  sync.Mutex
	fns []func()
	off []bool
}

func (s *fakeScheduler) Every(_ time.Duration, fn func()) practiceout.Cancel {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := len(s.fns)
	s.fns = append(s.fns, fn)
	s.off = append(s.off, false)
	return func() {
		s.mu.Lock()
		s.off[idx] = true
		s.mu.Unlock()
	}
}

func (s *fakeScheduler) fire() {
	s.mu.Lock()
	var live []func()
	for i, fn := range s.fns {
		if !s.off[i] {
			live = append(live, fn)
		}
	}
	s.mu.Unlock()
	for _, fn := range live {
		fn()
	}
}

type fakeRecorder struct {
	err  error
	seen []practiceout.Completion
}

func (f *fakeRecorder) OnSessionComplete(_ context.Context, c practiceout.Completion) error {
	f.seen = append(f.seen, c)
	return f.err
}

type fakeHooks struct {
	completed []practiceout.Completion
	phases    []string
}

func (f *fakeHooks) SessionCompleted(_ context.Context, c practiceout.Completion) {
	f.completed = append(f.completed, c)
}

func (f *fakeHooks) PhaseChanged(_ context.Context, _ domain.Kind, label string, _ time.Duration) {
	f.phases = append(f.phases, label)
}

type fakePrefs struct {
	minutes   map[domain.Kind]int
	technique domain.Technique
	readErr   error
}

func (f *fakePrefs) Minutes(_ context.Context, kind domain.Kind) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	return f.minutes[kind], nil
}

func (f *fakePrefs) Technique(context.Context) (domain.Technique, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.technique, nil
}

func (f *fakePrefs) SaveMinutes(_ context.Context, kind domain.Kind, minutes int) error {
	f.minutes[kind] = minutes
	return nil
}

func (f *fakePrefs) SaveTechnique(_ context.Context, t domain.Technique) error {
	f.technique = t
	return nil
}

type fakeCatalog map[string]int

func (f fakeCatalog) MeditationMinutes(_ context.Context, id string) (int, error) {
	m, ok := f[id]
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	return m, nil
}

type fakeCues struct{ phases, completes int }

func (f *fakeCues) Phase(string) { f.phases++ }
func (f *fakeCues) Complete()    { f.completes++ }

type captureObserver struct {
	ticks     int
	phases    []string
	completes []practicedto.CompletionOutput
}

func (c *captureObserver) OnTick(practicedto.TickOutput) { c.ticks++ }
func (c *captureObserver) OnPhaseChange(e practicedto.PhaseOutput) {
	c.phases = append(c.phases, e.Label)
}
func (c *captureObserver) OnComplete(e practicedto.CompletionOutput) {
	c.completes = append(c.completes, e)
}

type fixture struct {
	uc    *usecase.Interactor
	clock *fakeClock
	sched *fakeScheduler
	rec   *fakeRecorder
	hooks *fakeHooks
	prefs *fakePrefs
	cues  *fakeCues
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		clock: &fakeClock{now: time.Date(2024, 1, 5, 7, 0, 0, 0, time.UTC)},
		sched: &fakeScheduler{},
		rec:   &fakeRecorder{},
		hooks: &fakeHooks{},
		prefs: &fakePrefs{minutes: map[domain.Kind]int{domain.KindTimer: 2, domain.KindBreath: 1}, technique: domain.TechniqueCoherence},
		cues:  &fakeCues{},
	}
	uc, err := usecase.NewInteractor(context.Background(), usecase.Dependencies{
		Clock:       f.clock,
		Scheduler:   f.sched,
		Recorder:    f.rec,
		Hooks:       f.hooks,
		Preferences: f.prefs,
		Meditations: fakeCatalog{"breathe-5": 5},
		Cues:        f.cues,
	})
	require.NoError(t, err)
	f.uc = uc
	return f
}

func TestInteractorLoadsPreferences(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	timer, err := f.uc.State(ctx, "timer")
	require.NoError(t, err)
	assert.Equal(t, 2, timer.Minutes)
	assert.Equal(t, "idle", timer.Mode)

	breath, err := f.uc.State(ctx, "breath")
	require.NoError(t, err)
	assert.Equal(t, "coherence", breath.Technique)
	assert.Equal(t, 60, breath.DurationSeconds)

	_, err = f.uc.State(ctx, "yoga")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestInteractorFallsBackToDefaultsWhenPreferencesFail(t *testing.T) {
	t.Parallel()
	uc, err := usecase.NewInteractor(context.Background(), usecase.Dependencies{
		Clock:       &fakeClock{},
		Scheduler:   &fakeScheduler{},
		Preferences: &fakePrefs{readErr: errors.New("disk gone")},
	})
	require.NoError(t, err)
	st, err := uc.State(context.Background(), "breath")
	require.NoError(t, err)
	assert.Equal(t, 5, st.Minutes)
	assert.Equal(t, "box", st.Technique)
}

func TestInteractorRecordsNaturalCompletion(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	obs := &captureObserver{}
	unsubscribe := f.uc.Subscribe(obs)
	defer unsubscribe()

	_, err := f.uc.Start(ctx, practicedto.StartInput{Kind: "timer", Cues: true})
	require.NoError(t, err)
	f.clock.Advance(2 * time.Minute)
	f.sched.fire()

	require.Len(t, f.rec.seen, 1)
	assert.Equal(t, practiceout.Completion{Kind: domain.KindTimer, Minutes: 2}, f.rec.seen[0])
	require.Len(t, f.hooks.completed, 1)
	require.Len(t, obs.completes, 1)
	assert.True(t, obs.completes[0].Recorded)
	assert.Equal(t, 1, f.cues.completes)
	assert.Positive(t, obs.ticks)
}

func TestInteractorOnlyOneActiveSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Start(ctx, practicedto.StartInput{Kind: "breath"})
	require.NoError(t, err)
	_, err = f.uc.Start(ctx, practicedto.StartInput{Kind: "timer"})
	assert.ErrorIs(t, err, apperrors.ErrActiveSessionExists)

	_, err = f.uc.Pause(ctx, "breath")
	require.NoError(t, err)
	_, err = f.uc.Start(ctx, practicedto.StartInput{Kind: "timer"})
	assert.ErrorIs(t, err, apperrors.ErrActiveSessionExists)

	_, err = f.uc.Reset(ctx, "breath")
	require.NoError(t, err)
	st, err := f.uc.Start(ctx, practicedto.StartInput{Kind: "timer"})
	require.NoError(t, err)
	assert.Equal(t, "running", st.Mode)
}

func TestInteractorConcurrentStartsLeaveOneSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for trial := 0; trial < 50; trial++ {
		f := newFixture(t)
		var (
			wg      sync.WaitGroup
			gate    = make(chan struct{})
			results = make([]error, 2)
		)
		for n, kind := range []string{"timer", "breath"} {
			n, kind := n, kind
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-gate
				_, results[n] = f.uc.Start(ctx, practicedto.StartInput{Kind: kind})
			}()
		}
		close(gate)
		wg.Wait()

		started := 0
		for _, err := range results {
			if err == nil {
				started++
			} else {
				assert.ErrorIs(t, err, apperrors.ErrActiveSessionExists)
			}
		}
		require.Equal(t, 1, started, "trial %d", trial)

		running := 0
		for _, kind := range []string{"timer", "breath"} {
			st, err := f.uc.State(ctx, kind)
			require.NoError(t, err)
			if st.Mode != "idle" {
				running++
			}
		}
		assert.Equal(t, 1, running, "trial %d", trial)
	}
}

func TestInteractorCarriesNotesToRecorder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Start(ctx, practicedto.StartInput{Kind: "timer", Notes: "evening sit"})
	require.NoError(t, err)
	f.clock.Advance(2 * time.Minute)
	f.sched.fire()

	require.Len(t, f.rec.seen, 1)
	assert.Equal(t, "evening sit", f.rec.seen[0].Notes)

	_, err = f.uc.Start(ctx, practicedto.StartInput{Kind: "timer"})
	require.NoError(t, err)
	f.clock.Advance(2 * time.Minute)
	f.sched.fire()
	require.Len(t, f.rec.seen, 2)
	assert.Empty(t, f.rec.seen[1].Notes)
}

func TestInteractorDropsZeroMinuteCompletion(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Start(ctx, practicedto.StartInput{Kind: "timer"})
	require.NoError(t, err)
	f.clock.Advance(20 * time.Second)
	out, err := f.uc.Complete(ctx, "timer")
	require.NoError(t, err)

	assert.True(t, out.Discarded)
	assert.False(t, out.Recorded)
	assert.Empty(t, f.rec.seen)
	assert.Empty(t, f.hooks.completed)

	_, err = f.uc.Complete(ctx, "timer")
	assert.ErrorIs(t, err, apperrors.ErrNoActiveSession)
}

func TestInteractorRecorderFailureDoesNotStopEngine(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.rec.err = errors.New("store unreachable")
	ctx := context.Background()

	_, err := f.uc.Start(ctx, practicedto.StartInput{Kind: "timer"})
	require.NoError(t, err)
	f.clock.Advance(90 * time.Second)
	out, err := f.uc.Complete(ctx, "timer")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Minutes)
	assert.False(t, out.Recorded)
	assert.True(t, out.Early)

	st, err := f.uc.Start(ctx, practicedto.StartInput{Kind: "timer"})
	require.NoError(t, err)
	assert.Equal(t, "running", st.Mode)
}

func TestInteractorMeditationSizesTimer(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	st, err := f.uc.Start(ctx, practicedto.StartInput{Kind: "timer", MeditationID: "breathe-5"})
	require.NoError(t, err)
	assert.Equal(t, 5, st.Minutes)
	assert.Equal(t, "breathe-5", st.MeditationID)

	f.clock.Advance(5 * time.Minute)
	f.sched.fire()
	require.Len(t, f.rec.seen, 1)
	assert.Equal(t, "breathe-5", f.rec.seen[0].MeditationID)
	assert.Equal(t, 2, f.prefs.minutes[domain.KindTimer])

	_, err = f.uc.Start(ctx, practicedto.StartInput{Kind: "timer", MeditationID: "missing"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestInteractorPersistsConfigurationChanges(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	st, err := f.uc.Configure(ctx, practicedto.ConfigureInput{Kind: "timer", Minutes: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Minutes)
	assert.Equal(t, 1, f.prefs.minutes[domain.KindTimer])

	st, err = f.uc.SelectTechnique(ctx, "nonsense")
	require.NoError(t, err)
	assert.Equal(t, "box", st.Technique)
	assert.Equal(t, domain.TechniqueBox, f.prefs.technique)

	_, err = f.uc.Start(ctx, practicedto.StartInput{Kind: "breath"})
	require.NoError(t, err)
	_, err = f.uc.SelectTechnique(ctx, "478")
	assert.ErrorIs(t, err, apperrors.ErrEngineBusy)
	_, err = f.uc.Configure(ctx, practicedto.ConfigureInput{Kind: "breath", Minutes: 3})
	assert.ErrorIs(t, err, apperrors.ErrEngineBusy)
}

func TestInteractorForwardsBreathPhases(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	obs := &captureObserver{}
	f.uc.Subscribe(obs)

	_, err := f.uc.Start(ctx, practicedto.StartInput{Kind: "breath", Cues: true})
	require.NoError(t, err)
	f.clock.Advance(5 * time.Second)
	f.sched.fire()

	assert.Equal(t, []string{domain.LabelInhale, domain.LabelExhale}, obs.phases)
	assert.Equal(t, obs.phases, f.hooks.phases)
	assert.Equal(t, 2, f.cues.phases)

	f.clock.Advance(55 * time.Second)
	f.sched.fire()
	require.Len(t, f.rec.seen, 1)
	assert.Equal(t, domain.TechniqueCoherence, f.rec.seen[0].Technique)
	assert.Equal(t, domain.KindBreath, f.rec.seen[0].Kind)
}
