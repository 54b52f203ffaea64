package out_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdto "stillness/internal/modules/catalog/dto"
	historydto "stillness/internal/modules/history/dto"
	hooksdto "stillness/internal/modules/hooks/dto"
	practiceadapter "stillness/internal/modules/practice/adapter/out"
	"stillness/internal/modules/practice/domain"
	practiceout "stillness/internal/modules/practice/port/out"
	settingsdto "stillness/internal/modules/settings/dto"
	statsdto "stillness/internal/modules/stats/dto"
	apperrors "stillness/internal/platform/errors"
)

type fakeHistory struct {
	recorded []historydto.RecordInput
	err      error
}

func (f *fakeHistory) Record(_ context.Context, input historydto.RecordInput) (historydto.SessionOutput, error) {
	if f.err != nil {
		return historydto.SessionOutput{}, f.err
	}
	f.recorded = append(f.recorded, input)
	return historydto.SessionOutput{ID: "s1", Kind: input.Kind, DurationMinutes: input.DurationMinutes}, nil
}

func (f *fakeHistory) List(context.Context, historydto.ListInput) ([]historydto.SessionOutput, error) {
	return nil, nil
}
func (f *fakeHistory) LoadAll(context.Context) ([]historydto.SessionOutput, error) { return nil, nil }
func (f *fakeHistory) Get(context.Context, string) (historydto.SessionOutput, error) {
	return historydto.SessionOutput{}, apperrors.ErrNotFound
}
func (f *fakeHistory) Annotate(context.Context, historydto.AnnotateInput) (historydto.SessionOutput, error) {
	return historydto.SessionOutput{}, nil
}
func (f *fakeHistory) Delete(context.Context, string) error { return nil }
func (f *fakeHistory) Reindex(context.Context) (historydto.ReindexOutput, error) {
	return historydto.ReindexOutput{}, nil
}

type fakeStats struct {
	offline []statsdto.OfflineInput
	err     error
}

func (f *fakeStats) Snapshot(context.Context) statsdto.SnapshotOutput {
	return statsdto.SnapshotOutput{}
}
func (f *fakeStats) RecordOffline(_ context.Context, input statsdto.OfflineInput) (statsdto.SnapshotOutput, error) {
	if f.err != nil {
		return statsdto.SnapshotOutput{}, f.err
	}
	f.offline = append(f.offline, input)
	return statsdto.SnapshotOutput{TotalSessions: len(f.offline)}, nil
}

type fakeSettings struct {
	values map[string]string
}

func (f *fakeSettings) List(context.Context) []settingsdto.SettingOutput { return nil }
func (f *fakeSettings) Get(_ context.Context, key string) (settingsdto.SettingOutput, error) {
	v, ok := f.values[key]
	if !ok {
		return settingsdto.SettingOutput{}, apperrors.ErrInvalidInput
	}
	return settingsdto.SettingOutput{Key: key, Value: v}, nil
}
func (f *fakeSettings) Set(_ context.Context, input settingsdto.SetInput) (settingsdto.SettingOutput, error) {
	f.values[input.Key] = input.Value
	return settingsdto.SettingOutput{Key: input.Key, Value: input.Value}, nil
}

type fakeHooks struct {
	events []hooksdto.EventInput
	err    error
}

func (f *fakeHooks) List(context.Context) ([]hooksdto.HookInfo, error)       { return nil, nil }
func (f *fakeHooks) Doctor(context.Context) ([]hooksdto.DoctorResult, error) { return nil, nil }
func (f *fakeHooks) Dispatch(_ context.Context, input hooksdto.EventInput) (hooksdto.DispatchOutput, error) {
	f.events = append(f.events, input)
	return hooksdto.DispatchOutput{}, f.err
}

type fakeCatalog struct{}

func (fakeCatalog) List(context.Context, string) ([]catalogdto.MeditationOutput, error) {
	return nil, nil
}
func (fakeCatalog) Get(_ context.Context, id string) (catalogdto.MeditationOutput, error) {
	if id != "body-scan" {
		return catalogdto.MeditationOutput{}, apperrors.ErrNotFound
	}
	return catalogdto.MeditationOutput{ID: id, DurationMinutes: 15}, nil
}
func (fakeCatalog) Create(context.Context, catalogdto.CreateInput) (catalogdto.MeditationOutput, error) {
	return catalogdto.MeditationOutput{}, nil
}
func (fakeCatalog) Update(context.Context, catalogdto.UpdateInput) (catalogdto.MeditationOutput, error) {
	return catalogdto.MeditationOutput{}, nil
}
func (fakeCatalog) Delete(context.Context, string) (catalogdto.MeditationOutput, error) {
	return catalogdto.MeditationOutput{}, nil
}

var completion = practiceout.Completion{Kind: domain.KindBreath, Minutes: 5, Technique: domain.TechniqueBox, Notes: "warm hands"}

func TestHistoryRecorderWritesHistory(t *testing.T) {
	history, stats := &fakeHistory{}, &fakeStats{}
	rec := practiceadapter.NewHistoryRecorder(history, stats, nil)

	require.NoError(t, rec.OnSessionComplete(context.Background(), completion))
	require.Len(t, history.recorded, 1)
	assert.Equal(t, historydto.RecordInput{Kind: "breath", DurationMinutes: 5, Technique: "box", Notes: "warm hands"}, history.recorded[0])
	assert.Empty(t, stats.offline)
}

func TestHistoryRecorderFallsBackToStatsCache(t *testing.T) {
	history, stats := &fakeHistory{err: errors.New("disk full")}, &fakeStats{}
	rec := practiceadapter.NewHistoryRecorder(history, stats, nil)

	require.NoError(t, rec.OnSessionComplete(context.Background(), completion))
	assert.Equal(t, []statsdto.OfflineInput{{Kind: "breath", Minutes: 5}}, stats.offline)

	stats.err = errors.New("cache unwritable")
	err := rec.OnSessionComplete(context.Background(), completion)
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
	assert.ErrorContains(t, err, "cache unwritable")
}

func TestSettingsPreferencesRoundTrip(t *testing.T) {
	settings := &fakeSettings{values: map[string]string{"timer_minutes": "20", "breath_minutes": "5", "technique": "box"}}
	prefs := practiceadapter.NewSettingsPreferences(settings)
	ctx := context.Background()

	minutes, err := prefs.Minutes(ctx, domain.KindTimer)
	require.NoError(t, err)
	assert.Equal(t, 20, minutes)

	require.NoError(t, prefs.SaveMinutes(ctx, domain.KindBreath, 8))
	assert.Equal(t, "8", settings.values["breath_minutes"])

	require.NoError(t, prefs.SaveTechnique(ctx, domain.TechniqueCoherence))
	technique, err := prefs.Technique(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TechniqueCoherence, technique)

	settings.values["timer_minutes"] = "soon"
	_, err = prefs.Minutes(ctx, domain.KindTimer)
	require.Error(t, err)
}

func TestHookNotifierSwallowsErrors(t *testing.T) {
	hooks := &fakeHooks{err: errors.New("hook crashed")}
	notifier := practiceadapter.NewHookNotifier(hooks, nil)

	notifier.SessionCompleted(context.Background(), completion)
	notifier.PhaseChanged(context.Background(), domain.KindBreath, domain.LabelHold, 0)
	require.Len(t, hooks.events, 2)
	assert.Equal(t, "session_completed", hooks.events[0].Type)
	assert.Equal(t, 5, hooks.events[0].Minutes)
	assert.Equal(t, "phase_changed", hooks.events[1].Type)
	assert.Equal(t, domain.LabelHold, hooks.events[1].Label)
}

func TestCatalogLookup(t *testing.T) {
	lookup := practiceadapter.NewCatalogLookup(fakeCatalog{})
	minutes, err := lookup.MeditationMinutes(context.Background(), "body-scan")
	require.NoError(t, err)
	assert.Equal(t, 15, minutes)

	_, err = lookup.MeditationMinutes(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
