package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	statsout "stillness/internal/modules/stats/adapter/out"
	"stillness/internal/modules/stats/domain"
	statsdto "stillness/internal/modules/stats/dto"
	statsin "stillness/internal/modules/stats/port/in"
	"stillness/internal/modules/stats/service"
	"stillness/internal/modules/stats/usecase"
	"stillness/internal/platform/calendar"
	apperrors "stillness/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeSource struct {
	entries []domain.Entry
	err     error
}

func (f *fakeSource) LoadAll(context.Context) ([]domain.Entry, error) {
	return f.entries, f.err
}

func day(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, err := calendar.Parse(s)
	require.NoError(t, err)
	return d
}

func newStats(t *testing.T, source *fakeSource, cachePath string) statsin.Usecase {
	t.Helper()
	clk := fixedClock{now: time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC)}
	svc := service.NewStatsService(clk, source, statsout.NewFileSnapshotCache(cachePath), time.UTC, nil)
	return usecase.NewInteractor(svc)
}

func TestStatsFreshSnapshotWritesCache(t *testing.T) {
	t.Parallel()
	cachePath := filepath.Join(t.TempDir(), ".stillness", "stats-cache.json")
	source := &fakeSource{entries: []domain.Entry{
		{Date: day(t, "2024-01-05"), Minutes: 10, Kind: "timer", MeditationID: "focus-15"},
		{Date: day(t, "2024-01-04"), Minutes: 5, Kind: "breath"},
	}}
	uc := newStats(t, source, cachePath)

	out := uc.Snapshot(context.Background())
	assert.True(t, out.Fresh)
	assert.Equal(t, "history", out.Source)
	assert.Equal(t, 2, out.TotalSessions)
	assert.Equal(t, 15, out.TotalMinutes)
	assert.Equal(t, "2024-01-05", out.LastSessionDate)
	assert.Equal(t, 2, out.StreakDays)
	assert.Equal(t, 2, out.CurrentStreakDays)
	require.Len(t, out.ByKind, 2)
	assert.Equal(t, statsdto.BreakdownOutput{Key: "timer", Sessions: 1, Minutes: 10}, out.ByKind[0])

	_, err := os.Stat(cachePath)
	require.NoError(t, err)
}

func TestStatsFallsBackToCacheThenEmpty(t *testing.T) {
	t.Parallel()
	cachePath := filepath.Join(t.TempDir(), "stats-cache.json")
	source := &fakeSource{entries: []domain.Entry{{Date: day(t, "2024-01-05"), Minutes: 10, Kind: "timer"}}}
	uc := newStats(t, source, cachePath)
	ctx := context.Background()

	failing := &fakeSource{err: errors.New("database locked")}
	cold := newStats(t, failing, filepath.Join(t.TempDir(), "missing.json"))
	empty := cold.Snapshot(ctx)
	assert.False(t, empty.Fresh)
	assert.Equal(t, "empty", empty.Source)
	assert.Equal(t, 0, empty.TotalSessions)
	assert.Empty(t, empty.LastSessionDate)

	require.True(t, uc.Snapshot(ctx).Fresh)
	source.err = errors.New("database locked")
	cached := uc.Snapshot(ctx)
	assert.False(t, cached.Fresh)
	assert.Equal(t, "cache", cached.Source)
	assert.Equal(t, 1, cached.TotalSessions)
	assert.Equal(t, "2024-01-05", cached.LastSessionDate)
}

func TestStatsOfflineCompletionSurvivesFreshReads(t *testing.T) {
	t.Parallel()
	cachePath := filepath.Join(t.TempDir(), "stats-cache.json")
	source := &fakeSource{entries: []domain.Entry{{Date: day(t, "2024-01-05"), Minutes: 10, Kind: "timer"}}}
	uc := newStats(t, source, cachePath)
	ctx := context.Background()
	require.True(t, uc.Snapshot(ctx).Fresh)

	offline, err := uc.RecordOffline(ctx, statsdto.OfflineInput{Kind: "breath", Minutes: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, offline.TotalSessions)
	assert.Equal(t, "2024-01-06", offline.LastSessionDate)
	assert.Equal(t, 2, offline.StreakDays)

	fresh := uc.Snapshot(ctx)
	assert.True(t, fresh.Fresh)
	assert.Equal(t, 2, fresh.TotalSessions)
	assert.Equal(t, 15, fresh.TotalMinutes)
	assert.Equal(t, 2, fresh.StreakDays)

	_, err = uc.RecordOffline(ctx, statsdto.OfflineInput{Kind: "timer", Minutes: 0})
	assert.ErrorIs(t, err, apperrors.ErrZeroDuration)
}

func TestStatsCurrentStreakLapses(t *testing.T) {
	t.Parallel()
	source := &fakeSource{entries: []domain.Entry{{Date: day(t, "2024-01-03"), Minutes: 10}}}
	uc := newStats(t, source, filepath.Join(t.TempDir(), "c.json"))
	out := uc.Snapshot(context.Background())
	assert.Equal(t, 1, out.StreakDays)
	assert.Equal(t, 0, out.CurrentStreakDays)
}
