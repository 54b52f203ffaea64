package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stillness/internal/modules/stats/domain"
	"stillness/internal/platform/calendar"
)

func date(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, err := calendar.Parse(s)
	require.NoError(t, err)
	return d
}

func TestComputeStreakStopsAtGap(t *testing.T) {
	t.Parallel()
	entries := []domain.Entry{
		{Date: date(t, "2024-01-03"), Minutes: 10, Kind: "timer"},
		{Date: date(t, "2024-01-05"), Minutes: 5, Kind: "breath"},
		{Date: date(t, "2024-01-01"), Minutes: 15, Kind: "timer", MeditationID: "focus-15"},
		{Date: date(t, "2024-01-04"), Minutes: 10, Kind: "timer"},
	}
	snap := domain.Compute(entries)
	assert.Equal(t, 4, snap.TotalSessions)
	assert.Equal(t, 40, snap.TotalMinutes)
	assert.Equal(t, "2024-01-05", snap.LastSessionDate.String())
	assert.Equal(t, 3, snap.StreakDays)
	assert.Equal(t, domain.Breakdown{Sessions: 3, Minutes: 35}, snap.ByKind["timer"])
	assert.Equal(t, domain.Breakdown{Sessions: 1, Minutes: 15}, snap.ByMeditation["focus-15"])
}

func TestComputeSameDayIsIdempotentForStreak(t *testing.T) {
	t.Parallel()
	base := []domain.Entry{
		{Date: date(t, "2024-01-05"), Minutes: 10},
		{Date: date(t, "2024-01-04"), Minutes: 10},
	}
	before := domain.Compute(base)
	after := domain.Compute(append(base, domain.Entry{Date: date(t, "2024-01-05"), Minutes: 7}))

	assert.Equal(t, before.StreakDays, after.StreakDays)
	assert.Equal(t, before.LastSessionDate, after.LastSessionDate)
	assert.Equal(t, 3, after.TotalSessions)
	assert.Equal(t, 27, after.TotalMinutes)
}

func TestComputeEmptyHistory(t *testing.T) {
	t.Parallel()
	snap := domain.Compute(nil)
	assert.Equal(t, 0, snap.TotalSessions)
	assert.Equal(t, 0, snap.TotalMinutes)
	assert.True(t, snap.LastSessionDate.IsZero())
	assert.False(t, snap.HasSessions())
	assert.Equal(t, 0, snap.StreakDays)
}

func TestComputeCoercesBadMinutes(t *testing.T) {
	t.Parallel()
	snap := domain.Compute([]domain.Entry{
		{Date: date(t, "2024-01-05"), Minutes: math.NaN()},
		{Date: date(t, "2024-01-05"), Minutes: -4},
		{Date: date(t, "2024-01-05"), Minutes: 2.6},
		{Date: date(t, "2024-01-05"), Minutes: 2.6},
	})
	assert.Equal(t, 4, snap.TotalSessions)
	assert.Equal(t, 5, snap.TotalMinutes)
}

func TestComputeCrossesMonthBoundary(t *testing.T) {
	t.Parallel()
	snap := domain.Compute([]domain.Entry{
		{Date: date(t, "2024-03-01"), Minutes: 1},
		{Date: date(t, "2024-02-29"), Minutes: 1},
		{Date: date(t, "2024-02-28"), Minutes: 1},
	})
	assert.Equal(t, 3, snap.StreakDays)
}

func TestApplyMatchesComputeForNewerEntries(t *testing.T) {
	t.Parallel()
	history := []domain.Entry{
		{Date: date(t, "2024-01-02"), Minutes: 10, Kind: "timer"},
		{Date: date(t, "2024-01-03"), Minutes: 5, Kind: "breath"},
	}
	additions := []domain.Entry{
		{Date: date(t, "2024-01-03"), Minutes: 4, Kind: "timer"},
		{Date: date(t, "2024-01-04"), Minutes: 8, Kind: "breath", MeditationID: "breathe-5"},
		{Date: date(t, "2024-01-07"), Minutes: 12, Kind: "timer"},
		{Date: date(t, "2024-01-08"), Minutes: 3, Kind: "timer"},
	}

	snap := domain.Compute(history)
	for i, add := range additions {
		snap = domain.Apply(snap, add)
		want := domain.Compute(append(append([]domain.Entry{}, history...), additions[:i+1]...))
		assert.Equal(t, want.TotalSessions, snap.TotalSessions, "step %d", i)
		assert.Equal(t, want.TotalMinutes, snap.TotalMinutes, "step %d", i)
		assert.Equal(t, want.LastSessionDate, snap.LastSessionDate, "step %d", i)
		assert.Equal(t, want.StreakDays, snap.StreakDays, "step %d", i)
		assert.Equal(t, want.ByKind, snap.ByKind, "step %d", i)
	}
}

func TestApplyOlderEntryOnlyMovesTotals(t *testing.T) {
	t.Parallel()
	snap := domain.Compute([]domain.Entry{{Date: date(t, "2024-01-05"), Minutes: 10}})
	next := domain.Apply(snap, domain.Entry{Date: date(t, "2024-01-04"), Minutes: 5})
	assert.Equal(t, 2, next.TotalSessions)
	assert.Equal(t, 15, next.TotalMinutes)
	assert.Equal(t, 1, next.StreakDays)
	assert.Equal(t, "2024-01-05", next.LastSessionDate.String())
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	snap := domain.Compute([]domain.Entry{{Date: date(t, "2024-01-05"), Minutes: 10, Kind: "timer"}})
	_ = domain.Apply(snap, domain.Entry{Date: date(t, "2024-01-06"), Minutes: 5, Kind: "timer"})
	assert.Equal(t, domain.Breakdown{Sessions: 1, Minutes: 10}, snap.ByKind["timer"])
}

func TestCurrentStreakLapsesAfterMissedDay(t *testing.T) {
	t.Parallel()
	snap := domain.Compute([]domain.Entry{
		{Date: date(t, "2024-01-05"), Minutes: 10},
		{Date: date(t, "2024-01-04"), Minutes: 10},
	})
	assert.Equal(t, 2, domain.CurrentStreak(snap, date(t, "2024-01-05")))
	assert.Equal(t, 2, domain.CurrentStreak(snap, date(t, "2024-01-06")))
	assert.Equal(t, 0, domain.CurrentStreak(snap, date(t, "2024-01-07")))
	assert.Equal(t, 0, domain.CurrentStreak(domain.Snapshot{}, date(t, "2024-01-07")))
}
