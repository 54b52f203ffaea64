package domain

import (
	"math"
	"sort"
	"time"

	"stillness/internal/platform/calendar"
)

// Entry is the slice of a session record the aggregator needs.
type Entry struct {
	Date         calendar.Date `json:"date"`
	Minutes      float64       `json:"minutes"`
	Kind         string        `json:"kind"`
	MeditationID string        `json:"meditation_id,omitempty"`
}

type Breakdown struct {
	Sessions int `json:"sessions"`
	Minutes  int `json:"minutes"`
}

// Snapshot is derived data. A zero LastSessionDate means no sessions yet.
type Snapshot struct {
	TotalSessions   int                  `json:"total_sessions"`
	TotalMinutes    int                  `json:"total_minutes"`
	LastSessionDate calendar.Date        `json:"last_session_date"`
	StreakDays      int                  `json:"streak_days"`
	ByKind          map[string]Breakdown `json:"by_kind,omitempty"`
	ByMeditation    map[string]Breakdown `json:"by_meditation,omitempty"`
}

func (s Snapshot) HasSessions() bool {
	return !s.LastSessionDate.IsZero()
}

// Compute aggregates entries. Same-day sessions count once toward the streak,
// which runs back from the most recent date until the first missing day.
func Compute(entries []Entry) Snapshot {
	if len(entries) == 0 {
		return Snapshot{}
	}
	var total float64
	seen := map[calendar.Date]struct{}{}
	kindMinutes := map[string]float64{}
	medMinutes := map[string]float64{}
	snap := Snapshot{
		TotalSessions: len(entries),
		ByKind:        map[string]Breakdown{},
		ByMeditation:  map[string]Breakdown{},
	}
	for _, e := range entries {
		m := sanitize(e.Minutes)
		total += m
		if !e.Date.IsZero() {
			seen[e.Date] = struct{}{}
		}
		if e.Kind != "" {
			b := snap.ByKind[e.Kind]
			b.Sessions++
			snap.ByKind[e.Kind] = b
			kindMinutes[e.Kind] += m
		}
		if e.MeditationID != "" {
			b := snap.ByMeditation[e.MeditationID]
			b.Sessions++
			snap.ByMeditation[e.MeditationID] = b
			medMinutes[e.MeditationID] += m
		}
	}
	snap.TotalMinutes = int(math.Round(total))
	for k, m := range kindMinutes {
		b := snap.ByKind[k]
		b.Minutes = int(math.Round(m))
		snap.ByKind[k] = b
	}
	for k, m := range medMinutes {
		b := snap.ByMeditation[k]
		b.Minutes = int(math.Round(m))
		snap.ByMeditation[k] = b
	}

	dates := make([]calendar.Date, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	if len(dates) == 0 {
		return snap
	}
	snap.LastSessionDate = dates[0]
	snap.StreakDays = 1
	for i := 1; i < len(dates); i++ {
		if dates[i].DaysUntil(dates[i-1]) != 1 {
			break
		}
		snap.StreakDays++
	}
	return snap
}

// Apply folds one entry into an existing snapshot without the full history.
// It matches Compute for entries dated on or after the last session date;
// older entries only move the totals.
func Apply(snap Snapshot, e Entry) Snapshot {
	out := snap
	out.ByKind = cloneBreakdowns(snap.ByKind)
	out.ByMeditation = cloneBreakdowns(snap.ByMeditation)

	m := int(math.Round(sanitize(e.Minutes)))
	out.TotalSessions++
	out.TotalMinutes += m
	if e.Kind != "" {
		b := out.ByKind[e.Kind]
		b.Sessions++
		b.Minutes += m
		out.ByKind[e.Kind] = b
	}
	if e.MeditationID != "" {
		b := out.ByMeditation[e.MeditationID]
		b.Sessions++
		b.Minutes += m
		out.ByMeditation[e.MeditationID] = b
	}

	switch {
	case e.Date.IsZero():
	case out.LastSessionDate.IsZero():
		out.LastSessionDate = e.Date
		out.StreakDays = 1
	case e.Date == out.LastSessionDate:
	case out.LastSessionDate.DaysUntil(e.Date) == 1:
		out.LastSessionDate = e.Date
		out.StreakDays++
	case e.Date.After(out.LastSessionDate):
		out.LastSessionDate = e.Date
		out.StreakDays = 1
	}
	return out
}

// CurrentStreak is the streak as of today: zero once a full day has passed
// without a session.
func CurrentStreak(snap Snapshot, today calendar.Date) int {
	if snap.LastSessionDate.IsZero() || snap.LastSessionDate.DaysUntil(today) > 1 {
		return 0
	}
	return snap.StreakDays
}

// CacheState is what survives between runs: the last good snapshot plus
// completions that never reached the history store.
type CacheState struct {
	Snapshot  Snapshot  `json:"snapshot"`
	Pending   []Entry   `json:"pending,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func sanitize(m float64) float64 {
	if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
		return 0
	}
	return m
}

func cloneBreakdowns(in map[string]Breakdown) map[string]Breakdown {
	out := make(map[string]Breakdown, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
