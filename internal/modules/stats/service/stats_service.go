package service

import (
	"context"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"stillness/internal/modules/stats/domain"
	statsout "stillness/internal/modules/stats/port/out"
	"stillness/internal/platform/calendar"
	"stillness/internal/platform/clock"
	"stillness/internal/platform/logging"
)

type Source string

const (
	SourceHistory Source = "history"
	SourceCache   Source = "cache"
	SourceEmpty   Source = "empty"
)

// Result is the two-tier outcome of a stats read: Fresh when computed from
// the history store, otherwise the last cached snapshot.
type Result struct {
	Snapshot domain.Snapshot
	Fresh    bool
	Source   Source
	AsOf     time.Time
	Today    calendar.Date
}

type StatsService struct {
	clock  clock.Clock
	source statsout.HistorySource
	cache  statsout.SnapshotCache
	loc    *time.Location
	log    hclog.Logger

	mu sync.Mutex
}

func NewStatsService(clk clock.Clock, source statsout.HistorySource, cache statsout.SnapshotCache, loc *time.Location, logger hclog.Logger) *StatsService {
	if loc == nil {
		loc = time.Local
	}
	return &StatsService{clock: clk, source: source, cache: cache, loc: loc, log: logging.OrNull(logger).Named("stats")}
}

// Snapshot never fails on store errors; it degrades to the cache and then to
// the empty snapshot.
func (s *StatsService) Snapshot(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	today := calendar.DateOf(now, s.loc)
	state, cacheErr := s.cache.Load(ctx)
	if cacheErr != nil {
		s.log.Debug("stats cache unavailable", "error", cacheErr)
	}

	entries, err := s.source.LoadAll(ctx)
	if err == nil {
		all := append(entries, pendingOf(state, cacheErr)...)
		snap := domain.Compute(all)
		next := domain.CacheState{Snapshot: snap, UpdatedAt: now}
		if cacheErr == nil {
			next.Pending = state.Pending
		}
		if saveErr := s.cache.Save(ctx, next); saveErr != nil {
			s.log.Warn("write stats cache", "error", saveErr)
		}
		return Result{Snapshot: snap, Fresh: true, Source: SourceHistory, AsOf: now, Today: today}
	}

	s.log.Warn("history unavailable, using cached stats", "error", err)
	if cacheErr != nil {
		return Result{Source: SourceEmpty, AsOf: now, Today: today}
	}
	return Result{Snapshot: state.Snapshot, Source: SourceCache, AsOf: state.UpdatedAt, Today: today}
}

// RecordOffline folds a completion the history store refused into the cached
// snapshot and keeps it pending so later fresh reads still count it.
func (s *StatsService) RecordOffline(ctx context.Context, entry domain.Entry) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if entry.Date.IsZero() {
		entry.Date = calendar.DateOf(now, s.loc)
	}
	state, err := s.cache.Load(ctx)
	if err != nil {
		s.log.Debug("starting stats cache from empty", "error", err)
		state = domain.CacheState{}
	}
	state.Snapshot = domain.Apply(state.Snapshot, entry)
	state.Pending = append(state.Pending, entry)
	state.UpdatedAt = now
	if err := s.cache.Save(ctx, state); err != nil {
		return state.Snapshot, err
	}
	s.log.Info("completion kept in stats cache", "kind", entry.Kind, "minutes", entry.Minutes)
	return state.Snapshot, nil
}

func pendingOf(state domain.CacheState, err error) []domain.Entry {
	if err != nil {
		return nil
	}
	return state.Pending
}
