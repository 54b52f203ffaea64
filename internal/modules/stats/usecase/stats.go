package usecase

import (
	"context"
	"fmt"
	"sort"

	"stillness/internal/modules/stats/domain"
	statsdto "stillness/internal/modules/stats/dto"
	statsin "stillness/internal/modules/stats/port/in"
	"stillness/internal/modules/stats/service"
	apperrors "stillness/internal/platform/errors"
)

type Interactor struct {
	svc *service.StatsService
}

func NewInteractor(svc *service.StatsService) statsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Snapshot(ctx context.Context) statsdto.SnapshotOutput {
	res := i.svc.Snapshot(ctx)
	out := toOutput(res.Snapshot)
	out.CurrentStreakDays = domain.CurrentStreak(res.Snapshot, res.Today)
	out.Fresh = res.Fresh
	out.Source = string(res.Source)
	out.AsOf = res.AsOf
	return out
}

func (i *Interactor) RecordOffline(ctx context.Context, input statsdto.OfflineInput) (statsdto.SnapshotOutput, error) {
	if input.Minutes <= 0 {
		return statsdto.SnapshotOutput{}, apperrors.ErrZeroDuration
	}
	snap, err := i.svc.RecordOffline(ctx, domain.Entry{
		Minutes:      float64(input.Minutes),
		Kind:         input.Kind,
		MeditationID: input.MeditationID,
	})
	out := toOutput(snap)
	out.Source = string(service.SourceCache)
	if err != nil {
		return out, fmt.Errorf("record offline session: %w", err)
	}
	return out, nil
}

func toOutput(snap domain.Snapshot) statsdto.SnapshotOutput {
	return statsdto.SnapshotOutput{
		TotalSessions:   snap.TotalSessions,
		TotalMinutes:    snap.TotalMinutes,
		LastSessionDate: snap.LastSessionDate.String(),
		StreakDays:      snap.StreakDays,
		ByKind:          breakdowns(snap.ByKind),
		ByMeditation:    breakdowns(snap.ByMeditation),
	}
}

// breakdowns orders rows by minutes, then key.
func breakdowns(in map[string]domain.Breakdown) []statsdto.BreakdownOutput {
	out := make([]statsdto.BreakdownOutput, 0, len(in))
	for k, v := range in {
		out = append(out, statsdto.BreakdownOutput{Key: k, Sessions: v.Sessions, Minutes: v.Minutes})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Minutes != out[b].Minutes {
			return out[a].Minutes > out[b].Minutes
		}
		return out[a].Key < out[b].Key
	})
	return out
}
