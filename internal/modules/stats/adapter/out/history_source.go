package out

import (
	"context"

	historyin "stillness/internal/modules/history/port/in"
	"stillness/internal/modules/stats/domain"
	statsout "stillness/internal/modules/stats/port/out"
	"stillness/internal/platform/calendar"
)

// HistorySourceAdapter feeds the aggregator from the history module.
type HistorySourceAdapter struct {
	history historyin.Usecase
}

func NewHistorySourceAdapter(history historyin.Usecase) statsout.HistorySource {
	return &HistorySourceAdapter{history: history}
}

func (a *HistorySourceAdapter) LoadAll(ctx context.Context) ([]domain.Entry, error) {
	sessions, err := a.history.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Entry, 0, len(sessions))
	for _, s := range sessions {
		// A malformed date still counts toward the totals.
		date, _ := calendar.Parse(s.CompletionDate)
		out = append(out, domain.Entry{
			Date:         date,
			Minutes:      float64(s.DurationMinutes),
			Kind:         s.Kind,
			MeditationID: s.MeditationID,
		})
	}
	return out, nil
}
