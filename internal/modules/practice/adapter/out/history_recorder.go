package out

import (
	"context"
	"errors"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	historydto "stillness/internal/modules/history/dto"
	historyin "stillness/internal/modules/history/port/in"
	practiceout "stillness/internal/modules/practice/port/out"
	statsdto "stillness/internal/modules/stats/dto"
	statsin "stillness/internal/modules/stats/port/in"
	"stillness/internal/platform/logging"
)

// HistoryRecorder persists completions through the history module. When the
// history write fails the session is folded into the stats cache instead, so
// totals and streaks still move while the vault is unavailable.
type HistoryRecorder struct {
	history historyin.Usecase
	stats   statsin.Usecase
	logger  hclog.Logger
}

var _ practiceout.CompletionRecorder = (*HistoryRecorder)(nil)

func NewHistoryRecorder(history historyin.Usecase, stats statsin.Usecase, logger hclog.Logger) *HistoryRecorder {
	return &HistoryRecorder{history: history, stats: stats, logger: logging.OrNull(logger).Named("recorder")}
}

func (r *HistoryRecorder) OnSessionComplete(ctx context.Context, completion practiceout.Completion) error {
	_, err := r.history.Record(ctx, historydto.RecordInput{
		Kind:            string(completion.Kind),
		DurationMinutes: completion.Minutes,
		MeditationID:    completion.MeditationID,
		Technique:       string(completion.Technique),
		Notes:           completion.Notes,
	})
	if err == nil {
		return nil
	}
	if r.stats == nil {
		return err
	}

	r.logger.Warn("history write failed, folding session into stats cache", "kind", string(completion.Kind), "minutes", completion.Minutes, "error", err)
	if _, offlineErr := r.stats.RecordOffline(ctx, statsdto.OfflineInput{
		Kind:         string(completion.Kind),
		Minutes:      completion.Minutes,
		MeditationID: completion.MeditationID,
	}); offlineErr != nil {
		return fmt.Errorf("record session: %w", errors.Join(err, offlineErr))
	}
	return nil
}
