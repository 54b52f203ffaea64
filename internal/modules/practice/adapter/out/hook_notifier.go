package out

import (
	"context"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	hooksdto "stillness/internal/modules/hooks/dto"
	hooksin "stillness/internal/modules/hooks/port/in"
	"stillness/internal/modules/practice/domain"
	practiceout "stillness/internal/modules/practice/port/out"
	"stillness/internal/platform/logging"
)

const (
	eventSessionCompleted = "session_completed"
	eventPhaseChanged     = "phase_changed"
)

// HookNotifier forwards practice events to external hooks. Delivery errors are
// logged and never reach the engine.
type HookNotifier struct {
	hooks  hooksin.Usecase
	logger hclog.Logger
}

var _ practiceout.HookNotifier = (*HookNotifier)(nil)

func NewHookNotifier(hooks hooksin.Usecase, logger hclog.Logger) *HookNotifier {
	return &HookNotifier{hooks: hooks, logger: logging.OrNull(logger).Named("hooks")}
}

func (n *HookNotifier) SessionCompleted(ctx context.Context, completion practiceout.Completion) {
	n.dispatch(ctx, hooksdto.EventInput{
		Type:         eventSessionCompleted,
		Kind:         string(completion.Kind),
		Minutes:      completion.Minutes,
		Technique:    string(completion.Technique),
		MeditationID: completion.MeditationID,
	})
}

func (n *HookNotifier) PhaseChanged(ctx context.Context, kind domain.Kind, label string, remaining time.Duration) {
	n.dispatch(ctx, hooksdto.EventInput{
		Type:             eventPhaseChanged,
		Kind:             string(kind),
		Label:            label,
		SecondsRemaining: remaining.Seconds(),
	})
}

func (n *HookNotifier) dispatch(ctx context.Context, input hooksdto.EventInput) {
	out, err := n.hooks.Dispatch(ctx, input)
	if err != nil {
		n.logger.Warn("hook dispatch failed", "event", input.Type, "failed", out.Failed, "error", err)
		return
	}
	if len(out.Delivered) > 0 {
		n.logger.Debug("hook dispatch", "event", input.Type, "delivered", out.Delivered)
	}
}
