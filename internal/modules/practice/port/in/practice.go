package in

import (
	"context"

	"stillness/internal/modules/practice/dto"
)

// Observer receives presentation events. Calls arrive on the scheduler's
// goroutine and must not block for long.
type Observer interface {
	OnTick(event dto.TickOutput)
	OnPhaseChange(event dto.PhaseOutput)
	OnComplete(event dto.CompletionOutput)
}

type Usecase interface {
	State(ctx context.Context, kind string) (dto.StateOutput, error)
	Configure(ctx context.Context, input dto.ConfigureInput) (dto.StateOutput, error)
	SelectTechnique(ctx context.Context, technique string) (dto.StateOutput, error)
	Start(ctx context.Context, input dto.StartInput) (dto.StateOutput, error)
	Pause(ctx context.Context, kind string) (dto.StateOutput, error)
	Reset(ctx context.Context, kind string) (dto.StateOutput, error)
	Complete(ctx context.Context, kind string) (dto.CompletionOutput, error)
	Subscribe(observer Observer) (unsubscribe func())
}
