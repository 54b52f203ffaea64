package in

import (
	"context"

	"stillness/internal/modules/hooks/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.HookInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	Dispatch(ctx context.Context, input dto.EventInput) (dto.DispatchOutput, error)
}
