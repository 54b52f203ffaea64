package in

import (
	"context"

	"stillness/internal/modules/catalog/dto"
)

type Usecase interface {
	List(ctx context.Context, category string) ([]dto.MeditationOutput, error)
	Get(ctx context.Context, id string) (dto.MeditationOutput, error)
	Create(ctx context.Context, input dto.CreateInput) (dto.MeditationOutput, error)
	Update(ctx context.Context, input dto.UpdateInput) (dto.MeditationOutput, error)
	Delete(ctx context.Context, id string) (dto.MeditationOutput, error)
}
