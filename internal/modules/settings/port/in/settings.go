package in

import (
	"context"

	"stillness/internal/modules/settings/dto"
)

type Usecase interface {
	List(ctx context.Context) []dto.SettingOutput
	Get(ctx context.Context, key string) (dto.SettingOutput, error)
	Set(ctx context.Context, input dto.SetInput) (dto.SettingOutput, error)
}
