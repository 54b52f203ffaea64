package in

import (
	"context"

	settingsdto "stillness/internal/modules/settings/dto"
	settingsin "stillness/internal/modules/settings/port/in"
)

type CLIHandler struct {
	usecase settingsin.Usecase
}

func NewCLIHandler(usecase settingsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) []settingsdto.SettingOutput {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, key string) (settingsdto.SettingOutput, error) {
	return h.usecase.Get(ctx, key)
}

func (h CLIHandler) Set(ctx context.Context, key, value string) (settingsdto.SettingOutput, error) {
	return h.usecase.Set(ctx, settingsdto.SetInput{Key: key, Value: value})
}
