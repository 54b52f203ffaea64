package usecase

import (
	"context"
	"strings"

	"stillness/internal/modules/settings/domain"
	settingsdto "stillness/internal/modules/settings/dto"
	settingsin "stillness/internal/modules/settings/port/in"
	"stillness/internal/modules/settings/service"
)

type Interactor struct {
	svc *service.SettingsService
}

func NewInteractor(svc *service.SettingsService) settingsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) []settingsdto.SettingOutput {
	prefs := i.svc.Load(ctx)
	keys := domain.Keys()
	out := make([]settingsdto.SettingOutput, 0, len(keys))
	for _, key := range keys {
		value, _ := prefs.Get(key)
		out = append(out, settingsdto.SettingOutput{Key: key, Value: value})
	}
	return out
}

func (i *Interactor) Get(ctx context.Context, key string) (settingsdto.SettingOutput, error) {
	key = strings.TrimSpace(key)
	value, err := i.svc.Get(ctx, key)
	if err != nil {
		return settingsdto.SettingOutput{}, err
	}
	return settingsdto.SettingOutput{Key: key, Value: value}, nil
}

func (i *Interactor) Set(ctx context.Context, input settingsdto.SetInput) (settingsdto.SettingOutput, error) {
	key := strings.TrimSpace(input.Key)
	value, err := i.svc.Set(ctx, key, input.Value)
	return settingsdto.SettingOutput{Key: key, Value: value}, err
}
