package out

import (
	"context"
	"fmt"
	"strconv"

	"stillness/internal/modules/practice/domain"
	practiceout "stillness/internal/modules/practice/port/out"
	settingsdto "stillness/internal/modules/settings/dto"
	settingsin "stillness/internal/modules/settings/port/in"
)

const keyTechnique = "technique"

// SettingsPreferences stores the last-chosen durations and technique in the
// settings file under "<kind>_minutes" and "technique".
type SettingsPreferences struct {
	settings settingsin.Usecase
}

var _ practiceout.Preferences = SettingsPreferences{}

func NewSettingsPreferences(settings settingsin.Usecase) SettingsPreferences {
	return SettingsPreferences{settings: settings}
}

func (p SettingsPreferences) Minutes(ctx context.Context, kind domain.Kind) (int, error) {
	out, err := p.settings.Get(ctx, minutesKey(kind))
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(out.Value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", out.Key, err)
	}
	return minutes, nil
}

func (p SettingsPreferences) Technique(ctx context.Context) (domain.Technique, error) {
	out, err := p.settings.Get(ctx, keyTechnique)
	if err != nil {
		return "", err
	}
	return domain.ParseTechnique(out.Value)
}

func (p SettingsPreferences) SaveMinutes(ctx context.Context, kind domain.Kind, minutes int) error {
	_, err := p.settings.Set(ctx, settingsdto.SetInput{Key: minutesKey(kind), Value: strconv.Itoa(minutes)})
	return err
}

func (p SettingsPreferences) SaveTechnique(ctx context.Context, t domain.Technique) error {
	_, err := p.settings.Set(ctx, settingsdto.SetInput{Key: keyTechnique, Value: string(t)})
	return err
}

func minutesKey(kind domain.Kind) string {
	return string(kind) + "_minutes"
}
