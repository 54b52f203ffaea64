package bootstrap_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"stillness/internal/bootstrap"
	settingsdto "stillness/internal/modules/settings/dto"
	"stillness/internal/ui/theme"
)

type themeSettings struct {
	value string
	err   error
}

func (s themeSettings) Get(_ context.Context, key string) (settingsdto.SettingOutput, error) {
	if s.err != nil {
		return settingsdto.SettingOutput{}, s.err
	}
	return settingsdto.SettingOutput{Key: key, Value: s.value}, nil
}

func TestApplyThemeFollowsPreference(t *testing.T) {
	t.Cleanup(func() { theme.Use("dark") })
	ctx := context.Background()

	assert.Equal(t, theme.Latte, bootstrap.ApplyTheme(ctx, themeSettings{value: "light"}, nil))
	assert.Equal(t, theme.Latte.Base, theme.Base)

	assert.Equal(t, theme.Mocha, bootstrap.ApplyTheme(ctx, themeSettings{value: "dark"}, nil))
	assert.Equal(t, theme.Mocha, bootstrap.ApplyTheme(ctx, themeSettings{err: errors.New("settings.toml unreadable")}, nil))
}
