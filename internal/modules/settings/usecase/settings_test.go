package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	settingsout "stillness/internal/modules/settings/adapter/out"
	settingsdto "stillness/internal/modules/settings/dto"
	settingsin "stillness/internal/modules/settings/port/in"
	"stillness/internal/modules/settings/service"
	"stillness/internal/modules/settings/usecase"
	apperrors "stillness/internal/platform/errors"
)

func newSettings(path string) settingsin.Usecase {
	return usecase.NewInteractor(service.NewSettingsService(settingsout.NewTOMLPreferenceStore(path), nil))
}

func TestSettingsDefaultsWithoutFile(t *testing.T) {
	t.Parallel()
	uc := newSettings(filepath.Join(t.TempDir(), "settings.toml"))
	ctx := context.Background()

	got, err := uc.Get(ctx, "timer_minutes")
	require.NoError(t, err)
	assert.Equal(t, "10", got.Value)

	all := uc.List(ctx)
	require.NotEmpty(t, all)
	assert.Equal(t, settingsdto.SettingOutput{Key: "timer_minutes", Value: "10"}, all[0])
}

func TestSettingsSetPersistsClampedValue(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.toml")
	uc := newSettings(path)
	ctx := context.Background()

	out, err := uc.Set(ctx, settingsdto.SetInput{Key: "breath_minutes", Value: "90"})
	require.NoError(t, err)
	assert.Equal(t, "60", out.Value)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "breath_minutes = 60")

	reopened := newSettings(path)
	got, err := reopened.Get(ctx, "breath_minutes")
	require.NoError(t, err)
	assert.Equal(t, "60", got.Value)
	got, err = reopened.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Value)

	_, err = uc.Set(ctx, settingsdto.SetInput{Key: "colour", Value: "red"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSettingsCorruptFileFallsBackToDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("timer_minutes = [oops"), 0o644))
	uc := newSettings(path)

	got, err := uc.Get(context.Background(), "timer_minutes")
	require.NoError(t, err)
	assert.Equal(t, "10", got.Value)
}

func TestSettingsPartialFileKeepsOtherDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("technique = \"478\"\n[volumes]\nrain = 0.8\n"), 0o644))
	uc := newSettings(path)
	ctx := context.Background()

	got, err := uc.Get(ctx, "technique")
	require.NoError(t, err)
	assert.Equal(t, "478", got.Value)
	got, err = uc.Get(ctx, "volumes.rain")
	require.NoError(t, err)
	assert.Equal(t, "0.8", got.Value)
	got, err = uc.Get(ctx, "volumes.om")
	require.NoError(t, err)
	assert.Equal(t, "0.3", got.Value)
}
