package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stillness/internal/modules/settings/domain"
	apperrors "stillness/internal/platform/errors"
)

func TestSetClampsValues(t *testing.T) {
	t.Parallel()
	p := domain.Defaults()

	p, err := p.Set("timer_minutes", "500")
	require.NoError(t, err)
	assert.Equal(t, 120, p.TimerMinutes)

	p, err = p.Set("breath_minutes", "0")
	require.NoError(t, err)
	assert.Equal(t, 1, p.BreathMinutes)

	p, err = p.Set("volumes.rain", "1.7")
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.Volumes.Rain)

	p, err = p.Set("master_volume", "-0.2")
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.MasterVolume)

	p, err = p.Set("technique", "Square")
	require.NoError(t, err)
	assert.Equal(t, "box", p.Technique)

	p, err = p.Set("theme", "LIGHT")
	require.NoError(t, err)
	assert.Equal(t, "light", p.Theme)

	p, err = p.Set("sounds_on.om", "true")
	require.NoError(t, err)
	assert.True(t, p.SoundsOn.Om)
}

func TestSetRejectsUnknownKeysAndBadTypes(t *testing.T) {
	t.Parallel()
	p := domain.Defaults()
	_, err := p.Set("volume", "1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = p.Set("volumes.thunder", "1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = p.Set("timer_minutes", "ten")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = p.Set("sounds_on.rain", "maybe")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = p.Get("nope")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestEveryKeyIsReadable(t *testing.T) {
	t.Parallel()
	p := domain.Defaults()
	for _, key := range domain.Keys() {
		_, err := p.Get(key)
		assert.NoError(t, err, key)
	}
	v, err := p.Get("volumes.stream")
	require.NoError(t, err)
	assert.Equal(t, "0.3", v)
}
