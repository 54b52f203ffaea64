package clock_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"stillness/internal/platform/clock"
)

func TestFormatCountdown(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "10:00", clock.FormatCountdown(600))
	assert.Equal(t, "00:01", clock.FormatCountdown(0.2))
	assert.Equal(t, "00:00", clock.FormatCountdown(-3))
	assert.Equal(t, "00:00", clock.FormatCountdown(math.NaN()))
	assert.Equal(t, "01:05", clock.FormatCountdown(64.5))
	assert.Equal(t, "120:00", clock.FormatCountdown(7200))
}
