package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartFlagsAdvertiseEngineRanges(t *testing.T) {
	t.Parallel()
	data := "."

	breathStart, _, err := newBreathCmd(&data).Find([]string{"start"})
	require.NoError(t, err)
	timerStart, _, err := newTimerCmd(&data).Find([]string{"start"})
	require.NoError(t, err)

	assert.Equal(t, "session length (1-60, default: last used)", breathStart.Flags().Lookup("minutes").Usage)
	assert.Equal(t, "session length (1-120, default: last used)", timerStart.Flags().Lookup("minutes").Usage)
	assert.NotNil(t, breathStart.Flags().Lookup("notes"))
	assert.NotNil(t, timerStart.Flags().Lookup("notes"))
}
