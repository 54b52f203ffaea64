package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stillness/internal/modules/practice/domain"
)

func TestBreathOvershootCarriesForward(t *testing.T) {
	t.Parallel()
	b := domain.NewBreathCycle(domain.TechniqueBox)

	changes := b.Advance(9 * time.Second)
	require.Len(t, changes, 2)
	assert.Equal(t, 1, changes[0].Index)
	assert.Equal(t, 2, changes[1].Index)
	assert.Equal(t, domain.LabelExhale, changes[1].Label)
	assert.Equal(t, 2, b.Index())
	assert.Equal(t, 3*time.Second, b.Remaining())
}

func TestBreathExactBoundaryAdvances(t *testing.T) {
	t.Parallel()
	b := domain.NewBreathCycle(domain.TechniqueCoherence)
	changes := b.Advance(5 * time.Second)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.LabelExhale, changes[0].Label)
	assert.Equal(t, 5*time.Second, b.Remaining())
}

func TestBreathWrapsAndFoldsWholeCycles(t *testing.T) {
	t.Parallel()
	b := domain.NewBreathCycle(domain.TechniqueFourSevenEight)
	require.Equal(t, 19*time.Second, b.CycleLength())

	changes := b.Advance(10*19*time.Second + 5*time.Second)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.LabelHold, b.Label())
	assert.Equal(t, 6*time.Second, b.Remaining())

	b.Reset()
	changes = b.Advance(19 * time.Second)
	assert.Len(t, changes, 3)
	assert.Equal(t, 0, b.Index())
	assert.Equal(t, 4*time.Second, b.Remaining())
}

func TestBreathSmallDeltasTelescope(t *testing.T) {
	t.Parallel()
	a := domain.NewBreathCycle(domain.TechniqueBox)
	b := domain.NewBreathCycle(domain.TechniqueBox)
	for i := 0; i < 130; i++ {
		a.Advance(100 * time.Millisecond)
	}
	b.Advance(13 * time.Second)
	assert.Equal(t, b.Index(), a.Index())
	assert.Equal(t, b.Remaining(), a.Remaining())
	assert.Nil(t, a.Advance(0))
}

func TestTechniqueParsing(t *testing.T) {
	t.Parallel()
	tech, err := domain.ParseTechnique("478")
	require.NoError(t, err)
	assert.Equal(t, "4-7-8", tech.Name())
	_, err = domain.ParseTechnique("square")
	assert.Error(t, err)
	assert.Equal(t, domain.TechniqueBox, domain.TechniqueOrDefault("square"))
	assert.Equal(t, domain.TechniqueFourSevenEight, domain.TechniqueBox.Next())
	assert.Equal(t, domain.TechniqueBox, domain.TechniqueCoherence.Next())
}
