package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stillness/internal/platform/calendar"
)

func TestDateOfUsesObservedLocation(t *testing.T) {
	t.Parallel()
	tokyo := time.FixedZone("JST", 9*3600)
	instant := time.Date(2024, 1, 4, 20, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-01-04", calendar.DateOf(instant, time.UTC).String())
	assert.Equal(t, "2024-01-05", calendar.DateOf(instant, tokyo).String())
}

func TestAddDaysRollsOverMonthAndYear(t *testing.T) {
	t.Parallel()
	d := calendar.Date{Year: 2023, Month: time.December, Day: 31}
	assert.Equal(t, "2024-01-01", d.AddDays(1).String())
	assert.Equal(t, "2024-02-29", calendar.Date{Year: 2024, Month: time.March, Day: 1}.AddDays(-1).String())
}

func TestDaysUntilCountsMidnightsNotHours(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC-5", -5*3600)
	first := time.Date(2024, 1, 3, 1, 0, 0, 0, loc)
	second := first.Add(30 * time.Hour)

	d1 := calendar.DateOf(first, loc)
	d2 := calendar.DateOf(second, loc)
	assert.Equal(t, 1, d1.DaysUntil(d2))
	assert.True(t, d1.Before(d2))
	assert.True(t, d2.After(d1))
}

func TestParseAndTextRoundTrip(t *testing.T) {
	t.Parallel()
	d, err := calendar.Parse("2024-01-05")
	require.NoError(t, err)
	raw, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", string(raw))

	var back calendar.Date
	require.NoError(t, back.UnmarshalText(raw))
	assert.Equal(t, d, back)

	_, err = calendar.Parse("05/01/2024")
	assert.Error(t, err)
}

func TestLoadLocationLocalAliases(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"", "Local", "local"} {
		loc, err := calendar.LoadLocation(name)
		require.NoError(t, err)
		assert.Equal(t, time.Local, loc)
	}
	_, err := calendar.LoadLocation("Not/AZone")
	assert.Error(t, err)
}
