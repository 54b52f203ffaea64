package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stillness/internal/modules/history/domain"
	"stillness/internal/platform/calendar"
	apperrors "stillness/internal/platform/errors"
)

func TestSessionRecordValidate(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 1, 5, 7, 30, 0, 0, time.UTC)
	valid := domain.SessionRecord{
		ID:              "s-1",
		Kind:            domain.KindTimer,
		DurationMinutes: 10,
		CompletedAt:     at,
		CompletionDate:  calendar.DateOf(at, time.UTC),
	}
	assert.NoError(t, valid.Validate())
	assert.Equal(t, at.UnixMilli(), valid.CompletedAtEpochMillis())

	zero := valid
	zero.DurationMinutes = 0
	assert.ErrorIs(t, zero.Validate(), apperrors.ErrZeroDuration)

	badKind := valid
	badKind.Kind = "yoga"
	assert.ErrorIs(t, badKind.Validate(), apperrors.ErrInvalidInput)

	noDate := valid
	noDate.CompletionDate = calendar.Date{}
	assert.ErrorIs(t, noDate.Validate(), apperrors.ErrInvalidInput)
}

func TestSessionRecordTitle(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "timer breathe-5", domain.SessionRecord{Kind: domain.KindTimer, MeditationID: "breathe-5"}.Title())
	assert.Equal(t, "breath box", domain.SessionRecord{Kind: domain.KindBreath, Technique: "box"}.Title())
	assert.Equal(t, "timer", domain.SessionRecord{Kind: domain.KindTimer}.Title())
}
