package domain

import (
	"fmt"
	"strings"
	"time"

	"stillness/internal/platform/calendar"
	apperrors "stillness/internal/platform/errors"
)

const SchemaVersion = 1

type Kind string

const (
	KindTimer  Kind = "timer"
	KindBreath Kind = "breath"
)

func (k Kind) Validate() error {
	switch k {
	case KindTimer, KindBreath:
		return nil
	default:
		return fmt.Errorf("%w: unknown session kind %q", apperrors.ErrInvalidInput, string(k))
	}
}

// SessionRecord is one completed practice session. Only Notes may change after
// the record is written; deletion is administrative.
type SessionRecord struct {
	ID              string
	Kind            Kind
	DurationMinutes int
	CompletedAt     time.Time
	CompletionDate  calendar.Date
	MeditationID    string
	Technique       string
	Notes           string
	NotePath        string
}

func (r SessionRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	if r.DurationMinutes <= 0 {
		return apperrors.ErrZeroDuration
	}
	if err := r.Kind.Validate(); err != nil {
		return err
	}
	if r.CompletedAt.IsZero() || r.CompletionDate.IsZero() {
		return fmt.Errorf("%w: completion time is required", apperrors.ErrInvalidInput)
	}
	return nil
}

func (r SessionRecord) CompletedAtEpochMillis() int64 {
	return r.CompletedAt.UnixMilli()
}

// Title names the note on disk and in listings.
func (r SessionRecord) Title() string {
	if r.MeditationID != "" {
		return string(r.Kind) + " " + r.MeditationID
	}
	if r.Technique != "" {
		return string(r.Kind) + " " + r.Technique
	}
	return string(r.Kind)
}

type Filter struct {
	Kind  Kind
	Since calendar.Date
	Limit int
}
