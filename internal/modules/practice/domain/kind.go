package domain

import (
	"fmt"
	"time"

	apperrors "stillness/internal/platform/errors"
)

// Kind tags which practice mode produced a session.
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
		return fmt.Errorf("%w: unknown practice kind %q", apperrors.ErrInvalidInput, string(k))
	}
}

type Mode string

const (
	ModeIdle    Mode = "idle"
	ModeRunning Mode = "running"
	ModePaused  Mode = "paused"
)

const (
	DefaultTimerMinutes  = 10
	DefaultBreathMinutes = 5
)

// MinutesRange is the configurable duration window for a kind.
func MinutesRange(k Kind) (lo, hi int) {
	if k == KindBreath {
		return 1, 60
	}
	return 1, 120
}

func DefaultMinutes(k Kind) int {
	if k == KindBreath {
		return DefaultBreathMinutes
	}
	return DefaultTimerMinutes
}

// ClampMinutes pulls out-of-range input to the nearest bound.
func ClampMinutes(k Kind, minutes int) int {
	lo, hi := MinutesRange(k)
	if minutes < lo {
		return lo
	}
	if minutes > hi {
		return hi
	}
	return minutes
}

func MinutesToDuration(minutes int) time.Duration {
	return time.Duration(minutes) * time.Minute
}
