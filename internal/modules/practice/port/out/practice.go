package out

import (
	"context"
	"time"

	"stillness/internal/modules/practice/domain"
)

// Cancel stops a schedule. It must not block on a callback in flight; the
// engine discards such a callback itself.
type Cancel func()

// Scheduler invokes fn roughly every interval until cancelled.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Cancel
}

type Completion struct {
	Kind         domain.Kind
	Minutes      int
	Technique    domain.Technique
	MeditationID string
	Notes        string
}

type CompletionRecorder interface {
	OnSessionComplete(ctx context.Context, completion Completion) error
}

type HookNotifier interface {
	SessionCompleted(ctx context.Context, completion Completion)
	PhaseChanged(ctx context.Context, kind domain.Kind, label string, remaining time.Duration)
}

// Preferences reads and writes last-chosen settings. Failures are silent to
// the engine: reads fall back to defaults, writes are best effort.
type Preferences interface {
	Minutes(ctx context.Context, kind domain.Kind) (int, error)
	Technique(ctx context.Context) (domain.Technique, error)
	SaveMinutes(ctx context.Context, kind domain.Kind, minutes int) error
	SaveTechnique(ctx context.Context, t domain.Technique) error
}

// CueSink plays the audible cues.
type CueSink interface {
	Phase(label string)
	Complete()
}

// MeditationLookup resolves a guided meditation's length in minutes.
type MeditationLookup interface {
	MeditationMinutes(ctx context.Context, id string) (int, error)
}
