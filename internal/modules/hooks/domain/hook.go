package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

type EventType string

const (
	EventSessionCompleted EventType = "session_completed"
	EventPhaseChanged     EventType = "phase_changed"
)

func (e EventType) Validate() error {
	switch e {
	case EventSessionCompleted, EventPhaseChanged:
		return nil
	default:
		return fmt.Errorf("unknown hook event: %s", e)
	}
}

var (
	ErrHookDisabled     = errors.New("hook is disabled")
	ErrChecksumMismatch = errors.New("hook checksum mismatch")
	ErrHookTimeout      = errors.New("hook timeout")
	ErrHookNotFound     = errors.New("hook not found")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

type Manifest struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Binary  string      `json:"binary"`
	SHA256  string      `json:"sha256"`
	Enabled bool        `json:"enabled"`
	Events  []EventType `json:"events"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("hook name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("hook version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("hook binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("hook sha256 must be lowercase 64-char hex")
	}
	if len(m.Events) == 0 {
		return fmt.Errorf("hook events are required")
	}
	seen := map[EventType]struct{}{}
	for _, event := range m.Events {
		if err := event.Validate(); err != nil {
			return err
		}
		if _, ok := seen[event]; ok {
			return fmt.Errorf("duplicate event: %s", event)
		}
		seen[event] = struct{}{}
	}
	return nil
}

func (m Manifest) Subscribes(event EventType) bool {
	for _, e := range m.Events {
		if e == event {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name    string
	Version string
	Events  []EventType
}

// Event is what a hook receives. Fields not relevant to Type stay zero.
type Event struct {
	Type             EventType
	Kind             string
	Minutes          int
	Technique        string
	MeditationID     string
	Label            string
	SecondsRemaining float64
	OccurredAt       time.Time
}

func (e Event) Validate() error {
	if err := e.Type.Validate(); err != nil {
		return err
	}
	if e.Kind == "" {
		return fmt.Errorf("event kind is required")
	}
	return nil
}

type Ack struct {
	Accepted bool
	Message  string
}
