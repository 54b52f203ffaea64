package dto

import "time"

type StartInput struct {
	Kind         string
	MeditationID string
	Notes        string
	Cues         bool
}

type ConfigureInput struct {
	Kind    string
	Minutes int
}

type StateOutput struct {
	Kind             string
	Mode             string
	Minutes          int
	DurationSeconds  int
	RemainingSeconds float64
	Ratio            float64
	Technique        string
	TechniqueName    string
	PhaseIndex       int
	PhaseLabel       string
	PhaseRemaining   float64
	MeditationID     string
}

type TickOutput struct {
	Kind             string
	RemainingSeconds float64
	Ratio            float64
}

type PhaseOutput struct {
	Kind             string
	Label            string
	SecondsRemaining float64
}

type CompletionOutput struct {
	Kind         string
	Minutes      int
	Technique    string
	MeditationID string
	Elapsed      time.Duration
	Early        bool
	Recorded     bool
	Discarded    bool
}
