package dto

import "time"

type HookInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
	Events  []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type EventInput struct {
	Type             string
	Kind             string
	Minutes          int
	Technique        string
	MeditationID     string
	Label            string
	SecondsRemaining float64
	OccurredAt       time.Time
}

type DispatchOutput struct {
	Delivered []string
	Failed    []string
}
