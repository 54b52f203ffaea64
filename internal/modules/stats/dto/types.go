package dto

import "time"

type BreakdownOutput struct {
	Key      string
	Sessions int
	Minutes  int
}

type SnapshotOutput struct {
	TotalSessions     int
	TotalMinutes      int
	LastSessionDate   string
	StreakDays        int
	CurrentStreakDays int
	ByKind            []BreakdownOutput
	ByMeditation      []BreakdownOutput
	Fresh             bool
	Source            string
	AsOf              time.Time
}

type OfflineInput struct {
	Kind         string
	Minutes      int
	MeditationID string
}
