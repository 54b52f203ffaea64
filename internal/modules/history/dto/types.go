package dto

import "time"

type RecordInput struct {
	Kind            string
	DurationMinutes int
	MeditationID    string
	Technique       string
	Notes           string
}

type AnnotateInput struct {
	ID    string
	Notes string
}

type ListInput struct {
	Kind  string
	Since string
	Limit int
}

type SessionOutput struct {
	ID                     string
	Kind                   string
	DurationMinutes        int
	CompletedAt            time.Time
	CompletedAtEpochMillis int64
	CompletionDate         string
	MeditationID           string
	Technique              string
	Notes                  string
	NotePath               string
}

type ReindexOutput struct {
	Indexed int
}
