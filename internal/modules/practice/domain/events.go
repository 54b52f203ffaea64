package domain

import "time"

type TickEvent struct {
	Kind      Kind
	Remaining time.Duration
	Ratio     float64
}

type PhaseEvent struct {
	Kind      Kind
	Index     int
	Label     string
	Remaining time.Duration
}

// CompletionEvent carries rounded minutes practiced. Minutes can be zero for
// very short early completions; such events never become records.
type CompletionEvent struct {
	Kind      Kind
	Minutes   int
	Technique Technique
	Elapsed   time.Duration
	Early     bool
}

// RoundMinutes rounds half away from zero.
func RoundMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d.Round(time.Minute) / time.Minute)
}
