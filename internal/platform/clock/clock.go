package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports wall time in UTC. UTC() drops the monotonic reading,
// so use it for timestamps that get persisted, not for measuring intervals.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// MonotonicClock keeps the monotonic reading attached so Sub between two
// samples is immune to wall clock adjustments.
type MonotonicClock struct{}

func (MonotonicClock) Now() time.Time {
	return time.Now()
}
