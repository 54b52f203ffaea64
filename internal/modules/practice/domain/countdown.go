package domain

import "time"

// Countdown tracks one session against absolute instants. Remaining time is
// always derived from now minus a start reference, never accumulated per tick.
type Countdown struct {
	duration time.Duration
	mode     Mode
	startRef time.Time
	pausedAt time.Time
	finished bool
}

func NewCountdown(duration time.Duration) Countdown {
	return Countdown{duration: duration, mode: ModeIdle}
}

func (c *Countdown) Mode() Mode              { return c.mode }
func (c *Countdown) Duration() time.Duration { return c.duration }

// Configure changes the target only while idle.
func (c *Countdown) Configure(duration time.Duration) bool {
	if c.mode != ModeIdle || duration <= 0 {
		return false
	}
	c.duration = duration
	c.finished = false
	return true
}

// Start begins a fresh run from idle or resumes from paused. Resuming moves
// the start reference forward by the paused interval so that now-startRef is
// the true running time across every segment.
func (c *Countdown) Start(now time.Time) bool {
	switch c.mode {
	case ModeRunning:
		return false
	case ModePaused:
		c.startRef = c.startRef.Add(now.Sub(c.pausedAt))
	default:
		c.startRef = now
		c.finished = false
	}
	c.pausedAt = time.Time{}
	c.mode = ModeRunning
	return true
}

func (c *Countdown) Pause(now time.Time) bool {
	if c.mode != ModeRunning {
		return false
	}
	c.pausedAt = now
	c.mode = ModePaused
	return true
}

func (c *Countdown) Reset() {
	c.mode = ModeIdle
	c.startRef = time.Time{}
	c.pausedAt = time.Time{}
	c.finished = false
}

// Finish marks natural completion: idle with nothing remaining.
func (c *Countdown) Finish() {
	c.Reset()
	c.finished = true
}

func (c *Countdown) Elapsed(now time.Time) time.Duration {
	var elapsed time.Duration
	switch {
	case c.mode == ModeRunning:
		elapsed = now.Sub(c.startRef)
	case c.mode == ModePaused:
		elapsed = c.pausedAt.Sub(c.startRef)
	case c.finished:
		elapsed = c.duration
	}
	if elapsed < 0 {
		return 0
	}
	if elapsed > c.duration {
		return c.duration
	}
	return elapsed
}

func (c *Countdown) Remaining(now time.Time) time.Duration {
	return c.duration - c.Elapsed(now)
}

// Ratio is remaining/duration in [0,1].
func (c *Countdown) Ratio(now time.Time) float64 {
	if c.duration <= 0 {
		return 0
	}
	return float64(c.Remaining(now)) / float64(c.duration)
}
