package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	apperrors "stillness/internal/platform/errors"
)

type Sounds struct {
	Rain   float64 `toml:"rain"`
	Forest float64 `toml:"forest"`
	Stream float64 `toml:"stream"`
	Om     float64 `toml:"om"`
}

type SoundToggles struct {
	Rain   bool `toml:"rain"`
	Forest bool `toml:"forest"`
	Stream bool `toml:"stream"`
	Om     bool `toml:"om"`
}

// Preferences are the last-chosen user settings.
type Preferences struct {
	TimerMinutes  int          `toml:"timer_minutes"`
	BreathMinutes int          `toml:"breath_minutes"`
	Technique     string       `toml:"technique"`
	MasterVolume  float64      `toml:"master_volume"`
	Theme         string       `toml:"theme"`
	Volumes       Sounds       `toml:"volumes"`
	SoundsOn      SoundToggles `toml:"sounds_on"`
}

const (
	KeyTimerMinutes  = "timer_minutes"
	KeyBreathMinutes = "breath_minutes"
	KeyTechnique     = "technique"
	KeyMasterVolume  = "master_volume"
	KeyTheme         = "theme"
)

var (
	soundNames = []string{"rain", "forest", "stream", "om"}
	techniques = []string{"box", "478", "coherence"}
	themes     = []string{"dark", "light"}
)

func Defaults() Preferences {
	return Preferences{
		TimerMinutes:  10,
		BreathMinutes: 5,
		Technique:     "box",
		MasterVolume:  1.0,
		Theme:         "dark",
		Volumes:       Sounds{Rain: 0.3, Forest: 0.3, Stream: 0.3, Om: 0.3},
	}
}

// Keys lists every settable key in display order.
func Keys() []string {
	keys := []string{KeyTimerMinutes, KeyBreathMinutes, KeyTechnique, KeyMasterVolume, KeyTheme}
	for _, s := range soundNames {
		keys = append(keys, "volumes."+s)
	}
	for _, s := range soundNames {
		keys = append(keys, "sounds_on."+s)
	}
	return keys
}

// Normalize pulls every field back into its valid range. Files edited by
// hand or written by older versions are accepted rather than rejected.
func (p Preferences) Normalize() Preferences {
	p.TimerMinutes = clampInt(p.TimerMinutes, 1, 120)
	p.BreathMinutes = clampInt(p.BreathMinutes, 1, 60)
	p.Technique = oneOf(p.Technique, techniques)
	p.Theme = oneOf(p.Theme, themes)
	p.MasterVolume = clampUnit(p.MasterVolume)
	for _, s := range soundNames {
		v := p.volume(s)
		*v = clampUnit(*v)
	}
	return p
}

func (p Preferences) Get(key string) (string, error) {
	switch key {
	case KeyTimerMinutes:
		return strconv.Itoa(p.TimerMinutes), nil
	case KeyBreathMinutes:
		return strconv.Itoa(p.BreathMinutes), nil
	case KeyTechnique:
		return p.Technique, nil
	case KeyMasterVolume:
		return formatUnit(p.MasterVolume), nil
	case KeyTheme:
		return p.Theme, nil
	}
	if name, ok := strings.CutPrefix(key, "volumes."); ok {
		if v := p.volume(name); v != nil {
			return formatUnit(*v), nil
		}
	}
	if name, ok := strings.CutPrefix(key, "sounds_on."); ok {
		if v := p.toggle(name); v != nil {
			return strconv.FormatBool(*v), nil
		}
	}
	return "", unknownKey(key)
}

// Set parses raw for key and clamps it. Only unknown keys and values that do
// not parse as the key's type are errors.
func (p Preferences) Set(key, raw string) (Preferences, error) {
	raw = strings.TrimSpace(raw)
	switch key {
	case KeyTimerMinutes, KeyBreathMinutes:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, fmt.Errorf("%w: %s expects whole minutes", apperrors.ErrInvalidInput, key)
		}
		if key == KeyTimerMinutes {
			p.TimerMinutes = n
		} else {
			p.BreathMinutes = n
		}
		return p.Normalize(), nil
	case KeyTechnique:
		p.Technique = strings.ToLower(raw)
		return p.Normalize(), nil
	case KeyTheme:
		p.Theme = strings.ToLower(raw)
		return p.Normalize(), nil
	case KeyMasterVolume:
		f, err := parseUnit(key, raw)
		if err != nil {
			return p, err
		}
		p.MasterVolume = f
		return p.Normalize(), nil
	}
	if name, ok := strings.CutPrefix(key, "volumes."); ok {
		if v := p.volume(name); v != nil {
			f, err := parseUnit(key, raw)
			if err != nil {
				return p, err
			}
			*v = f
			return p.Normalize(), nil
		}
	}
	if name, ok := strings.CutPrefix(key, "sounds_on."); ok {
		if v := p.toggle(name); v != nil {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return p, fmt.Errorf("%w: %s expects true or false", apperrors.ErrInvalidInput, key)
			}
			*v = b
			return p, nil
		}
	}
	return p, unknownKey(key)
}

func (p *Preferences) volume(name string) *float64 {
	switch name {
	case "rain":
		return &p.Volumes.Rain
	case "forest":
		return &p.Volumes.Forest
	case "stream":
		return &p.Volumes.Stream
	case "om":
		return &p.Volumes.Om
	}
	return nil
}

func (p *Preferences) toggle(name string) *bool {
	switch name {
	case "rain":
		return &p.SoundsOn.Rain
	case "forest":
		return &p.SoundsOn.Forest
	case "stream":
		return &p.SoundsOn.Stream
	case "om":
		return &p.SoundsOn.Om
	}
	return nil
}

func unknownKey(key string) error {
	known := Keys()
	sort.Strings(known)
	return fmt.Errorf("%w: unknown setting %q (known: %s)", apperrors.ErrInvalidInput, key, strings.Join(known, ", "))
}

func clampInt(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func oneOf(v string, allowed []string) string {
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return allowed[0]
}

func parseUnit(key, raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s expects a number between 0 and 1", apperrors.ErrInvalidInput, key)
	}
	return f, nil
}

func formatUnit(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
