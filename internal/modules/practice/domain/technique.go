package domain

import (
	"fmt"
	"time"

	apperrors "stillness/internal/platform/errors"
)

// Technique is a closed set of breathing patterns.
type Technique string

const (
	TechniqueBox            Technique = "box"
	TechniqueFourSevenEight Technique = "478"
	TechniqueCoherence      Technique = "coherence"
)

const (
	LabelInhale = "Inhale"
	LabelHold   = "Hold"
	LabelExhale = "Exhale"
)

type Phase struct {
	Label    string
	Duration time.Duration
}

func Techniques() []Technique {
	return []Technique{TechniqueBox, TechniqueFourSevenEight, TechniqueCoherence}
}

func ParseTechnique(raw string) (Technique, error) {
	t := Technique(raw)
	switch t {
	case TechniqueBox, TechniqueFourSevenEight, TechniqueCoherence:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown technique %q", apperrors.ErrInvalidInput, raw)
	}
}

// TechniqueOrDefault maps unknown input to box breathing.
func TechniqueOrDefault(raw string) Technique {
	t, err := ParseTechnique(raw)
	if err != nil {
		return TechniqueBox
	}
	return t
}

func (t Technique) Name() string {
	switch t {
	case TechniqueFourSevenEight:
		return "4-7-8"
	case TechniqueCoherence:
		return "Coherence"
	default:
		return "Box"
	}
}

// Phases returns a fresh copy of the ordered pattern.
func (t Technique) Phases() []Phase {
	switch t {
	case TechniqueFourSevenEight:
		return []Phase{
			{Label: LabelInhale, Duration: 4 * time.Second},
			{Label: LabelHold, Duration: 7 * time.Second},
			{Label: LabelExhale, Duration: 8 * time.Second},
		}
	case TechniqueCoherence:
		return []Phase{
			{Label: LabelInhale, Duration: 5 * time.Second},
			{Label: LabelExhale, Duration: 5 * time.Second},
		}
	default:
		return []Phase{
			{Label: LabelInhale, Duration: 4 * time.Second},
			{Label: LabelHold, Duration: 4 * time.Second},
			{Label: LabelExhale, Duration: 4 * time.Second},
			{Label: LabelHold, Duration: 4 * time.Second},
		}
	}
}

// Next cycles through the techniques in declaration order.
func (t Technique) Next() Technique {
	all := Techniques()
	for i, candidate := range all {
		if candidate == t {
			return all[(i+1)%len(all)]
		}
	}
	return TechniqueBox
}
