package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "stillness/internal/platform/errors"
)

type Meditation struct {
	ID              string    `yaml:"id"`
	Title           string    `yaml:"title"`
	Description     string    `yaml:"description"`
	DurationMinutes int       `yaml:"duration"`
	Category        string    `yaml:"category"`
	Tags            []string  `yaml:"tags,omitempty"`
	CreatedAt       time.Time `yaml:"created_at,omitempty"`
	UpdatedAt       time.Time `yaml:"updated_at,omitempty"`
}

// NormalizeTags trims, lowercases and de-duplicates tags, keeping first-seen
// order.
func NormalizeTags(tags []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func (m Meditation) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("%w: meditation id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: meditation %s needs a title", apperrors.ErrInvalidInput, m.ID)
	}
	if m.DurationMinutes < 1 || m.DurationMinutes > 120 {
		return fmt.Errorf("%w: meditation %s duration %d outside 1-120 minutes", apperrors.ErrInvalidInput, m.ID, m.DurationMinutes)
	}
	return nil
}

// BuiltIn is the catalog used when no catalog file exists.
func BuiltIn() []Meditation {
	return []Meditation{
		{ID: "mindfulness-basics-10", Title: "Mindfulness Basics", Description: "Start with a gentle, 10-minute introduction to mindfulness.", DurationMinutes: 10, Category: "Basics"},
		{ID: "breathe-5", Title: "Breathe for Calm", Description: "Five-minute guided breathing to reset and relax.", DurationMinutes: 5, Category: "Stress"},
		{ID: "focus-15", Title: "Deep Focus", Description: "A focused 15-minute session to get into flow.", DurationMinutes: 15, Category: "Focus"},
		{ID: "sleep-10", Title: "Wind Down for Sleep", Description: "Ease into restful sleep with a soothing wind-down.", DurationMinutes: 10, Category: "Sleep"},
		{ID: "anxiety-8", Title: "Ease Anxiety", Description: "Ground yourself and soften anxious feelings.", DurationMinutes: 8, Category: "Stress"},
	}
}
