package dto

import "time"

type MeditationOutput struct {
	ID              string
	Title           string
	Description     string
	DurationMinutes int
	Category        string
	Tags            []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CreateInput struct {
	ID              string
	Title           string
	Description     string
	DurationMinutes int
	Category        string
	Tags            []string
}

// UpdateInput changes only the non-nil fields.
type UpdateInput struct {
	ID              string
	Title           *string
	Description     *string
	DurationMinutes *int
	Category        *string
	Tags            *[]string
}
