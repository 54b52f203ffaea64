package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"stillness/internal/modules/catalog/domain"
	catalogout "stillness/internal/modules/catalog/port/out"
	"stillness/internal/platform/clock"
	apperrors "stillness/internal/platform/errors"
	"stillness/internal/platform/id"
	"stillness/internal/platform/logging"
)

type CatalogService struct {
	store catalogout.CatalogStore
	clock clock.Clock
	idGen id.Generator
	log   hclog.Logger

	// writeMu covers load-modify-save so concurrent edits do not drop each other.
	writeMu sync.Mutex
}

func NewCatalogService(store catalogout.CatalogStore, clk clock.Clock, idGen id.Generator, logger hclog.Logger) *CatalogService {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	if idGen == nil {
		idGen = id.UUID{}
	}
	return &CatalogService{store: store, clock: clk, idGen: idGen, log: logging.OrNull(logger).Named("catalog")}
}

// List filters by category, case-insensitively. An empty category matches
// everything.
func (s *CatalogService) List(ctx context.Context, category string) ([]domain.Meditation, error) {
	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return all, nil
	}
	out := make([]domain.Meditation, 0, len(all))
	for _, m := range all {
		if strings.EqualFold(m.Category, category) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (domain.Meditation, error) {
	all, err := s.store.Load(ctx)
	if err != nil {
		return domain.Meditation{}, err
	}
	if idx := indexOf(all, id); idx >= 0 {
		return all[idx], nil
	}
	return domain.Meditation{}, notFound(id)
}

type CreateInput struct {
	ID              string
	Title           string
	Description     string
	DurationMinutes int
	Category        string
	Tags            []string
}

// Create adds a meditation. Without an explicit id it gets a fresh UUID.
func (s *CatalogService) Create(ctx context.Context, input CreateInput) (domain.Meditation, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return domain.Meditation{}, err
	}
	now := s.clock.Now()
	m := domain.Meditation{
		ID:              strings.TrimSpace(input.ID),
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		DurationMinutes: input.DurationMinutes,
		Category:        strings.TrimSpace(input.Category),
		Tags:            domain.NormalizeTags(input.Tags),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if m.ID == "" {
		m.ID = s.idGen.New()
	}
	if err := m.Validate(); err != nil {
		return domain.Meditation{}, err
	}
	if indexOf(all, m.ID) >= 0 {
		return domain.Meditation{}, fmt.Errorf("%w: meditation %s already exists", apperrors.ErrInvalidInput, m.ID)
	}
	if err := s.store.Save(ctx, append(all, m)); err != nil {
		return domain.Meditation{}, err
	}
	s.log.Info("meditation created", "id", m.ID, "minutes", m.DurationMinutes)
	return m, nil
}

// UpdateInput carries a partial update; nil fields keep their value.
type UpdateInput struct {
	Title           *string
	Description     *string
	DurationMinutes *int
	Category        *string
	Tags            *[]string
}

func (s *CatalogService) Update(ctx context.Context, id string, input UpdateInput) (domain.Meditation, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return domain.Meditation{}, err
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return domain.Meditation{}, notFound(id)
	}
	m := all[idx]
	if input.Title != nil {
		m.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		m.Description = strings.TrimSpace(*input.Description)
	}
	if input.DurationMinutes != nil {
		m.DurationMinutes = *input.DurationMinutes
	}
	if input.Category != nil {
		m.Category = strings.TrimSpace(*input.Category)
	}
	if input.Tags != nil {
		m.Tags = domain.NormalizeTags(*input.Tags)
	}
	m.UpdatedAt = s.clock.Now()
	if err := m.Validate(); err != nil {
		return domain.Meditation{}, err
	}

	next := append([]domain.Meditation(nil), all...)
	next[idx] = m
	if err := s.store.Save(ctx, next); err != nil {
		return domain.Meditation{}, err
	}
	s.log.Info("meditation updated", "id", m.ID)
	return m, nil
}

// Delete removes a meditation and returns it. Recorded sessions keep their
// meditation id.
func (s *CatalogService) Delete(ctx context.Context, id string) (domain.Meditation, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return domain.Meditation{}, err
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return domain.Meditation{}, notFound(id)
	}
	removed := all[idx]
	next := make([]domain.Meditation, 0, len(all)-1)
	next = append(next, all[:idx]...)
	next = append(next, all[idx+1:]...)
	if err := s.store.Save(ctx, next); err != nil {
		return domain.Meditation{}, err
	}
	s.log.Info("meditation deleted", "id", id)
	return removed, nil
}

func indexOf(all []domain.Meditation, id string) int {
	for i, m := range all {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return fmt.Errorf("meditation %s: %w", id, apperrors.ErrNotFound)
}
