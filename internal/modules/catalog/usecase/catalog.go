package usecase

import (
	"context"
	"fmt"
	"strings"

	"stillness/internal/modules/catalog/domain"
	catalogdto "stillness/internal/modules/catalog/dto"
	catalogin "stillness/internal/modules/catalog/port/in"
	"stillness/internal/modules/catalog/service"
	apperrors "stillness/internal/platform/errors"
)

type Interactor struct {
	svc *service.CatalogService
}

func NewInteractor(svc *service.CatalogService) catalogin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context, category string) ([]catalogdto.MeditationOutput, error) {
	items, err := i.svc.List(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]catalogdto.MeditationOutput, 0, len(items))
	for _, m := range items {
		out = append(out, toOutput(m))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (catalogdto.MeditationOutput, error) {
	m, err := i.svc.Get(ctx, id)
	if err != nil {
		return catalogdto.MeditationOutput{}, err
	}
	return toOutput(m), nil
}

func (i *Interactor) Create(ctx context.Context, input catalogdto.CreateInput) (catalogdto.MeditationOutput, error) {
	m, err := i.svc.Create(ctx, service.CreateInput{
		ID:              input.ID,
		Title:           input.Title,
		Description:     input.Description,
		DurationMinutes: input.DurationMinutes,
		Category:        input.Category,
		Tags:            input.Tags,
	})
	if err != nil {
		return catalogdto.MeditationOutput{}, err
	}
	return toOutput(m), nil
}

func (i *Interactor) Update(ctx context.Context, input catalogdto.UpdateInput) (catalogdto.MeditationOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return catalogdto.MeditationOutput{}, err
	}
	m, err := i.svc.Update(ctx, id, service.UpdateInput{
		Title:           input.Title,
		Description:     input.Description,
		DurationMinutes: input.DurationMinutes,
		Category:        input.Category,
		Tags:            input.Tags,
	})
	if err != nil {
		return catalogdto.MeditationOutput{}, err
	}
	return toOutput(m), nil
}

func (i *Interactor) Delete(ctx context.Context, id string) (catalogdto.MeditationOutput, error) {
	id, err := requireID(id)
	if err != nil {
		return catalogdto.MeditationOutput{}, err
	}
	m, err := i.svc.Delete(ctx, id)
	if err != nil {
		return catalogdto.MeditationOutput{}, err
	}
	return toOutput(m), nil
}

func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: meditation id is required", apperrors.ErrInvalidInput)
	}
	return id, nil
}

func toOutput(m domain.Meditation) catalogdto.MeditationOutput {
	return catalogdto.MeditationOutput{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		DurationMinutes: m.DurationMinutes,
		Category:        m.Category,
		Tags:            append([]string(nil), m.Tags...),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
