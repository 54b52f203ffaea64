package usecase

import (
	"context"
	"fmt"
	"strings"

	"stillness/internal/modules/history/domain"
	historydto "stillness/internal/modules/history/dto"
	historyin "stillness/internal/modules/history/port/in"
	"stillness/internal/modules/history/service"
	"stillness/internal/platform/calendar"
	apperrors "stillness/internal/platform/errors"
)

type Interactor struct {
	svc *service.HistoryService
}

func NewInteractor(svc *service.HistoryService) historyin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Record(ctx context.Context, input historydto.RecordInput) (historydto.SessionOutput, error) {
	record, err := i.svc.Record(ctx, service.RecordInput{
		Kind:            domain.Kind(input.Kind),
		DurationMinutes: input.DurationMinutes,
		MeditationID:    input.MeditationID,
		Technique:       input.Technique,
		Notes:           input.Notes,
	})
	if err != nil {
		return historydto.SessionOutput{}, err
	}
	return toOutput(record), nil
}

func (i *Interactor) List(ctx context.Context, input historydto.ListInput) ([]historydto.SessionOutput, error) {
	if input.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must be non-negative", apperrors.ErrInvalidInput)
	}
	filter := domain.Filter{Kind: domain.Kind(strings.TrimSpace(input.Kind)), Limit: input.Limit}
	if since := strings.TrimSpace(input.Since); since != "" {
		date, err := calendar.Parse(since)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		filter.Since = date
	}
	records, err := i.svc.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toOutputs(records), nil
}

func (i *Interactor) LoadAll(ctx context.Context) ([]historydto.SessionOutput, error) {
	records, err := i.svc.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return toOutputs(records), nil
}

func (i *Interactor) Get(ctx context.Context, id string) (historydto.SessionOutput, error) {
	if strings.TrimSpace(id) == "" {
		return historydto.SessionOutput{}, fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	record, err := i.svc.Get(ctx, id)
	if err != nil {
		return historydto.SessionOutput{}, err
	}
	return toOutput(record), nil
}

func (i *Interactor) Annotate(ctx context.Context, input historydto.AnnotateInput) (historydto.SessionOutput, error) {
	if strings.TrimSpace(input.ID) == "" {
		return historydto.SessionOutput{}, fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	record, err := i.svc.Annotate(ctx, input.ID, input.Notes)
	if err != nil {
		return historydto.SessionOutput{}, err
	}
	return toOutput(record), nil
}

func (i *Interactor) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	return i.svc.Delete(ctx, id)
}

func (i *Interactor) Reindex(ctx context.Context) (historydto.ReindexOutput, error) {
	n, err := i.svc.Reindex(ctx)
	if err != nil {
		return historydto.ReindexOutput{}, err
	}
	return historydto.ReindexOutput{Indexed: n}, nil
}

func toOutputs(records []domain.SessionRecord) []historydto.SessionOutput {
	out := make([]historydto.SessionOutput, 0, len(records))
	for _, record := range records {
		out = append(out, toOutput(record))
	}
	return out
}

func toOutput(record domain.SessionRecord) historydto.SessionOutput {
	return historydto.SessionOutput{
		ID:                     record.ID,
		Kind:                   string(record.Kind),
		DurationMinutes:        record.DurationMinutes,
		CompletedAt:            record.CompletedAt,
		CompletedAtEpochMillis: record.CompletedAtEpochMillis(),
		CompletionDate:         record.CompletionDate.String(),
		MeditationID:           record.MeditationID,
		Technique:              record.Technique,
		Notes:                  record.Notes,
		NotePath:               record.NotePath,
	}
}
