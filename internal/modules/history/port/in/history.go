package in

import (
	"context"

	"stillness/internal/modules/history/dto"
)

type Usecase interface {
	Record(ctx context.Context, input dto.RecordInput) (dto.SessionOutput, error)
	List(ctx context.Context, input dto.ListInput) ([]dto.SessionOutput, error)
	LoadAll(ctx context.Context) ([]dto.SessionOutput, error)
	Get(ctx context.Context, id string) (dto.SessionOutput, error)
	Annotate(ctx context.Context, input dto.AnnotateInput) (dto.SessionOutput, error)
	Delete(ctx context.Context, id string) error
	Reindex(ctx context.Context) (dto.ReindexOutput, error)
}
