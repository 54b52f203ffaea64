package in

import (
	"context"

	historydto "stillness/internal/modules/history/dto"
	historyin "stillness/internal/modules/history/port/in"
)

type CLIHandler struct {
	usecase historyin.Usecase
}

func NewCLIHandler(usecase historyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context, kind, since string, limit int) ([]historydto.SessionOutput, error) {
	return h.usecase.List(ctx, historydto.ListInput{Kind: kind, Since: since, Limit: limit})
}

func (h CLIHandler) Show(ctx context.Context, id string) (historydto.SessionOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Note(ctx context.Context, id, text string) (historydto.SessionOutput, error) {
	return h.usecase.Annotate(ctx, historydto.AnnotateInput{ID: id, Notes: text})
}

func (h CLIHandler) Delete(ctx context.Context, id string) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) Reindex(ctx context.Context) (historydto.ReindexOutput, error) {
	return h.usecase.Reindex(ctx)
}
