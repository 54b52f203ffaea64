package in

import (
	"context"

	statsdto "stillness/internal/modules/stats/dto"
	statsin "stillness/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) statsdto.SnapshotOutput {
	return h.usecase.Snapshot(ctx)
}
