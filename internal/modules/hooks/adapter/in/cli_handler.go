package in

import (
	"context"

	hooksdto "stillness/internal/modules/hooks/dto"
	hooksin "stillness/internal/modules/hooks/port/in"
)

type CLIHandler struct {
	usecase hooksin.Usecase
}

func NewCLIHandler(usecase hooksin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]hooksdto.HookInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]hooksdto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
