package in

import (
	"context"

	"resolvemcp/internal/modules/tools/dto"
	toolsin "resolvemcp/internal/modules/tools/port/in"
)

type CLIHandler struct {
	usecase toolsin.Usecase
}

func NewCLIHandler(usecase toolsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Check(ctx context.Context) (dto.CheckReport, error) {
	return h.usecase.Check(ctx)
}
