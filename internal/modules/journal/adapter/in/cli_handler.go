package in

import (
	"context"

	"resolvemcp/internal/modules/journal/dto"
	journalin "resolvemcp/internal/modules/journal/port/in"
	"resolvemcp/internal/platform/page"
)

type CLIHandler struct {
	usecase journalin.Usecase
}

func NewCLIHandler(usecase journalin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context, offset, limit int) (page.Page[dto.EntryInfo], error) {
	return h.usecase.List(ctx, dto.ListInput{Offset: offset, Limit: limit})
}
