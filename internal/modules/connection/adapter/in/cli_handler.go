package in

import (
	"context"

	"resolvemcp/internal/modules/connection/dto"
	connectionin "resolvemcp/internal/modules/connection/port/in"
)

type CLIHandler struct {
	usecase connectionin.Usecase
}

func NewCLIHandler(usecase connectionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Connect(ctx context.Context) (dto.SessionInfo, error) {
	return h.usecase.EnsureConnected(ctx)
}

func (h CLIHandler) Status(ctx context.Context) dto.SessionInfo {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Disconnect(ctx context.Context) error {
	return h.usecase.Disconnect(ctx)
}
