package in

import (
	"context"

	"resolvemcp/internal/modules/connection/dto"
)

type Usecase interface {
	EnsureConnected(ctx context.Context) (dto.SessionInfo, error)
	Property(ctx context.Context, name dto.Property) (dto.Handle, error)
	Call(ctx context.Context, target dto.Handle, method string, args ...any) (dto.Value, error)
	Supports(ctx context.Context, target dto.Handle, method string) (bool, error)
	Status(ctx context.Context) dto.SessionInfo
	Disconnect(ctx context.Context) error
}
