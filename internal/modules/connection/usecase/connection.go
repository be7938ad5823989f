package usecase

import (
	"context"

	"resolvemcp/internal/modules/connection/dto"
	connectionin "resolvemcp/internal/modules/connection/port/in"
	"resolvemcp/internal/modules/connection/service"
)

type Interactor struct {
	svc *service.ConnectionManager
}

func NewInteractor(svc *service.ConnectionManager) connectionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) EnsureConnected(ctx context.Context) (dto.SessionInfo, error) {
	return i.svc.EnsureConnected(ctx)
}

func (i *Interactor) Property(ctx context.Context, name dto.Property) (dto.Handle, error) {
	return i.svc.Property(ctx, name)
}

func (i *Interactor) Call(ctx context.Context, target dto.Handle, method string, args ...any) (dto.Value, error) {
	return i.svc.Call(ctx, target, method, args...)
}

func (i *Interactor) Supports(ctx context.Context, target dto.Handle, method string) (bool, error) {
	return i.svc.Supports(ctx, target, method)
}

func (i *Interactor) Status(context.Context) dto.SessionInfo {
	return i.svc.Info()
}

func (i *Interactor) Disconnect(context.Context) error {
	return i.svc.Shutdown()
}
