package usecase

import (
	"context"

	"resolvemcp/internal/modules/journal/dto"
	journalin "resolvemcp/internal/modules/journal/port/in"
	"resolvemcp/internal/modules/journal/service"
	"resolvemcp/internal/platform/page"
)

type Interactor struct {
	svc *service.JournalService
}

func NewInteractor(svc *service.JournalService) journalin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Record(ctx context.Context, input dto.RecordInput) error {
	return i.svc.Record(ctx, input)
}

func (i *Interactor) List(ctx context.Context, input dto.ListInput) (page.Page[dto.EntryInfo], error) {
	return i.svc.List(ctx, input)
}
