package in

import (
	"context"

	"resolvemcp/internal/modules/journal/dto"
	"resolvemcp/internal/platform/page"
)

type Usecase interface {
	Record(ctx context.Context, input dto.RecordInput) error
	List(ctx context.Context, input dto.ListInput) (page.Page[dto.EntryInfo], error)
}
