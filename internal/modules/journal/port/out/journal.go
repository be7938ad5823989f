package out

import (
	"context"

	"resolvemcp/internal/modules/journal/domain"
)

type EntryStore interface {
	Append(ctx context.Context, entry domain.Entry) error
	// All returns every entry, newest first.
	All(ctx context.Context) ([]domain.Entry, error)
	Close() error
}
