package page

import (
	"fmt"

	apperrors "resolvemcp/internal/platform/errors"
)

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

// Paginate slices items without reordering them. An offset past the end
// yields an empty page.
func Paginate[T any](items []T, offset, limit int) (Page[T], error) {
	if offset < 0 {
		return Page[T]{}, fmt.Errorf("%w: offset must be >= 0, got %d", apperrors.ErrInvalidInput, offset)
	}
	if limit <= 0 {
		return Page[T]{}, fmt.Errorf("%w: limit must be > 0, got %d", apperrors.ErrInvalidInput, limit)
	}
	total := len(items)
	start := min(offset, total)
	end := min(start+limit, total)
	window := make([]T, end-start)
	copy(window, items[start:end])
	return Page[T]{
		Items:   window,
		Total:   total,
		Offset:  offset,
		Limit:   limit,
		HasMore: offset+len(window) < total,
	}, nil
}

// Map converts the items of p while keeping its continuation fields.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		out = append(out, fn(item))
	}
	return Page[U]{Items: out, Total: p.Total, Offset: p.Offset, Limit: p.Limit, HasMore: p.HasMore}
}
