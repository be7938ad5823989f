package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"resolvemcp/internal/modules/journal/domain"
	"resolvemcp/internal/modules/journal/dto"
	journalout "resolvemcp/internal/modules/journal/port/out"
	"resolvemcp/internal/platform/clock"
	apperrors "resolvemcp/internal/platform/errors"
	"resolvemcp/internal/platform/id"
	"resolvemcp/internal/platform/page"
)

const (
	defaultListLimit = 20
	maxDetailLength  = 512
)

type JournalService struct {
	clock clock.Clock
	idGen id.Generator
	store journalout.EntryStore
}

func NewJournalService(clock clock.Clock, idGen id.Generator, store journalout.EntryStore) *JournalService {
	return &JournalService{clock: clock, idGen: idGen, store: store}
}

func (s *JournalService) Record(ctx context.Context, input dto.RecordInput) error {
	operation := strings.TrimSpace(input.Operation)
	if operation == "" {
		return fmt.Errorf("%w: operation is required", apperrors.ErrInvalidInput)
	}
	startedAt := input.StartedAt
	if startedAt.IsZero() {
		startedAt = s.clock.Now()
	}
	entry := domain.Entry{
		ID:         s.idGen.New(),
		Operation:  operation,
		Outcome:    domain.OutcomeOf(input.Err),
		Generation: input.Generation,
		StartedAt:  startedAt.UTC(),
		Duration:   input.Duration,
	}
	if input.Err != nil {
		entry.Detail = truncate(input.Err.Error(), maxDetailLength)
	}
	if err := s.store.Append(ctx, entry); err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}
	return nil
}

func (s *JournalService) List(ctx context.Context, input dto.ListInput) (page.Page[dto.EntryInfo], error) {
	limit := input.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	entries, err := s.store.All(ctx)
	if err != nil {
		return page.Page[dto.EntryInfo]{}, fmt.Errorf("load journal: %w", err)
	}
	window, err := page.Paginate(entries, input.Offset, limit)
	if err != nil {
		return page.Page[dto.EntryInfo]{}, err
	}
	return page.Map(window, toInfo), nil
}

func toInfo(e domain.Entry) dto.EntryInfo {
	return dto.EntryInfo{
		ID:         e.ID,
		Operation:  e.Operation,
		Outcome:    string(e.Outcome),
		Detail:     e.Detail,
		Generation: e.Generation,
		StartedAt:  e.StartedAt,
		DurationMS: e.Duration.Milliseconds(),
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
