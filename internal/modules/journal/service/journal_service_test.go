package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"resolvemcp/internal/modules/journal/domain"
	"resolvemcp/internal/modules/journal/dto"
	"resolvemcp/internal/modules/journal/service"
	apperrors "resolvemcp/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type memoryStore struct {
	mu      sync.Mutex
	entries []domain.Entry
}

func (s *memoryStore) Append(_ context.Context, e domain.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *memoryStore) All(context.Context) ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Entry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

func (s *memoryStore) Close() error { return nil }

func newService() (*service.JournalService, *memoryStore) {
	store := &memoryStore{}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return service.NewJournalService(fixedClock{now: now}, &seqIDs{}, store), store
}

func TestRecordDerivesOutcome(t *testing.T) {
	t.Parallel()
	svc, store := newService()
	ctx := context.Background()
	inputs := []dto.RecordInput{
		{Operation: "project_list", Generation: 1, Duration: 5 * time.Millisecond},
		{Operation: "project_list", Err: apperrors.Unavailable("")},
		{Operation: "timeline_get_markers", Err: apperrors.Rejected("timeline_get_markers", "No timeline is currently open.")},
		{Operation: "render_start", Err: errors.New("raw failure")},
	}
	for _, in := range inputs {
		if err := svc.Record(ctx, in); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	want := []domain.Outcome{domain.OutcomeOK, domain.OutcomeHostUnavailable, domain.OutcomeOperationRejected, domain.OutcomeOperationRejected}
	for i, e := range store.entries {
		if e.Outcome != want[i] {
			t.Fatalf("entry %d: expected %s, got %s", i, want[i], e.Outcome)
		}
		if e.ID != fmt.Sprintf("id-%d", i+1) || e.StartedAt.IsZero() {
			t.Fatalf("entry %d missing id or time: %+v", i, e)
		}
	}
	if !strings.Contains(store.entries[2].Detail, "No timeline") {
		t.Fatalf("detail not kept: %+v", store.entries[2])
	}
}

func TestRecordRequiresOperation(t *testing.T) {
	t.Parallel()
	svc, _ := newService()
	if err := svc.Record(context.Background(), dto.RecordInput{Operation: " "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestListPaginatesNewestFirst(t *testing.T) {
	t.Parallel()
	svc, _ := newService()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := svc.Record(ctx, dto.RecordInput{Operation: fmt.Sprintf("op-%d", i), Duration: time.Duration(i) * time.Millisecond}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	got, err := svc.List(ctx, dto.ListInput{Offset: 2, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got.Total != 5 || !got.HasMore || len(got.Items) != 2 || got.Items[0].Operation != "op-2" || got.Items[1].Operation != "op-1" {
		t.Fatalf("unexpected page: %+v", got)
	}
	if got.Items[1].DurationMS != 1 {
		t.Fatalf("unexpected duration: %+v", got.Items[1])
	}
	if _, err := svc.List(ctx, dto.ListInput{Offset: -1}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestRecordTruncatesDetailOnRuneBoundary(t *testing.T) {
	t.Parallel()
	svc, store := newService()
	detail := "x" + strings.Repeat("é", 600)
	if err := svc.Record(context.Background(), dto.RecordInput{Operation: "timeline_set_current", Err: errors.New(detail)}); err != nil {
		t.Fatalf("record: %v", err)
	}
	got := store.entries[0].Detail
	if !utf8.ValidString(got) {
		t.Fatalf("detail is not valid UTF-8: %q", got[len(got)-4:])
	}
	if len(got) != 511 || !strings.HasPrefix(detail, got) {
		t.Fatalf("unexpected truncation to %d bytes", len(got))
	}
}
