package domain

import (
	"time"

	apperrors "resolvemcp/internal/platform/errors"
)

type Outcome string

const (
	OutcomeOK                Outcome = "ok"
	OutcomeHostUnavailable   Outcome = Outcome(apperrors.CategoryHostUnavailable)
	OutcomeOperationRejected Outcome = Outcome(apperrors.CategoryOperationRejected)
)

// Entry is one recorded tool invocation.
type Entry struct {
	ID         string
	Operation  string
	Outcome    Outcome
	Detail     string
	Generation uint64
	StartedAt  time.Time
	Duration   time.Duration
}

// OutcomeOf maps a tool error onto a journal outcome. Unclassified errors
// count as rejections.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	if apperrors.CategoryOf(err) == apperrors.CategoryHostUnavailable {
		return OutcomeHostUnavailable
	}
	return OutcomeOperationRejected
}
