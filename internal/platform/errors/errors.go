package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// ErrHostUnavailable and ErrOperationRejected are the two categories every
	// tool surfaces. Use errors.Is against them, never against ClassifiedError.
	ErrHostUnavailable   = errors.New("host unavailable")
	ErrOperationRejected = errors.New("operation rejected")

	// ErrStaleReference is the raw signal that a host object no longer exists
	// or no longer responds.
	ErrStaleReference = errors.New("stale host reference")
	// ErrStaleHandle marks a derived handle minted by an earlier session.
	ErrStaleHandle = errors.New("stale handle")
	// ErrNotSupported marks a method the connected host version lacks.
	ErrNotSupported = errors.New("not supported in this host version")
)

const defaultUnavailableDetail = "DaVinci Resolve is not running. Please open it and try again."

type Category string

const (
	CategoryHostUnavailable   Category = "host_unavailable"
	CategoryOperationRejected Category = "operation_rejected"
)

func (c Category) Retryable() bool {
	return c == CategoryHostUnavailable
}

type ClassifiedError struct {
	Category  Category
	Operation string
	Detail    string
	Err       error
}

func (e *ClassifiedError) Error() string {
	switch e.Category {
	case CategoryHostUnavailable:
		if e.Detail == "" {
			return defaultUnavailableDetail
		}
		return e.Detail
	default:
		if e.Detail == "" {
			return fmt.Sprintf("resolve operation failed: %s", e.Operation)
		}
		return fmt.Sprintf("resolve operation failed: %s: %s", e.Operation, e.Detail)
	}
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

func (e *ClassifiedError) Is(target error) bool {
	switch target {
	case ErrHostUnavailable:
		return e.Category == CategoryHostUnavailable
	case ErrOperationRejected:
		return e.Category == CategoryOperationRejected
	}
	return false
}

// Unavailable builds a HostUnavailable error. An empty detail renders the
// default "not running" message.
func Unavailable(detail string) error {
	return &ClassifiedError{Category: CategoryHostUnavailable, Detail: detail}
}

func Rejected(operation, detail string) error {
	return &ClassifiedError{Category: CategoryOperationRejected, Operation: operation, Detail: detail}
}

// Classify maps a raw failure observed while exercising a host handle onto the
// two-member taxonomy. Already classified errors pass through unchanged so the
// mapping happens exactly once.
func Classify(operation string, err error) error {
	if err == nil {
		return nil
	}
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return err
	}
	if errors.Is(err, ErrStaleReference) || errors.Is(err, ErrStaleHandle) || errors.Is(err, ErrHostUnavailable) {
		return &ClassifiedError{
			Category:  CategoryHostUnavailable,
			Operation: operation,
			Detail:    fmt.Sprintf("lost connection to DaVinci Resolve (%v); please retry", err),
			Err:       err,
		}
	}
	return &ClassifiedError{
		Category:  CategoryOperationRejected,
		Operation: operation,
		Detail:    err.Error(),
		Err:       err,
	}
}

// CategoryOf reports the taxonomy category of err, or "" when err was never
// classified.
func CategoryOf(err error) Category {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category
	}
	return ""
}
