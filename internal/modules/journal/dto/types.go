package dto

import "time"

type RecordInput struct {
	Operation  string
	Generation uint64
	StartedAt  time.Time
	Duration   time.Duration
	Err        error
}

type ListInput struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type EntryInfo struct {
	ID         string    `json:"id"`
	Operation  string    `json:"operation"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	Generation uint64    `json:"generation"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
}
