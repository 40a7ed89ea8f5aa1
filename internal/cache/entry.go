// Package cache holds the in-memory resource caches. Every cache is mutated
// only by dispatching intents; reads return copies of the current entry.
package cache

import "time"

// Status is the request lifecycle of one cache entry.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Entry is the state of one cached resource. After a failed fetch Data still
// holds the last value that loaded successfully.
type Entry[D any] struct {
	Status    Status    `json:"status"`
	Data      D         `json:"data"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e Entry[D]) Loading() bool { return e.Status == StatusLoading }

// Fetched reports whether a fetch has ever completed successfully.
func (e Entry[D]) Fetched() bool { return !e.UpdatedAt.IsZero() }
