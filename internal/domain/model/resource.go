package model

import "time"

// Keyed is implemented by every record with a natural upstream identity.
type Keyed interface {
	Key() string
}

// Resource wraps a stored record with its identity and fetch time.
type Resource[T Keyed] struct {
	ID        string    `json:"id"`
	Payload   T         `json:"payload"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Wrap stamps v with its key and the fetch time.
func Wrap[T Keyed](v T, at time.Time) Resource[T] {
	return Resource[T]{ID: v.Key(), Payload: v, FetchedAt: at}
}

// WrapAll wraps every element, preserving order. A nil input yields an empty slice.
func WrapAll[T Keyed](vs []T, at time.Time) []Resource[T] {
	out := make([]Resource[T], 0, len(vs))
	for _, v := range vs {
		out = append(out, Wrap(v, at))
	}
	return out
}

// Payloads unwraps a resource slice.
func Payloads[T Keyed](rs []Resource[T]) []T {
	out := make([]T, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Payload)
	}
	return out
}

// DateRange is an inclusive YYYY-MM-DD interval used as a cache key.
type DateRange struct {
	Start string
	End   string
}

func (r DateRange) String() string {
	return r.Start + ".." + r.End
}
