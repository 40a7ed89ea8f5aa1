package cache

import (
	"time"

	"stellar-client-go/internal/domain/model"
)

// Intent is a transition request for an Entry[D]. The set is closed: only
// this package can declare intents.
type Intent[D any] interface {
	apply(e Entry[D], now time.Time) (Entry[D], bool)
}

// Reduce applies in to e. The bool is false when the intent was suppressed.
func Reduce[D any](e Entry[D], in Intent[D], now time.Time) (Entry[D], bool) {
	return in.apply(e, now)
}

// FetchStart marks the entry as loading. It is suppressed while a fetch for
// the same entry is already in flight.
type FetchStart[D any] struct{}

func (FetchStart[D]) apply(e Entry[D], _ time.Time) (Entry[D], bool) {
	if e.Status == StatusLoading {
		return e, false
	}
	e.Status = StatusLoading
	return e, true
}

// FetchFailed records the failure and keeps the previous data.
type FetchFailed[D any] struct {
	Message string
}

func (f FetchFailed[D]) apply(e Entry[D], _ time.Time) (Entry[D], bool) {
	e.Status = StatusFailed
	e.Error = f.Message
	return e, true
}

// ErrorCleared drops the error message and leaves status and data alone.
type ErrorCleared[D any] struct{}

func (ErrorCleared[D]) apply(e Entry[D], _ time.Time) (Entry[D], bool) {
	if e.Error == "" {
		return e, false
	}
	e.Error = ""
	return e, true
}

// Fetched replaces a single-record entry wholesale.
type Fetched[T model.Keyed] struct {
	Item T
}

func (f Fetched[T]) apply(e Entry[model.Resource[T]], now time.Time) (Entry[model.Resource[T]], bool) {
	return succeed(e, model.Wrap(f.Item, now), now), true
}

// ListFetched replaces a collection entry wholesale.
type ListFetched[T model.Keyed] struct {
	Items []T
}

func (f ListFetched[T]) apply(e Entry[[]model.Resource[T]], now time.Time) (Entry[[]model.Resource[T]], bool) {
	return succeed(e, model.WrapAll(f.Items, now), now), true
}

// UpsertOne replaces the record with the same key in place, or appends it.
type UpsertOne[T model.Keyed] struct {
	Item T
}

func (u UpsertOne[T]) apply(e Entry[[]model.Resource[T]], now time.Time) (Entry[[]model.Resource[T]], bool) {
	e.Data = upsert(e.Data, model.Wrap(u.Item, now))
	e.UpdatedAt = now
	return e, true
}

// AppendOne adds a record at the end of a collection.
type AppendOne[T model.Keyed] struct {
	Item T
}

func (a AppendOne[T]) apply(e Entry[[]model.Resource[T]], now time.Time) (Entry[[]model.Resource[T]], bool) {
	out := make([]model.Resource[T], 0, len(e.Data)+1)
	out = append(out, e.Data...)
	e.Data = append(out, model.Wrap(a.Item, now))
	e.UpdatedAt = now
	return e, true
}

// RemoveOne drops the record with the given key. Removing an absent key is suppressed.
type RemoveOne[T model.Keyed] struct {
	ID string
}

func (r RemoveOne[T]) apply(e Entry[[]model.Resource[T]], now time.Time) (Entry[[]model.Resource[T]], bool) {
	out, removed := remove(e.Data, r.ID)
	if !removed {
		return e, false
	}
	e.Data = out
	e.UpdatedAt = now
	return e, true
}

func succeed[D any](e Entry[D], data D, now time.Time) Entry[D] {
	e.Status = StatusSucceeded
	e.Data = data
	e.Error = ""
	e.UpdatedAt = now
	return e
}

// upsert never mutates the backing array of list so earlier reads stay valid.
func upsert[T model.Keyed](list []model.Resource[T], r model.Resource[T]) []model.Resource[T] {
	out := make([]model.Resource[T], len(list), len(list)+1)
	copy(out, list)
	for i := range out {
		if out[i].ID == r.ID {
			out[i] = r
			return out
		}
	}
	return append(out, r)
}

func prepend[T model.Keyed](list []model.Resource[T], r model.Resource[T]) []model.Resource[T] {
	out := make([]model.Resource[T], 0, len(list)+1)
	out = append(out, r)
	return append(out, list...)
}

// replace swaps the record with the same key and reports whether it was present.
func replace[T model.Keyed](list []model.Resource[T], r model.Resource[T]) ([]model.Resource[T], bool) {
	for i := range list {
		if list[i].ID == r.ID {
			out := make([]model.Resource[T], len(list))
			copy(out, list)
			out[i] = r
			return out, true
		}
	}
	return list, false
}

func remove[T model.Keyed](list []model.Resource[T], id string) ([]model.Resource[T], bool) {
	for i := range list {
		if list[i].ID == id {
			out := make([]model.Resource[T], 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...), true
		}
	}
	return list, false
}
