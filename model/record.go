package model

import "github.com/google/uuid"

// Record wraps a working-set entity. LocalKey identifies the record for
// the lifetime of a wizard session; RemoteID stays empty until the backend
// persists the entity. A record with a RemoteID is updated on finalize, a
// record without one is created.
type Record[T any] struct {
	LocalKey string
	RemoteID string
	Value    T
}

// NewRecord wraps a not-yet-persisted value.
func NewRecord[T any](value T) Record[T] {
	return Record[T]{LocalKey: uuid.NewString(), Value: value}
}

// PersistedRecord wraps a value hydrated from a backend snapshot.
func PersistedRecord[T any](remoteID string, value T) Record[T] {
	return Record[T]{LocalKey: uuid.NewString(), RemoteID: remoteID, Value: value}
}

func (r Record[T]) Persisted() bool {
	return r.RemoteID != ""
}
