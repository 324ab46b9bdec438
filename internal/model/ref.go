package model

import "github.com/google/uuid"

// Ref is a reference from a ledger row to another record. Resolved is false
// when the target no longer exists (e.g. the product was deleted).
type Ref[T any] struct {
	ID       uuid.UUID `json:"id"`
	Resolved bool      `json:"resolved"`
	Data     *T        `json:"data,omitempty"`
}

func NewRef[T any](id uuid.UUID, data *T) Ref[T] {
	return Ref[T]{ID: id, Resolved: data != nil, Data: data}
}

// NewOptionalRef returns nil when the reference was never set.
func NewOptionalRef[T any](id *uuid.UUID, data *T) *Ref[T] {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	ref := NewRef(*id, data)
	return &ref
}
