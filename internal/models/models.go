package models

import (
	"time"
)

// Model is a persisted history entry.
//
// Entries are numbered in creation order and soft deleted, so Sequence and DeletedAt survive a delete.
type Model interface {
	ID() string
	Sequence() int
	CreatedAt() time.Time
	UpdatedAt() time.Time
	DeletedAt() *time.Time
	Validate() error
}

// Repository stores history entries of type T.
//
// Get and Latest skip soft-deleted entries. List does too unless its criteria set "include_deleted",
// and returns entries newest first.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Latest() (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
