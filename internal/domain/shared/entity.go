package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is implemented by every domain entity. Identity is the only
// behavior callers need from the abstraction; timestamps are plain fields.
type Entity interface {
	GetID() uuid.UUID
}

// BaseEntity carries the identity and audit timestamps shared by all
// domain entities.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// Touch records a state change on the entity
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity creates a base entity with a fresh ID and both timestamps
// set to now
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
