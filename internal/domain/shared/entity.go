package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and audit timestamps shared by all
// domain entities. Embed it and expose domain behavior on the outer type.
type BaseEntity struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

// NewBaseEntity creates an entity base with a fresh identity
func NewBaseEntity(clock Clock) BaseEntity {
	if clock == nil {
		clock = NewRealClock()
	}
	now := clock.Now()
	return BaseEntity{
		id:        uuid.New(),
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreBaseEntity rebuilds an entity base from persisted state
func RestoreBaseEntity(id uuid.UUID, createdAt, updatedAt time.Time) BaseEntity {
	return BaseEntity{id: id, createdAt: createdAt, updatedAt: updatedAt}
}

// ID returns the entity identity
func (e *BaseEntity) ID() uuid.UUID {
	return e.id
}

// CreatedAt returns when the entity was created
func (e *BaseEntity) CreatedAt() time.Time {
	return e.createdAt
}

// UpdatedAt returns when the entity was last touched
func (e *BaseEntity) UpdatedAt() time.Time {
	return e.updatedAt
}

// Touch records a modification timestamp
func (e *BaseEntity) Touch(clock Clock) {
	if clock == nil {
		clock = NewRealClock()
	}
	e.updatedAt = clock.Now()
}
