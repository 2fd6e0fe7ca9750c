package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is raised by entities to signal state changes. Dispatching
// events to subscribers is the job of an external event dispatcher; this
// package only records them on the entity until drained.
type DomainEvent interface {
	EventID() uuid.UUID
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides the common DomainEvent fields. Embed it in concrete
// event types.
type BaseEvent struct {
	id         uuid.UUID
	name       string
	occurredAt time.Time
}

// NewBaseEvent creates an event base with a fresh identity
func NewBaseEvent(name string, clock Clock) BaseEvent {
	if clock == nil {
		clock = NewRealClock()
	}
	return BaseEvent{
		id:         uuid.New(),
		name:       name,
		occurredAt: clock.Now(),
	}
}

// EventID returns the event identity
func (e BaseEvent) EventID() uuid.UUID {
	return e.id
}

// EventName returns the event name
func (e BaseEvent) EventName() string {
	return e.name
}

// OccurredAt returns when the event occurred
func (e BaseEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// EventRecorder accumulates domain events on an entity. Embed it alongside
// BaseEntity; a repository or unit of work drains the events after save.
type EventRecorder struct {
	events []DomainEvent
}

// Record appends an event
func (r *EventRecorder) Record(event DomainEvent) {
	r.events = append(r.events, event)
}

// PendingEvents returns the recorded events without clearing them
func (r *EventRecorder) PendingEvents() []DomainEvent {
	return r.events
}

// DrainEvents returns the recorded events and clears the recorder
func (r *EventRecorder) DrainEvents() []DomainEvent {
	events := r.events
	r.events = nil
	return events
}
