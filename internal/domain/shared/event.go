package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened to an aggregate of one village
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// BaseDomainEvent carries the envelope every event shares. Concrete events
// embed it and add their payload fields.
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Aggregate struct {
		ID   uuid.UUID `json:"id"`
		Type string    `json:"type"`
	} `json:"aggregate"`
	Tenant uuid.UUID `json:"tenant_id"`
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.Timestamp }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.Aggregate.ID }
func (e *BaseDomainEvent) AggregateType() string  { return e.Aggregate.Type }
func (e *BaseDomainEvent) TenantID() uuid.UUID    { return e.Tenant }

// NewBaseDomainEvent stamps a new envelope with a fresh id and the current time
func NewBaseDomainEvent(eventType, aggType string, aggID, tenantID uuid.UUID) BaseDomainEvent {
	e := BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Tenant:    tenantID,
	}
	e.Aggregate.ID = aggID
	e.Aggregate.Type = aggType
	return e
}
