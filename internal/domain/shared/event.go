package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact about a state change, published after the change
// has been persisted.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// BaseDomainEvent implements DomainEvent; concrete events embed it and add
// their payload fields.
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"type"`
	At        time.Time `json:"timestamp"`
	Aggregate uuid.UUID `json:"aggregate_id"`
	Kind      string    `json:"aggregate_type"`
	Tenant    uuid.UUID `json:"tenant_id"`
}

// NewBaseDomainEvent stamps a fresh event with an ID and the current time.
func NewBaseDomainEvent(eventType, aggType string, aggID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Name:      eventType,
		At:        time.Now(),
		Aggregate: aggID,
		Kind:      aggType,
		Tenant:    tenantID,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID { return e.ID }

func (e *BaseDomainEvent) EventType() string { return e.Name }

func (e *BaseDomainEvent) OccurredAt() time.Time { return e.At }

func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.Aggregate }

func (e *BaseDomainEvent) AggregateType() string { return e.Kind }

func (e *BaseDomainEvent) TenantID() uuid.UUID { return e.Tenant }
