package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is an entity that guards its own invariants, carries an
// optimistic-lock version and buffers the events it raised
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot implements the version and event buffer of AggregateRoot
type BaseAggregateRoot struct {
	BaseEntity
	Version int           `gorm:"not null;default:1"`
	pending []DomainEvent `gorm:"-"`
	// stored is the version last read from or written to the database; 0 when never persisted
	stored int `gorm:"-"`
}

func (a *BaseAggregateRoot) GetVersion() int   { return a.Version }
func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// StoredVersion returns the version the database row had when this copy was loaded or saved
func (a *BaseAggregateRoot) StoredVersion() int { return a.stored }

// MarkStored records that the database row now carries Version
func (a *BaseAggregateRoot) MarkStored() { a.stored = a.Version }

// AddDomainEvent buffers event until the service publishes it
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// GetDomainEvents returns the buffered events without clearing them
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.pending }

// ClearDomainEvents drops the buffered events
func (a *BaseAggregateRoot) ClearDomainEvents() { a.pending = nil }

// PullDomainEvents returns the buffered events and clears the buffer, for
// publishing after the aggregate was saved
func (a *BaseAggregateRoot) PullDomainEvents() []DomainEvent {
	events := a.pending
	a.pending = nil
	return events
}

// NewBaseAggregateRoot creates a version 1 aggregate with a fresh id
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// TenantAggregateRoot is an aggregate owned by one village
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// NewTenantAggregateRoot creates a new aggregate owned by tenantID
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{BaseAggregateRoot: NewBaseAggregateRoot(), TenantID: tenantID}
}

// NewTenantAggregateRootWithCreator also records the staff member who created it
func NewTenantAggregateRootWithCreator(tenantID, createdBy uuid.UUID) TenantAggregateRoot {
	root := NewTenantAggregateRoot(tenantID)
	root.CreatedBy = &createdBy
	return root
}

// BelongsTo reports whether the aggregate is owned by tenantID
func (t *TenantAggregateRoot) BelongsTo(tenantID uuid.UUID) bool { return t.TenantID == tenantID }

func (t *TenantAggregateRoot) SetCreatedBy(userID uuid.UUID) { t.CreatedBy = &userID }
func (t *TenantAggregateRoot) GetCreatedBy() *uuid.UUID      { return t.CreatedBy }
