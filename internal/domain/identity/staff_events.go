package identity

import "github.com/pulosarok/desa/internal/domain/shared"

// AggregateTypeStaff is the aggregate type name used on staff events
const AggregateTypeStaff = "Staff"

const (
	EventTypeStaffCreated = "StaffCreated"
	EventTypeStaffLocked  = "StaffLocked"
)

// StaffCreatedEvent is published when a staff account is created
type StaffCreatedEvent struct {
	shared.BaseDomainEvent
	Username string    `json:"username"`
	Role     StaffRole `json:"role"`
}

// NewStaffCreatedEvent creates a new StaffCreatedEvent
func NewStaffCreatedEvent(s *Staff) *StaffCreatedEvent {
	return &StaffCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStaffCreated, AggregateTypeStaff, s.ID, s.TenantID),
		Username:        s.Username,
		Role:            s.Role,
	}
}

// StaffLockedEvent is published when repeated failures lock an account
type StaffLockedEvent struct {
	shared.BaseDomainEvent
	Username       string `json:"username"`
	FailedAttempts int    `json:"failed_attempts"`
}

// NewStaffLockedEvent creates a new StaffLockedEvent
func NewStaffLockedEvent(s *Staff) *StaffLockedEvent {
	return &StaffLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStaffLocked, AggregateTypeStaff, s.ID, s.TenantID),
		Username:        s.Username,
		FailedAttempts:  s.FailedAttempts,
	}
}
