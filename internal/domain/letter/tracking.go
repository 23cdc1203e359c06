package letter

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// TrackingAction is a recorded step in a letter's history
type TrackingAction string

const (
	ActionCreated   TrackingAction = "created"
	ActionSubmitted TrackingAction = "submitted"
	ActionReviewed  TrackingAction = "reviewed"
	ActionApproved  TrackingAction = "approved"
	ActionRejected  TrackingAction = "rejected"
	ActionCompleted TrackingAction = "completed"
	ActionCancelled TrackingAction = "cancelled"
	ActionSent      TrackingAction = "sent"
	ActionReceived  TrackingAction = "received"
	ActionReturned  TrackingAction = "returned"
	ActionSigned    TrackingAction = "signed"
	ActionValidated TrackingAction = "validated"
)

// IsValid reports whether a is a known action
func (a TrackingAction) IsValid() bool {
	switch a {
	case ActionCreated, ActionSubmitted, ActionReviewed, ActionApproved, ActionRejected,
		ActionCompleted, ActionCancelled, ActionSent, ActionReceived, ActionReturned,
		ActionSigned, ActionValidated:
		return true
	}
	return false
}

var actionDescriptions = map[TrackingAction]string{
	ActionCreated:   "Surat dibuat",
	ActionSubmitted: "Surat diajukan",
	ActionReviewed:  "Surat sedang ditinjau",
	ActionApproved:  "Surat disetujui",
	ActionRejected:  "Surat ditolak",
	ActionCompleted: "Surat selesai",
	ActionCancelled: "Surat dibatalkan",
	ActionSent:      "Surat dikirim",
	ActionReceived:  "Surat diterima",
	ActionReturned:  "Surat dikembalikan",
	ActionSigned:    "Surat ditandatangani secara digital",
	ActionValidated: "Surat divalidasi AI",
}

// Description returns the default human-readable text for the action
func (a TrackingAction) Description() string {
	return actionDescriptions[a]
}

// Tracking is an append-only history entry for a letter
type Tracking struct {
	shared.BaseEntity
	TenantID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	LetterID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Action      TrackingAction `gorm:"type:varchar(20);not null"`
	Description string         `gorm:"type:text"`
	PerformedBy *uuid.UUID     `gorm:"type:uuid"`
	IPAddress   string         `gorm:"column:ip_address;type:varchar(45)"`
	Notes       string         `gorm:"type:text"`
	PerformedAt time.Time      `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Tracking) TableName() string {
	return "letter_tracking"
}

// NewTracking creates a history entry. An empty description falls back to the action's default text.
func NewTracking(tenantID, letterID uuid.UUID, action TrackingAction, description string, by *uuid.UUID, ip string) (*Tracking, error) {
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRACKING_ACTION", "Unknown tracking action")
	}
	if description == "" {
		description = action.Description()
	}
	return &Tracking{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		LetterID:    letterID,
		Action:      action,
		Description: description,
		PerformedBy: by,
		IPAddress:   ip,
		PerformedAt: time.Now(),
	}, nil
}

// TrackingFromEvents turns the status changes pending on a letter into history entries
func TrackingFromEvents(l *Letter, ip string) []*Tracking {
	var out []*Tracking
	for _, ev := range l.GetDomainEvents() {
		switch e := ev.(type) {
		case *LetterCreatedEvent:
			t, _ := NewTracking(l.TenantID, l.ID, ActionCreated, "", l.CreatedBy, ip)
			out = append(out, t)
		case *LetterStatusChangedEvent:
			t, _ := NewTracking(l.TenantID, l.ID, e.Action, "", e.PerformedBy, ip)
			t.Notes = e.Note
			t.PerformedAt = e.OccurredAt()
			out = append(out, t)
		case *LetterSignedEvent:
			signer := e.SignerID
			t, _ := NewTracking(l.TenantID, l.ID, ActionSigned, "", &signer, ip)
			out = append(out, t)
		}
	}
	return out
}
