package letter

import (
	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// AggregateTypeLetter is the aggregate type name used on letter events
const AggregateTypeLetter = "Letter"

const (
	EventTypeLetterCreated        = "LetterCreated"
	EventTypeLetterStatusChanged  = "LetterStatusChanged"
	EventTypeLetterContentChanged = "LetterContentChanged"
	EventTypeLetterSigned         = "LetterSigned"
	EventTypeLetterValidated      = "LetterValidated"
)

// LetterCreatedEvent is published when a draft is created
type LetterCreatedEvent struct {
	shared.BaseDomainEvent
	LetterTypeID uuid.UUID `json:"letter_type_id"`
	ApplicantID  uuid.UUID `json:"applicant_id"`
	PublicCode   string    `json:"public_code"`
}

// NewLetterCreatedEvent creates a new LetterCreatedEvent
func NewLetterCreatedEvent(l *Letter) *LetterCreatedEvent {
	return &LetterCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLetterCreated, AggregateTypeLetter, l.ID, l.TenantID),
		LetterTypeID:    l.LetterTypeID,
		ApplicantID:     l.ApplicantID,
		PublicCode:      l.PublicCode,
	}
}

// LetterStatusChangedEvent is published on every workflow transition
type LetterStatusChangedEvent struct {
	shared.BaseDomainEvent
	From         Status         `json:"from"`
	To           Status         `json:"to"`
	Action       TrackingAction `json:"action"`
	LetterNumber string         `json:"letter_number,omitempty"`
	PerformedBy  *uuid.UUID     `json:"performed_by,omitempty"`
	Note         string         `json:"note,omitempty"`
}

// NewLetterStatusChangedEvent creates a new LetterStatusChangedEvent
func NewLetterStatusChangedEvent(l *Letter, from, to Status, action TrackingAction, by *uuid.UUID, note string) *LetterStatusChangedEvent {
	return &LetterStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLetterStatusChanged, AggregateTypeLetter, l.ID, l.TenantID),
		From:            from,
		To:              to,
		Action:          action,
		LetterNumber:    l.Number(),
		PerformedBy:     by,
		Note:            note,
	}
}

// LetterContentChangedEvent is published when subject or content change.
// Cached artifacts for the previous digest become stale.
type LetterContentChangedEvent struct {
	shared.BaseDomainEvent
	WordCount int `json:"word_count"`
}

// NewLetterContentChangedEvent creates a new LetterContentChangedEvent
func NewLetterContentChangedEvent(l *Letter) *LetterContentChangedEvent {
	return &LetterContentChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLetterContentChanged, AggregateTypeLetter, l.ID, l.TenantID),
		WordCount:       l.WordCount,
	}
}

// LetterSignedEvent is published when a letter receives a digital signature
type LetterSignedEvent struct {
	shared.BaseDomainEvent
	SignerID      uuid.UUID `json:"signer_id"`
	SignatureHash string    `json:"signature_hash"`
}

// NewLetterSignedEvent creates a new LetterSignedEvent
func NewLetterSignedEvent(l *Letter, signer uuid.UUID) *LetterSignedEvent {
	return &LetterSignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLetterSigned, AggregateTypeLetter, l.ID, l.TenantID),
		SignerID:        signer,
		SignatureHash:   l.SignatureHash,
	}
}

// LetterValidatedEvent is published after an AI validation run finishes
type LetterValidatedEvent struct {
	shared.BaseDomainEvent
	Status          ValidationStatus `json:"status"`
	ConfidenceScore float64          `json:"confidence_score"`
	Passed          bool             `json:"passed"`
}

// NewLetterValidatedEvent creates a new LetterValidatedEvent
func NewLetterValidatedEvent(v *AIValidation, passed bool) *LetterValidatedEvent {
	return &LetterValidatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLetterValidated, AggregateTypeLetter, v.LetterID, v.TenantID),
		Status:          v.Status,
		ConfidenceScore: v.ConfidenceScore,
		Passed:          passed,
	}
}
