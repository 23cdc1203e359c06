package letter

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// RecipientType classifies who a letter is addressed to
type RecipientType string

const (
	RecipientInternal   RecipientType = "internal"
	RecipientExternal   RecipientType = "external"
	RecipientGovernment RecipientType = "government"
	RecipientPrivate    RecipientType = "private"
	RecipientIndividual RecipientType = "individual"
)

// DeliveryMethod is how a letter reaches its recipient
type DeliveryMethod string

const (
	DeliveryHand  DeliveryMethod = "hand_delivery"
	DeliveryPost  DeliveryMethod = "post"
	DeliveryEmail DeliveryMethod = "email"
	DeliveryFax   DeliveryMethod = "fax"
)

// Recipient is an addressee of a letter
type Recipient struct {
	shared.BaseEntity
	TenantID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	LetterID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	RecipientType  RecipientType  `gorm:"type:varchar(20);not null;default:'individual'"`
	Name           string         `gorm:"type:varchar(200);not null"`
	Position       string         `gorm:"type:varchar(200)"`
	Organization   string         `gorm:"type:varchar(200)"`
	Address        string         `gorm:"type:text"`
	Phone          string         `gorm:"type:varchar(50)"`
	Email          string         `gorm:"type:varchar(200)"`
	IsPrimary      bool           `gorm:"not null;default:false"`
	DeliveryMethod DeliveryMethod `gorm:"type:varchar(20);not null;default:'hand_delivery'"`
	DeliveryDate   *time.Time
	ReceivedDate   *time.Time
}

// TableName returns the table name for GORM
func (Recipient) TableName() string {
	return "letter_recipients"
}

// NewRecipient creates a recipient for a letter
func NewRecipient(tenantID, letterID uuid.UUID, rtype RecipientType, name string, method DeliveryMethod) (*Recipient, error) {
	r := &Recipient{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		LetterID:   letterID,
	}
	if err := r.Update(rtype, name, method); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the core recipient fields
func (r *Recipient) Update(rtype RecipientType, name string, method DeliveryMethod) error {
	switch rtype {
	case RecipientInternal, RecipientExternal, RecipientGovernment, RecipientPrivate, RecipientIndividual:
	default:
		return shared.NewDomainError("INVALID_RECIPIENT_TYPE", "Unknown recipient type")
	}
	if method == "" {
		method = DeliveryHand
	}
	switch method {
	case DeliveryHand, DeliveryPost, DeliveryEmail, DeliveryFax:
	default:
		return shared.NewDomainError("INVALID_DELIVERY_METHOD", "Unknown delivery method")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Recipient name must be 1 to 200 characters")
	}
	r.RecipientType = rtype
	r.Name = name
	r.DeliveryMethod = method
	r.Touch()
	return nil
}

// MarkDelivered stamps the delivery date
func (r *Recipient) MarkDelivered(at time.Time) {
	r.DeliveryDate = &at
	r.Touch()
}

// MarkReceived stamps the received date; it cannot precede delivery
func (r *Recipient) MarkReceived(at time.Time) error {
	if r.DeliveryDate != nil && at.Before(*r.DeliveryDate) {
		return shared.NewDomainError("INVALID_RECEIVED_DATE", "Received date cannot precede delivery date")
	}
	r.ReceivedDate = &at
	r.Touch()
	return nil
}
