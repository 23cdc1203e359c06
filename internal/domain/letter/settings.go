package letter

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// SignatureType is how the head of village's signature appears on a letter
type SignatureType string

const (
	SignatureDigital SignatureType = "digital"
	SignatureImage   SignatureType = "image"
	SignatureText    SignatureType = "text"
)

// Settings is the per-tenant letter configuration. Exactly one active row exists per tenant.
type Settings struct {
	shared.TenantAggregateRoot
	VillageName            string        `gorm:"type:varchar(200);not null"`
	VillageAddress         string        `gorm:"type:text"`
	VillagePhone           string        `gorm:"type:varchar(50)"`
	VillageEmail           string        `gorm:"type:varchar(200)"`
	VillageWebsite         string        `gorm:"type:varchar(200)"`
	HeadName               string        `gorm:"type:varchar(200)"`
	HeadNIP                string        `gorm:"column:head_nip;type:varchar(50)"`
	HeadSignatureType      SignatureType `gorm:"type:varchar(20);not null;default:'digital'"`
	SecretaryName          string        `gorm:"type:varchar(200)"`
	SecretaryNIP           string        `gorm:"column:secretary_nip;type:varchar(50)"`
	LetterNumberFormat     string        `gorm:"type:varchar(200);not null"`
	ResetCounterYearly     bool          `gorm:"not null;default:true"`
	EnableAIValidation     bool          `gorm:"column:enable_ai_validation;not null;default:true"`
	AIValidationThreshold  float64       `gorm:"column:ai_validation_threshold;not null;default:0.8"`
	EnableAISuggestions    bool          `gorm:"column:enable_ai_suggestions;not null;default:true"`
	EnableDigitalSignature bool          `gorm:"not null;default:true"`
	VerificationBaseURL    string        `gorm:"type:varchar(300)"`
	IsActive               bool          `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Settings) TableName() string {
	return "letter_settings"
}

// NewDefaultSettings returns the settings a tenant starts with
func NewDefaultSettings(tenantID uuid.UUID, villageName, verificationBaseURL string) *Settings {
	if villageName == "" {
		villageName = "Desa Pulosarok"
	}
	return &Settings{
		TenantAggregateRoot:    shared.NewTenantAggregateRoot(tenantID),
		VillageName:            villageName,
		HeadSignatureType:      SignatureDigital,
		LetterNumberFormat:     DefaultNumberFormat,
		ResetCounterYearly:     true,
		EnableAIValidation:     true,
		AIValidationThreshold:  0.8,
		EnableAISuggestions:    true,
		EnableDigitalSignature: true,
		VerificationBaseURL:    strings.TrimRight(verificationBaseURL, "/"),
		IsActive:               true,
	}
}

// Validate checks the invariants of a settings row
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.VillageName) == "" {
		return shared.NewDomainError("INVALID_VILLAGE_NAME", "Village name is required")
	}
	switch s.HeadSignatureType {
	case SignatureDigital, SignatureImage, SignatureText:
	default:
		return shared.NewDomainError("INVALID_SIGNATURE_TYPE", "Signature type must be digital, image or text")
	}
	if s.AIValidationThreshold < 0 || s.AIValidationThreshold > 1 {
		return shared.NewDomainError("INVALID_THRESHOLD", "AI validation threshold must be between 0 and 1")
	}
	return ValidateNumberFormat(s.LetterNumberFormat)
}

// RequiresAIValidation reports whether a letter must pass AI validation before approval
func (s *Settings) RequiresAIValidation(l *Letter) bool {
	return s.EnableAIValidation && l.RequiresAIValidation
}

// VerificationURL is the public address encoded in a letter's QR code
func (s *Settings) VerificationURL(publicCode string) string {
	return strings.TrimRight(s.VerificationBaseURL, "/") + "/verify/" + publicCode
}

// Commit validates edited settings and bumps the version that keys cached PDFs
func (s *Settings) Commit() error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.VerificationBaseURL = strings.TrimRight(s.VerificationBaseURL, "/")
	s.Touch()
	s.IncrementVersion()
	return nil
}
