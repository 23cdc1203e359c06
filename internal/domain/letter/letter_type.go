package letter

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LetterType is a kind of letter the village issues, e.g. SKD (surat keterangan domisili)
type LetterType struct {
	shared.TenantAggregateRoot
	Code               string          `gorm:"type:varchar(20);not null"`
	Name               string          `gorm:"type:varchar(200);not null"`
	Description        string          `gorm:"type:text"`
	RequiredDocuments  string          `gorm:"type:text"`
	ProcessingTimeDays int             `gorm:"not null;default:3"`
	FeeAmount          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IsActive           bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (LetterType) TableName() string {
	return "letter_types"
}

// NewLetterType creates an active letter type. The code is stored upper-cased.
func NewLetterType(tenantID uuid.UUID, code, name string) (*LetterType, error) {
	lt := &LetterType{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProcessingTimeDays:  3,
		FeeAmount:           decimal.Zero,
		IsActive:            true,
	}
	if err := lt.Update(code, name, "", "", 3, decimal.Zero); err != nil {
		return nil, err
	}
	return lt, nil
}

// Update replaces the editable fields
func (lt *LetterType) Update(code, name, description, requiredDocuments string, processingDays int, fee decimal.Decimal) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if code == "" || len(code) > 20 {
		return shared.NewDomainError("INVALID_CODE", "Letter type code must be 1 to 20 characters")
	}
	if strings.ContainsAny(code, "/{} ") {
		return shared.NewDomainError("INVALID_CODE", "Letter type code cannot contain spaces, slashes or braces")
	}
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Letter type name must be 1 to 200 characters")
	}
	if processingDays < 0 {
		return shared.NewDomainError("INVALID_PROCESSING_TIME", "Processing time cannot be negative")
	}
	if fee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Fee cannot be negative")
	}
	lt.Code = code
	lt.Name = name
	lt.Description = description
	lt.RequiredDocuments = requiredDocuments
	lt.ProcessingTimeDays = processingDays
	lt.FeeAmount = fee
	lt.Touch()
	lt.IncrementVersion()
	return nil
}

// SetActive toggles availability for new letters
func (lt *LetterType) SetActive(active bool) {
	lt.IsActive = active
	lt.Touch()
}
