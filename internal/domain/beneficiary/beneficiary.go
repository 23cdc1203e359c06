package beneficiary

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status is the enrolment state of a beneficiary
type Status string

const (
	StatusActive   Status = "aktif"
	StatusInactive Status = "tidak_aktif"
	StatusGraduate Status = "lulus"
	StatusDeceased Status = "meninggal"
	StatusMoved    Status = "pindah"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusGraduate, StatusDeceased, StatusMoved:
		return true
	}
	return false
}

// EconomicStatus is the household welfare classification
type EconomicStatus string

const (
	EconomicPoor     EconomicStatus = "miskin"
	EconomicVeryPoor EconomicStatus = "sangat_miskin"
	EconomicNearPoor EconomicStatus = "rentan_miskin"
	EconomicNotPoor  EconomicStatus = "tidak_miskin"
)

// IsValid reports whether e is a known economic status
func (e EconomicStatus) IsValid() bool {
	switch e {
	case EconomicPoor, EconomicVeryPoor, EconomicNearPoor, EconomicNotPoor:
		return true
	}
	return false
}

// Category groups beneficiaries by program eligibility
type Category struct {
	shared.TenantAggregateRoot
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	Criteria    string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "beneficiary_categories"
}

// NewCategory creates an active category
func NewCategory(tenantID uuid.UUID, name, description, criteria string) (*Category, error) {
	c := &Category{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID), IsActive: true}
	if err := c.Update(name, description, criteria); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable fields
func (c *Category) Update(name, description, criteria string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name must be 1 to 100 characters")
	}
	c.Name = name
	c.Description = description
	c.Criteria = criteria
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Beneficiary is a resident enrolled in an aid category
type Beneficiary struct {
	shared.TenantAggregateRoot
	PendudukID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	CategoryID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	RegistrationDate   time.Time        `gorm:"type:date;not null"`
	Status             Status           `gorm:"type:varchar(20);not null;default:'aktif';index"`
	EconomicStatus     EconomicStatus   `gorm:"type:varchar(20);not null"`
	MonthlyIncome      *decimal.Decimal `gorm:"type:decimal(15,2)"`
	FamilyMembersCount int              `gorm:"not null;default:1"`
	HouseCondition     string           `gorm:"type:varchar(100)"`
	SpecialNeeds       string           `gorm:"type:text"`
	VerificationDate   *time.Time       `gorm:"type:date"`
	Notes              string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Beneficiary) TableName() string {
	return "beneficiaries"
}

// NewBeneficiary enrols a resident in a category
func NewBeneficiary(tenantID, pendudukID, categoryID uuid.UUID, economic EconomicStatus, familyMembers int, registered time.Time) (*Beneficiary, error) {
	if pendudukID == uuid.Nil || categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Resident and category are required")
	}
	b := &Beneficiary{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PendudukID:          pendudukID,
		CategoryID:          categoryID,
		RegistrationDate:    registered,
		Status:              StatusActive,
	}
	if err := b.SetHousehold(economic, familyMembers, nil); err != nil {
		return nil, err
	}
	return b, nil
}

// SetHousehold updates the welfare data
func (b *Beneficiary) SetHousehold(economic EconomicStatus, familyMembers int, income *decimal.Decimal) error {
	if !economic.IsValid() {
		return shared.NewDomainError("INVALID_ECONOMIC_STATUS", "Unknown economic status")
	}
	if familyMembers < 1 {
		return shared.NewDomainError("INVALID_FAMILY_MEMBERS", "Family members count must be at least 1")
	}
	if income != nil && income.IsNegative() {
		return shared.NewDomainError("INVALID_INCOME", "Monthly income cannot be negative")
	}
	b.EconomicStatus = economic
	b.FamilyMembersCount = familyMembers
	b.MonthlyIncome = income
	b.Touch()
	b.IncrementVersion()
	return nil
}

// ChangeStatus moves the beneficiary to a new enrolment state
func (b *Beneficiary) ChangeStatus(s Status) error {
	if !s.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown beneficiary status")
	}
	b.Status = s
	b.Touch()
	return nil
}

// IsActive reports whether the beneficiary can receive aid
func (b *Beneficiary) IsActive() bool {
	return b.Status == StatusActive
}

// VerificationStatus is the outcome of a field verification
type VerificationStatus string

const (
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
	VerificationRejected   VerificationStatus = "rejected"
	VerificationNeedUpdate VerificationStatus = "need_update"
)

// IsValid reports whether v is a known verification status
func (v VerificationStatus) IsValid() bool {
	switch v {
	case VerificationPending, VerificationVerified, VerificationRejected, VerificationNeedUpdate:
		return true
	}
	return false
}

// Verification is a periodic check of a beneficiary's eligibility
type Verification struct {
	shared.BaseEntity
	TenantID             uuid.UUID          `gorm:"type:uuid;not null;index"`
	BeneficiaryID        uuid.UUID          `gorm:"type:uuid;not null;index"`
	VerificationDate     time.Time          `gorm:"type:date;not null"`
	Status               VerificationStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	VerifierID           *uuid.UUID         `gorm:"type:uuid"`
	Notes                string             `gorm:"type:text"`
	DocumentsChecked     string             `gorm:"type:text"`
	FieldVisitConducted  bool               `gorm:"not null;default:false"`
	NextVerificationDate *time.Time         `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (Verification) TableName() string {
	return "beneficiary_verifications"
}

// NewVerification records a verification and stamps the beneficiary when verified
func NewVerification(b *Beneficiary, status VerificationStatus, at time.Time, verifier *uuid.UUID) (*Verification, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown verification status")
	}
	v := &Verification{
		BaseEntity:       shared.NewBaseEntity(),
		TenantID:         b.TenantID,
		BeneficiaryID:    b.ID,
		VerificationDate: at,
		Status:           status,
		VerifierID:       verifier,
	}
	if status == VerificationVerified {
		b.VerificationDate = &at
		b.Touch()
	}
	return v, nil
}

// ScheduleNext sets the follow-up date, which must come after the verification
func (v *Verification) ScheduleNext(next *time.Time) error {
	if next != nil && next.Before(v.VerificationDate) {
		return shared.NewDomainError("INVALID_DATE", "Next verification must be after the verification date")
	}
	v.NextVerificationDate = next
	return nil
}
